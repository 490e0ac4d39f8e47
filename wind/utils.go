package wind

import "math"

// Twa returns the signed true wind angle in (-180,180] between a heading
// and the direction the wind blows from. Positive means the wind comes
// over starboard.
func Twa(heading, wind float64) float64 {
	twa := wind - heading
	if twa <= -180 {
		twa += 360
	}
	if twa > 180 {
		twa -= 360
	}

	return twa
}

// Heading returns the compass heading that puts the wind at the given
// signed true wind angle.
func Heading(twa, wind float64) float64 {
	heading := wind - twa
	if heading < 0 {
		heading += 360
	}
	if heading >= 360 {
		heading -= 360
	}

	return heading
}

// UVToDirection converts geographic U/V components to the meteorological
// direction the wind blows from, in [0,360).
func UVToDirection(u, v float64) float64 {
	d := math.Atan2(u, v)*180/math.Pi + 180
	if d >= 360 {
		d -= 360
	}
	return d
}
