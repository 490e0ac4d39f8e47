package latlon

import "math"

const π = math.Pi

// R is the mean Earth radius in meters.
const R = 6371e3

type LatLonInterface interface {
	DistanceTo(from, to LatLon) float64
	BearingTo(from, to LatLon) float64
	DistanceAndBearingTo(from, to LatLon) (float64, float64)
	Destination(from LatLon, bearing float64, distance float64) LatLon
	IntermediatePointTo(from, to LatLon, fraction float64) LatLon
}

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies in [-90,90]x[-180,180].
func (p LatLon) Valid() bool {
	return p.Lat >= -90.0 && p.Lat <= 90.0 && p.Lon >= -180.0 && p.Lon <= 180.0
}

func toRadians(a float64) float64 {
	return a * π / 180.0
}

func toDegrees(a float64) float64 {
	return a * 180.0 / π
}

func wrap360(d float64) float64 {
	if 0.0 <= d && d < 360.0 {
		return d
	}
	d1 := d + 360.0
	return d1 - float64(int(d1/360.0)*360)
}

// Wrap360 normalizes a bearing to [0,360).
func Wrap360(d float64) float64 {
	for d < 0 {
		d += 360.0
	}
	for d >= 360.0 {
		d -= 360.0
	}
	return d
}

// Wrap180 normalizes an angle to (-180,180].
func Wrap180(d float64) float64 {
	a := math.Mod(d+180.0, 360.0)
	if a <= 0 {
		a += 360.0
	}
	return a - 180.0
}
