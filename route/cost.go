package route

import (
	"math"

	"github.com/b-vents/route-server/land"
	"github.com/b-vents/route-server/latlon"
	"github.com/b-vents/route-server/polar"
	"github.com/b-vents/route-server/wind"
)

// CostModel prices edges between spatio-temporal states. It holds only
// read-only references and carries no state of its own, so one model is
// safely shared by concurrent searches.
type CostModel struct {
	Wind   wind.Source
	Polar  *polar.Polar
	Land   *land.Mask
	Config Config

	geo latlon.LatLonSpherical
}

// Cost prices the transition from a state to a position. The boolean is
// false when the segment crosses land and no edge exists. A returned
// error is a wind temporal-coverage failure and aborts the search.
func (c *CostModel) Cost(from State, to latlon.LatLon) (Edge, bool, error) {
	if c.Land != nil && c.Land.SegmentCrossesLand(from.Latlon, to) {
		return Edge{}, false, nil
	}

	dist, course := c.geo.DistanceAndBearingTo(from.Latlon, to)

	w, err := c.Wind.Sample(c.geo.MidpointTo(from.Latlon, to), from.Time)
	if err != nil {
		return Edge{}, false, err
	}

	twa := wind.Twa(course, w.DirectionDeg)
	speed := c.Polar.Speed(twa, w.SpeedMS)

	// becalmed or pinching: floor the speed but make the leg expensive,
	// so light air is crossed only when nothing better exists
	duration := 0.0
	if speed < c.Config.MinBoatSpeedMS {
		duration = dist / c.Config.MinBoatSpeedMS * c.Config.BecalmedPenalty
		speed = c.Config.MinBoatSpeedMS
	} else {
		duration = dist / speed
	}

	maneuver := c.classify(from, twa)
	switch maneuver {
	case ManeuverTack:
		duration += c.Config.TackPenaltyS
	case ManeuverJibe:
		duration += c.Config.JibePenaltyS
	}

	next := State{
		Latlon:      to,
		Time:        from.Time.Add(secondsToDuration(duration)),
		BearingDeg:  course,
		TwaDeg:      twa,
		BoatSpeedMS: speed,
		WindSpeedMS: w.SpeedMS,
		WindDirDeg:  w.DirectionDeg,
		Maneuver:    maneuver,
		g:           from.g + duration,
	}

	return Edge{From: from, To: next, Cost: duration, Maneuver: maneuver}, true, nil
}

// classify detects a tack or jibe: the signed TWA changing side means
// the bow or the stern swept through the wind. Crossing upwind (mean
// magnitude below 90) is a tack, downwind a jibe.
func (c *CostModel) classify(from State, twa float64) Maneuver {
	if !from.HasHeading() || from.TwaDeg == 0 || twa == 0 {
		return ManeuverNone
	}
	if from.TwaDeg*twa > 0 {
		return ManeuverNone
	}

	mean := (math.Abs(from.TwaDeg) + math.Abs(twa)) / 2
	if mean < 90 {
		return ManeuverTack
	}
	return ManeuverJibe
}
