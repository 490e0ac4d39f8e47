package route

import (
	"time"

	"github.com/b-vents/route-server/latlon"
)

// Waypoint is one node of a finished route together with the leg that
// leads into it. The first waypoint of a route has no inbound leg.
type Waypoint struct {
	Position    latlon.LatLon `json:"position"`
	Time        time.Time     `json:"time"`
	HeadingDeg  float64       `json:"heading"`
	TwaDeg      float64       `json:"twa"`
	BoatSpeedMS float64       `json:"boatSpeed"`
	WindSpeedMS float64       `json:"windSpeed"`
	WindDirDeg  float64       `json:"windDir"`
	Maneuver    string        `json:"maneuver,omitempty"`

	LegDistanceM float64 `json:"legDistance"`
	LegDurationS float64 `json:"legDuration"`
}

// Route is the product of a successful search.
type Route struct {
	Start     latlon.LatLon `json:"start"`
	Goal      latlon.LatLon `json:"goal"`
	Waypoints []Waypoint    `json:"waypoints"`

	DistanceM  float64   `json:"distance"`
	DurationS  float64   `json:"duration"`
	AvgSpeedMS float64   `json:"avgSpeed"`
	Tacks      int       `json:"tacks"`
	Jibes      int       `json:"jibes"`
	Departure  time.Time `json:"departure"`
	ETA        time.Time `json:"eta"`
}

// buildRoute walks the parent chain from the goal state back to the
// start, reverses it and derives per-leg and aggregate figures.
func buildRoute(a *arena, goalIdx int32, start, goal latlon.LatLon) (*Route, error) {
	var chain []int32
	for idx := goalIdx; idx != noParent; idx = a.at(idx).parent {
		chain = append(chain, idx)
	}
	if len(chain) == 0 {
		return nil, ErrEmptyPath
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	geo := latlon.LatLonSpherical{}
	route := &Route{
		Start:     start,
		Goal:      goal,
		Waypoints: make([]Waypoint, 0, len(chain)),
	}

	var prev *State
	for _, idx := range chain {
		st := a.at(idx)
		wp := Waypoint{
			Position:    st.Latlon,
			Time:        st.Time,
			HeadingDeg:  st.BearingDeg,
			TwaDeg:      st.TwaDeg,
			BoatSpeedMS: st.BoatSpeedMS,
			WindSpeedMS: st.WindSpeedMS,
			WindDirDeg:  st.WindDirDeg,
		}
		if st.Maneuver != ManeuverNone {
			wp.Maneuver = st.Maneuver.String()
		}
		if prev != nil {
			wp.LegDistanceM = geo.DistanceTo(prev.Latlon, st.Latlon)
			wp.LegDurationS = st.g - prev.g
			route.DistanceM += wp.LegDistanceM
		}
		switch st.Maneuver {
		case ManeuverTack:
			route.Tacks++
		case ManeuverJibe:
			route.Jibes++
		}
		route.Waypoints = append(route.Waypoints, wp)
		prev = st
	}

	last := a.at(chain[len(chain)-1])
	first := a.at(chain[0])
	route.DurationS = last.g
	if route.DurationS > 0 {
		route.AvgSpeedMS = route.DistanceM / route.DurationS
	}
	route.Departure = first.Time
	// per-state times accumulate nanosecond rounding leg by leg; the
	// published ETA is derived from the float total instead
	route.ETA = route.Departure.Add(secondsToDuration(route.DurationS))
	return route, nil
}
