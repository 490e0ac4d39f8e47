package route

import (
	"time"

	"github.com/b-vents/route-server/latlon"
	"github.com/b-vents/route-server/polar"
	"github.com/b-vents/route-server/wind"
)

// Heuristic lower-bounds the remaining time to the goal: great-circle
// distance over a speed the boat can never beat.
//
// The default bound is the polar table's global maximum, which is
// admissible for any wind the table can express. The wind-aware variant
// divides by the best speed at the wind currently blowing near the goal;
// it is sharper but can overestimate when the wind later strengthens, so
// it trades the strict optimality guarantee for speed and stays off
// unless asked for.
type Heuristic struct {
	Polar     *polar.Polar
	Wind      wind.Source
	Goal      latlon.LatLon
	WindAware bool

	// floor keeps the bound above the becalmed crawl speed, which the
	// cost model lets the boat sustain anywhere.
	floor float64

	geo latlon.LatLonSpherical
}

func newHeuristic(p *polar.Polar, w wind.Source, goal latlon.LatLon, cfg Config) *Heuristic {
	return &Heuristic{
		Polar:     p,
		Wind:      w,
		Goal:      goal,
		WindAware: cfg.WindAwareHeuristic,
		floor:     cfg.MinBoatSpeedMS,
	}
}

// Estimate returns a lower bound on the seconds still needed to reach
// the goal from p at time t. Never negative, zero only at the goal.
func (h *Heuristic) Estimate(p latlon.LatLon, t time.Time) float64 {
	dist := h.geo.DistanceTo(p, h.Goal)
	if dist == 0 {
		return 0
	}

	bound := h.Polar.MaxSpeed()
	if h.WindAware && h.Wind != nil {
		if s, err := h.Wind.Sample(h.Goal, t); err == nil {
			if b := h.maxSpeedAt(s.SpeedMS); b < bound {
				bound = b
			}
		}
		// out of temporal coverage keeps the global bound: the most
		// recent known wind gives no tighter guarantee
	}
	if bound < h.floor {
		bound = h.floor
	}

	return dist / bound
}

// maxSpeedAt scans the table rows for the best speed at a wind speed.
func (h *Heuristic) maxSpeedAt(tws float64) float64 {
	best := 0.0
	for _, twa := range h.Polar.Twa {
		if s := h.Polar.Speed(twa, tws); s > best {
			best = s
		}
	}
	return best
}
