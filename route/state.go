package route

import (
	"math"
	"sync"
	"time"

	"github.com/b-vents/route-server/latlon"
)

// Maneuver classifies how a leg was entered relative to the previous one.
type Maneuver uint8

const (
	ManeuverNone Maneuver = iota
	ManeuverTack
	ManeuverJibe
)

func (m Maneuver) String() string {
	switch m {
	case ManeuverTack:
		return "TACK"
	case ManeuverJibe:
		return "JIBE"
	default:
		return "NONE"
	}
}

// State is one node of the search lattice: a position reached at a time,
// on the heading that got the boat there. The start state has no heading
// and parent noParent.
type State struct {
	Latlon      latlon.LatLon
	Time        time.Time
	BearingDeg  float64
	TwaDeg      float64
	BoatSpeedMS float64
	WindSpeedMS float64
	WindDirDeg  float64
	Maneuver    Maneuver

	g      float64
	h      float64
	parent int32
}

const noParent = int32(-1)

// HasHeading reports whether the state was reached by sailing a leg, as
// opposed to being the departure state.
func (s *State) HasHeading() bool {
	return s.parent != noParent
}

// Edge prices the transition between two states. Transient: constructed
// and consumed during a single expansion.
type Edge struct {
	From     State
	To       State
	Cost     float64
	Maneuver Maneuver
}

// cellKey discretizes a state onto the spatio-temporal lattice. Two
// states in the same cell are considered equal for deduplication.
type cellKey struct {
	i, j, k int32
}

func (c Config) cell(p latlon.LatLon, elapsed float64) cellKey {
	return cellKey{
		i: int32(math.Floor(p.Lat / c.CellSizeDeg)),
		j: int32(math.Floor(p.Lon / c.CellSizeDeg)),
		k: int32(math.Floor(elapsed / c.TimeStepS)),
	}
}

// arena owns every state of one search invocation. Parents are arena
// indices, so path reconstruction needs no pointer chasing and the whole
// block recycles through a pool between searches.
type arena struct {
	states []State
}

func (a *arena) add(s State) int32 {
	a.states = append(a.states, s)
	return int32(len(a.states) - 1)
}

func (a *arena) at(i int32) *State {
	return &a.states[i]
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

var arenaPool = sync.Pool{
	New: func() interface{} {
		return &arena{states: make([]State, 0, 4096)}
	},
}

func newArena() *arena {
	a := arenaPool.Get().(*arena)
	a.states = a.states[:0]
	return a
}

func releaseArena(a *arena) {
	arenaPool.Put(a)
}
