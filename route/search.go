package route

import (
	"container/heap"
	"context"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/b-vents/route-server/land"
	"github.com/b-vents/route-server/latlon"
	"github.com/b-vents/route-server/polar"
	"github.com/b-vents/route-server/wind"
)

// Router runs A* searches over the spatio-temporal sailing lattice. The
// wind source, polar and mask are read-only; a single Router serves
// concurrent searches, each owning its frontier and arena exclusively.
type Router struct {
	Wind   wind.Source
	Polar  *polar.Polar
	Land   *land.Mask
	Config Config

	geo latlon.LatLonSpherical
}

// New validates the configuration and builds a router.
func New(w wind.Source, p *polar.Polar, l *land.Mask, cfg Config) (*Router, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Router{Wind: w, Polar: p, Land: l, Config: cfg}, nil
}

// openItem is one open-set entry. Ordering is ascending f, then
// ascending h (closer to the goal first), then arrival order.
type openItem struct {
	f   float64
	h   float64
	seq uint64
	idx int32
}

type openHeap []openItem

func (o openHeap) Len() int { return len(o) }
func (o openHeap) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	if o[i].h != o[j].h {
		return o[i].h < o[j].h
	}
	return o[i].seq < o[j].seq
}
func (o openHeap) Swap(i, j int) { o[i], o[j] = o[j], o[i] }

func (o *openHeap) Push(x interface{}) { *o = append(*o, x.(openItem)) }
func (o *openHeap) Pop() interface{} {
	old := *o
	n := len(old)
	it := old[n-1]
	*o = old[:n-1]
	return it
}

// Route searches a near-optimal route from start to goal departing at
// the given time. On success the returned route is complete and owned by
// the caller; every failure returns a nil route and a distinct error
// kind (see errors.go and wind.TemporalRangeError).
//
// Cells are closed when popped and never reopened. With the default
// heuristic this is the standard consistent-heuristic assumption; under
// strongly time-varying wind it is a documented approximation.
func (r *Router) Route(ctx context.Context, start, goal latlon.LatLon, departure time.Time) (*Route, error) {
	if err := r.Config.Validate(); err != nil {
		return nil, err
	}
	if !start.Valid() {
		return nil, &InvalidConfigError{Field: "start", Reason: "outside [-90,90]x[-180,180]"}
	}
	if !goal.Valid() {
		return nil, &InvalidConfigError{Field: "goal", Reason: "outside [-90,90]x[-180,180]"}
	}
	if r.Land != nil {
		if r.Land.IsLand(start) {
			return nil, &NoRouteError{Reason: "start position is on land"}
		}
		if r.Land.IsLand(goal) {
			return nil, &NoRouteError{Reason: "goal position is on land"}
		}
	}

	cfg := r.Config
	cost := &CostModel{Wind: r.Wind, Polar: r.Polar, Land: r.Land, Config: cfg}
	est := newHeuristic(r.Polar, r.Wind, goal, cfg)

	a := newArena()
	defer releaseArena(a)

	startState := State{Latlon: start, Time: departure, parent: noParent}
	startState.h = est.Estimate(start, departure)
	startIdx := a.add(startState)

	open := make(openHeap, 0, 1024)
	heap.Push(&open, openItem{f: startState.h, h: startState.h, idx: startIdx})

	bestG := map[cellKey]float64{cfg.cell(start, 0): 0}
	closed := make(map[cellKey]struct{})

	var seq uint64
	var expansions uint64
	iterations := 0

	for open.Len() > 0 {
		select {
		case <-ctx.Done():
			return nil, &CancelledError{Cause: ctx.Err().Error(), Iterations: iterations}
		default:
		}
		iterations++
		if cfg.MaxIterations > 0 && iterations > cfg.MaxIterations {
			return nil, &CancelledError{Cause: "iteration cap reached", Iterations: iterations - 1}
		}

		it := heap.Pop(&open).(openItem)
		st := *a.at(it.idx)

		cell := cfg.cell(st.Latlon, st.g)
		if _, ok := closed[cell]; ok {
			continue
		}
		closed[cell] = struct{}{}

		distToGoal := r.geo.DistanceTo(st.Latlon, goal)
		if iterations%1000 == 0 {
			log.Debugf("Route iter %d: dist %.1f km, sailed %.1f h, open %d", iterations, distToGoal/1000, st.g/3600, open.Len())
		}
		if distToGoal <= cfg.GoalRadiusM {
			log.Debugf("Goal reached after %d iterations (%d expansions)", iterations, expansions)
			endIdx := it.idx
			if distToGoal > 0 {
				final, err := r.finish(cost, st, goal, it.idx)
				if err != nil {
					return nil, err
				}
				endIdx = a.add(final)
			}
			return buildRoute(a, endIdx, start, goal)
		}

		// beyond the horizon a state may still be popped but never grows
		if st.g >= cfg.MaxSearchHorizonS {
			continue
		}

		w, err := r.Wind.Sample(st.Latlon, st.Time)
		if err != nil {
			return nil, err
		}

		push := func(e Edge) {
			to := e.To
			toCell := cfg.cell(to.Latlon, to.g)
			if _, ok := closed[toCell]; ok {
				return
			}
			if g, ok := bestG[toCell]; ok && g <= to.g {
				return
			}
			bestG[toCell] = to.g
			to.h = est.Estimate(to.Latlon, to.Time)
			to.parent = it.idx
			idx := a.add(to)
			seq++
			heap.Push(&open, openItem{f: to.g + to.h, h: to.h, seq: seq, idx: idx})
		}

		expansions++

		// shot at the goal: when the remaining run fits in a stretched
		// step, the final leg is priced on its real partial length
		if distToGoal <= r.Polar.MaxSpeed()*1.5*cfg.TimeStepS {
			if e, ok, err := cost.Cost(st, goal); err != nil {
				return nil, err
			} else if ok && e.Cost <= 1.5*cfg.TimeStepS {
				push(e)
			}
		}

		for _, b := range r.headings(st.Latlon, goal, w) {
			twa := wind.Twa(b, w.DirectionDeg)
			speed := r.Polar.Speed(twa, w.SpeedMS)
			if speed < cfg.MinBoatSpeedMS {
				// crawl projection keeps becalmed regions traversable
				speed = cfg.MinBoatSpeedMS
			}

			dest := r.geo.Destination(st.Latlon, b, speed*cfg.TimeStepS)
			e, ok, err := cost.Cost(st, dest)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			push(e)
		}
	}

	return nil, &NoRouteError{Reason: "open set exhausted", Expansions: expansions}
}

// finish closes the gap between an accepted state and the exact goal
// position. The remainder is priced pro rata: at the speed of the leg
// that entered the goal radius, or at the polar speed when the start
// itself is already inside it. A wind coverage error aborts the search.
func (r *Router) finish(cost *CostModel, st State, goal latlon.LatLon, parent int32) (State, error) {
	if !st.HasHeading() {
		e, ok, err := cost.Cost(st, goal)
		if err != nil {
			return State{}, err
		}
		if ok {
			final := e.To
			final.parent = parent
			return final, nil
		}
	}

	dist, course := r.geo.DistanceAndBearingTo(st.Latlon, goal)
	speed := st.BoatSpeedMS
	if speed < r.Config.MinBoatSpeedMS {
		speed = r.Config.MinBoatSpeedMS
	}
	duration := dist / speed

	final := st
	final.Latlon = goal
	final.Time = st.Time.Add(secondsToDuration(duration))
	final.BearingDeg = course
	final.BoatSpeedMS = speed
	final.Maneuver = ManeuverNone
	final.g = st.g + duration
	final.parent = parent
	return final, nil
}

// headings builds the candidate bearing set for one expansion: evenly
// spaced compass bearings, the direct bearing to the goal, and the four
// best-VMG headings for the local wind. Bearings closer than the
// configured tolerance collapse to one.
func (r *Router) headings(from, goal latlon.LatLon, w wind.Sample) []float64 {
	cfg := r.Config

	bearings := make([]float64, 0, cfg.HeadingCount+5)
	spacing := 360.0 / float64(cfg.HeadingCount)
	for i := 0; i < cfg.HeadingCount; i++ {
		bearings = append(bearings, float64(i)*spacing)
	}

	bearings = append(bearings, r.geo.BearingTo(from, goal))

	up := r.Polar.BestVMGAngle(w.SpeedMS)
	down := r.Polar.BestDownwindVMGAngle(w.SpeedMS)
	bearings = append(bearings,
		wind.Heading(up, w.DirectionDeg),
		wind.Heading(-up, w.DirectionDeg),
		wind.Heading(down, w.DirectionDeg),
		wind.Heading(-down, w.DirectionDeg))

	sort.Float64s(bearings)

	out := bearings[:0]
	for _, b := range bearings {
		if len(out) > 0 && b-out[len(out)-1] < cfg.BearingToleranceDeg {
			continue
		}
		out = append(out, b)
	}
	// wraparound: the first and last bearings may also collide
	if len(out) > 1 && out[0]+360-out[len(out)-1] < cfg.BearingToleranceDeg {
		out = out[:len(out)-1]
	}
	return out
}
