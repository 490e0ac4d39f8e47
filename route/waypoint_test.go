package route

import (
	"errors"
	"testing"
	"time"

	"github.com/b-vents/route-server/latlon"
)

func TestBuildRouteEmptyChain(t *testing.T) {
	a := newArena()
	defer releaseArena(a)

	_, err := buildRoute(a, noParent, latlon.LatLon{}, latlon.LatLon{})
	if !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("buildRoute on empty chain = %v, want empty-path", err)
	}
}

func TestBuildRouteAggregates(t *testing.T) {
	a := newArena()
	defer releaseArena(a)

	start := latlon.LatLon{Lat: 0, Lon: 0}
	mid := latlon.LatLon{Lat: 0, Lon: 0.2}
	goal := latlon.LatLon{Lat: 0.2, Lon: 0.2}
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	i0 := a.add(State{Latlon: start, Time: t0, parent: noParent})
	i1 := a.add(State{Latlon: mid, Time: t0.Add(time.Hour), g: 3600, Maneuver: ManeuverNone, parent: i0})
	i2 := a.add(State{Latlon: goal, Time: t0.Add(2 * time.Hour), g: 7200, Maneuver: ManeuverTack, parent: i1})

	route, err := buildRoute(a, i2, start, goal)
	if err != nil {
		t.Fatalf("buildRoute: %v", err)
	}

	if len(route.Waypoints) != 3 {
		t.Fatalf("waypoints = %d, want 3", len(route.Waypoints))
	}
	if route.Waypoints[0].LegDurationS != 0 {
		t.Errorf("first waypoint has an inbound leg of %.0f s", route.Waypoints[0].LegDurationS)
	}
	if route.Waypoints[1].LegDurationS != 3600 || route.Waypoints[2].LegDurationS != 3600 {
		t.Errorf("leg durations = %.0f, %.0f", route.Waypoints[1].LegDurationS, route.Waypoints[2].LegDurationS)
	}
	if route.DurationS != 7200 {
		t.Errorf("duration = %.0f", route.DurationS)
	}
	if route.Tacks != 1 || route.Jibes != 0 {
		t.Errorf("maneuvers = %d tacks, %d jibes", route.Tacks, route.Jibes)
	}
	if route.Waypoints[2].Maneuver != "TACK" {
		t.Errorf("maneuver label = %q", route.Waypoints[2].Maneuver)
	}
	if !route.ETA.Equal(t0.Add(2 * time.Hour)) {
		t.Errorf("ETA = %v", route.ETA)
	}
	if !route.ETA.Equal(route.Departure.Add(secondsToDuration(route.DurationS))) {
		t.Errorf("ETA %v drifts from departure + %.0f s", route.ETA, route.DurationS)
	}

	geo := latlon.LatLonSpherical{}
	want := geo.DistanceTo(start, mid) + geo.DistanceTo(mid, goal)
	if route.DistanceM != want {
		t.Errorf("distance = %.0f, want %.0f", route.DistanceM, want)
	}
}
