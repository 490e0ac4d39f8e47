package route

import (
	"math"
	"testing"
	"time"

	"github.com/b-vents/route-server/land"
	"github.com/b-vents/route-server/latlon"
	"github.com/b-vents/route-server/wind"
)

func TestSneakBearingRay(t *testing.T) {
	cfg := DefaultConfig()
	r := testRouter(t, constWind{speed: 10, dir: 0}, nil, cfg)

	start := latlon.LatLon{Lat: 0, Lon: 0}
	fan, err := r.Sneak(start, time.Unix(0, 0), 2*cfg.TimeStepS)
	if err != nil {
		t.Fatalf("Sneak: %v", err)
	}
	if len(fan.Bearing) != 360 || len(fan.Twa) != 360 {
		t.Fatalf("fan rays = %d bearing, %d twa", len(fan.Bearing), len(fan.Twa))
	}

	east := fan.Bearing[90]
	if len(east) != 3 {
		t.Fatalf("east ray = %d points, want origin plus 2 hops", len(east))
	}
	hop := east[1]
	if math.Abs(hop.BoatSpeed-6.0) > 1e-9 || hop.Twa != -90 {
		t.Errorf("east hop = %.1f m/s at twa %.0f, want 6 at -90", hop.BoatSpeed, hop.Twa)
	}
	if hop.Duration != cfg.TimeStepS {
		t.Errorf("east hop duration = %v", hop.Duration)
	}
	wantLon := 6.0 * cfg.TimeStepS / (latlon.R * math.Pi / 180)
	if math.Abs(hop.Lon-wantLon) > 1e-3 {
		t.Errorf("east hop lon = %v, want about %v", hop.Lon, wantLon)
	}

	// dead upwind the ray still advances, at the crawl floor
	north := fan.Bearing[0]
	if len(north) != 3 {
		t.Fatalf("north ray = %d points", len(north))
	}
	if north[1].BoatSpeed != cfg.MinBoatSpeedMS {
		t.Errorf("upwind hop speed = %v, want floor", north[1].BoatSpeed)
	}
}

func TestSneakTwaRayHoldsAngle(t *testing.T) {
	cfg := DefaultConfig()
	r := testRouter(t, constWind{speed: 10, dir: 0}, nil, cfg)

	fan, err := r.Sneak(latlon.LatLon{Lat: 0, Lon: 0}, time.Unix(0, 0), 2*cfg.TimeStepS)
	if err != nil {
		t.Fatalf("Sneak: %v", err)
	}
	ray := fan.Twa[90]
	if len(ray) != 3 {
		t.Fatalf("twa ray = %d points", len(ray))
	}
	for _, p := range ray[1:] {
		if p.Twa != 90 {
			t.Errorf("held twa drifted to %v", p.Twa)
		}
	}
}

func TestSneakStopsAtCoast(t *testing.T) {
	cells := make([][]bool, 5)
	for i := range cells {
		cells[i] = make([]bool, 5)
		cells[i][3] = true // wall one degree east
	}
	mask := land.NewMask(-2, -2, 1, cells)

	cfg := DefaultConfig()
	r := testRouter(t, constWind{speed: 10, dir: 0}, mask, cfg)

	fan, err := r.Sneak(latlon.LatLon{Lat: 0, Lon: 0}, time.Unix(0, 0), 20*cfg.TimeStepS)
	if err != nil {
		t.Fatalf("Sneak: %v", err)
	}

	// 6 m/s eastward reaches the wall within a few hops
	east := fan.Bearing[90]
	if len(east) >= 10 {
		t.Errorf("east ray ran %d hops through the coast", len(east))
	}
	for _, p := range east {
		if mask.IsLand(latlon.LatLon{Lat: p.Lat, Lon: p.Lon}) {
			t.Errorf("ray point %+v on land", p)
		}
	}
}

func TestSneakStopsAtWindCoverage(t *testing.T) {
	cfg := DefaultConfig()
	r := testRouter(t, errWind{err: wind.ErrOutOfTemporalRange}, nil, cfg)

	fan, err := r.Sneak(latlon.LatLon{Lat: 0, Lon: 0}, time.Unix(0, 0), 5*cfg.TimeStepS)
	if err != nil {
		t.Fatalf("Sneak: %v", err)
	}
	if len(fan.Bearing[0]) != 1 {
		t.Errorf("uncovered ray = %d points, want just the origin", len(fan.Bearing[0]))
	}
}
