package wind

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/b-vents/route-server/latlon"
)

// uniformField returns a 3x3 field with the same U/V everywhere.
func uniformField(t *testing.T, at time.Time, u, v float64) *Field {
	t.Helper()

	us := make([][]float64, 3)
	vs := make([][]float64, 3)
	for i := range us {
		us[i] = []float64{u, u, u}
		vs[i] = []float64{v, v, v}
	}
	f, err := NewField(at, 1, -1, -1, 1, us, vs)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	return f
}

func TestTwa(t *testing.T) {
	cases := []struct {
		heading, wind, want float64
	}{
		{90, 0, -90},
		{270, 0, 90},
		{0, 0, 0},
		{180, 0, 180},
		{350, 10, 20},
		{10, 350, -20},
	}
	for _, c := range cases {
		if got := Twa(c.heading, c.wind); got != c.want {
			t.Errorf("Twa(%f, %f) = %f; want %f", c.heading, c.wind, got, c.want)
		}
		if h := Heading(c.want, c.wind); math.Abs(latlon.Wrap180(h-c.heading)) > 1e-9 {
			t.Errorf("Heading(%f, %f) = %f; want %f", c.want, c.wind, h, c.heading)
		}
	}
}

func TestUVToDirection(t *testing.T) {
	// wind blowing toward the east (u>0) comes from the west
	if d := UVToDirection(10, 0); d != 270 {
		t.Errorf("UVToDirection(10, 0) = %f; want 270", d)
	}
	// wind blowing toward the north (v>0) comes from the south
	if d := UVToDirection(0, 10); d != 180 {
		t.Errorf("UVToDirection(0, 10) = %f; want 180", d)
	}
	if d := UVToDirection(0, -10); d != 0 {
		t.Errorf("UVToDirection(0, -10) = %f; want 0", d)
	}
}

func TestSampleGridNodeIdentity(t *testing.T) {
	t0 := time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC)

	u := [][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	}
	v := [][]float64{
		{0, 0, 0},
		{0, 0, 0},
		{0, 0, 0},
	}
	f, err := NewField(t0, 1, -1, -1, 1, u, v)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	store := NewStore(f, uniformField(t, t0.Add(6*time.Hour), 0, 0))

	// node (row 1, col 2) is lat 0, lon 1
	s, err := store.Sample(latlon.LatLon{Lat: 0, Lon: 1}, t0)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if s.SpeedMS != 6 {
		t.Errorf("Sample at grid node speed = %f; want 6 (stored value)", s.SpeedMS)
	}
	if s.DirectionDeg < 0 || s.DirectionDeg >= 360 {
		t.Errorf("Sample direction %f out of [0,360)", s.DirectionDeg)
	}
}

func TestSampleTemporalInterpolation(t *testing.T) {
	t0 := time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(6 * time.Hour)

	store := NewStore(uniformField(t, t0, 10, 0), uniformField(t, t1, 20, 0))

	s, err := store.Sample(latlon.LatLon{Lat: 0, Lon: 0}, t0.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if math.Abs(s.SpeedMS-15) > 1e-9 {
		t.Errorf("temporal midpoint speed = %f; want 15", s.SpeedMS)
	}
	if math.Abs(s.DirectionDeg-270) > 1e-9 {
		t.Errorf("temporal midpoint direction = %f; want 270", s.DirectionDeg)
	}

	// exactly on the last slice is still in coverage
	if _, err := store.Sample(latlon.LatLon{}, t1); err != nil {
		t.Errorf("Sample on last slice: %v", err)
	}
}

func TestSampleOutOfTemporalRange(t *testing.T) {
	t0 := time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC)
	store := NewStore(uniformField(t, t0, 5, 5), uniformField(t, t0.Add(time.Hour), 5, 5))

	for _, at := range []time.Time{t0.Add(-time.Second), t0.Add(time.Hour + time.Second)} {
		_, err := store.Sample(latlon.LatLon{}, at)
		if !errors.Is(err, ErrOutOfTemporalRange) {
			t.Errorf("Sample(%s) error = %v; want ErrOutOfTemporalRange", at, err)
		}
		var tre *TemporalRangeError
		if !errors.As(err, &tre) {
			t.Errorf("Sample(%s) error is not a *TemporalRangeError", at)
		} else if !tre.At.Equal(at) {
			t.Errorf("TemporalRangeError.At = %s; want %s", tre.At, at)
		}
	}
}

func TestSampleSpatialClamping(t *testing.T) {
	t0 := time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC)

	u := [][]float64{
		{1, 1, 1},
		{2, 2, 2},
		{3, 3, 3},
	}
	v := [][]float64{
		{0, 0, 0},
		{0, 0, 0},
		{0, 0, 0},
	}
	f, err := NewField(t0, 1, -1, -1, 1, u, v)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	store := NewStore(f, uniformField(t, t0.Add(time.Hour), 0, 0))

	// far south of the grid clamps to the last row
	s, err := store.Sample(latlon.LatLon{Lat: -50, Lon: 0}, t0)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if s.SpeedMS != 3 {
		t.Errorf("clamped sample speed = %f; want 3 (edge row)", s.SpeedMS)
	}

	// far north clamps to the first row
	s, _ = store.Sample(latlon.LatLon{Lat: 80, Lon: 0}, t0)
	if s.SpeedMS != 1 {
		t.Errorf("clamped sample speed = %f; want 1 (edge row)", s.SpeedMS)
	}
}
