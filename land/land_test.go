package land

import (
	"testing"

	"github.com/b-vents/route-server/latlon"
)

// barrierMask is a 5x5 degree-step raster with a solid north-south wall
// in the middle column.
func barrierMask() *Mask {
	return NewMask(0, 0, 1.0, [][]bool{
		{false, false, true, false, false},
		{false, false, true, false, false},
		{false, false, true, false, false},
		{false, false, true, false, false},
		{false, false, true, false, false},
	})
}

func TestIsLand(t *testing.T) {
	m := barrierMask()

	if !m.IsLand(latlon.LatLon{Lat: 2, Lon: 2}) {
		t.Error("IsLand(2,2) = false; want true (wall cell)")
	}
	if m.IsLand(latlon.LatLon{Lat: 2, Lon: 0}) {
		t.Error("IsLand(2,0) = true; want false (sea cell)")
	}
	// nearest-cell rounding
	if !m.IsLand(latlon.LatLon{Lat: 2.4, Lon: 1.6}) {
		t.Error("IsLand(2.4,1.6) = false; want true (rounds to wall)")
	}
}

func TestIsLandOutOfBounds(t *testing.T) {
	m := barrierMask()

	outside := latlon.LatLon{Lat: 40, Lon: 40}
	if m.IsLand(outside) {
		t.Error("out-of-bounds query = land; want sea (permissive default)")
	}

	m.StrictBounds = true
	if !m.IsLand(outside) {
		t.Error("out-of-bounds query with StrictBounds = sea; want land")
	}
}

func TestSegmentCrossesLand(t *testing.T) {
	m := barrierMask()

	west := latlon.LatLon{Lat: 2, Lon: 0}
	east := latlon.LatLon{Lat: 2, Lon: 4}
	if !m.SegmentCrossesLand(west, east) {
		t.Error("segment through the wall reported clear")
	}

	north := latlon.LatLon{Lat: 4, Lon: 0}
	if m.SegmentCrossesLand(west, north) {
		t.Error("segment along the clear west column reported blocked")
	}

	// degenerate zero-length segment on sea
	if m.SegmentCrossesLand(west, west) {
		t.Error("zero-length sea segment reported blocked")
	}
}
