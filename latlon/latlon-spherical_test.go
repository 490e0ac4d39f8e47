package latlon

import (
	"math"
	"testing"
)

func TestBearingTo(t *testing.T) {
	s := LatLonSpherical{}

	p1 := LatLon{Lat: 0, Lon: 0}
	p2 := LatLon{Lat: 1, Lon: 0}
	b := s.BearingTo(p1, p2)
	if math.Round(b) != 0.0 {
		t.Errorf("{%f,%f}.BearingTo({%f,%f}) = %f; want 0", p1.Lat, p1.Lon, p2.Lat, p2.Lon, b)
	}

	p2 = LatLon{Lat: 0, Lon: 1}
	b = s.BearingTo(p1, p2)
	if math.Round(b) != 90.0 {
		t.Errorf("{%f,%f}.BearingTo({%f,%f}) = %f; want 90", p1.Lat, p1.Lon, p2.Lat, p2.Lon, b)
	}

	p1 = LatLon{Lat: -5, Lon: 175}
	p2 = LatLon{Lat: 5, Lon: -175}
	b = s.BearingTo(p1, p2)
	if math.Round(b) != 45.0 {
		t.Errorf("{%f,%f}.BearingTo({%f,%f}) = %f; want 45", p1.Lat, p1.Lon, p2.Lat, p2.Lon, b)
	}
}

func TestDistanceTo(t *testing.T) {
	s := LatLonSpherical{}

	// one degree of latitude is ~111.2 km
	d := s.DistanceTo(LatLon{Lat: 0, Lon: 0}, LatLon{Lat: 1, Lon: 0})
	if math.Abs(d-111195) > 10 {
		t.Errorf("DistanceTo 1 deg lat = %f; want ~111195", d)
	}

	d = s.DistanceTo(LatLon{Lat: 47.5, Lon: -3.1}, LatLon{Lat: 47.5, Lon: -3.1})
	if d != 0 {
		t.Errorf("DistanceTo self = %f; want 0", d)
	}
}

func TestDestinationRoundTrip(t *testing.T) {
	s := LatLonSpherical{}

	from := LatLon{Lat: 46.5, Lon: -2.5}
	for _, bearing := range []float64{0, 45, 90, 135, 180, 225, 270, 315} {
		to := s.Destination(from, bearing, 50000)
		d, b := s.DistanceAndBearingTo(from, to)
		if math.Abs(d-50000) > 1.0 {
			t.Errorf("Destination(%f): distance back %f; want 50000", bearing, d)
		}
		if math.Abs(Wrap180(b-bearing)) > 0.1 {
			t.Errorf("Destination(%f): bearing back %f", bearing, b)
		}
	}
}

func TestIntermediatePointTo(t *testing.T) {
	s := LatLonSpherical{}

	from := LatLon{Lat: 0, Lon: 0}
	to := LatLon{Lat: 0, Lon: 10}

	mid := s.MidpointTo(from, to)
	if math.Abs(mid.Lat) > 1e-9 || math.Abs(mid.Lon-5) > 1e-9 {
		t.Errorf("MidpointTo = {%f,%f}; want {0,5}", mid.Lat, mid.Lon)
	}

	p := s.IntermediatePointTo(from, to, 0.0)
	if p != from {
		t.Errorf("IntermediatePointTo(0) = %v; want %v", p, from)
	}

	p = s.IntermediatePointTo(from, from, 0.5)
	if p != from {
		t.Errorf("IntermediatePointTo on zero arc = %v; want %v", p, from)
	}
}

func TestWrap(t *testing.T) {
	if w := Wrap360(-10); w != 350 {
		t.Errorf("Wrap360(-10) = %f; want 350", w)
	}
	if w := Wrap360(370); w != 10 {
		t.Errorf("Wrap360(370) = %f; want 10", w)
	}
	if w := Wrap180(190); w != -170 {
		t.Errorf("Wrap180(190) = %f; want -170", w)
	}
	if w := Wrap180(-190); w != 170 {
		t.Errorf("Wrap180(-190) = %f; want 170", w)
	}
	if w := Wrap180(180); w != 180 {
		t.Errorf("Wrap180(180) = %f; want 180", w)
	}
}
