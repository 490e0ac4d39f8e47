package wind

import (
	"fmt"
	"math"
	"time"
)

// Field holds the 10m wind of a single forecast slice as U/V component
// grids in m/s. Rows follow latitude from Lat0 by steps of ΔLat (signed),
// columns follow longitude from Lon0 by steps of ΔLon.
type Field struct {
	Time time.Time
	File string
	Lat0 float64
	Lon0 float64
	ΔLat float64
	ΔLon float64
	NLat uint32
	NLon uint32
	U    [][]float64
	V    [][]float64
}

// NewField builds a field from component grids. Grids must be rectangular
// with at least two rows and two columns.
func NewField(t time.Time, lat0, lon0, δlat, δlon float64, u, v [][]float64) (*Field, error) {
	if len(u) < 2 || len(u[0]) < 2 {
		return nil, fmt.Errorf("wind: grid must be at least 2x2, got %dx%d", len(u), len(u[0]))
	}
	if len(u) != len(v) || len(u[0]) != len(v[0]) {
		return nil, fmt.Errorf("wind: U and V grids differ in shape")
	}
	if δlat == 0 || δlon == 0 {
		return nil, fmt.Errorf("wind: grid step must not be zero")
	}
	return &Field{
		Time: t,
		Lat0: lat0,
		Lon0: lon0,
		ΔLat: δlat,
		ΔLon: δlon,
		NLat: uint32(len(u)),
		NLon: uint32(len(u[0])),
		U:    u,
		V:    v,
	}, nil
}

func floorMod(a float64, n float64) float64 {
	return a - n*math.Floor(a/n)
}

// gridIndex maps a fractional row or column to a cell origin and in-cell
// fraction, clamping to the nearest edge cell outside the grid.
func gridIndex(x float64, n uint32) (uint32, float64) {
	if x <= 0 {
		return 0, 0
	}
	if x >= float64(n-1) {
		return n - 2, 1
	}
	f := math.Floor(x)
	return uint32(f), x - f
}

func bilinear(x, y float64, g00, g10, g01, g11 [2]float64) (float64, float64) {
	rx := 1 - x
	ry := 1 - y

	a := rx * ry
	b := x * ry
	c := rx * y
	d := x * y

	u := g00[0]*a + g10[0]*b + g01[0]*c + g11[0]*d
	v := g00[1]*a + g10[1]*b + g01[1]*c + g11[1]*d

	return u, v
}

// interpolate samples the U/V components at a position, bilinearly in
// space. Positions outside the grid clamp to the nearest edge cell, so
// the lookup never fails.
func (w *Field) interpolate(lat float64, lon float64) (float64, float64) {
	i := (lat - w.Lat0) / w.ΔLat
	j := floorMod(lon-w.Lon0, 360.0) / w.ΔLon
	if j > float64(w.NLon-1) {
		// between the last column and the wrap point of a non-global grid
		if j-float64(w.NLon-1) < (360.0/math.Abs(w.ΔLon)-float64(w.NLon-1))/2 {
			j = float64(w.NLon - 1)
		} else {
			j = 0
		}
	}

	fi, y := gridIndex(i, w.NLat)
	fj, x := gridIndex(j, w.NLon)

	return bilinear(x, y,
		[2]float64{w.U[fi][fj], w.V[fi][fj]},
		[2]float64{w.U[fi][fj+1], w.V[fi][fj+1]},
		[2]float64{w.U[fi+1][fj], w.V[fi+1][fj]},
		[2]float64{w.U[fi+1][fj+1], w.V[fi+1][fj+1]})
}
