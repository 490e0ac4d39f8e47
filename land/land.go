package land

import (
	"fmt"
	"math"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/b-vents/route-server/latlon"
)

// Mask is a packed-bit land/sea raster over a bounding box: bit set means
// land. Queries outside the box answer "sea" unless StrictBounds is set,
// so routes skirting the raster edge never fail.
type Mask struct {
	lat0 float64
	latN float64
	lon0 float64
	lonN float64
	step float64
	data []byte

	// StrictBounds makes out-of-bounds queries count as land.
	StrictBounds bool

	geo latlon.LatLonSpherical
}

// Open loads a packed raster file: one bit per cell, row-major from
// lat0/lon0.
func Open(file string, lat0, lon0, step float64, nLat, nLon int) (*Mask, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		log.Errorf("Error reading land file '%s'", file)
		return nil, err
	}
	if need := (nLat*nLon + 7) / 8; len(b) < need {
		return nil, fmt.Errorf("land: file '%s' holds %d bytes, grid needs %d", file, len(b), need)
	}
	return &Mask{
		lat0: lat0,
		latN: lat0 + float64(nLat-1)*step,
		lon0: lon0,
		lonN: lon0 + float64(nLon-1)*step,
		step: step,
		data: b,
	}, nil
}

// OpenGlobal loads the stock global mask: 1/120 degree cells covering the
// whole planet.
func OpenGlobal(file string) (*Mask, error) {
	step := 360.0 / 43200.0
	return Open(file, -90.0, -180.0, step, int(math.Round(180.0/step))+1, 43200)
}

// NewMask builds a raster from explicit rows (true = land), row 0 at
// lat0, column 0 at lon0. Used by tests and synthetic scenarios.
func NewMask(lat0, lon0, step float64, cells [][]bool) *Mask {
	nLat := len(cells)
	nLon := 0
	if nLat > 0 {
		nLon = len(cells[0])
	}

	data := make([]byte, (nLat*nLon+7)/8)
	p := 0
	for _, row := range cells {
		for _, isLand := range row {
			if isLand {
				data[p/8] |= 1 << (7 - uint(p%8))
			}
			p++
		}
	}
	return &Mask{
		lat0: lat0,
		latN: lat0 + float64(nLat-1)*step,
		lon0: lon0,
		lonN: lon0 + float64(nLon-1)*step,
		step: step,
		data: data,
	}
}

// Step returns the raster cell size in degrees.
func (l *Mask) Step() float64 {
	return l.step
}

// IsLand reports whether the cell containing the position is land.
func (l *Mask) IsLand(p latlon.LatLon) bool {
	i := int(math.Round((p.Lat - l.lat0) / l.step))
	j := int(math.Round((p.Lon - l.lon0) / l.step))

	ni := int(math.Round((l.latN-l.lat0)/l.step)) + 1
	nj := int(math.Round((l.lonN-l.lon0)/l.step)) + 1

	if i < 0 || i >= ni || j < 0 || j >= nj {
		return l.StrictBounds
	}

	pos := i*nj + j
	return (l.data[pos/8]>>(7-uint(pos%8)))&0x01 == 0x01
}

// SegmentCrossesLand samples the great-circle segment between two points
// at intervals no wider than one raster cell and reports whether any
// sample is land. Approximate on purpose: polygon-exact coastline tests
// are not worth it at routing resolution.
func (l *Mask) SegmentCrossesLand(p1, p2 latlon.LatLon) bool {
	dist := l.geo.DistanceTo(p1, p2)

	// one raster cell in meters, at the equator where cells are widest
	cell := l.step * latlon.R * math.Pi / 180.0
	n := int(math.Ceil(dist / cell))
	if n < 1 {
		n = 1
	}

	for i := 0; i <= n; i++ {
		if l.IsLand(l.geo.IntermediatePointTo(p1, p2, float64(i)/float64(n))) {
			return true
		}
	}
	return false
}
