package polar

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	log "github.com/sirupsen/logrus"
)

// Polar is a boat performance table: speed in m/s over a grid of true
// wind angles (degrees, ascending in [0,180]) and true wind speeds (m/s,
// ascending). Lookups outside the grid clamp to the nearest edge.
type Polar struct {
	Label     string      `json:"label"`
	Twa       []float64   `json:"twa"`
	Tws       []float64   `json:"tws"`
	BoatSpeed [][]float64 `json:"speed"`

	maxSpeed float64
}

// Load reads a polar table from a JSON file.
func Load(path string) (*Polar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Polar
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("polar: decoding '%s': %w", path, err)
	}
	if err := p.init(); err != nil {
		return nil, fmt.Errorf("polar: '%s': %w", path, err)
	}

	log.Debugf("Loaded polar '%s': %d twa x %d tws", p.Label, len(p.Twa), len(p.Tws))
	return &p, nil
}

// New builds a polar table from in-memory data.
func New(twa, tws []float64, speed [][]float64) (*Polar, error) {
	p := Polar{Twa: twa, Tws: tws, BoatSpeed: speed}
	if err := p.init(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Polar) init() error {
	if len(p.Twa) < 2 || len(p.Tws) < 2 {
		return fmt.Errorf("table needs at least 2 twa rows and 2 tws columns")
	}
	if len(p.BoatSpeed) != len(p.Twa) {
		return fmt.Errorf("speed grid has %d rows for %d twa values", len(p.BoatSpeed), len(p.Twa))
	}
	for i, row := range p.BoatSpeed {
		if len(row) != len(p.Tws) {
			return fmt.Errorf("speed row %d has %d columns for %d tws values", i, len(row), len(p.Tws))
		}
	}
	for i := range p.Twa {
		if p.Twa[i] < 0 || p.Twa[i] > 180 {
			return fmt.Errorf("twa %f outside [0,180]", p.Twa[i])
		}
		if i > 0 && p.Twa[i] <= p.Twa[i-1] {
			return fmt.Errorf("twa values must be strictly ascending")
		}
	}
	for i := range p.Tws {
		if p.Tws[i] < 0 {
			return fmt.Errorf("tws %f negative", p.Tws[i])
		}
		if i > 0 && p.Tws[i] <= p.Tws[i-1] {
			return fmt.Errorf("tws values must be strictly ascending")
		}
	}

	for _, row := range p.BoatSpeed {
		for _, s := range row {
			if s < 0 {
				return fmt.Errorf("negative boat speed %f", s)
			}
			if s > p.maxSpeed {
				p.maxSpeed = s
			}
		}
	}
	return nil
}

// interpolationIndex locates value between two grid values and returns
// both indexes with the weight of the lower one. Values outside the grid
// clamp to the nearest edge.
func interpolationIndex(values []float64, value float64) (int, int, float64) {
	i := 0
	for values[i] < value {
		i++
		if i == len(values) {
			return i - 1, i - 1, 1
		}
	}

	if i > 0 {
		return i - 1, i, (values[i] - value) / (values[i] - values[i-1])
	}

	return 0, 0, 1
}

// NormalizeTwa folds any angle to the symmetric range [0,180].
func NormalizeTwa(twa float64) float64 {
	t := math.Mod(math.Abs(twa), 360)
	if t > 180 {
		t = 360 - t
	}
	return t
}

// Speed returns the interpolated boat speed in m/s for a true wind angle
// (any sign or range) and a true wind speed in m/s.
func (p *Polar) Speed(twa, tws float64) float64 {
	t := NormalizeTwa(twa)

	twaIndex0, twaIndex1, twaFactor := interpolationIndex(p.Twa, t)
	twsIndex0, twsIndex1, twsFactor := interpolationIndex(p.Tws, tws)

	r0 := p.BoatSpeed[twaIndex0]
	r1 := p.BoatSpeed[twaIndex1]
	bs := (r0[twsIndex0]*twsFactor+r0[twsIndex1]*(1-twsFactor))*twaFactor +
		(r1[twsIndex0]*twsFactor+r1[twsIndex1]*(1-twsFactor))*(1-twaFactor)

	if bs < 0 {
		return 0
	}
	return bs
}

// MaxSpeed returns the highest speed anywhere in the table.
func (p *Polar) MaxSpeed() float64 {
	return p.maxSpeed
}

// BestVMGAngle returns the table TWA maximizing the made-good speed
// toward an upwind target, speed*cos(twa). Ties go to the smaller angle.
func (p *Polar) BestVMGAngle(tws float64) float64 {
	best, bestVmg := p.Twa[0], math.Inf(-1)
	for _, twa := range p.Twa {
		vmg := p.Speed(twa, tws) * math.Cos(twa*math.Pi/180)
		if vmg > bestVmg {
			best, bestVmg = twa, vmg
		}
	}
	return best
}

// BestDownwindVMGAngle returns the table TWA maximizing the made-good
// speed away from the wind, speed*-cos(twa). Ties go to the smaller angle.
func (p *Polar) BestDownwindVMGAngle(tws float64) float64 {
	best, bestVmg := p.Twa[len(p.Twa)-1], math.Inf(-1)
	for _, twa := range p.Twa {
		vmg := -p.Speed(twa, tws) * math.Cos(twa*math.Pi/180)
		if vmg > bestVmg {
			best, bestVmg = twa, vmg
		}
	}
	return best
}
