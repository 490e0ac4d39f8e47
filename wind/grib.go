package wind

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nilsmagnus/grib/griblib"
)

// buildGrid reshapes a GRIB data section into rows of longitudes. Global
// grids get an extra wrap column so interpolation works across the
// antimeridian.
func buildGrid(data []float64, nLat, nLon uint32, δlon float64) [][]float64 {
	isContinuous := math.Floor(float64(nLon)*math.Abs(δlon)) >= 360

	cols := nLon
	if isContinuous {
		cols++
	}

	grid := make([][]float64, nLat)

	p := 0
	for j := uint32(0); j < nLat; j++ {
		grid[j] = make([]float64, cols)
		for i := uint32(0); i < nLon; i++ {
			grid[j][i] = data[p]
			p++
		}
		if isContinuous {
			grid[j][nLon] = grid[j][0]
		}
	}
	return grid
}

// LoadGrib reads the 10m U/V wind messages of a GRIB2 file into a Field
// valid at the given time.
func LoadGrib(valid time.Time, path string) (*Field, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	messages, err := griblib.ReadMessages(f)
	if err != nil {
		return nil, err
	}

	w := &Field{Time: valid, File: filepath.Base(path)}
	for _, message := range messages {
		if message.Section0.Discipline != 0 ||
			message.Section4.ProductDefinitionTemplate.ParameterCategory != 2 ||
			message.Section4.ProductDefinitionTemplate.FirstSurface.Type != 103 ||
			message.Section4.ProductDefinitionTemplate.FirstSurface.Value != 10 {
			continue
		}
		grid0, ok := message.Section3.Definition.(*griblib.Grid0)
		if !ok {
			continue
		}
		w.Lat0 = float64(grid0.La1) / 1e6
		w.Lon0 = float64(grid0.Lo1) / 1e6
		// GFS grids scan from the northern edge southward
		w.ΔLat = -float64(grid0.Dj) / 1e6
		w.ΔLon = float64(grid0.Di) / 1e6
		w.NLat = grid0.Nj
		w.NLon = grid0.Ni

		switch message.Section4.ProductDefinitionTemplate.ParameterNumber {
		case 2:
			w.U = buildGrid(message.Section7.Data, w.NLat, w.NLon, w.ΔLon)
		case 3:
			w.V = buildGrid(message.Section7.Data, w.NLat, w.NLon, w.ΔLon)
		}
	}

	if w.U == nil || w.V == nil {
		return nil, fmt.Errorf("wind: no 10m wind messages in '%s'", path)
	}
	if math.Floor(float64(w.NLon)*math.Abs(w.ΔLon)) >= 360 {
		w.NLon++
	}
	return w, nil
}

type gribFile struct {
	path  string
	valid time.Time
}

// listGribFiles scans a forecast directory. Files are named
// "2006010215.hN": the forecast reference stamp plus the offset in hours.
func listGribFiles(dir string) ([]gribFile, error) {
	var files []gribFile
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() || strings.HasSuffix(info.Name(), ".tmp") {
			return nil
		}

		parts := strings.Split(info.Name(), ".")
		if len(parts) != 2 || !strings.HasPrefix(parts[1], "h") {
			return nil
		}
		ref, err := time.Parse("2006010215", parts[0])
		if err != nil {
			return nil
		}
		h, err := strconv.Atoi(parts[1][1:])
		if err != nil {
			return nil
		}

		files = append(files, gribFile{path: path, valid: ref.Add(time.Duration(h) * time.Hour)})
		return nil
	})
	return files, err
}
