package wind

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/b-vents/route-server/latlon"
)

// Sample is the wind at one point and time. DirectionDeg follows the
// meteorological convention (direction the wind blows from).
type Sample struct {
	SpeedMS      float64 `json:"speed"`
	DirectionDeg float64 `json:"direction"`
}

// Source answers wind queries. The routing engine does not care whether
// the backing data is a gridded file set or a live forecast API.
type Source interface {
	Sample(p latlon.LatLon, t time.Time) (Sample, error)
}

// ErrOutOfTemporalRange matches any *TemporalRangeError with errors.Is.
var ErrOutOfTemporalRange = errors.New("wind: time outside forecast coverage")

// TemporalRangeError reports a query before the first or after the last
// forecast slice. The engine propagates it rather than clamping, so a
// caller never routes on silently stale wind.
type TemporalRangeError struct {
	At       time.Time
	Earliest time.Time
	Latest   time.Time
}

func (e *TemporalRangeError) Error() string {
	return fmt.Sprintf("wind: %s outside forecast coverage [%s, %s]",
		e.At.Format(time.RFC3339), e.Earliest.Format(time.RFC3339), e.Latest.Format(time.RFC3339))
}

func (e *TemporalRangeError) Is(target error) bool {
	return target == ErrOutOfTemporalRange
}

// Store holds the loaded forecast slices ordered by valid time. It is safe
// for concurrent samplers; Reload swaps the slice set atomically under the
// lock so running searches keep a coherent snapshot.
type Store struct {
	dir    string
	lock   sync.RWMutex
	fields []*Field
}

// NewStore builds a store over preloaded fields, ordered by valid time.
func NewStore(fields ...*Field) *Store {
	s := &Store{}
	s.replace(fields)
	return s
}

func (s *Store) replace(fields []*Field) {
	sorted := make([]*Field, len(fields))
	copy(sorted, fields)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	s.lock.Lock()
	s.fields = sorted
	s.lock.Unlock()
}

func (s *Store) snapshot() []*Field {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.fields
}

// Coverage returns the valid-time range of the loaded slices.
func (s *Store) Coverage() (time.Time, time.Time, bool) {
	fields := s.snapshot()
	if len(fields) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return fields[0].Time, fields[len(fields)-1].Time, true
}

// Sample interpolates the wind bilinearly in space and linearly in time
// between the two forecast slices bracketing t.
func (s *Store) Sample(p latlon.LatLon, t time.Time) (Sample, error) {
	fields := s.snapshot()
	if len(fields) == 0 {
		return Sample{}, &TemporalRangeError{At: t}
	}

	first, last := fields[0].Time, fields[len(fields)-1].Time
	if t.Before(first) || t.After(last) {
		return Sample{}, &TemporalRangeError{At: t, Earliest: first, Latest: last}
	}

	i := sort.Search(len(fields), func(i int) bool { return !fields[i].Time.Before(t) })

	var u, v float64
	if fields[i].Time.Equal(t) || i == 0 {
		u, v = fields[i].interpolate(p.Lat, p.Lon)
	} else {
		w0, w1 := fields[i-1], fields[i]
		h := t.Sub(w0.Time).Seconds() / w1.Time.Sub(w0.Time).Seconds()
		u0, v0 := w0.interpolate(p.Lat, p.Lon)
		u1, v1 := w1.interpolate(p.Lat, p.Lon)
		u = u1*h + u0*(1-h)
		v = v1*h + v0*(1-h)
	}

	speed := math.Sqrt(u*u + v*v)
	return Sample{SpeedMS: speed, DirectionDeg: UVToDirection(u, v)}, nil
}

// Fields returns the current slice snapshot, for the wind probe endpoint.
func (s *Store) Fields() []*Field {
	return s.snapshot()
}

// OpenDir loads every GRIB file of a directory into a new store.
func OpenDir(dir string) (*Store, error) {
	s := &Store{dir: dir}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload rescans the store's directory and swaps in the freshly loaded
// slice set. Later files win for duplicate valid times.
func (s *Store) Reload() error {
	if s.dir == "" {
		return nil
	}

	files, err := listGribFiles(s.dir)
	if err != nil {
		log.WithError(err).Errorf("Error walking grib files in '%s'", s.dir)
		return err
	}

	byTime := make(map[string]*Field, len(files))
	for _, f := range files {
		field, err := LoadGrib(f.valid, f.path)
		if err != nil {
			log.WithError(err).Errorf("Error loading grib file '%s'", f.path)
			continue
		}
		byTime[f.valid.Format("2006010215")] = field
	}

	fields := make([]*Field, 0, len(byTime))
	for _, f := range byTime {
		fields = append(fields, f)
	}
	s.replace(fields)

	log.Debugf("Loaded %d wind slices from '%s'", len(fields), s.dir)
	return nil
}
