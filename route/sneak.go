package route

import (
	"errors"
	"time"

	"github.com/b-vents/route-server/latlon"
	"github.com/b-vents/route-server/wind"
)

// FanPoint is one hop of a reachability ray.
type FanPoint struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Twa       float64 `json:"t"`
	Bearing   int     `json:"b"`
	WindDir   float64 `json:"w"`
	WindSpeed float64 `json:"ws"`
	BoatSpeed float64 `json:"bs"`
	Duration  float64 `json:"d"`
}

// Fan is the reachability envelope around a start position: one ray per
// held compass bearing and one per held true wind angle.
type Fan struct {
	StartTime time.Time           `json:"startTime"`
	Bearing   map[int][]*FanPoint `json:"bearing"`
	Twa       map[int][]*FanPoint `json:"twa"`
}

// Sneak projects dead-reckoning rays from start until maxDurationS of
// sailing, the wind coverage or the coastline stops them. It shares the
// router's cost conventions but runs no search.
func (r *Router) Sneak(start latlon.LatLon, departure time.Time, maxDurationS float64) (*Fan, error) {
	if !start.Valid() {
		return nil, &InvalidConfigError{Field: "start", Reason: "outside [-90,90]x[-180,180]"}
	}
	if maxDurationS <= 0 || maxDurationS > r.Config.MaxSearchHorizonS {
		maxDurationS = r.Config.MaxSearchHorizonS
	}
	if r.Land != nil && r.Land.IsLand(start) {
		return nil, &NoRouteError{Reason: "start position is on land"}
	}

	fan := &Fan{
		StartTime: departure,
		Bearing:   make(map[int][]*FanPoint),
		Twa:       make(map[int][]*FanPoint),
	}

	for b := 0; b < 360; b++ {
		ray, err := r.ray(start, departure, maxDurationS, func(w wind.Sample) float64 {
			return float64(b)
		})
		if err != nil {
			return nil, err
		}
		fan.Bearing[b] = ray
	}
	for t := -180; t < 180; t++ {
		twa := float64(t)
		ray, err := r.ray(start, departure, maxDurationS, func(w wind.Sample) float64 {
			return wind.Heading(twa, w.DirectionDeg)
		})
		if err != nil {
			return nil, err
		}
		fan.Twa[t] = ray
	}
	return fan, nil
}

// ray advances one hop per time step along the heading the steer
// function picks for the current wind.
func (r *Router) ray(start latlon.LatLon, departure time.Time, maxDurationS float64, steer func(wind.Sample) float64) ([]*FanPoint, error) {
	cfg := r.Config
	pos := start
	at := departure
	duration := 0.0

	out := []*FanPoint{{Lat: start.Lat, Lon: start.Lon, Duration: 0}}

	for duration < maxDurationS {
		w, err := r.Wind.Sample(pos, at)
		if err != nil {
			if errors.Is(err, wind.ErrOutOfTemporalRange) {
				break
			}
			return nil, err
		}

		bearing := latlon.Wrap360(steer(w))
		twa := wind.Twa(bearing, w.DirectionDeg)
		speed := r.Polar.Speed(twa, w.SpeedMS)
		if speed < cfg.MinBoatSpeedMS {
			speed = cfg.MinBoatSpeedMS
		}

		next := r.geo.Destination(pos, bearing, speed*cfg.TimeStepS)
		if r.Land != nil && r.Land.SegmentCrossesLand(pos, next) {
			break
		}

		duration += cfg.TimeStepS
		pos = next
		at = at.Add(secondsToDuration(cfg.TimeStepS))
		out = append(out, &FanPoint{
			Lat:       pos.Lat,
			Lon:       pos.Lon,
			Twa:       twa,
			Bearing:   int(bearing),
			WindDir:   w.DirectionDeg,
			WindSpeed: w.SpeedMS,
			BoatSpeed: speed,
			Duration:  duration,
		})
	}
	return out, nil
}
