package model

import (
	"time"

	"github.com/b-vents/route-server/latlon"
	"github.com/b-vents/route-server/route"
)

// RouteRequest asks for a route from start to goal, optionally through
// intermediate marks, departing at startTime.
type RouteRequest struct {
	Start     latlon.LatLon   `json:"start"`
	Goal      latlon.LatLon   `json:"goal"`
	Via       []latlon.LatLon `json:"via,omitempty"`
	StartTime time.Time       `json:"startTime"`
	Params    Params          `json:"params"`
}

// Params overrides a subset of the server's routing configuration for
// one request. Zero values keep the server defaults.
type Params struct {
	TimeStepS          float64 `json:"timeStepS,omitempty"`
	HeadingCount       int     `json:"headingCount,omitempty"`
	GoalRadiusM        float64 `json:"goalRadiusM,omitempty"`
	MaxDurationS       float64 `json:"maxDuration,omitempty"`
	MaxIterations      int     `json:"maxIterations,omitempty"`
	TackPenaltyS       float64 `json:"tackPenaltyS,omitempty"`
	JibePenaltyS       float64 `json:"jibePenaltyS,omitempty"`
	WindAwareHeuristic bool    `json:"windAwareHeuristic,omitempty"`
	NotifyOnCompletion bool    `json:"notify,omitempty"`
}

// Apply folds the overrides into a configuration.
func (p Params) Apply(cfg route.Config) route.Config {
	if p.TimeStepS > 0 {
		cfg.TimeStepS = p.TimeStepS
	}
	if p.HeadingCount > 0 {
		cfg.HeadingCount = p.HeadingCount
	}
	if p.GoalRadiusM > 0 {
		cfg.GoalRadiusM = p.GoalRadiusM
	}
	if p.MaxDurationS > 0 {
		cfg.MaxSearchHorizonS = p.MaxDurationS
	}
	if p.MaxIterations > 0 {
		cfg.MaxIterations = p.MaxIterations
	}
	if p.TackPenaltyS > 0 {
		cfg.TackPenaltyS = p.TackPenaltyS
	}
	if p.JibePenaltyS > 0 {
		cfg.JibePenaltyS = p.JibePenaltyS
	}
	if p.WindAwareHeuristic {
		cfg.WindAwareHeuristic = true
	}
	return cfg
}

// SneakRequest asks for the reachability fan around a position.
type SneakRequest struct {
	Start        latlon.LatLon `json:"start"`
	StartTime    time.Time     `json:"startTime"`
	MaxDurationS float64       `json:"maxDuration,omitempty"`
}

// ErrorResponse is the JSON body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}
