package route

// Config tunes a route search. All durations are seconds, distances
// meters, speeds m/s, angles degrees.
type Config struct {
	// TimeStepS is the duration of one expansion leg.
	TimeStepS float64 `json:"timeStepS" toml:"time_step_s"`
	// HeadingCount is the number of evenly spaced candidate bearings
	// generated per expansion, on top of the goal and VMG bearings.
	HeadingCount int `json:"headingCount" toml:"heading_count"`
	// GoalRadiusM is the arrival tolerance around the destination.
	GoalRadiusM float64 `json:"goalRadiusM" toml:"goal_radius_m"`
	// MaxSearchHorizonS bounds the sailed time of any explored state.
	MaxSearchHorizonS float64 `json:"maxSearchHorizonS" toml:"max_search_horizon_s"`
	// MaxIterations bounds pops from the open set; 0 means no cap.
	MaxIterations int `json:"maxIterations" toml:"max_iterations"`
	// MinBoatSpeedMS floors the speed used to price a leg. Below it the
	// boat is considered becalmed and the leg is penalized.
	MinBoatSpeedMS float64 `json:"minBoatSpeedMS" toml:"min_boat_speed_ms"`
	// BecalmedPenalty multiplies the duration of becalmed legs. Finite,
	// so the search can still cross light air when nothing else works.
	BecalmedPenalty float64 `json:"becalmedPenalty" toml:"becalmed_penalty"`
	// TackPenaltyS and JibePenaltyS are added to a leg that crosses
	// head to wind, or dead downwind, onto the other tack.
	TackPenaltyS float64 `json:"tackPenaltyS" toml:"tack_penalty_s"`
	JibePenaltyS float64 `json:"jibePenaltyS" toml:"jibe_penalty_s"`
	// BearingToleranceDeg collapses candidate bearings closer than this.
	BearingToleranceDeg float64 `json:"bearingToleranceDeg" toml:"bearing_tolerance_deg"`
	// CellSizeDeg is the spatial lattice pitch for state deduplication.
	CellSizeDeg float64 `json:"cellSizeDeg" toml:"cell_size_deg"`
	// WindAwareHeuristic sharpens the remaining-time bound with wind
	// sampled near the goal. Can break admissibility when wind
	// strengthens over time; off by default.
	WindAwareHeuristic bool `json:"windAwareHeuristic" toml:"wind_aware_heuristic"`
}

func DefaultConfig() Config {
	return Config{
		TimeStepS:           3600,
		HeadingCount:        36,
		GoalRadiusM:         8000,
		MaxSearchHorizonS:   10 * 24 * 3600,
		MaxIterations:       500000,
		MinBoatSpeedMS:      0.25,
		BecalmedPenalty:     4,
		TackPenaltyS:        180,
		JibePenaltyS:        120,
		BearingToleranceDeg: 3,
		CellSizeDeg:         0.05,
	}
}

func (c Config) Validate() error {
	switch {
	case c.TimeStepS <= 0:
		return &InvalidConfigError{Field: "timeStepS", Reason: "must be positive"}
	case c.HeadingCount <= 0:
		return &InvalidConfigError{Field: "headingCount", Reason: "must be positive"}
	case c.GoalRadiusM <= 0:
		return &InvalidConfigError{Field: "goalRadiusM", Reason: "must be positive"}
	case c.MaxSearchHorizonS <= 0:
		return &InvalidConfigError{Field: "maxSearchHorizonS", Reason: "must be positive"}
	case c.MaxIterations < 0:
		return &InvalidConfigError{Field: "maxIterations", Reason: "must not be negative"}
	case c.MinBoatSpeedMS <= 0:
		return &InvalidConfigError{Field: "minBoatSpeedMS", Reason: "must be positive"}
	case c.BecalmedPenalty < 1:
		return &InvalidConfigError{Field: "becalmedPenalty", Reason: "must be at least 1"}
	case c.TackPenaltyS < 0:
		return &InvalidConfigError{Field: "tackPenaltyS", Reason: "must not be negative"}
	case c.JibePenaltyS < 0:
		return &InvalidConfigError{Field: "jibePenaltyS", Reason: "must not be negative"}
	case c.BearingToleranceDeg <= 0 || c.BearingToleranceDeg > 360.0/float64(c.HeadingCount):
		return &InvalidConfigError{Field: "bearingToleranceDeg", Reason: "must be positive and below the heading spacing"}
	case c.CellSizeDeg <= 0:
		return &InvalidConfigError{Field: "cellSizeDeg", Reason: "must be positive"}
	}
	return nil
}
