package framework

import "errors"

// Validation and analysis failures surfaced by the public entry points. All
// checks happen at the boundary; once inputs pass, a run is expected to
// complete without further errors.
var (
	ErrInvalidTransitionMatrix   = errors.New("invalid transition matrix")
	ErrInvalidCostModel          = errors.New("invalid cost model")
	ErrInvalidPolicyLength       = errors.New("invalid policy length")
	ErrSingularFundamentalMatrix = errors.New("singular fundamental matrix")
	ErrInvalidSimulationConfig   = errors.New("invalid simulation config")
	ErrInvalidGAConfig           = errors.New("invalid genetic algorithm config")
)
