package scenario

import (
	"github.com/asset-sim/maintopt/pkg/maintenance/framework"
	"github.com/asset-sim/maintopt/pkg/maintenance/markov"
)

const (
	Name = "FiveStateDegradation"

	// NumStates is the size of the reference chain: states 0 (as new) through
	// 3 (heavily degraded) plus the absorbing failure state 4.
	NumStates = 5
)

// TransitionMatrix returns the reference degradation matrix. Degradation only
// moves toward worse states; the failure state is absorbing.
func TransitionMatrix() [][]float64 {
	return [][]float64{
		{0.70, 0.20, 0.07, 0.02, 0.01},
		{0.00, 0.65, 0.22, 0.09, 0.04},
		{0.00, 0.00, 0.60, 0.28, 0.12},
		{0.00, 0.00, 0.00, 0.55, 0.45},
		{0.00, 0.00, 0.00, 0.00, 1.00},
	}
}

// Chain returns the validated reference chain.
func Chain() (*markov.Chain, error) {
	return markov.NewChain(TransitionMatrix())
}

// Costs returns the reference cost model: corrective repair grows steeply with
// the degradation level at failure time, and every failure also incurs a
// production loss.
func Costs() framework.CostModel {
	return framework.CostModel{
		PreventiveCost:     5,
		RepairCostByState:  []float64{0, 2, 8, 15, 50},
		ProductionLossCost: 20,
	}
}
