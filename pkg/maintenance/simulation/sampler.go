package simulation

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// rowSampler draws next states from the rows of an effective transition
// matrix. Each trial owns its sampler and random source, so trials can run
// concurrently while staying reproducible under any scheduling order.
type rowSampler struct {
	rows []distuv.Categorical
}

func newRowSampler(p [][]float64, src rand.Source) *rowSampler {
	rows := make([]distuv.Categorical, len(p))
	for i, row := range p {
		rows[i] = distuv.NewCategorical(row, src)
	}
	return &rowSampler{rows: rows}
}

// Next draws the successor of the given state from its categorical row.
func (s *rowSampler) Next(state int) int {
	return int(s.rows[state].Rand())
}

// trialSeed derives a distinct deterministic sub-stream for one trial.
func trialSeed(base uint64, trial int) uint64 {
	return base + uint64(trial)*0x9e3779b97f4a7c15
}
