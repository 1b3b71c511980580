package markov

import (
	"fmt"
	"math"

	"github.com/asset-sim/maintopt/pkg/maintenance/framework"
)

const (
	// BestState is the index of the best asset condition. Every chain in this
	// package is oriented best-to-worst, with the absorbing failure state last;
	// the analyzer and the policy evaluator share this orientation through the
	// Chain type.
	BestState = 0

	rowSumTolerance = 1e-9
)

// Chain is a validated discrete-time degradation chain: a square row-stochastic
// matrix whose last state is absorbing (equipment failure).
type Chain struct {
	p [][]float64
	n int
}

// NewChain validates and copies the given transition matrix. The matrix must
// be square with at least 3 states (so that at least one state is
// maintainable), every row must sum to 1 within tolerance, and the last row
// must be the identity row.
func NewChain(p [][]float64) (*Chain, error) {
	n := len(p)
	if n < 3 {
		return nil, fmt.Errorf("%w: need at least 3 states, got %d", framework.ErrInvalidTransitionMatrix, n)
	}
	for i, row := range p {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d",
				framework.ErrInvalidTransitionMatrix, i, len(row), n)
		}
		sum := 0.0
		for j, v := range row {
			if v < 0 {
				return nil, fmt.Errorf("%w: negative probability %g at (%d,%d)",
					framework.ErrInvalidTransitionMatrix, v, i, j)
			}
			sum += v
		}
		if math.Abs(sum-1) > rowSumTolerance {
			return nil, fmt.Errorf("%w: row %d sums to %v", framework.ErrInvalidTransitionMatrix, i, sum)
		}
	}
	for j, v := range p[n-1] {
		want := 0.0
		if j == n-1 {
			want = 1
		}
		if v != want {
			return nil, fmt.Errorf("%w: last row must be the absorbing identity row",
				framework.ErrInvalidTransitionMatrix)
		}
	}

	cp := make([][]float64, n)
	for i, row := range p {
		cp[i] = make([]float64, n)
		copy(cp[i], row)
	}
	return &Chain{p: cp, n: n}, nil
}

func (c *Chain) NumStates() int {
	return c.n
}

// AbsorbingState returns the index of the failure state.
func (c *Chain) AbsorbingState() int {
	return c.n - 1
}

// Matrix returns a deep copy of the transition matrix.
func (c *Chain) Matrix() [][]float64 {
	cp := make([][]float64, c.n)
	for i, row := range c.p {
		cp[i] = make([]float64, c.n)
		copy(cp[i], row)
	}
	return cp
}

// Managed builds the effective transition matrix under the given policy: the
// row of every flagged state becomes a deterministic transition to the best
// state (the implicit repair performed by preventive maintenance). All other
// rows, including the absorbing one, are unchanged.
func (c *Chain) Managed(policy *framework.Policy) ([][]float64, error) {
	if err := policy.Validate(c.n); err != nil {
		return nil, err
	}
	out := c.Matrix()
	for j, flagged := range policy.Bits {
		if !flagged {
			continue
		}
		row := make([]float64, c.n)
		row[BestState] = 1
		out[j+1] = row
	}
	return out, nil
}
