package markov

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/asset-sim/maintopt/pkg/maintenance/framework"
)

// StationaryDistribution solves π(P−I) = 0 subject to Σπ = 1 as the
// least-squares solution of the augmented system [Pᵗ−I; 1…1]·π = [0…0,1]ᵗ,
// renormalized so the entries sum to 1.
//
// The result is meaningful as a long-run distribution only for irreducible,
// aperiodic chains. For the absorbing chains handled here it degenerates to
// all mass on the failure state; callers should treat it as a diagnostic for
// the unmanaged chain, not a planning quantity.
func StationaryDistribution(c *Chain) ([]float64, error) {
	n := c.n
	a := mat.NewDense(n+1, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := c.p[j][i]
			if i == j {
				v -= 1
			}
			a.Set(i, j, v)
		}
	}
	for j := 0; j < n; j++ {
		a.Set(n, j, 1)
	}
	b := mat.NewVecDense(n+1, nil)
	b.SetVec(n, 1)

	var pi mat.VecDense
	if err := pi.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("solving stationary system: %w", err)
	}

	out := make([]float64, n)
	sum := 0.0
	for i := range out {
		out[i] = pi.AtVec(i)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out, nil
}

// MeanTimeToAbsorption returns the expected number of periods until failure
// starting from the given transient state, computed from the fundamental
// matrix N = (I−Q)⁻¹ of the transient sub-chain: the row sums of N are the
// expected times to absorption.
func MeanTimeToAbsorption(c *Chain, initialState int) (float64, error) {
	m := c.n - 1
	if initialState < 0 || initialState >= m {
		return 0, fmt.Errorf("initial state %d is not a transient state of a %d-state chain", initialState, c.n)
	}

	iq := mat.NewDense(m, m, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			v := -c.p[i][j]
			if i == j {
				v += 1
			}
			iq.Set(i, j, v)
		}
	}

	var fundamental mat.Dense
	if err := fundamental.Inverse(iq); err != nil {
		return 0, fmt.Errorf("%w: %v", framework.ErrSingularFundamentalMatrix, err)
	}

	periods := 0.0
	for j := 0; j < m; j++ {
		periods += fundamental.At(initialState, j)
	}
	return periods, nil
}
