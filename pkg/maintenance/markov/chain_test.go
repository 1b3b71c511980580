package markov

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asset-sim/maintopt/pkg/maintenance/framework"
)

func validMatrix() [][]float64 {
	return [][]float64{
		{0.5, 0.3, 0.2},
		{0.0, 0.6, 0.4},
		{0.0, 0.0, 1.0},
	}
}

func TestNewChain(t *testing.T) {
	c, err := NewChain(validMatrix())
	require.NoError(t, err)
	assert.Equal(t, 3, c.NumStates())
	assert.Equal(t, 2, c.AbsorbingState())
}

func TestNewChainRejectsNonSquare(t *testing.T) {
	p := validMatrix()
	p[1] = []float64{0.6, 0.4}

	_, err := NewChain(p)
	assert.ErrorIs(t, err, framework.ErrInvalidTransitionMatrix)
}

func TestNewChainRejectsBadRowSum(t *testing.T) {
	p := validMatrix()
	p[0] = []float64{0.5, 0.3, 0.3}

	_, err := NewChain(p)
	assert.ErrorIs(t, err, framework.ErrInvalidTransitionMatrix)
}

func TestNewChainRejectsNegativeEntry(t *testing.T) {
	p := validMatrix()
	p[0] = []float64{0.7, 0.5, -0.2}

	_, err := NewChain(p)
	assert.ErrorIs(t, err, framework.ErrInvalidTransitionMatrix)
}

func TestNewChainRejectsNonAbsorbingLastRow(t *testing.T) {
	p := validMatrix()
	p[2] = []float64{0.1, 0.0, 0.9}

	_, err := NewChain(p)
	assert.ErrorIs(t, err, framework.ErrInvalidTransitionMatrix)
}

func TestNewChainRejectsTooFewStates(t *testing.T) {
	_, err := NewChain([][]float64{
		{0.5, 0.5},
		{0.0, 1.0},
	})
	assert.ErrorIs(t, err, framework.ErrInvalidTransitionMatrix)
}

func TestMatrixReturnsCopy(t *testing.T) {
	c, err := NewChain(validMatrix())
	require.NoError(t, err)

	m := c.Matrix()
	m[0][0] = 99

	assert.InDelta(t, 0.5, c.Matrix()[0][0], 0)
}

func TestManagedReplacesFlaggedRows(t *testing.T) {
	c, err := NewChain(validMatrix())
	require.NoError(t, err)

	effective, err := c.Managed(framework.NewPolicy([]bool{true}))
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 0, 0}, effective[1])
	// Unflagged and absorbing rows are untouched.
	assert.Equal(t, []float64{0.5, 0.3, 0.2}, effective[0])
	assert.Equal(t, []float64{0, 0, 1}, effective[2])
}

func TestManagedKeepsUnflaggedRows(t *testing.T) {
	c, err := NewChain(validMatrix())
	require.NoError(t, err)

	effective, err := c.Managed(framework.NewZeroPolicy(1))
	require.NoError(t, err)

	assert.Equal(t, c.Matrix(), effective)
}

func TestManagedRejectsWrongPolicyLength(t *testing.T) {
	c, err := NewChain(validMatrix())
	require.NoError(t, err)

	_, err = c.Managed(framework.NewPolicy([]bool{true, false}))
	assert.ErrorIs(t, err, framework.ErrInvalidPolicyLength)
}
