package markov_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asset-sim/maintopt/pkg/maintenance/framework"
	"github.com/asset-sim/maintopt/pkg/maintenance/markov"
	"github.com/asset-sim/maintopt/pkg/maintenance/scenario"
)

func TestMeanTimeToAbsorptionKnownChain(t *testing.T) {
	// Q = [[0.5,0.3],[0,0.6]], N = (I-Q)^-1 = [[2,1.5],[0,2.5]].
	c, err := markov.NewChain([][]float64{
		{0.5, 0.3, 0.2},
		{0.0, 0.6, 0.4},
		{0.0, 0.0, 1.0},
	})
	require.NoError(t, err)

	t0, err := markov.MeanTimeToAbsorption(c, 0)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, t0, 1e-12)

	t1, err := markov.MeanTimeToAbsorption(c, 1)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, t1, 1e-12)
}

func TestMeanTimeToAbsorptionReferenceScenario(t *testing.T) {
	c, err := scenario.Chain()
	require.NoError(t, err)

	periods, err := markov.MeanTimeToAbsorption(c, markov.BestState)
	require.NoError(t, err)

	assert.Greater(t, periods, 0.0)
	assert.False(t, math.IsInf(periods, 1))
}

func TestMeanTimeToAbsorptionSingular(t *testing.T) {
	// State 1 can never leave itself, so I-Q has a zero row.
	c, err := markov.NewChain([][]float64{
		{0.5, 0.3, 0.2},
		{0.0, 1.0, 0.0},
		{0.0, 0.0, 1.0},
	})
	require.NoError(t, err)

	_, err = markov.MeanTimeToAbsorption(c, 0)
	assert.ErrorIs(t, err, framework.ErrSingularFundamentalMatrix)
}

func TestMeanTimeToAbsorptionRejectsNonTransientStart(t *testing.T) {
	c, err := scenario.Chain()
	require.NoError(t, err)

	_, err = markov.MeanTimeToAbsorption(c, c.AbsorbingState())
	assert.Error(t, err)

	_, err = markov.MeanTimeToAbsorption(c, -1)
	assert.Error(t, err)
}

func TestStationaryDistributionDegeneratesToAbsorbingState(t *testing.T) {
	c, err := scenario.Chain()
	require.NoError(t, err)

	pi, err := markov.StationaryDistribution(c)
	require.NoError(t, err)
	require.Len(t, pi, c.NumStates())

	sum := 0.0
	for _, v := range pi {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.InDelta(t, 1.0, pi[c.AbsorbingState()], 1e-9)
	for s := 0; s < c.AbsorbingState(); s++ {
		assert.InDelta(t, 0.0, pi[s], 1e-9)
	}
}
