package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceChainIsValid(t *testing.T) {
	c, err := Chain()
	require.NoError(t, err)
	assert.Equal(t, NumStates, c.NumStates())
	assert.Equal(t, NumStates-1, c.AbsorbingState())
}

func TestReferenceCostsMatchChain(t *testing.T) {
	assert.NoError(t, Costs().Validate(NumStates))
}
