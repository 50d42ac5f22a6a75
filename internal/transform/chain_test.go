package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainMatchesSequentialApplication(t *testing.T) {
	in := readingContainer()
	filter := &MatchFilter{Field: "categoryId", Value: 1}
	rename := &Rename{From: "value", To: "volts"}

	// apply the two stages one at a time
	mid, err := filter.Apply(in)
	require.NoError(t, err)
	want, err := rename.Apply(mid)
	require.NoError(t, err)

	// then as a declared chain
	got, err := NewChain(filter, rename).Apply(in)
	require.NoError(t, err)

	assert.True(t, want.Equal(got), "chain output differs from sequential application")
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, 0.5, got.Record(0)["volts"])
}

func TestChainFailsFast(t *testing.T) {
	in := readingContainer()
	chain := NewChain(
		&FieldFilter{Fields: []string{"value"}},
		// timeLogged was projected away above, so this step must fail
		&Since{Field: "timeLogged", Floor: 0},
	)

	_, err := chain.Apply(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chain step since")
}

func TestEmptyChainIsIdentity(t *testing.T) {
	in := readingContainer()

	out, err := NewChain().Apply(in)
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
}
