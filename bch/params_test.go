package bch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_KnownCodePoint(t *testing.T) {
	p, err := Lookup(9720, 9552)
	require.NoError(t, err)
	assert.Equal(t, 12, p.T)
	assert.Equal(t, shortM, p.M)
}

func TestLookup_UnknownCodePoint(t *testing.T) {
	_, err := Lookup(1234, 1000)
	require.Error(t, err)
	var ce *ConstructionError
	assert.ErrorAs(t, err, &ce)
}

func TestAllParams_InternalConsistency(t *testing.T) {
	for _, p := range AllParams() {
		p := p
		t.Run("", func(t *testing.T) {
			require.NoError(t, p.validate())
			assert.Equal(t, p.N-p.K, p.M*p.T)
			assert.Zero(t, p.N%8)
			assert.Zero(t, p.K%8)
		})
	}
}
