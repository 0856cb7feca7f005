package bch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kb3mpl/dvbs2rx/internal/bitpack"
)

func TestHardDecide(t *testing.T) {
	llrs := []float64{2.5, -0.1, 0, -3.0, 0.0001}
	buf := HardDecide(llrs)

	assert.Equal(t, byte(0), bitpack.Get(buf, 0))
	assert.Equal(t, byte(1), bitpack.Get(buf, 1))
	assert.Equal(t, byte(0), bitpack.Get(buf, 2))
	assert.Equal(t, byte(1), bitpack.Get(buf, 3))
	assert.Equal(t, byte(0), bitpack.Get(buf, 4))
}
