package bitpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestGetSet_MSBFirst(t *testing.T) {
	buf := make([]byte, 1)
	Set(buf, 0, 1)
	assert.Equal(t, byte(0x80), buf[0])
	Set(buf, 7, 1)
	assert.Equal(t, byte(0x81), buf[0])
}

func TestToggle(t *testing.T) {
	buf := make([]byte, 1)
	Toggle(buf, 3)
	assert.Equal(t, byte(1), Get(buf, 3))
	Toggle(buf, 3)
	assert.Equal(t, byte(0), Get(buf, 3))
}

func TestByteLen(t *testing.T) {
	assert.Equal(t, 0, ByteLen(0))
	assert.Equal(t, 1, ByteLen(1))
	assert.Equal(t, 1, ByteLen(8))
	assert.Equal(t, 2, ByteLen(9))
}

func TestSetThenGet_RoundTrips(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		nbits := rapid.IntRange(1, 256).Draw(rt, "nbits")
		buf := make([]byte, ByteLen(nbits))
		bit := rapid.IntRange(0, nbits-1).Draw(rt, "bit")
		val := byte(rapid.IntRange(0, 1).Draw(rt, "val"))
		Set(buf, bit, val)
		assert.Equal(rt, val, Get(buf, bit))
	})
}
