package bch

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kb3mpl/dvbs2rx/internal/bitpack"
)

// representativeParams is the (N=9720, K=9552, T=12) short-frame rate-3/5
// code point, spec.md's own worked example.
func representativeParams(t require.TestingT) Params {
	p, err := Lookup(9720, 9552)
	require.NoError(t, err)
	return p
}

func TestEncoder_MatchesReferenceEncode(t *testing.T) {
	p := representativeParams(t)
	enc, err := NewEncoder(p)
	require.NoError(t, err)

	rapid.Check(t, func(rt *rapid.T) {
		msg := rapid.SliceOfN(rapid.Byte(), bitpack.ByteLen(p.K), bitpack.ByteLen(p.K)).Draw(rt, "msg")

		codeword, err := enc.Encode(msg)
		require.NoError(rt, err)

		parity := codeword[len(msg):]
		refParity := enc.referenceEncode(msg)

		gotParityBits := make([]byte, enc.Generator.Degree)
		wantParityBits := make([]byte, enc.Generator.Degree)
		for i := 0; i < enc.Generator.Degree; i++ {
			gotParityBits[i] = bitpack.Get(parity, i)
			wantParityBits[i] = bitpack.Get(refParity, i)
		}
		require.Equal(rt, wantParityBits, gotParityBits)
	})
}

func TestEncoder_ProducesCodewordWithZeroSyndromes(t *testing.T) {
	p := representativeParams(t)
	enc, err := NewEncoder(p)
	require.NoError(t, err)
	dec, err := NewDecoder(p)
	require.NoError(t, err)

	rapid.Check(t, func(rt *rapid.T) {
		msg := rapid.SliceOfN(rapid.Byte(), bitpack.ByteLen(p.K), bitpack.ByteLen(p.K)).Draw(rt, "msg")
		codeword, err := enc.Encode(msg)
		require.NoError(rt, err)

		syn := dec.syndromes(codeword)
		require.True(rt, allZero(syn), "encoded codeword must have all-zero syndromes")
	})
}

func TestEncoder_RejectsWrongLengthMessage(t *testing.T) {
	p := representativeParams(t)
	enc, err := NewEncoder(p)
	require.NoError(t, err)

	_, err = enc.Encode(make([]byte, bitpack.ByteLen(p.K)-1))
	require.Error(t, err)
}
