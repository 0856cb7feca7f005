package bch

import "github.com/kb3mpl/dvbs2rx/internal/bitpack"

// HardDecide converts a slice of log-likelihood ratios (LLR = log(P(bit=0)
// / P(bit=1)), the soft-decision convention spec.md's upstream demapper
// produces) into a packed MSB-first bit buffer suitable for Decoder.Decode.
//
// A non-negative LLR decides 0; negative decides 1. Ties (LLR exactly
// zero, a jammed or erased channel) decide 0, matching the teacher's
// general pattern of treating "no evidence" as the less surprising
// outcome rather than introducing a third erasure symbol this codec
// doesn't model.
func HardDecide(llrs []float64) []byte {
	buf := make([]byte, bitpack.ByteLen(len(llrs)))
	for i, llr := range llrs {
		if llr < 0 {
			bitpack.Set(buf, i, 1)
		}
	}
	return buf
}
