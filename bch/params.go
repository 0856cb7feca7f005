// Package bch implements the BCH codec core for DVB-S2 outer error
// correction: GF(2^m) arithmetic, generator polynomial construction,
// systematic packed-word encoding, and syndrome/Berlekamp-Massey/Chien
// decoding.
//
// Both the encoder and decoder are pure, single-threaded, synchronous
// computations (spec.md section 5): no goroutines, no I/O. Their scratch
// state is allocated at construction, but they do not write into
// caller-supplied output buffers: Encode and Decode each allocate and
// return a new output slice on every call.
package bch

import "fmt"

// Params describes one DVB-S2 BCH code point: an (N, K, t) tuple plus the
// GF(2^m) field order (m=14 for every short-FECFRAME entry, m=16 for every
// normal-FECFRAME entry) and its primitive polynomial.
type Params struct {
	N    int // codeword length, bits
	K    int // message length, bits
	T    int // guaranteed correction capability
	M    int // GF(2^m) field order
	Poly uint32
}

// Primitive polynomials from spec.md section 3: short FECFRAMEs use
// m=14, 1 + x + x^3 + x^5 + x^14; normal FECFRAMEs use m=16,
// 1 + x^2 + x^3 + x^5 + x^16.
const (
	shortPoly  uint32 = 1<<0 | 1<<1 | 1<<3 | 1<<5 // degree-14 term is implicit
	normalPoly uint32 = 1<<0 | 1<<2 | 1<<3 | 1<<5 // degree-16 term is implicit

	shortM  = 14
	normalM = 16
)

// shortFrameTable and normalFrameTable are the DVB-S2 BCH code points this
// module supports, keyed by (N, K). N-K is always M*T here because no two
// of the odd exponents {1, 3, ..., 2T-1} fall in the same GF(2^m)
// cyclotomic coset for these (M, T) pairs, so BuildGenerator's distinct
// minimal polynomials never collapse — checked by NewEncoder (generator
// degree must equal N-K) and by TestBuildGenerator_RootsAtOddPowers.
//
// N values are the standard DVB-S2 nbch sizes (ETSI EN 302 307 tables 5a/5b);
// spec.md's own worked example, (N=9720, K=9552, T=12), is the rate-3/5
// short-frame entry.
var shortFrameTable = []Params{
	{N: 3240, K: 3240 - shortM*12, T: 12, M: shortM, Poly: shortPoly},
	{N: 5400, K: 5400 - shortM*12, T: 12, M: shortM, Poly: shortPoly},
	{N: 6480, K: 6480 - shortM*12, T: 12, M: shortM, Poly: shortPoly},
	{N: 7200, K: 7200 - shortM*12, T: 12, M: shortM, Poly: shortPoly},
	{N: 9720, K: 9720 - shortM*12, T: 12, M: shortM, Poly: shortPoly}, // rate 3/5
	{N: 10800, K: 10800 - shortM*12, T: 12, M: shortM, Poly: shortPoly},
	{N: 11880, K: 11880 - shortM*12, T: 12, M: shortM, Poly: shortPoly},
	{N: 12600, K: 12600 - shortM*12, T: 12, M: shortM, Poly: shortPoly},
	{N: 13320, K: 13320 - shortM*12, T: 12, M: shortM, Poly: shortPoly},
	{N: 14400, K: 14400 - shortM*12, T: 12, M: shortM, Poly: shortPoly},
}

var normalFrameTable = []Params{
	{N: 16200, K: 16200 - normalM*12, T: 12, M: normalM, Poly: normalPoly},
	{N: 21600, K: 21600 - normalM*12, T: 12, M: normalM, Poly: normalPoly},
	{N: 25920, K: 25920 - normalM*12, T: 12, M: normalM, Poly: normalPoly},
	{N: 32400, K: 32400 - normalM*12, T: 12, M: normalM, Poly: normalPoly},
	{N: 38880, K: 38880 - normalM*12, T: 12, M: normalM, Poly: normalPoly},
	{N: 43200, K: 43200 - normalM*10, T: 10, M: normalM, Poly: normalPoly},
	{N: 48600, K: 48600 - normalM*12, T: 12, M: normalM, Poly: normalPoly},
	{N: 51840, K: 51840 - normalM*12, T: 12, M: normalM, Poly: normalPoly},
	{N: 54000, K: 54000 - normalM*10, T: 10, M: normalM, Poly: normalPoly},
	{N: 57600, K: 57600 - normalM*8, T: 8, M: normalM, Poly: normalPoly},
	{N: 58320, K: 58320 - normalM*8, T: 8, M: normalM, Poly: normalPoly},
}

// AllParams returns every DVB-S2 BCH code point this module knows about,
// short and normal FECFRAMEs combined. Used by the test suite to exercise
// spec.md's "across all (N, K, t) pairs in the DVB-S2 table" properties.
func AllParams() []Params {
	all := make([]Params, 0, len(shortFrameTable)+len(normalFrameTable))
	all = append(all, shortFrameTable...)
	all = append(all, normalFrameTable...)
	return all
}

// Lookup resolves (n, k) against the DVB-S2 parameter table. Construction
// fails fast for any pair not in that table (spec.md section 7).
func Lookup(n, k int) (Params, error) {
	for _, p := range shortFrameTable {
		if p.N == n && p.K == k {
			return p, nil
		}
	}
	for _, p := range normalFrameTable {
		if p.N == n && p.K == k {
			return p, nil
		}
	}
	return Params{}, &ConstructionError{
		Msg: fmt.Sprintf("(N=%d, K=%d) is not a DVB-S2 BCH code point", n, k),
	}
}

// validate checks internal consistency of a Params value: N-K must equal
// M*T (see the shortFrameTable/normalFrameTable comment above), and N must
// fit within the mother code length 2^M - 1.
func (p Params) validate() error {
	if p.N <= 0 || p.K <= 0 || p.K >= p.N {
		return &ConstructionError{Msg: fmt.Sprintf("invalid (N=%d, K=%d)", p.N, p.K)}
	}
	if p.T <= 0 {
		return &ConstructionError{Msg: fmt.Sprintf("invalid T=%d", p.T)}
	}
	if p.N-p.K != p.M*p.T {
		return &ConstructionError{
			Msg: fmt.Sprintf("N-K=%d does not match M*T=%d for (N=%d,K=%d,T=%d,M=%d)",
				p.N-p.K, p.M*p.T, p.N, p.K, p.T, p.M),
		}
	}
	motherLen := (1 << uint(p.M)) - 1
	if p.N > motherLen {
		return &ConstructionError{
			Msg: fmt.Sprintf("N=%d exceeds mother code length %d for M=%d", p.N, motherLen, p.M),
		}
	}
	if p.N%8 != 0 || p.K%8 != 0 {
		return &ConstructionError{
			Msg: fmt.Sprintf("N=%d and K=%d must both be byte-aligned", p.N, p.K),
		}
	}
	return nil
}
