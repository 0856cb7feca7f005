// Package gf2m builds and operates on GF(2^m) log/antilog tables for a
// primitive element alpha, the finite-field substrate BCH codes are defined
// over.
//
// Grounded on init_rs_char() from the teacher's src/fx25_init.go (Phil
// Karn's Reed-Solomon GF(256) table builder), generalized from a fixed
// GF(256) polynomial to an arbitrary field order m and primitive
// polynomial.
package gf2m

import "fmt"

// Tables holds the log/antilog tables for GF(2^m).
//
// AlphaTo[i] is alpha^i for i in [0, N-1], where N = 2^m - 1. AlphaTo[N]
// is the conventional "alpha^-inf" entry, 0.
//
// IndexOf[x] is log_alpha(x) for nonzero x. IndexOf[0] is the sentinel N
// and must never be used in arithmetic.
type Tables struct {
	M       int
	N       int // 2^m - 1, also used as the modulus for index arithmetic
	AlphaTo []uint16
	IndexOf []uint16
}

// NewTables builds the log/antilog tables for GF(2^m) from a primitive
// polynomial whose coefficients are packed little-endian by power (bit i
// set means the x^i term is present; the implicit x^m term is not set in
// poly itself).
func NewTables(m int, poly uint32) (*Tables, error) {
	if m <= 0 || m > 16 {
		return nil, fmt.Errorf("gf2m: field order m=%d out of range (1..16)", m)
	}
	if poly == 0 {
		return nil, fmt.Errorf("gf2m: primitive polynomial must be nonzero")
	}

	n := (1 << uint(m)) - 1

	t := &Tables{
		M:       m,
		N:       n,
		AlphaTo: make([]uint16, n+1),
		IndexOf: make([]uint16, n+1),
	}

	t.IndexOf[0] = uint16(n) // log(0) sentinel, never a valid exponent
	t.AlphaTo[n] = 0         // alpha**-inf = 0

	sr := 1
	for i := 0; i < n; i++ {
		t.IndexOf[sr] = uint16(i)
		t.AlphaTo[i] = uint16(sr)
		sr <<= 1
		if sr&(1<<uint(m)) != 0 {
			sr ^= int(poly)
		}
		sr &= n
	}
	if sr != 1 {
		return nil, fmt.Errorf("gf2m: polynomial 0x%x is not primitive for m=%d", poly, m)
	}

	return t, nil
}

// Mul multiplies two field elements. Either operand may be zero.
func (t *Tables) Mul(a, b uint16) uint16 {
	if a == 0 || b == 0 {
		return 0
	}
	sum := int(t.IndexOf[a]) + int(t.IndexOf[b])
	if sum >= t.N {
		sum -= t.N
	}
	return t.AlphaTo[sum]
}

// Add is field addition, i.e. XOR. Kept as a named function so call sites
// read as field arithmetic rather than a bit trick.
func Add(a, b uint16) uint16 {
	return a ^ b
}

// Pow raises alpha to the e-th power, e may be any integer (reduced mod N).
func (t *Tables) Pow(e int) uint16 {
	e %= t.N
	if e < 0 {
		e += t.N
	}
	return t.AlphaTo[e]
}

// Inv returns the multiplicative inverse of a nonzero field element.
func (t *Tables) Inv(a uint16) uint16 {
	if a == 0 {
		panic("gf2m: inverse of zero")
	}
	idx := int(t.IndexOf[a])
	return t.AlphaTo[(t.N-idx)%t.N]
}

// EvalBinaryPoly evaluates, via Horner's method, a polynomial with GF(2)
// (0/1) coefficients at a field element x. coeffs[i] is the coefficient of
// x^i, low degree first.
func (t *Tables) EvalBinaryPoly(coeffs []byte, x uint16) uint16 {
	var result uint16
	for i := len(coeffs) - 1; i >= 0; i-- {
		result = t.Mul(result, x)
		if coeffs[i] != 0 {
			result ^= 1
		}
	}
	return result
}
