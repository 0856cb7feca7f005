package bch

import "github.com/kb3mpl/dvbs2rx/internal/gf2m"

// Generator is a BCH generator polynomial g(x) = lcm(m_1(x), m_3(x), ...,
// m_{2t-1}(x)), the product of the distinct minimal polynomials of
// alpha^1, alpha^3, ..., alpha^(2t-1).
//
// Coeffs holds binary (0/1) coefficients, low degree first: Coeffs[i] is
// the coefficient of x^i. len(Coeffs) == Degree+1, and Degree must equal
// Params.N - Params.K for the code to be well-formed.
type Generator struct {
	Coeffs []byte
	Degree int
}

// BuildGenerator constructs the generator polynomial for a t-error-correcting
// binary BCH code over the field described by tbl.
//
// Grounded on the same cyclotomic-coset technique used by
// other_examples/45d3f2cc_SarahRoseLives-HackDVBS__dvbs-reedsolomon.go.go's
// generator-by-repeated-multiplication, generalized here from GF(256)
// Reed-Solomon (where every root contributes its own degree-1 factor) to
// binary BCH, where conjugate roots sharing a cyclotomic coset collapse
// into one minimal polynomial.
func BuildGenerator(tbl *gf2m.Tables, t int) (*Generator, error) {
	if t <= 0 {
		return nil, &ConstructionError{Msg: "t must be positive"}
	}

	poly := []byte{1} // start at the multiplicative identity, degree 0
	seen := make(map[int]bool)

	for i := 1; i <= 2*t-1; i += 2 {
		if seen[i] {
			continue
		}
		coset := cyclotomicCoset(i, tbl.N)
		for _, j := range coset {
			seen[j] = true
		}
		m, err := minimalPolynomial(tbl, coset)
		if err != nil {
			return nil, err
		}
		poly = polyMulGF2(poly, m)
	}

	return &Generator{Coeffs: poly, Degree: len(poly) - 1}, nil
}

// cyclotomicCoset returns the cyclotomic coset of i modulo n: the orbit of
// i under repeated doubling mod n, {i, 2i mod n, 4i mod n, ...} up to the
// point it cycles back to i. Every element of this coset shares the same
// minimal polynomial, since squaring is the Frobenius automorphism of
// GF(2^m) and therefore permutes the roots of any binary polynomial among
// themselves.
func cyclotomicCoset(i, n int) []int {
	coset := []int{i}
	j := (2 * i) % n
	for j != i {
		coset = append(coset, j)
		j = (2 * j) % n
	}
	return coset
}

// minimalPolynomial computes prod_{j in coset} (x + alpha^j) over GF(2^m),
// then asserts the result collapses to binary (GF(2)) coefficients, which
// it always does for a genuine cyclotomic coset: the coefficients are
// elementary symmetric functions of Frobenius-conjugate roots, hence fixed
// by the Frobenius map, hence in the base field GF(2).
func minimalPolynomial(tbl *gf2m.Tables, coset []int) ([]byte, error) {
	// poly holds field-element coefficients (not yet known to be binary),
	// low degree first.
	poly := []uint16{1}
	for _, j := range coset {
		root := tbl.Pow(j)
		poly = polyMulField(tbl, poly, []uint16{root, 1})
	}

	out := make([]byte, len(poly))
	for i, c := range poly {
		if c != 0 && c != 1 {
			return nil, &ConstructionError{Msg: "minimal polynomial did not collapse to GF(2); field tables are inconsistent"}
		}
		out[i] = byte(c)
	}
	return out, nil
}

// polyMulField multiplies two polynomials with GF(2^m) field-element
// coefficients, low degree first.
func polyMulField(tbl *gf2m.Tables, a, b []uint16) []uint16 {
	out := make([]uint16, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			out[i+j] = gf2m.Add(out[i+j], tbl.Mul(av, bv))
		}
	}
	return out
}

// polyMulGF2 multiplies two binary (GF(2) coefficient) polynomials, low
// degree first, via carry-less XOR multiplication.
func polyMulGF2(a, b []byte) []byte {
	out := make([]byte, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			out[i+j] ^= av & bv
		}
	}
	return out
}
