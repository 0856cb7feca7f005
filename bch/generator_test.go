package bch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kb3mpl/dvbs2rx/internal/gf2m"
)

func TestBuildGenerator_RootsAtOddPowers(t *testing.T) {
	for _, p := range AllParams() {
		p := p
		t.Run("", func(t *testing.T) {
			tbl, err := gf2m.NewTables(p.M, p.Poly)
			require.NoError(t, err)

			gen, err := BuildGenerator(tbl, p.T)
			require.NoError(t, err)
			assert.Equal(t, p.N-p.K, gen.Degree, "generator degree must equal N-K")

			coeffs := make([]uint16, len(gen.Coeffs))
			for i, c := range gen.Coeffs {
				coeffs[i] = uint16(c)
			}
			for i := 1; i <= 2*p.T-1; i += 2 {
				root := tbl.Pow(i)
				assert.Equal(t, uint16(0), evalFieldPoly(tbl, coeffs, root),
					"alpha^%d must be a root of g(x)", i)
			}

			assert.Equal(t, byte(1), gen.Coeffs[0], "g(x) must have nonzero constant term")
			assert.Equal(t, byte(1), gen.Coeffs[gen.Degree], "g(x) must be monic")
		})
	}
}
