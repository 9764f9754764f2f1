package engine

import (
	"github.com/tphakala/go-soxr/internal/filter"
	"github.com/tphakala/go-soxr/internal/simdops"
)

// kernel computes one output sample from a window of history, oldest
// sample first, for the fractional position frac (in units of 2^-32).
type kernel[F simdops.Float] interface {
	dot(window []F, frac uint32) F
}

// phaseOf splits frac into a bank phase and the remaining fraction.
func phaseOf(frac uint32, phases uint64) (int, float64) {
	pf := uint64(frac) * phases
	return int(pf >> clockFracBits), float64(pf&uint64(clockFracMask)) / float64(clockOne)
}

// linearKernel interpolates linearly between two adjacent phases.
type linearKernel[F simdops.Float] struct {
	rows   [][]F
	phases uint64
	ops    *simdops.Ops[F]
}

func newLinearKernel[F simdops.Float](b *filter.Bank) *linearKernel[F] {
	return &linearKernel[F]{
		rows:   convertRows[F](b.Rows),
		phases: uint64(b.Phases),
		ops:    simdops.For[F](),
	}
}

func (k *linearKernel[F]) dot(window []F, frac uint32) F {
	p, x := phaseOf(frac, k.phases)
	y0 := k.ops.DotProductUnsafe(window, k.rows[p])
	y1 := k.ops.DotProductUnsafe(window, k.rows[p+1])
	return y0 + F(x)*(y1-y0)
}

// cubicBankKernel evaluates the cubic polynomial of each coefficient fused
// with the dot product.
type cubicBankKernel[F simdops.Float] struct {
	a, b, c, d [][]F
	phases     uint64
	ops        *simdops.Ops[F]
}

func newCubicBankKernel[F simdops.Float](b *filter.Bank) *cubicBankKernel[F] {
	return &cubicBankKernel[F]{
		a:      convertRows[F](b.A),
		b:      convertRows[F](b.B),
		c:      convertRows[F](b.C),
		d:      convertRows[F](b.D),
		phases: uint64(b.Phases),
		ops:    simdops.For[F](),
	}
}

func (k *cubicBankKernel[F]) dot(window []F, frac uint32) F {
	p, x := phaseOf(frac, k.phases)
	return k.ops.CubicInterpDot(window, k.a[p], k.b[p], k.c[p], k.d[p], F(x))
}

// hermiteKernel is the Quick recipe: 4-point cubic Hermite interpolation
// between window[1] and window[2].
type hermiteKernel[F simdops.Float] struct{}

func (hermiteKernel[F]) dot(window []F, frac uint32) F {
	x := F(float64(frac) / float64(clockOne))
	y0, y1, y2, y3 := window[0], window[1], window[2], window[3]

	a := -hermiteCoeff0_5*y0 + hermiteCoeff1_5*y1 - hermiteCoeff1_5*y2 + hermiteCoeff0_5*y3
	b := y0 - hermiteCoeff2_5*y1 + 2*y2 - hermiteCoeff0_5*y3
	c := -hermiteCoeff0_5*y0 + hermiteCoeff0_5*y2
	return ((a*x+b)*x+c)*x + y1
}

func convertRows[F simdops.Float](rows [][]float64) [][]F {
	out := make([][]F, len(rows))
	for i, row := range rows {
		out[i] = make([]F, len(row))
		simdops.Convert(out[i], row)
	}
	return out
}
