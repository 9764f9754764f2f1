package filter

import "fmt"

// InterpOrder represents the coefficient interpolation order between phases.
type InterpOrder int

const (
	// InterpLinear interpolates linearly between adjacent phases.
	InterpLinear InterpOrder = 1
	// InterpCubic interpolates with a four-point Lagrange cubic.
	InterpCubic InterpOrder = 3
)

// Bank is a prototype filter split into polyphase branches, laid out for
// dot products against an oldest-first history window of Taps samples.
//
// Branch q holds g[Phases*(Taps-1-k) + q] at tap k, where g is the
// prototype shifted right by one coefficient so that it spans exactly
// Phases*Taps points. Coefficients outside the prototype are zero.
//
// With InterpLinear, Rows has Phases+1 branches (the last one lets phase
// Phases-1 interpolate towards the next input sample). With InterpCubic,
// A, B, C and D hold the polynomial a + x(b + x(c + x·d)) per branch.
type Bank struct {
	Phases int
	Taps   int
	Order  InterpOrder

	Rows       [][]float64
	A, B, C, D [][]float64
}

// NewBank decomposes proto (of length phases*taps-1) into a polyphase bank.
func NewBank(proto []float64, phases, taps int, order InterpOrder) (*Bank, error) {
	if phases < minPhases || taps < minTaps {
		return nil, fmt.Errorf("%w: %d phases x %d taps", ErrInvalidParams, phases, taps)
	}
	if len(proto) != phases*taps-1 {
		return nil, fmt.Errorf("%w: prototype length %d, want %d", ErrInvalidParams, len(proto), phases*taps-1)
	}

	b := &Bank{Phases: phases, Taps: taps, Order: order}
	branch := func(q int) []float64 {
		row := make([]float64, taps)
		for k := range row {
			idx := phases*(taps-1-k) + q - 1
			if idx >= 0 && idx < len(proto) {
				row[k] = proto[idx]
			}
		}
		return row
	}

	switch order {
	case InterpLinear:
		b.Rows = make([][]float64, phases+1)
		for q := range b.Rows {
			b.Rows[q] = branch(q)
		}

	case InterpCubic:
		b.A = make([][]float64, phases)
		b.B = make([][]float64, phases)
		b.C = make([][]float64, phases)
		b.D = make([][]float64, phases)
		prev, cur, next := branch(-1), branch(0), branch(1)
		for q := range phases {
			after := branch(q + 2)
			a, bb, c, d := make([]float64, taps), make([]float64, taps), make([]float64, taps), make([]float64, taps)
			for k := range taps {
				fm1, f0, f1, f2 := prev[k], cur[k], next[k], after[k]
				cc := cubicCenterCoeff*(f1+fm1) - f0
				dd := cubicDCoeff * (f2 - f1 + fm1 - f0 - cubicCMultiplier*cc)
				a[k] = f0
				bb[k] = f1 - f0 - dd - cc
				c[k] = cc
				d[k] = dd
			}
			b.A[q], b.B[q], b.C[q], b.D[q] = a, bb, c, d
			prev, cur, next = cur, next, after
		}

	default:
		return nil, fmt.Errorf("%w: interpolation order %d", ErrInvalidParams, order)
	}
	return b, nil
}

// Coefficient evaluates the bank at tap k for fractional phase q+x.
func (b *Bank) Coefficient(k, q int, x float64) float64 {
	if b.Order == InterpLinear {
		return b.Rows[q][k] + x*(b.Rows[q+1][k]-b.Rows[q][k])
	}
	return b.A[q][k] + x*(b.B[q][k]+x*(b.C[q][k]+x*b.D[q][k]))
}

// Bytes returns the coefficient storage of the bank for elements of the given size.
func (b *Bank) Bytes(elemSize int) int {
	rows := len(b.Rows) + len(b.A) + len(b.B) + len(b.C) + len(b.D)
	return rows * b.Taps * elemSize
}

// TableBytes predicts Bytes for a bank that has not been built yet.
func TableBytes(phases, taps int, order InterpOrder, elemSize int) int {
	if order == InterpLinear {
		return (phases + 1) * taps * elemSize
	}
	return 4 * phases * taps * elemSize
}
