// Package sampleconv moves samples between the caller's representations
// (int16, int32, float32, float64; interleaved or planar) and the float
// planes the engine filters.
package sampleconv

import (
	"math"
	"math/rand/v2"

	"github.com/tphakala/go-soxr/internal/simdops"
)

// Sample is the set of sample representations a buffer may hold.
type Sample interface {
	float32 | float64 | int32 | int16
}

type kind int

const (
	kindFloat kind = iota
	kindInt16
	kindInt32
)

// Full-scale values of the integer representations.
const (
	fullScale16 = 32768.0
	fullScale32 = 2147483648.0
	max16       = 32767.0
	max32       = 2147483647.0
)

func kindOf[T Sample]() kind {
	var zero T
	switch any(zero).(type) {
	case int16:
		return kindInt16
	case int32:
		return kindInt32
	default:
		return kindFloat
	}
}

// Load reads len(dst) samples from src, taking every stride-th element,
// and normalises integers to [-1, 1).
func Load[T Sample, F simdops.Float](dst []F, src []T, stride int) {
	if same, ok := any(src).([]F); ok && stride == 1 {
		copy(dst, same[:len(dst)])
		return
	}
	var norm F = 1
	switch kindOf[T]() {
	case kindInt16:
		norm = 1 / fullScale16
	case kindInt32:
		norm = 1 / fullScale32
	}
	for i := range dst {
		dst[i] = F(src[i*stride]) * norm
	}
}

// Quantizer writes engine output in the caller's representation. Integer
// output is rounded and saturated; int16 output is TPDF dithered when
// dithering is enabled.
type Quantizer struct {
	gain   float64
	dither bool
	seed   uint64
	rng    *rand.Rand
	clips  int64
}

// NewQuantizer returns a quantizer applying a linear gain. The dither noise
// sequence is reproducible for a given seed.
func NewQuantizer(gain float64, dither bool, seed uint64) *Quantizer {
	q := &Quantizer{gain: gain, dither: dither, seed: seed}
	q.Reset()
	return q
}

// Clips returns the number of samples saturated since the last Reset.
func (q *Quantizer) Clips() int64 {
	return q.clips
}

// Reset clears the clip count and restarts the dither sequence.
func (q *Quantizer) Reset() {
	q.clips = 0
	q.rng = rand.New(rand.NewPCG(q.seed, q.seed^0x9e3779b97f4a7c15))
}

// tpdf returns triangular noise of ±1 LSB.
func (q *Quantizer) tpdf() float64 {
	return q.rng.Float64() - q.rng.Float64()
}

// Store writes src into every stride-th element of dst.
func Store[F simdops.Float, T Sample](q *Quantizer, dst []T, src []F, stride int) {
	k := kindOf[T]()
	if k == kindFloat {
		g := F(q.gain)
		for i, v := range src {
			dst[i*stride] = T(v * g)
		}
		return
	}

	full, hi := fullScale32, max32
	if k == kindInt16 {
		full, hi = fullScale16, max16
	}
	lo := -full
	g := q.gain * full
	dither := q.dither && k == kindInt16
	for i, v := range src {
		x := float64(v) * g
		if dither {
			x += q.tpdf()
		}
		r := math.Round(x)
		switch {
		case r > hi:
			r = hi
			q.clips++
		case r < lo:
			r = lo
			q.clips++
		case math.IsNaN(r):
			r = 0
		}
		dst[i*stride] = T(r)
	}
}
