package sampleconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("int16 interleaved", func(t *testing.T) {
		src := []int16{-32768, 1, 16384, 2}
		dst := make([]float64, 2)
		Load(dst, src, 2)
		assert.Equal(t, []float64{-1, 0.5}, dst)
	})

	t.Run("int32", func(t *testing.T) {
		src := []int32{1 << 30}
		dst := make([]float32, 1)
		Load(dst, src, 1)
		assert.InDelta(t, 0.5, float64(dst[0]), 1e-9)
	})

	t.Run("same type copies", func(t *testing.T) {
		src := []float32{0.25, -0.5, 3}
		dst := make([]float32, 2)
		Load(dst, src, 1)
		assert.Equal(t, []float32{0.25, -0.5}, dst)
	})
}

func TestStore_Float(t *testing.T) {
	q := NewQuantizer(2, true, 1)
	dst := make([]float32, 4)
	Store(q, dst, []float64{0.25, 1}, 2)
	assert.Equal(t, []float32{0.5, 0, 2, 0}, dst)
	assert.Zero(t, q.Clips(), "float output never clips")
}

func TestStore_Int16Clipping(t *testing.T) {
	q := NewQuantizer(1, false, 1)
	dst := make([]int16, 4)
	Store(q, dst, []float32{1.5, -2, 0.5, -0.5}, 1)
	assert.Equal(t, []int16{32767, -32768, 16384, -16384}, dst)
	assert.Equal(t, int64(2), q.Clips())

	q.Reset()
	assert.Zero(t, q.Clips())
}

func TestStore_Int32(t *testing.T) {
	q := NewQuantizer(0.5, true, 1)
	dst := make([]int32, 2)
	Store(q, dst, []float64{1, -1}, 1)
	assert.Equal(t, []int32{1 << 30, -(1 << 30)}, dst, "dither applies to int16 only")
}

func TestStore_Int16Dither(t *testing.T) {
	const n = 4096
	src := make([]float64, n)
	for i := range src {
		src[i] = 0.1
	}
	exact := 0.1 * fullScale16

	q := NewQuantizer(1, true, 7)
	dst := make([]int16, n)
	Store(q, dst, src, 1)

	var sum float64
	distinct := map[int16]bool{}
	for _, v := range dst {
		assert.InDelta(t, exact, float64(v), 2)
		sum += float64(v)
		distinct[v] = true
	}
	assert.Greater(t, len(distinct), 1, "dither must vary the output")
	assert.InDelta(t, exact, sum/n, 0.1)

	// Same seed, same noise.
	again := make([]int16, n)
	q.Reset()
	Store(q, again, src, 1)
	assert.Equal(t, dst, again)
}
