package soxr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-soxr/internal/testutil"
)

func TestResample_Int16Mono(t *testing.T) {
	in := make([]int16, 1000)
	for i, v := range testutil.Sine(len(in), 200, 8000, 0.5) {
		in[i] = int16(v * 32767)
	}

	out, err := Resample(in, 8000, 16000, 1, nil)
	require.NoError(t, err)
	assert.Len(t, out, 2000)
}

func TestResample_Float32Stereo(t *testing.T) {
	left := testutil.Sine32(4410, 1000, 44100, 0.5)
	right := testutil.Sine32(4410, 2000, 44100, 0.25)
	in, err := Interleave(left, right)
	require.NoError(t, err)

	out, err := Resample(in, 44100, 48000, 2, nil)
	require.NoError(t, err)
	require.Zero(t, len(out)%2)
	assert.InDelta(t, 4800, len(out)/2, 1)

	planes, err := Deinterleave(out, 2)
	require.NoError(t, err)
	assert.InDelta(t, testutil.RMS(left), testutil.RMS(planes[0]), 0.01)
	assert.InDelta(t, testutil.RMS(right), testutil.RMS(planes[1]), 0.01)
}

func TestResample_KeepsScale(t *testing.T) {
	ioSpec, err := DefaultIOSpec().WithScale(0.5)
	require.NoError(t, err)

	in := testutil.Sine(2000, 500, 48000, 0.8)
	out, err := Resample(in, 48000, 48000, 1, &Options{IO: &ioSpec})
	require.NoError(t, err)
	assert.InDelta(t, 0.5*testutil.RMS(in), testutil.RMS(out), 0.01)
}

func TestResample_Errors(t *testing.T) {
	_, err := Resample(make([]float32, 10), 0, 48000, 1, nil)
	assert.ErrorIs(t, err, ErrCreate)

	_, err = Resample(make([]float32, 5), 44100, 48000, 2, nil)
	assert.ErrorIs(t, err, ErrShape)
}

func TestInterleave(t *testing.T) {
	got, err := Interleave([]int16{1, 2, 3}, []int16{4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, []int16{1, 4, 2, 5, 3, 6}, got)

	planes, err := Deinterleave(got, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]int16{{1, 2, 3}, {4, 5, 6}}, planes)

	empty, err := Interleave[float32]()
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestInterleave_Errors(t *testing.T) {
	_, err := Interleave([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrShape)

	_, err = Deinterleave([]float64{1, 2, 3}, 2)
	assert.ErrorIs(t, err, ErrShape)

	_, err = Deinterleave([]float64{1, 2}, 0)
	assert.ErrorIs(t, err, ErrShape)
}
