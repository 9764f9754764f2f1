package soxr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatatype_Properties(t *testing.T) {
	tests := []struct {
		dt      Datatype
		name    string
		split   bool
		integer bool
		bytes   int
	}{
		{Float32I, "float32-interleaved", false, false, 4},
		{Float64I, "float64-interleaved", false, false, 8},
		{Int32I, "int32-interleaved", false, true, 4},
		{Int16I, "int16-interleaved", false, true, 2},
		{Float32S, "float32-split", true, false, 4},
		{Float64S, "float64-split", true, false, 8},
		{Int32S, "int32-split", true, true, 4},
		{Int16S, "int16-split", true, true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.dt.Valid())
			assert.Equal(t, tt.name, tt.dt.String())
			assert.Equal(t, tt.split, tt.dt.IsSplit())
			assert.Equal(t, tt.integer, tt.dt.IsInteger())
			assert.Equal(t, tt.bytes, tt.dt.BytesPerSample())
		})
	}
}

func TestDatatype_Invalid(t *testing.T) {
	for _, dt := range []Datatype{-1, 8, 100} {
		assert.False(t, dt.Valid())
		assert.False(t, dt.IsSplit())
		assert.Zero(t, dt.BytesPerSample())
		assert.Contains(t, dt.String(), "Datatype(")
	}
}

func TestBuffer_Datatype(t *testing.T) {
	assert.Equal(t, Float32I, Interleaved([]float32{}).Datatype())
	assert.Equal(t, Float64I, Interleaved([]float64{}).Datatype())
	assert.Equal(t, Int32I, Interleaved([]int32{}).Datatype())
	assert.Equal(t, Int16I, Interleaved([]int16{}).Datatype())
	assert.Equal(t, Float32S, Split([]float32{}).Datatype())
	assert.Equal(t, Float64S, Split([]float64{}).Datatype())
	assert.Equal(t, Int32S, Split([]int32{}).Datatype())
	assert.Equal(t, Int16S, Split([]int16{}).Datatype())
}

func TestBuffer_Frames(t *testing.T) {
	n, err := Interleaved(make([]int16, 12)).frames("test", 3)
	assert.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = Interleaved(make([]int16, 7)).frames("test", 2)
	assert.ErrorIs(t, err, ErrShape)

	n, err = Split(make([]float32, 5), make([]float32, 5)).frames("test", 2)
	assert.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = Split(make([]float32, 5)).frames("test", 2)
	assert.ErrorIs(t, err, ErrShape)

	_, err = Split(make([]float32, 5), make([]float32, 4)).frames("test", 2)
	var se *ShapeError
	if assert.ErrorAs(t, err, &se) {
		assert.Equal(t, "test", se.Func)
		assert.Contains(t, se.Msg, "channel 1")
	}
}

func TestBuffer_Slice(t *testing.T) {
	b := Interleaved([]int32{1, 2, 3, 4, 5, 6}).slice(1, 2)
	assert.Equal(t, interleaved[int32]{3, 4, 5, 6}, b)

	s := Split([]int32{1, 2, 3}, []int32{4, 5, 6}).slice(2, 2)
	assert.Equal(t, split[int32]{{3}, {6}}, s)
}
