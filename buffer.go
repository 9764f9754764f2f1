package soxr

import (
	"github.com/tphakala/go-soxr/internal/sampleconv"
	"github.com/tphakala/go-soxr/internal/simdops"
)

// Sample is the set of Go types a Buffer may hold.
type Sample = sampleconv.Sample

// Buffer is a view over caller memory holding audio frames. Buffers are
// created with Interleaved or Split; the element type fixes the datatype.
type Buffer interface {
	// Datatype reports the sample layout of the buffer.
	Datatype() Datatype

	frames(fn string, channels int) (int, error)
	slice(from, channels int) Buffer
	load32(dst [][]float32, channels int)
	load64(dst [][]float64, channels int)
	store32(q *sampleconv.Quantizer, src [][]float32, channels int)
	store64(q *sampleconv.Quantizer, src [][]float64, channels int)
}

// Interleaved views samples as frames of all channels laid out one after
// another.
func Interleaved[T Sample](samples []T) Buffer {
	return interleaved[T](samples)
}

// Split views one slice per channel. All slices must have the same length.
func Split[T Sample](channels ...[]T) Buffer {
	return split[T](channels)
}

type interleaved[T Sample] []T

func (b interleaved[T]) Datatype() Datatype { return datatypeOf[T](false) }

func (b interleaved[T]) frames(fn string, channels int) (int, error) {
	if len(b)%channels != 0 {
		return 0, shapeError(fn, "interleaved buffer of %d samples is not a whole number of %d-channel frames",
			len(b), channels)
	}
	return len(b) / channels, nil
}

func (b interleaved[T]) slice(from, channels int) Buffer { return b[from*channels:] }

func (b interleaved[T]) load32(dst [][]float32, channels int) { loadInterleaved(dst, []T(b), channels) }
func (b interleaved[T]) load64(dst [][]float64, channels int) { loadInterleaved(dst, []T(b), channels) }

func (b interleaved[T]) store32(q *sampleconv.Quantizer, src [][]float32, channels int) {
	storeInterleaved(q, []T(b), src, channels)
}

func (b interleaved[T]) store64(q *sampleconv.Quantizer, src [][]float64, channels int) {
	storeInterleaved(q, []T(b), src, channels)
}

func loadInterleaved[T Sample, F simdops.Float](dst [][]F, src []T, channels int) {
	for c, plane := range dst {
		sampleconv.Load(plane, src[c:], channels)
	}
}

func storeInterleaved[F simdops.Float, T Sample](q *sampleconv.Quantizer, dst []T, src [][]F, channels int) {
	if len(src) == 0 || len(src[0]) == 0 {
		return
	}
	if same, ok := any(dst).([]F); ok && channels == stereoChannels && q.Gain() == 1 {
		n := len(src[0])
		simdops.For[F]().Interleave2(same[:n*stereoChannels], src[0], src[1])
		return
	}
	for c, plane := range src {
		sampleconv.Store(q, dst[c:], plane, channels)
	}
}

type split[T Sample] [][]T

func (b split[T]) Datatype() Datatype { return datatypeOf[T](true) }

func (b split[T]) frames(fn string, channels int) (int, error) {
	if len(b) != channels {
		return 0, shapeError(fn, "split buffer has %d channel slices, want %d", len(b), channels)
	}
	n := len(b[0])
	for c, plane := range b[1:] {
		if len(plane) != n {
			return 0, shapeError(fn, "split channel %d has %d samples, channel 0 has %d", c+1, len(plane), n)
		}
	}
	return n, nil
}

func (b split[T]) slice(from, _ int) Buffer {
	out := make(split[T], len(b))
	for c, plane := range b {
		out[c] = plane[from:]
	}
	return out
}

func (b split[T]) load32(dst [][]float32, _ int) { loadSplit(dst, [][]T(b)) }
func (b split[T]) load64(dst [][]float64, _ int) { loadSplit(dst, [][]T(b)) }

func (b split[T]) store32(q *sampleconv.Quantizer, src [][]float32, _ int) {
	storeSplit(q, [][]T(b), src)
}

func (b split[T]) store64(q *sampleconv.Quantizer, src [][]float64, _ int) {
	storeSplit(q, [][]T(b), src)
}

func loadSplit[T Sample, F simdops.Float](dst [][]F, src [][]T) {
	for c, plane := range dst {
		sampleconv.Load(plane, src[c], 1)
	}
}

func storeSplit[F simdops.Float, T Sample](q *sampleconv.Quantizer, dst [][]T, src [][]F) {
	for c, plane := range src {
		sampleconv.Store(q, dst[c], plane, 1)
	}
}

// loadBuffer fills planes from the start of b.
func loadBuffer[F simdops.Float](b Buffer, planes [][]F, channels int) {
	switch p := any(planes).(type) {
	case [][]float32:
		b.load32(p, channels)
	case [][]float64:
		b.load64(p, channels)
	}
}

// storeBuffer writes planes to the start of b.
func storeBuffer[F simdops.Float](q *sampleconv.Quantizer, b Buffer, planes [][]F, channels int) {
	switch p := any(planes).(type) {
	case [][]float32:
		b.store32(q, p, channels)
	case [][]float64:
		b.store64(q, p, channels)
	}
}
