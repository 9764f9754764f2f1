package soxr

import (
	"github.com/tphakala/go-soxr/internal/engine"
	"github.com/tphakala/go-soxr/internal/sampleconv"
	"github.com/tphakala/go-soxr/internal/simdops"
)

// handle is the engine behind a Session, erased over its sample precision.
type handle interface {
	process(in, out Buffer, inFrames, outFrames int, q *sampleconv.Quantizer) (consumed, produced int, err error)
	clear()
	setIORatio(ratio float64, slew int) error
	delay() float64
	err() error
	setError(err error)
	channels() int
	setChannels(n int) error
	name() string
	info() engine.Info
	response(freqs []float64) []float64
	release() error
}

// typedHandle owns an engine of one precision and the planar staging
// buffers that caller samples are converted through.
type typedHandle[F simdops.Float] struct {
	r       *engine.Resampler[F]
	in, out [][]F
}

func newHandle(cfg engine.Config, double bool) (handle, error) {
	if double {
		return newTypedHandle[float64](cfg)
	}
	return newTypedHandle[float32](cfg)
}

func newTypedHandle[F simdops.Float](cfg engine.Config) (*typedHandle[F], error) {
	r, err := engine.New[F](cfg)
	if err != nil {
		return nil, err
	}
	return &typedHandle[F]{r: r}, nil
}

// stage returns planes of n frames, growing buf as needed.
func (h *typedHandle[F]) stage(buf *[][]F, n int) [][]F {
	ch := h.r.Channels()
	if len(*buf) != ch {
		*buf = make([][]F, ch)
	}
	for c := range *buf {
		if cap((*buf)[c]) < n {
			(*buf)[c] = make([]F, n)
		}
		(*buf)[c] = (*buf)[c][:n]
	}
	return *buf
}

func (h *typedHandle[F]) process(in, out Buffer, inFrames, outFrames int, q *sampleconv.Quantizer) (int, int, error) {
	ch := h.r.Channels()
	var src [][]F
	if in != nil {
		src = h.stage(&h.in, inFrames)
		loadBuffer(in, src, ch)
	}
	dst := h.stage(&h.out, outFrames)

	consumed, produced, err := h.r.Process(src, dst)
	if err != nil {
		return 0, 0, err
	}
	for c := range dst {
		dst[c] = dst[c][:produced]
	}
	storeBuffer(q, out, dst, ch)
	return consumed, produced, nil
}

func (h *typedHandle[F]) clear()                             { h.r.Clear() }
func (h *typedHandle[F]) delay() float64                     { return h.r.Delay() }
func (h *typedHandle[F]) err() error                         { return h.r.Err() }
func (h *typedHandle[F]) setError(err error)                 { h.r.SetError(err) }
func (h *typedHandle[F]) channels() int                      { return h.r.Channels() }
func (h *typedHandle[F]) setChannels(n int) error            { return h.r.SetChannels(n) }
func (h *typedHandle[F]) name() string                       { return h.r.Name() }
func (h *typedHandle[F]) info() engine.Info                  { return h.r.Info() }
func (h *typedHandle[F]) response(freqs []float64) []float64 { return h.r.Response(freqs) }

func (h *typedHandle[F]) setIORatio(ratio float64, slew int) error {
	return h.r.SetIORatio(ratio, slew)
}

// release drops the engine and staging memory. Releasing twice is harmless.
func (h *typedHandle[F]) release() error {
	h.r = nil
	h.in, h.out = nil, nil
	return nil
}
