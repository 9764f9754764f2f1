package soxr

import "math"

// Resample converts a whole interleaved buffer in one call. The datatype
// of opts.IO, if given, is replaced by the one matching T; its scale and
// flags are kept.
func Resample[T Sample](in []T, inputRate, outputRate float64, channels int, opts *Options) ([]T, error) {
	const fn = "Resample"
	var o Options
	if opts != nil {
		o = *opts
	}
	ioSpec := DefaultIOSpec()
	if o.IO != nil {
		ioSpec = *o.IO
	}
	ioSpec.in = datatypeOf[T](false)
	ioSpec.out = ioSpec.in
	o.IO = &ioSpec

	s, err := Create(inputRate, outputRate, channels, &o)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	src := Interleaved(in)
	frames, err := src.frames(fn, channels)
	if err != nil {
		return nil, err
	}

	estimate := int(math.Ceil(float64(frames)*outputRate/inputRate)) + 1
	result := make([]T, 0, estimate*channels)
	block := make([]T, resampleBlock*channels)
	for pos := 0; pos < frames; {
		consumed, produced, err := s.Process(src.slice(pos, channels), Interleaved(block))
		if err != nil {
			return nil, err
		}
		pos += consumed
		result = append(result, block[:produced*channels]...)
	}
	for {
		_, produced, err := s.Process(nil, Interleaved(block))
		if err != nil {
			return nil, err
		}
		if produced == 0 {
			break
		}
		result = append(result, block[:produced*channels]...)
	}
	return result, nil
}

// Interleave merges equal-length channel slices into one interleaved slice.
func Interleave[T Sample](channels ...[]T) ([]T, error) {
	if len(channels) == 0 {
		return nil, nil
	}
	frames, err := split[T](channels).frames("Interleave", len(channels))
	if err != nil {
		return nil, err
	}
	ch := len(channels)
	out := make([]T, frames*ch)
	for c, plane := range channels {
		for i, v := range plane {
			out[i*ch+c] = v
		}
	}
	return out, nil
}

// Deinterleave splits interleaved samples into one slice per channel.
func Deinterleave[T Sample](samples []T, channels int) ([][]T, error) {
	if channels < 1 {
		return nil, shapeError("Deinterleave", "invalid # of channels %d", channels)
	}
	frames, err := interleaved[T](samples).frames("Deinterleave", channels)
	if err != nil {
		return nil, err
	}
	out := make([][]T, channels)
	for c := range out {
		plane := make([]T, frames)
		for i := range plane {
			plane[i] = samples[i*channels+c]
		}
		out[c] = plane
	}
	return out, nil
}
