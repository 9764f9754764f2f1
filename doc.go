// Package soxr converts audio between sample rates in pure Go.
//
// It follows the design of libsoxr, the SoX Resampler library by Rob
// Sykes: a Kaiser-windowed polyphase FIR filter with selectable phase
// response, coefficient interpolation and an optional variable-rate mode.
//
// # Features
//
//   - Quality recipes from 4-point cubic (QuickQuality) to 32-bit precision
//   - Linear, intermediate, minimum and maximum phase responses
//   - Variable-rate resampling with smooth ratio slewing
//   - int16, int32, float32 and float64 samples, interleaved or split
//   - TPDF dither and clip counting for integer output
//   - Per-channel parallel filtering
//   - SIMD kernels via github.com/tphakala/simd
//
// # Quick Start
//
// For one-shot conversion of a whole interleaved buffer:
//
//	out, err := soxr.Resample(samples, 44100, 48000, 2, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For streaming, create a Session and call Process until the input is
// exhausted, then pass a nil input to drain the filter:
//
//	s, err := soxr.Create(44100, 48000, 2, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	out := make([]float32, 2*4096)
//	for chunk := range chunks {
//	    for len(chunk) > 0 {
//	        consumed, produced, err := s.Process(soxr.Interleaved(chunk), soxr.Interleaved(out))
//	        if err != nil {
//	            log.Fatal(err)
//	        }
//	        chunk = chunk[consumed*2:]
//	        write(out[:produced*2])
//	    }
//	}
//	for {
//	    _, produced, err := s.Process(nil, soxr.Interleaved(out))
//	    if err != nil || produced == 0 {
//	        break
//	    }
//	    write(out[:produced*2])
//	}
//
// # Configuration
//
// A session is configured by three bundles, each validated when built:
//
//   - [IOSpec]: input and output [Datatype], output gain and dither.
//   - [QualitySpec]: a [QualityRecipe] with [QualityFlags] and optional
//     overrides of precision, phase response, passband and gain.
//   - [RuntimeSpec]: thread count, DFT sizes and coefficient table budget.
//
// # Errors
//
// Engine failures are [*Error] values classified by operation, so
// errors.Is(err, ErrCreate) and errors.Is(err, ErrProcess) tell them apart.
// Buffers that do not fit the channel count are rejected with a
// [*ShapeError] before any conversion happens.
//
// # Thread Safety
//
// A [Session] must not be used by more than one goroutine at a time.
// Distinct sessions are independent.
package soxr
