package filter

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// ConvertPhase returns a filter with the magnitude response of h and the
// requested phase response: 0 is minimum phase, 50 leaves h untouched
// (linear phase) and 100 is maximum phase. Values in between blend the
// minimum-phase and linear-phase responses.
//
// The minimum-phase response comes from folding the real cepstrum of h,
// computed with FFTs of fftLen points. fftLen must be a power of two of at
// least twice len(h).
func ConvertPhase(h []float64, response float64, fftLen int) ([]float64, error) {
	n := len(h)
	if response < 0 || response > maxPhaseResponse {
		return nil, fmt.Errorf("%w: phase response %f must be in [0, 100]", ErrInvalidParams, response)
	}
	if response == LinearPhaseResponse || n < 2 {
		return append([]float64(nil), h...), nil
	}
	if fftLen < 2*n || fftLen&(fftLen-1) != 0 {
		return nil, fmt.Errorf("%w: FFT length %d too small for %d coefficients", ErrInvalidParams, fftLen, n)
	}

	fft := fourier.NewFFT(fftLen)
	scale := 1 / float64(fftLen)

	seq := make([]float64, fftLen)
	copy(seq, h)
	spec := fft.Coefficients(nil, seq)

	peak := 0.0
	for _, c := range spec {
		peak = max(peak, cmplx.Abs(c))
	}
	floor := peak * cepstrumFloor

	logMag := make([]complex128, len(spec))
	for k, c := range spec {
		logMag[k] = complex(math.Log(max(cmplx.Abs(c), floor)), 0)
	}

	// Real cepstrum, folded onto positive quefrencies.
	ceps := fft.Sequence(seq, logMag)
	half := fftLen / 2
	ceps[0] *= scale
	ceps[half] *= scale
	for i := 1; i < half; i++ {
		ceps[i] *= 2 * scale
		ceps[fftLen-i] = 0
	}
	minLog := fft.Coefficients(nil, ceps)

	// Blend towards the zero-phase-shifted linear response of length n.
	tau := float64(n-1) / 2
	blend := 1 - response/LinearPhaseResponse
	target := make([]complex128, len(minLog))
	for k, c := range minLog {
		omega := 2 * math.Pi * float64(k) / float64(fftLen)
		linPhase := -omega * tau
		phi := linPhase + blend*(imag(c)-linPhase)
		target[k] = cmplx.Rect(math.Exp(real(c)), phi)
	}

	out := fft.Sequence(nil, target)
	result := make([]float64, n)
	for i := range result {
		result[i] = out[i] * scale
	}
	return result, nil
}

// PeakIndex returns the index of the coefficient with the largest magnitude.
func PeakIndex(h []float64) int {
	best, idx := -1.0, 0
	for i, v := range h {
		if a := math.Abs(v); a > best {
			best, idx = a, i
		}
	}
	return idx
}
