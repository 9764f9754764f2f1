// Package filter designs the prototype lowpass filters behind the resampling
// engine and splits them into polyphase coefficient banks.
package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-soxr/internal/mathutil"
	"github.com/tphakala/go-soxr/internal/simdops"
)

// ErrInvalidParams is returned for filter parameters that cannot be designed.
var ErrInvalidParams = errors.New("invalid filter parameters")

// KaiserWindow generates a Kaiser window of the specified length and β parameter.
//
//	w[n] = I₀(β·√(1 - ((n - α)/α)²)) / I₀(β),  α = (N-1)/2
//
// The window is symmetric: w[i] = w[length-1-i], and peaks at 1.
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return []float64{}
	}
	window := make([]float64, length)
	if length == 1 {
		window[0] = 1
		return window
	}

	alpha := float64(length-1) / windowCenter
	i0Beta := mathutil.BesselI0(beta)
	for n := range length {
		x := (float64(n) - alpha) / alpha
		window[n] = mathutil.BesselI0(beta*math.Sqrt(max(0, 1-x*x))) / i0Beta
	}
	return window
}

// Params describes a prototype lowpass filter sampled at Phases times the
// input rate. The prototype spans Taps input samples, so it has
// Phases*Taps-1 coefficients.
type Params struct {
	// Phases is the oversampling factor of the prototype (polyphase branches).
	Phases int

	// Taps is the number of input samples each output depends on.
	Taps int

	// Cutoff is the -6 dB point in cycles per input sample, in (0, 0.5).
	Cutoff float64

	// Attenuation is the stopband attenuation in dB; it selects the Kaiser β.
	Attenuation float64

	// Gain is the linear DC gain of every phase.
	Gain float64
}

// Validate checks if filter parameters are valid.
func (p *Params) Validate() error {
	if p.Phases < minPhases || p.Phases > maxPhases {
		return fmt.Errorf("%w: %d phases out of range [%d, %d]", ErrInvalidParams, p.Phases, minPhases, maxPhases)
	}
	if p.Taps < minTaps {
		return fmt.Errorf("%w: %d taps (minimum %d)", ErrInvalidParams, p.Taps, minTaps)
	}
	if p.Phases*p.Taps > maxProtoLen {
		return fmt.Errorf("%w: prototype of %d coefficients is too long", ErrInvalidParams, p.Phases*p.Taps)
	}
	if p.Cutoff <= 0 || p.Cutoff >= 0.5 {
		return fmt.Errorf("%w: cutoff %f must be in (0, 0.5)", ErrInvalidParams, p.Cutoff)
	}
	if p.Attenuation < 0 {
		return fmt.Errorf("%w: attenuation %f dB must be positive", ErrInvalidParams, p.Attenuation)
	}
	if p.Gain <= 0 {
		return fmt.Errorf("%w: gain %f must be positive", ErrInvalidParams, p.Gain)
	}
	return nil
}

// DesignPrototype designs the Kaiser windowed-sinc prototype described by p.
// The result is symmetric, has odd length Phases*Taps-1 and sums to
// Phases*Gain, so each polyphase branch has DC gain Gain.
func DesignPrototype(p Params) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := p.Phases*p.Taps - 1
	window := KaiserWindow(n, mathutil.KaiserBeta(p.Attenuation))
	fc := p.Cutoff / float64(p.Phases)
	center := float64(n-1) / windowCenter

	proto := make([]float64, n)
	for i := range n {
		x := float64(i) - center
		var s float64
		if math.Abs(x) < sincZeroThreshold {
			s = windowCenter * fc
		} else {
			s = math.Sin(windowCenter*math.Pi*fc*x) / (math.Pi * x)
		}
		proto[i] = s * window[i]
	}

	ops := simdops.For[float64]()
	if sum := ops.Sum(proto); math.Abs(sum) > sincZeroThreshold {
		ops.Scale(proto, proto, p.Gain*float64(p.Phases)/sum)
	}
	return proto, nil
}

// FilterResponse holds the frequency response of a filter.
type FilterResponse struct {
	// Frequencies at which response was calculated (normalized, 0 to 0.5)
	Frequencies []float64

	// Magnitude response at each frequency (linear scale)
	Magnitude []float64
}

// ComputeFrequencyResponse evaluates the DTFT magnitude of coeffs at
// numPoints frequencies from DC up to (but excluding) Nyquist.
func ComputeFrequencyResponse(coeffs []float64, numPoints int) FilterResponse {
	if numPoints <= 0 {
		numPoints = defaultResponsePoints
	}

	response := FilterResponse{
		Frequencies: make([]float64, numPoints),
		Magnitude:   make([]float64, numPoints),
	}
	for k := range numPoints {
		freq := float64(k) / float64(2*numPoints)
		response.Frequencies[k] = freq
		response.Magnitude[k] = MagnitudeAt(coeffs, freq)
	}
	return response
}

// MagnitudeAt returns |H(f)| of coeffs at normalized frequency f (cycles per sample).
func MagnitudeAt(coeffs []float64, freq float64) float64 {
	omega := 2 * math.Pi * freq
	var re, im float64
	for n, h := range coeffs {
		angle := omega * float64(n)
		re += h * math.Cos(angle)
		im -= h * math.Sin(angle)
	}
	return math.Hypot(re, im)
}

// MagnitudeDB converts linear magnitude to decibels.
func MagnitudeDB(magnitude float64) float64 {
	const (
		minMagnitude = 1e-10 // Avoid log(0)
		dbMultiplier = 20.0  // 20*log10 for magnitude
	)

	if magnitude < minMagnitude {
		magnitude = minMagnitude
	}
	return dbMultiplier * math.Log10(magnitude)
}
