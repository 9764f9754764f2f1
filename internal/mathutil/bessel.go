// Package mathutil provides the window and length formulas used by the
// resampling filter design.
package mathutil

import (
	"math"
)

// BesselI0 computes the modified Bessel function of the first kind, order
// zero, by summing its power series until the terms stop contributing:
//
//	I₀(x) = Σ ((x/2)^k / k!)²
//
// The series converges quickly for the β values Kaiser windows use (β < 40)
// and is accurate to double precision there.
func BesselI0(x float64) float64 {
	q := x * x / 4
	sum, term := 1.0, 1.0
	for k := 1; k < besselMaxTerms; k++ {
		term *= q / float64(k*k)
		sum += term
		if term < sum*besselEpsilon {
			break
		}
	}
	return sum
}

// KaiserBeta computes the Kaiser window β parameter from the desired
// stopband attenuation in decibels.
//
//   - att > 50 dB: β = 0.1102 * (att - 8.7)
//   - 21 dB ≤ att ≤ 50 dB: β = 0.5842 * (att - 21)^0.4 + 0.07886 * (att - 21)
//   - att < 21 dB: β = 0
func KaiserBeta(attenuation float64) float64 {
	if attenuation > kaiserAttHigh {
		return kaiserBetaHighCoeff1 * (attenuation - kaiserBetaHighOffset)
	} else if attenuation >= kaiserAttMedium {
		delta := attenuation - kaiserAttMedium
		return kaiserBetaMediumCoeff1*math.Pow(delta, kaiserBetaMediumPower) + kaiserBetaMediumCoeff2*delta
	}
	return 0.0
}

// AttenuationForBits returns the stopband attenuation in dB needed for the
// given precision: one bit above the requested resolution.
func AttenuationForBits(bits float64) float64 {
	return (bits + 1) * DBPerBit
}

// EstimateTaps estimates how many input samples a Kaiser windowed-sinc
// filter must span to reach attenuation dB with a transition band of
// transitionBW cycles per input sample. The result is even and at least 4.
func EstimateTaps(attenuation, transitionBW float64) int {
	if transitionBW <= 0 {
		return minTapsPerPhase
	}
	n := (attenuation - kaiserLengthOffset) / (kaiserLengthMultiplier * transitionBW)
	taps := int(math.Ceil(n))
	if taps%2 != 0 {
		taps++
	}
	return max(taps, minTapsPerPhase)
}

// NextPow2 returns the smallest power of two that is >= n (1 for n <= 1).
func NextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
