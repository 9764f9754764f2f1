package mathutil

// Bessel series limits
const (
	besselMaxTerms = 500
	besselEpsilon  = 1e-17 // Relative size of the last term kept in the series
)

// Kaiser window formula constants
// From Kaiser & Schafer's empirical formulas
const (
	kaiserAttHigh   = 50.0 // High attenuation threshold (dB)
	kaiserAttMedium = 21.0 // Medium attenuation threshold (dB)

	kaiserBetaHighCoeff1 = 0.1102 // Coefficient for high attenuation
	kaiserBetaHighOffset = 8.7    // Offset for high attenuation

	kaiserBetaMediumCoeff1 = 0.5842  // Primary coefficient for medium attenuation
	kaiserBetaMediumPower  = 0.4     // Power for medium attenuation formula
	kaiserBetaMediumCoeff2 = 0.07886 // Secondary coefficient for medium attenuation
)

// Filter length estimation constants
const (
	// Kaiser's length formula: N ≈ (att - 7.95) / (14.36 * Δf), Δf in cycles per sample
	kaiserLengthOffset     = 7.95
	kaiserLengthMultiplier = 14.36

	minTapsPerPhase = 4
)

// DBPerBit is the dynamic range of one bit of precision (20·log10(2)).
const DBPerBit = 6.020599913279624
