package engine

// Fixed-point clock: output positions are kept in units of 2^-32 input samples.
const (
	clockFracBits = 32
	clockOne      = int64(1) << clockFracBits
	clockFracMask = clockOne - 1

	// Tolerance when comparing the summed variable-rate output time with
	// the input length.
	exactTimeEpsilon = 1e-6
)

// Cubic (Hermite) interpolation constants
const (
	cubicTaps      = 4
	cubicLookahead = 2

	// y = ((a*x + b)*x + c)*x + d
	// a = -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	hermiteCoeff0_5 = 0.5
	hermiteCoeff1_5 = 1.5
	hermiteCoeff2_5 = 2.5
)

// Filter plan constants
const (
	// Nyquist as a fraction of the sample rate
	nyquist = 0.5

	// Coefficient interpolation error ≈ k / phases^order for a unit sinc.
	linearInterpError = 1.2337 // π²/8
	cubicInterpError  = 2.3

	minLinearPhases = 64
	maxLinearPhases = 4096
	minCubicPhases  = 16
	maxCubicPhases  = 1024

	// Auto interpolation only picks the linear bank up to this precision.
	autoLinearMaxBits = 20

	// Largest prototype the planner will build.
	maxPrototypeLen = 1 << 24

	// FFT length for phase conversion, relative to the prototype length.
	phaseFFTOversample = 4

	linearPhase = 50.0

	bytesPerFloat32 = 4
	bytesPerFloat64 = 8
)

// Passband rolloff: where the -6 dB cutoff sits inside the transition band.
var rolloffShare = [...]float64{
	RolloffSmall:  0.5,
	RolloffMedium: 0.25,
	RolloffNone:   0,
}
