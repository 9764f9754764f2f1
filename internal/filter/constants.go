package filter

const (
	// Prototype design limits
	minPhases    = 1
	maxPhases    = 1 << 13
	minTaps      = 2
	maxProtoLen  = 1 << 24
	windowCenter = 2.0

	sincZeroThreshold = 1e-10

	// Phase response scale: 0 minimum, 50 linear, 100 maximum.
	LinearPhaseResponse = 50.0
	maxPhaseResponse    = 100.0

	// Magnitude floor for the log spectrum, relative to the peak.
	cepstrumFloor = 1e-12

	// Default number of points for frequency response analysis
	defaultResponsePoints = 512

	// Lagrange cubic coefficients between phases
	cubicCenterCoeff = 0.5
	cubicDCoeff      = 1.0 / 6.0
	cubicCMultiplier = 4.0
)
