package soxr

// Channel limits
const (
	// MaxChannels is the largest channel count a session accepts.
	MaxChannels = 256

	stereoChannels = 2
)

// Resampling ratio limits for constant-rate sessions (output rate / input rate).
const (
	minRatioFactor = 1.0 / 256.0
	maxRatioFactor = 256.0
)

// Quality precision levels in bits
const (
	precision8Bit  = 8
	precision16Bit = 16
	precision20Bit = 20
	precision24Bit = 24
	precision28Bit = 28
	precision32Bit = 32
	precision33Bit = 33

	// Above this precision the engine filters in float64.
	singlePrecisionLimit = precision20Bit
)

// Recipe passband ends as a fraction of Nyquist.
const (
	lowPassbandEnd    = 0.67625
	mediumPassbandEnd = 0.8
	normalPassbandEnd = 0.913
	steepPassbandEnd  = 0.989
	stopbandBegin     = 1.0
)

// Phase responses of the phase modifiers.
const (
	minimumPhaseResponse      = 0.0
	intermediatePhaseResponse = 25.0
	linearPhaseResponse       = 50.0
	maximumPhaseResponse      = 100.0
)

// Runtime defaults and limits
const (
	defaultLog2MinDFT   = 10
	defaultLog2LargeDFT = 17
	defaultCoefKBytes   = 400
	defaultThreads      = 1

	minLog2MinDFT   = 8
	maxLog2MinDFT   = 15
	minLog2LargeDFT = 8
	maxLog2LargeDFT = 20

	bytesPerKByte = 1024
)

// Passband gain limit in dB, either direction.
const maxPassbandGainDB = 100.0

// Pull mode and one-shot defaults
const (
	defaultInputFrames = 1024
	resampleBlock      = 4096
	ditherSeed         = 0x50c5
)

const version = "0.1.0"
