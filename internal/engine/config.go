package engine

import (
	"errors"
	"fmt"
	"math"
)

// Rolloff selects how much passband droop the filter may have.
type Rolloff int

const (
	RolloffSmall Rolloff = iota
	RolloffMedium
	RolloffNone
)

// Interp selects the coefficient interpolation of the polyphase bank.
type Interp int

const (
	// InterpAuto picks linear interpolation when its larger table fits the
	// coefficient budget, cubic otherwise.
	InterpAuto Interp = iota
	// InterpLow uses linear interpolation over many phases: less CPU, more memory.
	InterpLow
	// InterpHigh uses cubic interpolation over fewer phases: more CPU, less memory.
	InterpHigh
)

// Engine errors. Their text is what callers of the session see.
var (
	ErrConfig         = errors.New("invalid engine configuration")
	ErrInvalidRatio   = errors.New("invalid io_ratio")
	ErrInvalidSlew    = errors.New("invalid slew length")
	ErrFixedRate      = errors.New("io_ratio can't be changed: variable-rate resampling not enabled")
	ErrInputAfterEnd  = errors.New("input after end-of-input")
	ErrChannelsFixed  = errors.New("# of channels can't be changed after processing started")
	ErrChannelBuffers = errors.New("buffer count does not match # of channels")
)

// Config is the resolved numeric plan for one resampler.
type Config struct {
	// IORatio is input rate / output rate. For variable-rate resamplers it
	// is the largest ratio the filter is designed for.
	IORatio float64

	// Channels is the number of independent channels.
	Channels int

	// Quick selects 4-point cubic interpolation instead of a designed filter.
	Quick bool

	// Bits is the precision the filter is designed for.
	Bits float64

	// PhaseResponse is 0 (minimum) to 100 (maximum); 50 is linear phase.
	PhaseResponse float64

	// PassbandEnd and StopbandBegin are fractions of the lower Nyquist rate.
	PassbandEnd   float64
	StopbandBegin float64

	Rolloff Rolloff

	// Gain is the linear passband gain.
	Gain float64

	// HighPrecisionClock diffuses the rounding error of the clock step.
	HighPrecisionClock bool

	// VariableRate allows SetIORatio.
	VariableRate bool

	Interp Interp

	// CoefBudget is the coefficient table size, in bytes, InterpAuto may use.
	CoefBudget int

	// Log2MinDFT and Log2LargeDFT bound the FFT used for phase conversion.
	Log2MinDFT   int
	Log2LargeDFT int

	// Workers is the number of goroutines filtering channels in parallel.
	Workers int
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.IORatio <= 0 || math.IsInf(c.IORatio, 0) || math.IsNaN(c.IORatio) {
		return fmt.Errorf("%w: %w", ErrConfig, ErrInvalidRatio)
	}
	if c.Channels < 1 {
		return fmt.Errorf("%w: invalid # of channels %d", ErrConfig, c.Channels)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrConfig)
	}
	if c.Quick {
		return nil
	}
	if c.Bits <= 0 {
		return fmt.Errorf("%w: precision %v bits", ErrConfig, c.Bits)
	}
	if c.PhaseResponse < 0 || c.PhaseResponse > 100 {
		return fmt.Errorf("%w: phase response %v", ErrConfig, c.PhaseResponse)
	}
	if c.PassbandEnd <= 0 || c.StopbandBegin <= c.PassbandEnd || c.StopbandBegin > 1 {
		return fmt.Errorf("%w: passband %v / stopband %v", ErrConfig, c.PassbandEnd, c.StopbandBegin)
	}
	if c.Rolloff < RolloffSmall || c.Rolloff > RolloffNone {
		return fmt.Errorf("%w: rolloff %d", ErrConfig, c.Rolloff)
	}
	if c.Gain <= 0 {
		return fmt.Errorf("%w: gain %v", ErrConfig, c.Gain)
	}
	if c.Interp < InterpAuto || c.Interp > InterpHigh {
		return fmt.Errorf("%w: interpolation %d", ErrConfig, c.Interp)
	}
	if c.Log2MinDFT <= 0 || c.Log2LargeDFT < c.Log2MinDFT {
		return fmt.Errorf("%w: DFT sizes 2^%d..2^%d", ErrConfig, c.Log2MinDFT, c.Log2LargeDFT)
	}
	return nil
}

// MaxIORatio returns the largest io ratio the designed filter supports.
func (c *Config) MaxIORatio() float64 {
	return max(c.IORatio, 1)
}
