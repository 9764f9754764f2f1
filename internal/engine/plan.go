package engine

import (
	"fmt"
	"math"

	"github.com/tphakala/go-soxr/internal/filter"
	"github.com/tphakala/go-soxr/internal/mathutil"
)

// design is the filter geometry chosen for a Config.
type design struct {
	taps   int // input samples in each window
	ahead  int // samples after the output position the window reaches
	phases int
	order  filter.InterpOrder
	proto  []float64
	bank   *filter.Bank
}

// plan designs the filter for cfg. elemSize is the byte size of the
// engine's sample type and only affects InterpAuto.
func plan(cfg *Config, elemSize int) (*design, error) {
	if cfg.Quick {
		return &design{taps: cubicTaps, ahead: cubicLookahead}, nil
	}

	att := mathutil.AttenuationForBits(cfg.Bits)
	scale := min(1, 1/cfg.MaxIORatio())
	fp := cfg.PassbandEnd * nyquist * scale
	fs := cfg.StopbandBegin * nyquist * scale
	tr := fs - fp
	cutoff := fp + rolloffShare[cfg.Rolloff]*tr
	taps := mathutil.EstimateTaps(att, tr)

	order, phases := chooseInterp(cfg, att, taps, elemSize)
	proto, err := filter.DesignPrototype(filter.Params{
		Phases:      phases,
		Taps:        taps,
		Cutoff:      cutoff,
		Attenuation: att,
		Gain:        cfg.Gain,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	ahead := taps / 2
	if cfg.PhaseResponse != linearPhase {
		proto, err = filter.ConvertPhase(proto, cfg.PhaseResponse, phaseFFTLen(cfg, len(proto)))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		// The prototype is stored one coefficient to the right in the bank.
		peak := float64(filter.PeakIndex(proto) + 1)
		ahead = min(max(int(math.Round(peak/float64(phases))), 0), taps-1)
	}

	bank, err := filter.NewBank(proto, phases, taps, order)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return &design{taps: taps, ahead: ahead, phases: phases, order: order, proto: proto, bank: bank}, nil
}

// chooseInterp picks the interpolation order and phase count that keep
// coefficient interpolation error below the stopband attenuation.
func chooseInterp(cfg *Config, att float64, taps, elemSize int) (filter.InterpOrder, int) {
	eps := math.Pow(10, -att/20)
	limit := max(maxPrototypeLen/taps, 1)

	lin := clampPow2(math.Sqrt(linearInterpError/eps), minLinearPhases, min(maxLinearPhases, limit))
	cub := clampPow2(math.Sqrt(math.Sqrt(cubicInterpError/eps)), minCubicPhases, min(maxCubicPhases, limit))

	switch cfg.Interp {
	case InterpLow:
		return filter.InterpLinear, lin
	case InterpHigh:
		return filter.InterpCubic, cub
	}
	if cfg.Bits <= autoLinearMaxBits &&
		filter.TableBytes(lin, taps, filter.InterpLinear, elemSize) <= cfg.CoefBudget {
		return filter.InterpLinear, lin
	}
	return filter.InterpCubic, cub
}

// clampPow2 rounds v up to a power of two within [lo, hi]; hi wins when lo > hi.
func clampPow2(v float64, lo, hi int) int {
	p := mathutil.NextPow2(int(math.Ceil(v)))
	p = max(p, lo)
	for p > hi && p > 1 {
		p >>= 1
	}
	return p
}

// phaseFFTLen returns the FFT length used to convert a prototype of n
// coefficients to another phase response.
func phaseFFTLen(cfg *Config, n int) int {
	size := mathutil.NextPow2(phaseFFTOversample * n)
	size = max(size, 1<<cfg.Log2MinDFT)
	size = min(size, 1<<cfg.Log2LargeDFT)
	return max(size, mathutil.NextPow2(2*n))
}
