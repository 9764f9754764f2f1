package soxr

import (
	"fmt"
	"math"
)

// IOFlags control output conversion.
type IOFlags uint32

const (
	// TPDF adds triangular dither to int16 output. It is the default.
	TPDF IOFlags = 0

	// NoDither disables dither.
	NoDither IOFlags = 8

	knownIOFlags = NoDither
)

// IOSpec names the sample layouts a session reads and writes and the
// linear gain applied on output.
type IOSpec struct {
	in, out Datatype
	scale   float64
	flags   IOFlags
}

// NewIOSpec returns an IOSpec with unity scale and TPDF dither.
func NewIOSpec(input, output Datatype) (IOSpec, error) {
	s := IOSpec{in: input, out: output, scale: 1, flags: TPDF}
	if err := s.Validate(); err != nil {
		return IOSpec{}, err
	}
	return s, nil
}

// DefaultIOSpec is float32 interleaved in and out.
func DefaultIOSpec() IOSpec {
	return IOSpec{in: Float32I, out: Float32I, scale: 1, flags: TPDF}
}

// WithScale returns a copy of s with a linear output gain.
func (s IOSpec) WithScale(scale float64) (IOSpec, error) {
	s.scale = scale
	if err := s.Validate(); err != nil {
		return IOSpec{}, err
	}
	return s, nil
}

// WithFlags returns a copy of s with the given flags.
func (s IOSpec) WithFlags(flags IOFlags) (IOSpec, error) {
	s.flags = flags
	if err := s.Validate(); err != nil {
		return IOSpec{}, err
	}
	return s, nil
}

// Validate checks the spec against its own constraints.
func (s IOSpec) Validate() error {
	if !s.in.Valid() {
		return fmt.Errorf("%w: input datatype %v", ErrInvalidSpec, s.in)
	}
	if !s.out.Valid() {
		return fmt.Errorf("%w: output datatype %v", ErrInvalidSpec, s.out)
	}
	if s.scale == 0 || math.IsNaN(s.scale) || math.IsInf(s.scale, 0) {
		return fmt.Errorf("%w: scale %v", ErrInvalidSpec, s.scale)
	}
	if s.flags&^knownIOFlags != 0 {
		return fmt.Errorf("%w: unknown io flags %#x", ErrInvalidSpec, uint32(s.flags))
	}
	return nil
}

// InputType returns the datatype Process reads.
func (s IOSpec) InputType() Datatype { return s.in }

// OutputType returns the datatype Process writes.
func (s IOSpec) OutputType() Datatype { return s.out }

// Scale returns the linear gain applied to the output.
func (s IOSpec) Scale() float64 { return s.scale }

// Flags returns the dither flags.
func (s IOSpec) Flags() IOFlags { return s.flags }

// QualityRecipe selects a filter quality, optionally combined with one
// phase modifier and SteepFilter.
type QualityRecipe uint32

// Base recipes, from 4-point cubic interpolation up to 32-bit precision.
const (
	QuickQuality QualityRecipe = iota
	LowQuality
	MediumQuality
	Bits16Quality
	Bits20Quality
	Bits24Quality
	Bits28Quality
	Bits32Quality

	HighQuality     = Bits20Quality
	VeryHighQuality = Bits28Quality
)

// Recipe modifiers select the phase response and a steeper transition band.
const (
	LinearPhase       QualityRecipe = 0x00
	IntermediatePhase QualityRecipe = 0x10
	MaximumPhase      QualityRecipe = 0x20
	MinimumPhase      QualityRecipe = 0x30
	SteepFilter       QualityRecipe = 0x40

	recipeBaseMask  QualityRecipe = 0x0f
	recipePhaseMask QualityRecipe = 0x30
	knownRecipeBits QualityRecipe = recipeBaseMask | recipePhaseMask | SteepFilter
)

// QualityFlags refine a recipe.
type QualityFlags uint32

// Rolloff flags trade passband flatness near the cutoff for aliasing;
// HighPrecisionClock diffuses clock rounding error; DoublePrecision forces
// a float64 engine; VariableRate enables SetIORatio.
const (
	RolloffSmall       QualityFlags = 0
	RolloffMedium      QualityFlags = 1
	RolloffNone        QualityFlags = 2
	HighPrecisionClock QualityFlags = 8
	DoublePrecision    QualityFlags = 16
	VariableRate       QualityFlags = 32

	rolloffMask      QualityFlags = 3
	knownQualityBits QualityFlags = rolloffMask | HighPrecisionClock | DoublePrecision | VariableRate
)

// QualitySpec is a resolved filter quality: the recipe's defaults with any
// option overrides applied.
type QualitySpec struct {
	recipe        QualityRecipe
	flags         QualityFlags
	precision     float64
	phaseResponse float64
	passbandEnd   float64
	stopbandBegin float64
	gainDB        float64
}

// QualityOption overrides one knob of a recipe.
type QualityOption func(*QualitySpec)

// WithPrecision sets the conversion precision in bits.
func WithPrecision(bits float64) QualityOption {
	return func(s *QualitySpec) { s.precision = bits }
}

// WithPhaseResponse sets the phase response: 0 minimum, 50 linear, 100 maximum.
func WithPhaseResponse(p float64) QualityOption {
	return func(s *QualitySpec) { s.phaseResponse = p }
}

// WithPassband sets the passband end and stopband begin as fractions of Nyquist.
func WithPassband(end, stopBegin float64) QualityOption {
	return func(s *QualitySpec) {
		s.passbandEnd = end
		s.stopbandBegin = stopBegin
	}
}

// WithPassbandGain sets the passband gain in dB.
func WithPassbandGain(db float64) QualityOption {
	return func(s *QualitySpec) { s.gainDB = db }
}

// NewQualitySpec resolves a recipe and flags into a QualitySpec.
func NewQualitySpec(recipe QualityRecipe, flags QualityFlags, opts ...QualityOption) (QualitySpec, error) {
	if recipe&^knownRecipeBits != 0 || recipe&recipeBaseMask > Bits32Quality {
		return QualitySpec{}, fmt.Errorf("%w: unknown quality recipe %#x", ErrInvalidSpec, uint32(recipe))
	}
	s := QualitySpec{
		recipe:        recipe,
		flags:         flags,
		precision:     recipePrecision(recipe & recipeBaseMask),
		phaseResponse: recipePhase(recipe & recipePhaseMask),
		passbandEnd:   recipePassband(recipe),
		stopbandBegin: stopbandBegin,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if err := s.Validate(); err != nil {
		return QualitySpec{}, err
	}
	return s, nil
}

// DefaultQualitySpec is HighQuality with a small rolloff.
func DefaultQualitySpec() QualitySpec {
	s, _ := NewQualitySpec(HighQuality, RolloffSmall)
	return s
}

func recipePrecision(base QualityRecipe) float64 {
	switch base {
	case QuickQuality:
		return 0
	case LowQuality, MediumQuality, Bits16Quality:
		return precision16Bit
	case Bits20Quality:
		return precision20Bit
	case Bits24Quality:
		return precision24Bit
	case Bits28Quality:
		return precision28Bit
	default:
		return precision32Bit
	}
}

func recipePhase(mod QualityRecipe) float64 {
	switch mod {
	case IntermediatePhase:
		return intermediatePhaseResponse
	case MaximumPhase:
		return maximumPhaseResponse
	case MinimumPhase:
		return minimumPhaseResponse
	default:
		return linearPhaseResponse
	}
}

func recipePassband(recipe QualityRecipe) float64 {
	switch recipe & recipeBaseMask {
	case LowQuality:
		return lowPassbandEnd
	case MediumQuality:
		return mediumPassbandEnd
	}
	if recipe&SteepFilter != 0 {
		return steepPassbandEnd
	}
	return normalPassbandEnd
}

// Validate checks the spec against its own constraints.
func (s QualitySpec) Validate() error {
	if s.flags&^knownQualityBits != 0 {
		return fmt.Errorf("%w: unknown quality flags %#x", ErrInvalidSpec, uint32(s.flags))
	}
	if s.flags&rolloffMask == rolloffMask {
		return fmt.Errorf("%w: rolloff flag value 3", ErrInvalidSpec)
	}
	if s.flags&VariableRate != 0 && s.phaseResponse != linearPhaseResponse {
		return fmt.Errorf("%w: variable rate requires linear phase", ErrInvalidSpec)
	}
	if s.Quick() {
		return nil
	}
	if s.precision < precision8Bit || s.precision > precision33Bit {
		return fmt.Errorf("%w: precision %v bits outside [%d, %d]",
			ErrInvalidSpec, s.precision, precision8Bit, precision33Bit)
	}
	if s.phaseResponse < minimumPhaseResponse || s.phaseResponse > maximumPhaseResponse {
		return fmt.Errorf("%w: phase response %v outside [0, 100]", ErrInvalidSpec, s.phaseResponse)
	}
	if !(s.passbandEnd > 0 && s.passbandEnd < 1) {
		return fmt.Errorf("%w: passband end %v outside (0, 1)", ErrInvalidSpec, s.passbandEnd)
	}
	if !(s.stopbandBegin > s.passbandEnd && s.stopbandBegin <= 1) {
		return fmt.Errorf("%w: stopband begin %v outside (%v, 1]", ErrInvalidSpec, s.stopbandBegin, s.passbandEnd)
	}
	if math.IsNaN(s.gainDB) || math.Abs(s.gainDB) > maxPassbandGainDB {
		return fmt.Errorf("%w: passband gain %v dB", ErrInvalidSpec, s.gainDB)
	}
	return nil
}

// Recipe returns the quality recipe with its modifiers.
func (s QualitySpec) Recipe() QualityRecipe { return s.recipe }

// Flags returns the rolloff and engine flags.
func (s QualitySpec) Flags() QualityFlags { return s.flags }

// Precision returns the target precision in bits.
func (s QualitySpec) Precision() float64 { return s.precision }

// PhaseResponse returns the phase response: 0 minimum, 50 linear, 100 maximum.
func (s QualitySpec) PhaseResponse() float64 { return s.phaseResponse }

// PassbandEnd returns the end of the passband as a fraction of Nyquist.
func (s QualitySpec) PassbandEnd() float64 { return s.passbandEnd }

// StopbandBegin returns the start of the stopband as a fraction of Nyquist.
func (s QualitySpec) StopbandBegin() float64 { return s.stopbandBegin }

// PassbandGain returns the passband gain adjustment in dB.
func (s QualitySpec) PassbandGain() float64 { return s.gainDB }

// Quick reports whether the spec selects cubic interpolation instead of a
// designed filter.
func (s QualitySpec) Quick() bool {
	return s.recipe&recipeBaseMask == QuickQuality
}

// double reports whether the engine should filter in float64.
func (s QualitySpec) double() bool {
	return s.flags&DoublePrecision != 0 || s.precision > singlePrecisionLimit
}

// RuntimeFlags select the coefficient interpolation.
type RuntimeFlags uint32

const (
	// CoefInterpAuto lets the engine pick linear or cubic interpolation.
	CoefInterpAuto RuntimeFlags = 0

	// CoefInterpLow forces linear interpolation between filter phases.
	CoefInterpLow RuntimeFlags = 2

	// CoefInterpHigh forces cubic interpolation between filter phases.
	CoefInterpHigh RuntimeFlags = 3

	coefInterpMask RuntimeFlags = 3
)

// RuntimeSpec holds resource knobs that do not change the output beyond
// numerical noise.
type RuntimeSpec struct {
	threads      int
	log2MinDFT   int
	log2LargeDFT int
	coefKBytes   int
	flags        RuntimeFlags
}

// RuntimeOption overrides one runtime knob.
type RuntimeOption func(*RuntimeSpec)

// WithDFTSizes bounds the FFT length used for filter design, as powers of two.
func WithDFTSizes(log2Min, log2Large int) RuntimeOption {
	return func(s *RuntimeSpec) {
		s.log2MinDFT = log2Min
		s.log2LargeDFT = log2Large
	}
}

// WithCoefSize sets the coefficient table budget in KiB.
func WithCoefSize(kbytes int) RuntimeOption {
	return func(s *RuntimeSpec) { s.coefKBytes = kbytes }
}

// WithCoefInterp forces the coefficient interpolation.
func WithCoefInterp(f RuntimeFlags) RuntimeOption {
	return func(s *RuntimeSpec) { s.flags = f }
}

// NewRuntimeSpec returns a RuntimeSpec for numThreads goroutines; 0 means
// one per CPU.
func NewRuntimeSpec(numThreads int, opts ...RuntimeOption) (RuntimeSpec, error) {
	s := RuntimeSpec{
		threads:      numThreads,
		log2MinDFT:   defaultLog2MinDFT,
		log2LargeDFT: defaultLog2LargeDFT,
		coefKBytes:   defaultCoefKBytes,
		flags:        CoefInterpAuto,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if err := s.Validate(); err != nil {
		return RuntimeSpec{}, err
	}
	return s, nil
}

// DefaultRuntimeSpec runs on one goroutine with default DFT and table sizes.
func DefaultRuntimeSpec() RuntimeSpec {
	s, _ := NewRuntimeSpec(defaultThreads)
	return s
}

// Validate checks the spec against its own constraints.
func (s RuntimeSpec) Validate() error {
	if s.threads < 0 {
		return fmt.Errorf("%w: %d threads", ErrInvalidSpec, s.threads)
	}
	if s.log2MinDFT < minLog2MinDFT || s.log2MinDFT > maxLog2MinDFT {
		return fmt.Errorf("%w: log2 min DFT size %d outside [%d, %d]",
			ErrInvalidSpec, s.log2MinDFT, minLog2MinDFT, maxLog2MinDFT)
	}
	if s.log2LargeDFT < minLog2LargeDFT || s.log2LargeDFT > maxLog2LargeDFT {
		return fmt.Errorf("%w: log2 large DFT size %d outside [%d, %d]",
			ErrInvalidSpec, s.log2LargeDFT, minLog2LargeDFT, maxLog2LargeDFT)
	}
	if s.log2MinDFT > s.log2LargeDFT {
		return fmt.Errorf("%w: log2 min DFT size %d above large size %d",
			ErrInvalidSpec, s.log2MinDFT, s.log2LargeDFT)
	}
	if s.coefKBytes < 0 {
		return fmt.Errorf("%w: coefficient budget %d KiB", ErrInvalidSpec, s.coefKBytes)
	}
	if s.flags&^coefInterpMask != 0 || s.flags == 1 {
		return fmt.Errorf("%w: runtime flags %#x", ErrInvalidSpec, uint32(s.flags))
	}
	return nil
}

// Threads returns the number of goroutines filtering channels; 0 means one per CPU.
func (s RuntimeSpec) Threads() int { return s.threads }

// Log2MinDFT returns log2 of the smallest DFT used in filter design.
func (s RuntimeSpec) Log2MinDFT() int { return s.log2MinDFT }

// Log2LargeDFT returns log2 of the largest DFT used in filter design.
func (s RuntimeSpec) Log2LargeDFT() int { return s.log2LargeDFT }

// CoefKBytes returns the coefficient table budget in KiB.
func (s RuntimeSpec) CoefKBytes() int { return s.coefKBytes }

// Flags returns the coefficient interpolation flags.
func (s RuntimeSpec) Flags() RuntimeFlags { return s.flags }
