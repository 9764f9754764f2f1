package soxr

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"runtime"

	"github.com/tphakala/go-soxr/internal/engine"
	"github.com/tphakala/go-soxr/internal/sampleconv"
)

// Options configures Create. Nil fields take the package defaults.
type Options struct {
	IO      *IOSpec
	Quality *QualitySpec
	Runtime *RuntimeSpec

	// Logger receives create summaries and release failures. Nil discards.
	Logger *log.Logger
}

// State is the lifecycle position of a Session.
type State int

const (
	// StateCreated accepts input.
	StateCreated State = iota
	// StateDraining has seen end of input and still has output to give.
	StateDraining
	// StateEnded has given all output.
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateDraining:
		return "draining"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// FilterInfo describes the filter a session designed.
type FilterInfo struct {
	Engine    string // engine variant, as returned by Session.Engine
	Taps      int    // taps per output sample
	Lookahead int    // input samples the filter reads ahead of the output time
	Phases    int    // polyphase bank size, 0 for QuickQuality
	Interp    string // coefficient interpolation: linear, cubic or hermite
	CoefBytes int    // coefficient table size in bytes
}

// Session is a streaming sample-rate converter for a fixed number of
// channels. A Session is not safe for concurrent use.
type Session struct {
	h       handle
	cleanup runtime.Cleanup

	inRate   float64
	channels int
	io       IOSpec

	state  State
	q      *sampleconv.Quantizer
	pull   *pullSource
	logger *log.Logger
}

// Version identifies the library.
func Version() string {
	return "go-soxr-" + version
}

// Create designs a resampler converting inputRate to outputRate for the
// given number of channels.
func Create(inputRate, outputRate float64, channels int, opts *Options) (*Session, error) {
	const fn = "Create"
	if opts == nil {
		opts = &Options{}
	}
	ioSpec, quality, rt := DefaultIOSpec(), DefaultQualitySpec(), DefaultRuntimeSpec()
	if opts.IO != nil {
		ioSpec = *opts.IO
	}
	if opts.Quality != nil {
		quality = *opts.Quality
	}
	if opts.Runtime != nil {
		rt = *opts.Runtime
	}
	if err := validateCreate(inputRate, outputRate, channels, ioSpec, quality, rt); err != nil {
		return nil, createError(fn, err)
	}

	cfg := engineConfig(inputRate/outputRate, channels, quality, rt)
	h, err := newHandle(cfg, quality.double())
	if err != nil {
		return nil, createError(fn, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Session{
		h:        h,
		inRate:   inputRate,
		channels: channels,
		io:       ioSpec,
		q:        sampleconv.NewQuantizer(ioSpec.scale, ioSpec.flags&NoDither == 0, ditherSeed),
		logger:   logger,
	}
	s.cleanup = runtime.AddCleanup(s, func(h handle) { _ = h.release() }, h)

	info := h.info()
	logger.Printf("soxr: %s %g Hz -> %g Hz, %d channels, %d taps, %s interpolation",
		h.name(), inputRate, outputRate, channels, info.Taps, info.Interp)
	return s, nil
}

func validateCreate(inRate, outRate float64, channels int, ioSpec IOSpec, q QualitySpec, rt RuntimeSpec) error {
	if !(inRate > 0) || math.IsInf(inRate, 0) {
		return fmt.Errorf("invalid input rate %v", inRate)
	}
	if !(outRate > 0) || math.IsInf(outRate, 0) {
		return fmt.Errorf("invalid output rate %v", outRate)
	}
	if channels < 1 || channels > MaxChannels {
		return fmt.Errorf("invalid # of channels %d", channels)
	}
	if ratio := outRate / inRate; ratio < minRatioFactor || ratio > maxRatioFactor {
		return fmt.Errorf("rate ratio %v outside [1/256, 256]", ratio)
	}
	if err := ioSpec.Validate(); err != nil {
		return err
	}
	if err := q.Validate(); err != nil {
		return err
	}
	return rt.Validate()
}

// engineConfig resolves the bundles into the engine's numeric plan.
func engineConfig(ioRatio float64, channels int, q QualitySpec, rt RuntimeSpec) engine.Config {
	workers := rt.threads
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	workers = max(1, min(workers, channels))

	rolloff := engine.RolloffSmall
	switch q.flags & rolloffMask {
	case RolloffMedium:
		rolloff = engine.RolloffMedium
	case RolloffNone:
		rolloff = engine.RolloffNone
	}

	interp := engine.InterpAuto
	switch rt.flags & coefInterpMask {
	case CoefInterpLow:
		interp = engine.InterpLow
	case CoefInterpHigh:
		interp = engine.InterpHigh
	}

	return engine.Config{
		IORatio:            ioRatio,
		Channels:           channels,
		Quick:              q.Quick(),
		Bits:               q.precision,
		PhaseResponse:      q.phaseResponse,
		PassbandEnd:        q.passbandEnd,
		StopbandBegin:      q.stopbandBegin,
		Rolloff:            rolloff,
		Gain:               math.Pow(10, q.gainDB/20),
		HighPrecisionClock: q.flags&HighPrecisionClock != 0,
		VariableRate:       q.flags&VariableRate != 0,
		Interp:             interp,
		CoefBudget:         rt.coefKBytes * bytesPerKByte,
		Log2MinDFT:         rt.log2MinDFT,
		Log2LargeDFT:       rt.log2LargeDFT,
		Workers:            workers,
	}
}

// Process converts as much of in as fits in out. A nil in signals end of
// input; repeated calls with nil in then drain the remaining output until
// produced is 0.
func (s *Session) Process(in, out Buffer) (consumed, produced int, err error) {
	const fn = "Session.Process"
	if s.h == nil {
		return 0, 0, processError(fn, ErrClosed)
	}
	outFrames, err := s.checkOutput(fn, out)
	if err != nil {
		return 0, 0, err
	}
	inFrames := 0
	if in != nil {
		if inFrames, err = s.checkInput(fn, in); err != nil {
			return 0, 0, err
		}
	}

	consumed, produced, err = s.h.process(in, out, inFrames, outFrames, s.q)
	if err != nil {
		return 0, 0, processError(fn, err)
	}
	if in == nil {
		s.drained(produced)
	}
	return consumed, produced, nil
}

func (s *Session) checkInput(fn string, in Buffer) (int, error) {
	if dt := in.Datatype(); dt != s.io.in {
		return 0, processError(fn, fmt.Errorf("%w: input is %v, session reads %v", ErrDatatype, dt, s.io.in))
	}
	return in.frames(fn, s.channels)
}

func (s *Session) checkOutput(fn string, out Buffer) (int, error) {
	if out == nil {
		return 0, shapeError(fn, "output buffer is required")
	}
	if dt := out.Datatype(); dt != s.io.out {
		return 0, processError(fn, fmt.Errorf("%w: output is %v, session writes %v", ErrDatatype, dt, s.io.out))
	}
	return out.frames(fn, s.channels)
}

// drained advances the state after a call without input.
func (s *Session) drained(produced int) {
	switch {
	case produced == 0:
		s.state = StateEnded
	case s.state == StateCreated:
		s.state = StateDraining
	}
}

// Channels returns the channel count.
func (s *Session) Channels() int {
	return s.channels
}

// State returns the lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Clear discards all stream state so the session can take a new stream
// with the same configuration. Output not yet drained is lost.
func (s *Session) Clear() error {
	if s.h == nil {
		return processError("Session.Clear", ErrClosed)
	}
	s.h.clear()
	s.q.Reset()
	if s.pull != nil {
		s.pull.reset()
	}
	s.state = StateCreated
	return nil
}

// SetIORatio changes the io ratio (input rate / output rate) of a
// variable-rate session, over slew output frames or at once when slew is 0.
func (s *Session) SetIORatio(ioRatio float64, slew int) error {
	const fn = "Session.SetIORatio"
	if s.h == nil {
		return processError(fn, ErrClosed)
	}
	if err := s.h.setIORatio(ioRatio, slew); err != nil {
		return processError(fn, err)
	}
	return nil
}

// Delay returns the latency currently buffered, in output frames.
func (s *Session) Delay() float64 {
	if s.h == nil {
		return 0
	}
	return s.h.delay()
}

// Err returns the sticky error set by SetError, if any.
func (s *Session) Err() error {
	if s.h == nil {
		return nil
	}
	return s.h.err()
}

// SetError makes processing fail with msg until Clear.
func (s *Session) SetError(msg string) error {
	if s.h == nil {
		return processError("Session.SetError", ErrClosed)
	}
	s.h.setError(errors.New(msg))
	return nil
}

// NumClips returns how many integer output samples were clipped since
// create or the last Clear.
func (s *Session) NumClips() int64 {
	return s.q.Clips()
}

// Engine names the engine variant, for example "cr32" or "vr64".
func (s *Session) Engine() string {
	if s.h == nil {
		return ""
	}
	return s.h.name()
}

// SetNumChannels changes the channel count. It fails once input has been
// processed.
func (s *Session) SetNumChannels(n int) error {
	const fn = "Session.SetNumChannels"
	if s.h == nil {
		return processError(fn, ErrClosed)
	}
	if n > MaxChannels {
		return processError(fn, fmt.Errorf("invalid # of channels %d", n))
	}
	if err := s.h.setChannels(n); err != nil {
		return processError(fn, err)
	}
	s.channels = n
	return nil
}

// Info describes the designed filter.
func (s *Session) Info() FilterInfo {
	if s.h == nil {
		return FilterInfo{}
	}
	i := s.h.info()
	return FilterInfo{
		Engine:    s.h.name(),
		Taps:      i.Taps,
		Lookahead: i.Lookahead,
		Phases:    i.Phases,
		Interp:    i.Interp,
		CoefBytes: i.CoefBytes,
	}
}

// Response returns the filter's magnitude at the given frequencies in Hz
// of the input rate. It is nil for QuickQuality.
func (s *Session) Response(freqs []float64) []float64 {
	if s.h == nil {
		return nil
	}
	norm := make([]float64, len(freqs))
	for i, f := range freqs {
		norm[i] = f / s.inRate
	}
	return s.h.response(norm)
}

// Close releases the engine. It is safe to call more than once.
func (s *Session) Close() error {
	if s.h == nil {
		return nil
	}
	s.cleanup.Stop()
	if err := s.h.release(); err != nil {
		s.logger.Printf("soxr: release failed: %v", err)
	}
	s.h = nil
	return nil
}
