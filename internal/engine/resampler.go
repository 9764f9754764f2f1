// Package engine implements the streaming resampler behind a session: a
// polyphase FIR filter (or 4-point cubic for the Quick recipe) driven by a
// fixed-point clock, with per-channel history and end-of-input flushing.
//
// A Resampler is not safe for concurrent use. Within one Process call the
// channels may be filtered by several goroutines.
package engine

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/tphakala/go-soxr/internal/filter"
	"github.com/tphakala/go-soxr/internal/simdops"
)

// window is the placement of one output sample in history.
type window struct {
	start int
	frac  uint32
}

// Resampler converts planar F samples from one rate to another.
type Resampler[F simdops.Float] struct {
	cfg  Config
	d    *design
	kern kernel[F]

	hist  [][]F
	base  int64 // input index of hist[c][0]; negative while the initial zeros remain
	total int64 // input frames accepted since creation or Clear
	clk   clock

	// Outputs given since creation or Clear, and the exact input time of
	// the next one. The clock step is rounded, so these decide where the
	// stream ends.
	emitted int64
	exact   float64

	ended  bool
	padded bool
	err    error

	wins []window
}

// New designs the filter for cfg and returns a resampler ready for input.
func New[F simdops.Float](cfg Config) (*Resampler[F], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	elemSize := bytesPerFloat32
	if simdops.Is64[F]() {
		elemSize = bytesPerFloat64
	}
	d, err := plan(&cfg, elemSize)
	if err != nil {
		return nil, err
	}

	r := &Resampler[F]{cfg: cfg, d: d}
	switch {
	case cfg.Quick:
		r.kern = hermiteKernel[F]{}
	case d.order == filter.InterpLinear:
		r.kern = newLinearKernel[F](d.bank)
	default:
		r.kern = newCubicBankKernel[F](d.bank)
	}
	r.clk.hiPrec = cfg.HighPrecisionClock
	r.reset()
	return r, nil
}

// reset puts the resampler back in its freshly created state.
func (r *Resampler[F]) reset() {
	lead := r.d.taps - 1 - r.d.ahead
	if len(r.hist) != r.cfg.Channels {
		r.hist = make([][]F, r.cfg.Channels)
	}
	for c := range r.hist {
		h := r.hist[c][:0]
		for range lead {
			h = append(h, 0)
		}
		r.hist[c] = h
	}
	r.base = -int64(lead)
	r.total = 0
	r.emitted = 0
	r.exact = 0
	r.clk.reset(int64(lead)<<clockFracBits, r.cfg.IORatio)
	r.ended = false
	r.padded = false
	r.err = nil
}

// Process consumes up to len(in[c]) frames and writes up to len(out[c])
// frames. A nil in signals end of input: buffered history is flushed with
// zero padding until the output reaches the length of the input.
func (r *Resampler[F]) Process(in, out [][]F) (consumed, produced int, err error) {
	if r.err != nil {
		return 0, 0, r.err
	}
	if len(out) != r.cfg.Channels || (in != nil && len(in) != r.cfg.Channels) {
		return 0, 0, ErrChannelBuffers
	}
	if in != nil && r.ended {
		return 0, 0, ErrInputAfterEnd
	}
	if in == nil {
		r.end()
	}

	inLen := 0
	if in != nil {
		inLen = len(in[0])
	}
	outCap := len(out[0])

	for {
		produced += r.produce(out, produced, outCap-produced)
		if produced == outCap || in == nil || consumed == inLen {
			break
		}
		n := min(inLen-consumed, r.wanted(outCap-produced))
		r.feed(in, consumed, n)
		consumed += n
	}
	r.compact()
	return consumed, produced, nil
}

// end marks end of input and pads history so every remaining output
// position has a full window.
func (r *Resampler[F]) end() {
	r.ended = true
	if r.padded {
		return
	}
	for c := range r.hist {
		h := r.hist[c]
		for range r.d.taps {
			h = append(h, 0)
		}
		r.hist[c] = h
	}
	r.padded = true
}

// wanted returns how many more input frames rem outputs need.
func (r *Resampler[F]) wanted(rem int) int {
	last := r.clk.time() + float64(rem-1)*r.clk.peakRatio()
	need := int(math.Floor(last)) + r.d.ahead + 1 - len(r.hist[0])
	return max(need, 1)
}

func (r *Resampler[F]) feed(in [][]F, off, n int) {
	for c := range r.hist {
		r.hist[c] = append(r.hist[c], in[c][off:off+n]...)
	}
	r.total += int64(n)
}

// produce writes up to rem outputs starting at out[c][off].
func (r *Resampler[F]) produce(out [][]F, off, rem int) int {
	taps := r.d.taps
	avail := len(r.hist[0])
	r.wins = r.wins[:0]
	for len(r.wins) < rem {
		if !r.due() {
			break
		}
		start := r.clk.index() + r.d.ahead - (taps - 1)
		if start+taps > avail {
			break
		}
		r.wins = append(r.wins, window{start: start, frac: r.clk.frac()})
		r.exact += r.clk.ratio
		r.emitted++
		r.clk.advance()
	}
	if len(r.wins) == 0 {
		return 0
	}

	work := func(c int) {
		h := r.hist[c]
		dst := out[c][off : off+len(r.wins)]
		for j, w := range r.wins {
			dst[j] = r.kern.dot(h[w.start:w.start+taps], w.frac)
		}
	}
	if r.cfg.Workers > 1 && len(r.hist) > 1 {
		var g errgroup.Group
		g.SetLimit(r.cfg.Workers)
		for c := range r.hist {
			g.Go(func() error {
				work(c)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for c := range r.hist {
			work(c)
		}
	}
	return len(r.wins)
}

// due reports whether the next output lies before the end of the input
// accepted so far. At a constant rate n input frames give round(n/ratio)
// outputs.
func (r *Resampler[F]) due() bool {
	if !r.cfg.VariableRate {
		return r.emitted < r.outputsFor(r.total)
	}
	return float64(r.total)-r.exact > exactTimeEpsilon
}

func (r *Resampler[F]) outputsFor(frames int64) int64 {
	return int64(math.Round(float64(frames) / r.cfg.IORatio))
}

// compact drops history no future output can reach.
func (r *Resampler[F]) compact() {
	drop := r.clk.index() + r.d.ahead - (r.d.taps - 1)
	drop = min(drop, len(r.hist[0]))
	if drop <= 0 {
		return
	}
	for c := range r.hist {
		h := r.hist[c]
		n := copy(h, h[drop:])
		r.hist[c] = h[:n]
	}
	r.base += int64(drop)
	r.clk.shift(drop)
}

// Clear discards all stream state, keeping the designed filter.
func (r *Resampler[F]) Clear() {
	r.reset()
}

// SetIORatio changes the io ratio, immediately or over slew output samples.
func (r *Resampler[F]) SetIORatio(ratio float64, slew int) error {
	if !r.cfg.VariableRate {
		return ErrFixedRate
	}
	if ratio <= 0 || math.IsNaN(ratio) || ratio > r.cfg.MaxIORatio() {
		return fmt.Errorf("%w: %v outside (0, %v]", ErrInvalidRatio, ratio, r.cfg.MaxIORatio())
	}
	if slew < 0 {
		return ErrInvalidSlew
	}
	r.clk.slewTo(ratio, slew)
	return nil
}

// IORatio returns the current io ratio.
func (r *Resampler[F]) IORatio() float64 {
	return r.clk.ratio
}

// Delay returns the input buffered but not yet output, in output samples.
// After end of input it is the number of outputs still due.
func (r *Resampler[F]) Delay() float64 {
	if r.ended {
		return float64(r.Pending())
	}
	t := float64(r.base) + r.clk.time()
	return max((float64(r.total)-t)/r.clk.ratio, 0)
}

// Pending returns the outputs still due after end of input, or -1 before it.
func (r *Resampler[F]) Pending() int {
	if !r.ended {
		return -1
	}
	if !r.cfg.VariableRate {
		return int(max(r.outputsFor(r.total)-r.emitted, 0))
	}
	rem := float64(r.total) - r.exact
	if rem <= exactTimeEpsilon {
		return 0
	}
	return int(math.Ceil((rem - exactTimeEpsilon) / r.clk.ratio))
}

// Ended reports whether end of input has been signalled.
func (r *Resampler[F]) Ended() bool {
	return r.ended
}

// Started reports whether any input has been accepted.
func (r *Resampler[F]) Started() bool {
	return r.total > 0 || r.ended
}

// Err returns the sticky error, if any.
func (r *Resampler[F]) Err() error {
	return r.err
}

// SetError makes err sticky: Process fails with it until Clear.
func (r *Resampler[F]) SetError(err error) {
	r.err = err
}

// Channels returns the channel count.
func (r *Resampler[F]) Channels() int {
	return r.cfg.Channels
}

// SetChannels changes the channel count before any input was accepted.
func (r *Resampler[F]) SetChannels(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: invalid # of channels %d", ErrConfig, n)
	}
	if r.Started() {
		return ErrChannelsFixed
	}
	r.cfg.Channels = n
	r.reset()
	return nil
}

// Name identifies the engine variant: cr (constant rate), vr (variable
// rate) or cubic, followed by the sample size in bits.
func (r *Resampler[F]) Name() string {
	prefix := "cr"
	switch {
	case r.cfg.Quick:
		prefix = "cubic"
	case r.cfg.VariableRate:
		prefix = "vr"
	}
	if simdops.Is64[F]() {
		return prefix + "64"
	}
	return prefix + "32"
}

// Info describes the designed filter.
type Info struct {
	Taps      int
	Lookahead int
	Phases    int
	Interp    string
	CoefBytes int
}

// Info returns the filter geometry.
func (r *Resampler[F]) Info() Info {
	info := Info{Taps: r.d.taps, Lookahead: r.d.ahead, Phases: r.d.phases, Interp: "hermite"}
	if r.d.bank != nil {
		elemSize := bytesPerFloat32
		if simdops.Is64[F]() {
			elemSize = bytesPerFloat64
		}
		info.CoefBytes = r.d.bank.Bytes(elemSize)
		info.Interp = "linear"
		if r.d.order == filter.InterpCubic {
			info.Interp = "cubic"
		}
	}
	return info
}

// Response returns the magnitude response of the designed filter at the
// given frequencies (cycles per input sample). It is nil for the Quick recipe.
func (r *Resampler[F]) Response(freqs []float64) []float64 {
	if r.d.proto == nil {
		return nil
	}
	l := float64(r.d.phases)
	out := make([]float64, len(freqs))
	for i, f := range freqs {
		out[i] = filter.MagnitudeAt(r.d.proto, f/l) / l
	}
	return out
}
