package engine

import "math"

// clock tracks the position of the next output sample relative to the
// start of the history buffer, in 32.32 fixed point, and advances it by
// the io ratio once per output sample.
type clock struct {
	pos   int64
	ratio float64
	step  int64

	// HighPrecisionClock: rounding error of step, accumulated per output.
	hiPrec bool
	resid  float64
	acc    float64

	// Linear ratio slew.
	target float64
	delta  float64
	slew   int
}

func (c *clock) reset(pos int64, ratio float64) {
	*c = clock{pos: pos, hiPrec: c.hiPrec}
	c.setRatio(ratio)
}

func (c *clock) setRatio(r float64) {
	exact := r * float64(clockOne)
	c.ratio = r
	c.step = int64(math.Round(exact))
	c.resid = exact - float64(c.step)
}

func (c *clock) advance() {
	c.pos += c.step
	if c.hiPrec {
		c.acc += c.resid
		if c.acc >= 0.5 {
			c.pos++
			c.acc--
		} else if c.acc <= -0.5 {
			c.pos--
			c.acc++
		}
	}
	if c.slew > 0 {
		c.slew--
		if c.slew == 0 {
			c.setRatio(c.target)
		} else {
			c.setRatio(c.ratio + c.delta)
		}
	}
}

// slewTo moves the ratio to r over n output samples (immediately for n == 0).
func (c *clock) slewTo(r float64, n int) {
	if n == 0 {
		c.slew = 0
		c.setRatio(r)
		return
	}
	c.target = r
	c.delta = (r - c.ratio) / float64(n)
	c.slew = n
}

// index is the history index of the sample at or before the position.
func (c *clock) index() int {
	return int(c.pos >> clockFracBits)
}

func (c *clock) frac() uint32 {
	return uint32(c.pos & clockFracMask)
}

// time is the position in input samples.
func (c *clock) time() float64 {
	return float64(c.pos) / float64(clockOne)
}

// peakRatio is the largest ratio reached before the current slew ends.
func (c *clock) peakRatio() float64 {
	if c.slew > 0 {
		return max(c.ratio, c.target)
	}
	return c.ratio
}

// shift rebases the position after n samples were dropped from history.
func (c *clock) shift(n int) {
	c.pos -= int64(n) << clockFracBits
}
