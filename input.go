package soxr

import (
	"errors"
	"fmt"
)

var errNoInput = errors.New("no input function set")

// InputFunc supplies input to Output on demand. It is asked for at most
// maxFrames frames and returns a nil Buffer at end of input. An empty,
// non-nil Buffer means no input is available yet.
type InputFunc func(maxFrames int) (Buffer, error)

// pullSource tracks the buffer an InputFunc last returned.
type pullSource struct {
	fn        InputFunc
	maxFrames int

	buf    Buffer
	frames int
	off    int
	done   bool
}

func (p *pullSource) reset() {
	p.buf = nil
	p.frames, p.off = 0, 0
	p.done = false
}

// SetInput switches the session to pull mode: Output asks fn for input as
// it needs it. maxFrames of 0 selects a default block size.
func (s *Session) SetInput(fn InputFunc, maxFrames int) error {
	const name = "Session.SetInput"
	if s.h == nil {
		return processError(name, ErrClosed)
	}
	if fn == nil {
		return processError(name, errors.New("input function is nil"))
	}
	if maxFrames < 0 {
		return processError(name, fmt.Errorf("invalid input block of %d frames", maxFrames))
	}
	if maxFrames == 0 {
		maxFrames = defaultInputFrames
	}
	s.pull = &pullSource{fn: fn, maxFrames: maxFrames}
	return nil
}

// Output fills out with converted frames, pulling input from the function
// given to SetInput. It returns fewer frames than out holds only when the
// input function has nothing available or the stream has ended.
func (s *Session) Output(out Buffer) (int, error) {
	const name = "Session.Output"
	if s.h == nil {
		return 0, processError(name, ErrClosed)
	}
	if s.pull == nil {
		return 0, processError(name, errNoInput)
	}
	outFrames, err := s.checkOutput(name, out)
	if err != nil {
		return 0, err
	}

	p := s.pull
	produced := 0
	for produced < outFrames {
		if p.buf == nil && !p.done {
			b, err := p.fn(p.maxFrames)
			if err != nil {
				return produced, processError(name, fmt.Errorf("%w: %w", ErrInputFunc, err))
			}
			if b == nil {
				p.done = true
			} else {
				n, err := s.checkInput(name, b)
				if err != nil {
					return produced, err
				}
				if n == 0 {
					break
				}
				p.buf, p.frames, p.off = b, n, 0
			}
		}

		var in Buffer
		inFrames := 0
		if !p.done {
			in = p.buf.slice(p.off, s.channels)
			inFrames = p.frames - p.off
		}
		consumed, n, err := s.h.process(in, out.slice(produced, s.channels), inFrames, outFrames-produced, s.q)
		if err != nil {
			return produced, processError(name, err)
		}
		produced += n

		if p.done {
			s.drained(n)
			if n == 0 {
				break
			}
			continue
		}
		p.off += consumed
		if p.off == p.frames {
			p.buf = nil
		}
	}
	return produced, nil
}
