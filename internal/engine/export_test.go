package engine

// Export internals for tests.

func (r *Resampler[F]) Lookahead() int  { return r.d.ahead }
func (r *Resampler[F]) HistoryLen() int { return len(r.hist[0]) }
