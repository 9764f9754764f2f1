package sampleconv

// Gain returns the linear gain applied on Store.
func (q *Quantizer) Gain() float64 {
	return q.gain
}
