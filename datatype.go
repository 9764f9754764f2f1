package soxr

import "fmt"

// Datatype describes how samples are laid out in a caller buffer: the
// sample representation and whether channels are interleaved or split into
// one slice per channel.
type Datatype int

// Datatypes. A split datatype is its interleaved counterpart plus 4.
const (
	Float32I Datatype = iota
	Float64I
	Int32I
	Int16I
	Float32S
	Float64S
	Int32S
	Int16S
)

const splitOffset = Float32S - Float32I

var datatypeNames = [...]string{
	Float32I: "float32-interleaved",
	Float64I: "float64-interleaved",
	Int32I:   "int32-interleaved",
	Int16I:   "int16-interleaved",
	Float32S: "float32-split",
	Float64S: "float64-split",
	Int32S:   "int32-split",
	Int16S:   "int16-split",
}

// Valid reports whether d is one of the defined datatypes.
func (d Datatype) Valid() bool {
	return d >= Float32I && d <= Int16S
}

// IsSplit reports whether d holds one slice per channel.
func (d Datatype) IsSplit() bool {
	return d >= Float32S && d <= Int16S
}

// IsInteger reports whether d holds int16 or int32 samples.
func (d Datatype) IsInteger() bool {
	switch d.interleaved() {
	case Int32I, Int16I:
		return true
	default:
		return false
	}
}

// BytesPerSample returns the size of one sample, or 0 for an invalid datatype.
func (d Datatype) BytesPerSample() int {
	switch d.interleaved() {
	case Float32I, Int32I:
		return 4
	case Float64I:
		return 8
	case Int16I:
		return 2
	default:
		return 0
	}
}

func (d Datatype) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Datatype(%d)", int(d))
	}
	return datatypeNames[d]
}

func (d Datatype) interleaved() Datatype {
	if d.IsSplit() {
		return d - splitOffset
	}
	return d
}

// datatypeOf maps a Go sample type to its datatype.
func datatypeOf[T Sample](split bool) Datatype {
	var zero T
	var d Datatype
	switch any(zero).(type) {
	case float32:
		d = Float32I
	case float64:
		d = Float64I
	case int32:
		d = Int32I
	case int16:
		d = Int16I
	}
	if split {
		d += splitOffset
	}
	return d
}
