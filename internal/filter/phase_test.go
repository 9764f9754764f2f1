package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPrototype(t *testing.T) []float64 {
	t.Helper()
	proto, err := DesignPrototype(Params{Phases: 1, Taps: 64, Cutoff: 0.2, Attenuation: 90, Gain: 1})
	require.NoError(t, err)
	return proto
}

func TestConvertPhase_LinearIsCopy(t *testing.T) {
	proto := testPrototype(t)
	out, err := ConvertPhase(proto, LinearPhaseResponse, 0)
	require.NoError(t, err)
	assert.Equal(t, proto, out)

	out[0] = 42
	assert.NotEqual(t, 42.0, proto[0], "result must not alias the input")
}

func TestConvertPhase_Minimum(t *testing.T) {
	proto := testPrototype(t)
	out, err := ConvertPhase(proto, 0, 1024)
	require.NoError(t, err)
	require.Len(t, out, len(proto))

	// Energy moves to the start of the response.
	assert.Less(t, PeakIndex(out), PeakIndex(proto)/2)

	// Magnitude response is preserved.
	for _, f := range []float64{0, 0.05, 0.1, 0.15} {
		assert.InDelta(t, MagnitudeAt(proto, f), MagnitudeAt(out, f), 1e-2, "f=%v", f)
	}
}

func TestConvertPhase_MaximumMirrorsMinimum(t *testing.T) {
	proto := testPrototype(t)
	minimum, err := ConvertPhase(proto, 0, 1024)
	require.NoError(t, err)
	maximum, err := ConvertPhase(proto, 100, 1024)
	require.NoError(t, err)

	n := len(proto)
	for i := range n {
		assert.InDelta(t, minimum[i], maximum[n-1-i], 1e-6)
	}
}

func TestConvertPhase_Intermediate(t *testing.T) {
	proto := testPrototype(t)
	out, err := ConvertPhase(proto, 25, 1024)
	require.NoError(t, err)

	peak := PeakIndex(out)
	assert.Greater(t, peak, 0)
	assert.Less(t, peak, PeakIndex(proto))

	var dc float64
	for _, v := range out {
		dc += v
	}
	assert.InDelta(t, 1.0, dc, 1e-3)
}

func TestConvertPhase_Errors(t *testing.T) {
	proto := testPrototype(t)

	_, err := ConvertPhase(proto, -1, 1024)
	require.ErrorIs(t, err, ErrInvalidParams)

	_, err = ConvertPhase(proto, 0, 64)
	require.ErrorIs(t, err, ErrInvalidParams)

	_, err = ConvertPhase(proto, 0, 1000)
	require.ErrorIs(t, err, ErrInvalidParams)
}

func TestPeakIndex(t *testing.T) {
	assert.Equal(t, 2, PeakIndex([]float64{0.1, -0.2, -0.9, 0.5}))
	assert.Equal(t, 0, PeakIndex(nil))
}
