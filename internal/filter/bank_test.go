package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBank_Layout(t *testing.T) {
	const phases, taps = 4, 3
	proto := make([]float64, phases*taps-1)
	for i := range proto {
		proto[i] = float64(i + 1)
	}

	bank, err := NewBank(proto, phases, taps, InterpLinear)
	require.NoError(t, err)
	require.Len(t, bank.Rows, phases+1)

	// g[n] = proto[n-1]; row q, tap k = g[phases*(taps-1-k) + q].
	assert.Equal(t, []float64{proto[7], proto[3], 0}, bank.Rows[0])
	assert.Equal(t, []float64{proto[8], proto[4], proto[0]}, bank.Rows[1])
	assert.Equal(t, []float64{proto[10], proto[6], proto[2]}, bank.Rows[3])
	assert.Equal(t, bank.Rows[0][:taps-1], bank.Rows[phases][1:])
}

func TestNewBank_CubicMatchesAtPhases(t *testing.T) {
	proto, err := DesignPrototype(Params{Phases: 16, Taps: 8, Cutoff: 0.2, Attenuation: 80, Gain: 1})
	require.NoError(t, err)

	linear, err := NewBank(proto, 16, 8, InterpLinear)
	require.NoError(t, err)
	cubic, err := NewBank(proto, 16, 8, InterpCubic)
	require.NoError(t, err)

	for q := range 16 {
		for k := range 8 {
			assert.InDelta(t, linear.Rows[q][k], cubic.Coefficient(k, q, 0), 1e-12)
			assert.InDelta(t, linear.Rows[q+1][k], cubic.Coefficient(k, q, 1), 1e-12)
			mid := linear.Coefficient(k, q, 0.5)
			assert.InDelta(t, mid, cubic.Coefficient(k, q, 0.5), 0.05)
		}
	}
}

func TestNewBank_Errors(t *testing.T) {
	_, err := NewBank(make([]float64, 10), 4, 3, InterpLinear)
	require.ErrorIs(t, err, ErrInvalidParams)

	_, err = NewBank(make([]float64, 11), 4, 3, InterpOrder(2))
	require.ErrorIs(t, err, ErrInvalidParams)
}

func TestTableBytes(t *testing.T) {
	proto := make([]float64, 4*3-1)
	for _, order := range []InterpOrder{InterpLinear, InterpCubic} {
		bank, err := NewBank(proto, 4, 3, order)
		require.NoError(t, err)
		assert.Equal(t, TableBytes(4, 3, order, 4), bank.Bytes(4))
	}
}
