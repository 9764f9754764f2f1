package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Default(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(&buf, nil))

	out := buf.String()
	assert.Contains(t, out, "Version:    go-soxr-")
	assert.Contains(t, out, "Engine:     cr32")
	assert.Contains(t, out, "Phases:")
	assert.Contains(t, out, "Freq (Hz)")
}

func TestRun_Quick(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(&buf, []string{"-in", "48000", "-out", "16000", "-quality", "quick"}))

	out := buf.String()
	assert.Contains(t, out, "Engine:     cubic32")
	assert.NotContains(t, out, "Phases:")
	assert.NotContains(t, out, "Freq (Hz)")
}

func TestRun_Errors(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, run(&buf, []string{"-quality", "ultra"}))
	require.Error(t, run(&buf, []string{"-phase", "sideways"}))
	require.Error(t, run(&buf, []string{"-in", "0"}))
}

func TestParseRecipe(t *testing.T) {
	got, err := parseRecipe("28", "minimum", true)
	require.NoError(t, err)
	want, err := parseRecipe("veryhigh", "minimum", true)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestToDB(t *testing.T) {
	assert.InDelta(t, 0, toDB(1), 1e-12)
	assert.InDelta(t, -20, toDB(0.1), 1e-9)
	assert.InDelta(t, minMagnitudeDB, toDB(0), 0)
}
