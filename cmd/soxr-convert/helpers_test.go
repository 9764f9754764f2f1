package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	soxr "github.com/tphakala/go-soxr"
	"github.com/tphakala/go-soxr/internal/testutil"
)

// writeTestWAV writes a mono 16-bit sine of n frames.
func writeTestWAV(t *testing.T, path string, rate, n int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           make([]int, n),
		SourceBitDepth: bitsPerSample16,
	}
	for i := range buf.Data {
		buf.Data[i] = int(8000 * math.Sin(2*math.Pi*1000*float64(i)/float64(rate)))
	}
	enc := wav.NewEncoder(f, rate, bitsPerSample16, 1, 1)
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
}

func TestOpenSource_FileNotFound(t *testing.T) {
	_, err := openSource("/nonexistent/file.wav")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input file")
}

func TestOpenSource_UnsupportedExtension(t *testing.T) {
	_, err := openSource("track.flac")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported input format")
}

func TestOpenSource_InvalidWAV(t *testing.T) {
	invalidFile := filepath.Join(t.TempDir(), "invalid.wav")
	require.NoError(t, os.WriteFile(invalidFile, []byte("not a wav file"), 0o644))

	_, err := openSource(invalidFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid WAV file")
}

func TestOpenSource_InvalidMP3(t *testing.T) {
	invalidFile := filepath.Join(t.TempDir(), "invalid.mp3")
	require.NoError(t, os.WriteFile(invalidFile, []byte("not an mp3 file"), 0o644))

	_, err := openSource(invalidFile)
	require.Error(t, err)
}

func TestOpenSource_InvalidOgg(t *testing.T) {
	invalidFile := filepath.Join(t.TempDir(), "invalid.ogg")
	require.NoError(t, os.WriteFile(invalidFile, []byte("not an ogg file"), 0o644))

	_, err := openSource(invalidFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid Ogg Vorbis file")
}

func TestParseQuality(t *testing.T) {
	tests := []struct {
		quality string
		phase   string
		steep   bool
		want    soxr.QualityRecipe
	}{
		{"quick", "linear", false, soxr.QuickQuality},
		{"low", "linear", false, soxr.LowQuality},
		{"medium", "linear", false, soxr.MediumQuality},
		{"high", "linear", false, soxr.HighQuality},
		{"HIGH", "linear", false, soxr.HighQuality},
		{"veryhigh", "linear", false, soxr.VeryHighQuality},
		{"16", "linear", false, soxr.Bits16Quality},
		{"24", "minimum", false, soxr.Bits24Quality | soxr.MinimumPhase},
		{"32", "intermediate", true, soxr.Bits32Quality | soxr.IntermediatePhase | soxr.SteepFilter},
		{"high", "maximum", false, soxr.HighQuality | soxr.MaximumPhase},
	}

	for _, tt := range tests {
		t.Run(tt.quality+"/"+tt.phase, func(t *testing.T) {
			got, err := parseQuality(tt.quality, tt.phase, tt.steep)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseQuality_Invalid(t *testing.T) {
	_, err := parseQuality("ultra", "linear", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown quality")

	_, err = parseQuality("high", "sideways", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown phase response")
}

func TestOutputDepth(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		input     int
		want      int
		wantErr   bool
	}{
		{"follows input", 0, 24, 24, false},
		{"compressed input", 0, 0, 16, false},
		{"explicit", 32, 16, 32, false},
		{"unsupported", 12, 16, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputDepth(tt.requested, tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertFile_WAV(t *testing.T) {
	tests := []struct {
		name string
		bits int
	}{
		{"16-bit", 16},
		{"24-bit", 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			in := filepath.Join(dir, "in.wav")
			out := filepath.Join(dir, "out.wav")
			writeTestWAV(t, in, 44100, 4410)

			opts := &options{rate: 48000, quality: "high", phase: "linear", bits: tt.bits, threads: 1}
			stats, err := convertFile(in, out, opts)
			require.NoError(t, err)
			assert.Equal(t, int64(4410), stats.inputFrames)
			assert.InDelta(t, 4800, stats.outputFrames, 2)
			assert.Equal(t, tt.bits, stats.bitDepth)

			f, err := os.Open(out)
			require.NoError(t, err)
			defer func() { _ = f.Close() }()

			dec := wav.NewDecoder(f)
			require.True(t, dec.IsValidFile())
			assert.Equal(t, uint32(48000), dec.SampleRate)
			assert.Equal(t, uint16(tt.bits), dec.BitDepth)

			buf, err := dec.FullPCMBuffer()
			require.NoError(t, err)
			assert.Len(t, buf.Data, int(stats.outputFrames))

			peak := 0
			for _, v := range buf.Data {
				peak = max(peak, v, -v)
			}
			// 8000 in 16-bit units, scaled to the output depth.
			want := 8000.0 * math.Pow(2, float64(tt.bits-16))
			testutil.AssertInRange(t, float64(peak), 0.95*want, 1.05*want)
		})
	}
}

func TestConvertFile_SameRate(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	writeTestWAV(t, in, 48000, 480)

	_, err := convertFile(in, filepath.Join(dir, "out.wav"), &options{rate: 48000, quality: "high", phase: "linear"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already at target rate")
}

func TestProgressTracker(t *testing.T) {
	p := newProgressTracker(1000, true)
	p.reportIfNeeded(50)
	assert.Equal(t, 0, p.lastProgress)
	p.reportIfNeeded(250)
	assert.Equal(t, 25, p.lastProgress)

	quiet := newProgressTracker(1000, false)
	quiet.reportIfNeeded(900)
	assert.Equal(t, 0, quiet.lastProgress)
}
