package soxr

import (
	"testing"

	"github.com/tphakala/go-soxr/internal/testutil"
)

func benchmarkProcess(b *testing.B, inRate, outRate float64, channels int, opts *Options) {
	b.Helper()
	s, err := Create(inRate, outRate, channels, opts)
	if err != nil {
		b.Fatal(err)
	}
	defer func() { _ = s.Close() }()

	const frames = 4096
	mono := testutil.Sine32(frames, 1000, inRate, 0.5)
	in := make([]float32, frames*channels)
	for i, v := range mono {
		for c := range channels {
			in[i*channels+c] = v
		}
	}
	out := make([]float32, (int(float64(frames)*outRate/inRate)+1)*channels)

	b.SetBytes(int64(len(in) * 4))
	b.ResetTimer()
	for b.Loop() {
		if _, _, err := s.Process(Interleaved(in), Interleaved(out)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkProcess_44k1To48k_Mono(b *testing.B) {
	benchmarkProcess(b, 44100, 48000, 1, nil)
}

func BenchmarkProcess_48kTo44k1_Stereo(b *testing.B) {
	benchmarkProcess(b, 48000, 44100, 2, nil)
}

func BenchmarkProcess_VeryHigh_Stereo(b *testing.B) {
	q, err := NewQualitySpec(VeryHighQuality, RolloffSmall)
	if err != nil {
		b.Fatal(err)
	}
	benchmarkProcess(b, 44100, 48000, 2, &Options{Quality: &q})
}

func BenchmarkProcess_Parallel_8ch(b *testing.B) {
	rt, err := NewRuntimeSpec(0)
	if err != nil {
		b.Fatal(err)
	}
	benchmarkProcess(b, 44100, 96000, 8, &Options{Runtime: &rt})
}

func BenchmarkResample_OneShot(b *testing.B) {
	in := testutil.Sine32(44100, 1000, 44100, 0.5)
	for b.Loop() {
		if _, err := Resample(in, 44100, 48000, 1, nil); err != nil {
			b.Fatal(err)
		}
	}
}
