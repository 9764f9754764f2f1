// Command soxr-info prints the filter a session designs for a conversion
// and samples its frequency response.
//
// Usage:
//
//	soxr-info -in 44100 -out 48000
//	soxr-info -in 48000 -out 16000 -quality veryhigh -phase minimum
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strings"

	"github.com/tphakala/simd/cpu"

	soxr "github.com/tphakala/go-soxr"
)

const (
	defaultInRate  = 44100.0
	defaultOutRate = 48000.0

	// Frames fed before reading the delay, so the filter is primed.
	primeFrames = 4096

	// Response table points between DC and the lower Nyquist frequency.
	responsePoints = 16

	minMagnitudeDB = -200.0
)

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("soxr-info", flag.ContinueOnError)
	inRate := fs.Float64("in", defaultInRate, "Input sample rate in Hz")
	outRate := fs.Float64("out", defaultOutRate, "Output sample rate in Hz")
	quality := fs.String("quality", "high", "Quality: quick, low, medium, high, veryhigh, 16, 20, 24, 28, 32")
	phase := fs.String("phase", "linear", "Phase response: linear, intermediate, minimum, maximum")
	steep := fs.Bool("steep", false, "Use a steeper filter with a wider passband")
	if err := fs.Parse(args); err != nil {
		return err
	}

	recipe, err := parseRecipe(*quality, *phase, *steep)
	if err != nil {
		return err
	}
	q, err := soxr.NewQualitySpec(recipe, soxr.RolloffSmall)
	if err != nil {
		return err
	}
	s, err := soxr.Create(*inRate, *outRate, 1, &soxr.Options{Quality: &q})
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	delay, err := primedDelay(s, *outRate / *inRate)
	if err != nil {
		return err
	}

	info := s.Info()
	fmt.Fprintf(w, "Version:    %s\n", soxr.Version())
	fmt.Fprintf(w, "CPU:        %s\n", cpu.Info())
	fmt.Fprintf(w, "Conversion: %g Hz -> %g Hz\n", *inRate, *outRate)
	fmt.Fprintf(w, "Engine:     %s\n", info.Engine)
	fmt.Fprintf(w, "Taps:       %d\n", info.Taps)
	if info.Phases > 0 {
		fmt.Fprintf(w, "Phases:     %d\n", info.Phases)
		fmt.Fprintf(w, "Lookahead:  %d\n", info.Lookahead)
		fmt.Fprintf(w, "Interp:     %s\n", info.Interp)
		fmt.Fprintf(w, "Coef bytes: %d\n", info.CoefBytes)
	}
	fmt.Fprintf(w, "Delay:      %.3f output frames\n", delay)

	nyquist := math.Min(*inRate, *outRate) / 2
	freqs := make([]float64, responsePoints+1)
	for i := range freqs {
		freqs[i] = nyquist * float64(i) / responsePoints
	}
	mags := s.Response(freqs)
	if mags == nil {
		return nil
	}
	fmt.Fprintf(w, "\n%12s  %10s\n", "Freq (Hz)", "Mag (dB)")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 24))
	for i, f := range freqs {
		fmt.Fprintf(w, "%12.1f  %10.2f\n", f, toDB(mags[i]))
	}
	return nil
}

// primedDelay feeds a block of silence so the delay reflects a running
// stream rather than an empty one.
func primedDelay(s *soxr.Session, ratio float64) (float64, error) {
	in := make([]float32, primeFrames)
	out := make([]float32, int(math.Ceil(primeFrames*ratio))+1)
	if _, _, err := s.Process(soxr.Interleaved(in), soxr.Interleaved(out)); err != nil {
		return 0, err
	}
	return s.Delay(), nil
}

func toDB(mag float64) float64 {
	if mag <= 0 {
		return minMagnitudeDB
	}
	return math.Max(20*math.Log10(mag), minMagnitudeDB)
}

func parseRecipe(quality, phase string, steep bool) (soxr.QualityRecipe, error) {
	recipes := map[string]soxr.QualityRecipe{
		"quick":    soxr.QuickQuality,
		"low":      soxr.LowQuality,
		"medium":   soxr.MediumQuality,
		"high":     soxr.HighQuality,
		"veryhigh": soxr.VeryHighQuality,
		"16":       soxr.Bits16Quality,
		"20":       soxr.Bits20Quality,
		"24":       soxr.Bits24Quality,
		"28":       soxr.Bits28Quality,
		"32":       soxr.Bits32Quality,
	}
	phases := map[string]soxr.QualityRecipe{
		"linear":       soxr.LinearPhase,
		"intermediate": soxr.IntermediatePhase,
		"minimum":      soxr.MinimumPhase,
		"maximum":      soxr.MaximumPhase,
	}

	recipe, ok := recipes[strings.ToLower(quality)]
	if !ok {
		return 0, fmt.Errorf("unknown quality %q", quality)
	}
	mod, ok := phases[strings.ToLower(phase)]
	if !ok {
		return 0, fmt.Errorf("unknown phase response %q", phase)
	}
	recipe |= mod
	if steep {
		recipe |= soxr.SteepFilter
	}
	return recipe, nil
}
