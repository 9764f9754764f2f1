// Command soxr-convert resamples an audio file and writes the result as WAV.
//
// Usage:
//
//	soxr-convert -rate 48000 input.wav output.wav
//	soxr-convert -rate 44100 -quality veryhigh -bits 24 input.flac.wav output.wav
//	soxr-convert -rate 16000 -phase minimum speech.mp3 speech_16k.wav
//	soxr-convert -rate 48000 -threads 0 music.ogg music_48k.wav   # one goroutine per CPU
//
// WAV (16, 24 and 32-bit PCM), MP3 and Ogg Vorbis inputs are supported.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"time"

	soxr "github.com/tphakala/go-soxr"
)

const (
	// Frames requested from the decoder per input callback
	inputBlockFrames = 16384

	// Frames written to the encoder per output call
	outputBlockFrames = 16384

	// CLI defaults
	defaultRate     = 48000.0
	minRequiredArgs = 2

	// Output bit depths
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	progressInterval = 10 // Print progress every N%
	percentScale     = 100
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// options are the parsed command line settings.
type options struct {
	rate     float64
	quality  string
	phase    string
	steep    bool
	bits     int
	threads  int
	noDither bool
	verbose  bool
}

func run() error {
	var opts options
	flag.Float64Var(&opts.rate, "rate", defaultRate, "Target sample rate in Hz")
	flag.StringVar(&opts.quality, "quality", "high", "Quality: quick, low, medium, high, veryhigh, 16, 20, 24, 28, 32")
	flag.StringVar(&opts.phase, "phase", "linear", "Phase response: linear, intermediate, minimum, maximum")
	flag.BoolVar(&opts.steep, "steep", false, "Use a steeper filter with a wider passband")
	flag.IntVar(&opts.bits, "bits", 0, "Output bit depth: 16, 24 or 32 (default: input depth, 16 for compressed input)")
	flag.IntVar(&opts.threads, "threads", 1, "Goroutines filtering channels in parallel (0 = one per CPU)")
	flag.BoolVar(&opts.noDither, "nodither", false, "Disable TPDF dither on 16-bit output")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose output")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -rate 48000 input.wav output.wav       # Resample to 48kHz\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -rate 16000 speech.mp3 speech_16k.wav  # Downsample for speech\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -rate 96000 -bits 24 in.ogg hires.wav  # Upsample to hi-res\n", os.Args[0])
		return fmt.Errorf("insufficient arguments")
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	inputPath, outputPath := args[0], args[1]
	if opts.verbose {
		log.Printf("Input: %s", inputPath)
		log.Printf("Output: %s", outputPath)
		log.Printf("Target rate: %g Hz", opts.rate)
		log.Printf("Quality: %s, phase: %s, steep: %v", opts.quality, opts.phase, opts.steep)
	}

	start := time.Now()
	stats, err := convertFile(inputPath, outputPath, &opts)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("Resampled %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d Hz -> %d Hz (%d channels, %d-bit, engine %s)\n",
		stats.inputRate, stats.outputRate, stats.channels, stats.bitDepth, stats.engine)
	fmt.Printf("  %d frames -> %d frames\n", stats.inputFrames, stats.outputFrames)
	if stats.clips > 0 {
		fmt.Printf("  %d samples clipped\n", stats.clips)
	}
	fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
		elapsed.Seconds(),
		float64(stats.inputFrames)/float64(stats.inputRate)/elapsed.Seconds())
	return nil
}

type convertStats struct {
	inputRate    int
	outputRate   int
	channels     int
	bitDepth     int
	engine       string
	inputFrames  int64
	outputFrames int64
	clips        int64
}

// parseQuality maps a quality name to a recipe, applying the phase and
// steepness modifiers.
func parseQuality(quality, phase string, steep bool) (soxr.QualityRecipe, error) {
	var recipe soxr.QualityRecipe
	switch strings.ToLower(quality) {
	case "quick":
		recipe = soxr.QuickQuality
	case "low":
		recipe = soxr.LowQuality
	case "medium":
		recipe = soxr.MediumQuality
	case "high", "20":
		recipe = soxr.HighQuality
	case "veryhigh", "very-high", "28":
		recipe = soxr.VeryHighQuality
	case "16":
		recipe = soxr.Bits16Quality
	case "24":
		recipe = soxr.Bits24Quality
	case "32":
		recipe = soxr.Bits32Quality
	default:
		return 0, fmt.Errorf("unknown quality %q", quality)
	}

	switch strings.ToLower(phase) {
	case "linear":
		recipe |= soxr.LinearPhase
	case "intermediate":
		recipe |= soxr.IntermediatePhase
	case "minimum":
		recipe |= soxr.MinimumPhase
	case "maximum":
		recipe |= soxr.MaximumPhase
	default:
		return 0, fmt.Errorf("unknown phase response %q", phase)
	}

	if steep {
		recipe |= soxr.SteepFilter
	}
	return recipe, nil
}

// outputDepth picks the output bit depth: the requested one, else the
// input's, else 16.
func outputDepth(requested, input int) (int, error) {
	depth := requested
	if depth == 0 {
		depth = input
	}
	switch depth {
	case 0:
		return bitsPerSample16, nil
	case bitsPerSample16, bitsPerSample24, bitsPerSample32:
		return depth, nil
	default:
		return 0, fmt.Errorf("unsupported output bit depth %d", depth)
	}
}

// newSession builds a session reading the source's datatype and writing
// int16 (16-bit output) or int32 (24 and 32-bit output).
func newSession(src source, opts *options, bitDepth int) (*soxr.Session, error) {
	recipe, err := parseQuality(opts.quality, opts.phase, opts.steep)
	if err != nil {
		return nil, err
	}
	quality, err := soxr.NewQualitySpec(recipe, soxr.RolloffSmall)
	if err != nil {
		return nil, err
	}
	rt, err := soxr.NewRuntimeSpec(opts.threads)
	if err != nil {
		return nil, err
	}

	outType := soxr.Int32I
	if bitDepth == bitsPerSample16 {
		outType = soxr.Int16I
	}
	ioSpec, err := soxr.NewIOSpec(src.Datatype(), outType)
	if err != nil {
		return nil, err
	}
	if opts.noDither {
		if ioSpec, err = ioSpec.WithFlags(soxr.NoDither); err != nil {
			return nil, err
		}
	}

	var logger *log.Logger
	if opts.verbose {
		logger = log.Default()
	}
	return soxr.Create(float64(src.SampleRate()), opts.rate, src.Channels(), &soxr.Options{
		IO:      &ioSpec,
		Quality: &quality,
		Runtime: &rt,
		Logger:  logger,
	})
}

func convertFile(inputPath, outputPath string, opts *options) (stats *convertStats, err error) {
	src, err := openSource(inputPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	if opts.verbose {
		log.Printf("Input format: %d Hz, %d channels, %v", src.SampleRate(), src.Channels(), src.Datatype())
	}
	if float64(src.SampleRate()) == opts.rate {
		return nil, fmt.Errorf("input already at target rate %g Hz", opts.rate)
	}

	bitDepth, err := outputDepth(opts.bits, src.BitDepth())
	if err != nil {
		return nil, err
	}
	s, err := newSession(src, opts, bitDepth)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.Close() }()

	sink, err := createWAVSink(outputPath, int(opts.rate), bitDepth, src.Channels())
	if err != nil {
		return nil, err
	}
	// The header sizes are only written on close, so its error matters.
	defer func() {
		if closeErr := sink.Close(); err == nil {
			err = closeErr
		}
	}()

	stats = &convertStats{
		inputRate:  src.SampleRate(),
		outputRate: int(opts.rate),
		channels:   src.Channels(),
		bitDepth:   bitDepth,
		engine:     s.Engine(),
	}
	progress := newProgressTracker(src.TotalFrames(), opts.verbose)
	if err := s.SetInput(countingInput(src, stats, progress), inputBlockFrames); err != nil {
		return nil, err
	}

	if bitDepth == bitsPerSample16 {
		err = drain[int16](s, sink, stats)
	} else {
		err = drain[int32](s, sink, stats)
	}
	if err != nil {
		return nil, err
	}
	stats.clips = s.NumClips()
	return stats, nil
}

// drain pulls converted frames from s until the stream ends.
func drain[T int16 | int32](s *soxr.Session, sink *wavSink, stats *convertStats) error {
	out := make([]T, outputBlockFrames*s.Channels())
	for s.State() != soxr.StateEnded {
		n, err := s.Output(soxr.Interleaved(out))
		if err != nil {
			return fmt.Errorf("resampling failed: %w", err)
		}
		if err := writeSamples(sink, out[:n*s.Channels()]); err != nil {
			return fmt.Errorf("failed to write audio data: %w", err)
		}
		stats.outputFrames += int64(n)
	}
	return nil
}
