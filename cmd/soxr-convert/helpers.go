package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"

	soxr "github.com/tphakala/go-soxr"
)

const (
	// go-mp3 always decodes to 16-bit stereo.
	mp3Channels       = 2
	mp3BytesPerSample = 2

	int32Bits = 32
)

// source is a decoded input file handing out interleaved blocks.
type source interface {
	SampleRate() int
	Channels() int
	// BitDepth is the PCM depth of the file, 0 for compressed formats.
	BitDepth() int
	Datatype() soxr.Datatype
	// TotalFrames is the stream length if known, else 0.
	TotalFrames() int64
	// Read returns up to maxFrames frames, or io.EOF once the file is exhausted.
	Read(maxFrames int) (soxr.Buffer, int, error)
	Close() error
}

// openSource picks a decoder by file extension.
func openSource(path string) (source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav", ".wave":
	case ".mp3":
	case ".ogg", ".oga":
	default:
		return nil, fmt.Errorf("unsupported input format %q", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	var src source
	switch ext {
	case ".mp3":
		src, err = newMP3Source(f)
	case ".ogg", ".oga":
		src, err = newOggSource(f)
	default:
		src, err = newWAVSource(f)
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}

// wavSource decodes PCM WAV and scales samples to full int32 range.
type wavSource struct {
	f        *os.File
	dec      *wav.Decoder
	rate     int
	channels int
	bitDepth int
	total    int64
	buf      *audio.IntBuffer
	out      []int32
}

func newWAVSource(f *os.File) (*wavSource, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}
	format := dec.Format()
	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case bitsPerSample16, bitsPerSample24, bitsPerSample32:
	default:
		return nil, fmt.Errorf("unsupported WAV bit depth %d", bitDepth)
	}

	var total int64
	if d, err := dec.Duration(); err == nil {
		total = int64(d.Seconds() * float64(format.SampleRate))
	}
	return &wavSource{
		f:        f,
		dec:      dec,
		rate:     format.SampleRate,
		channels: format.NumChannels,
		bitDepth: bitDepth,
		total:    total,
		buf:      &audio.IntBuffer{Format: format},
	}, nil
}

func (s *wavSource) SampleRate() int         { return s.rate }
func (s *wavSource) Channels() int           { return s.channels }
func (s *wavSource) BitDepth() int           { return s.bitDepth }
func (s *wavSource) Datatype() soxr.Datatype { return soxr.Int32I }
func (s *wavSource) TotalFrames() int64      { return s.total }
func (s *wavSource) Close() error            { return s.f.Close() }

func (s *wavSource) Read(maxFrames int) (soxr.Buffer, int, error) {
	want := maxFrames * s.channels
	if cap(s.buf.Data) < want {
		s.buf.Data = make([]int, want)
		s.out = make([]int32, want)
	}
	s.buf.Data = s.buf.Data[:want]

	n, err := s.dec.PCMBuffer(s.buf)
	frames := n / s.channels
	if frames == 0 {
		if err == nil {
			err = io.EOF
		}
		return nil, 0, err
	}
	shift := int32Bits - s.bitDepth
	out := s.out[:frames*s.channels]
	for i := range out {
		out[i] = int32(s.buf.Data[i]) << shift
	}
	return soxr.Interleaved(out), frames, nil
}

// mp3Source decodes MP3 to 16-bit stereo.
type mp3Source struct {
	f     *os.File
	dec   *gomp3.Decoder
	total int64
	raw   []byte
	out   []int16
	err   error
}

func newMP3Source(f *os.File) (*mp3Source, error) {
	dec, err := gomp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("invalid MP3 file: %w", err)
	}
	var total int64
	if n := dec.Length(); n > 0 {
		total = n / (mp3Channels * mp3BytesPerSample)
	}
	return &mp3Source{f: f, dec: dec, total: total}, nil
}

func (s *mp3Source) SampleRate() int         { return s.dec.SampleRate() }
func (s *mp3Source) Channels() int           { return mp3Channels }
func (s *mp3Source) BitDepth() int           { return 0 }
func (s *mp3Source) Datatype() soxr.Datatype { return soxr.Int16I }
func (s *mp3Source) TotalFrames() int64      { return s.total }
func (s *mp3Source) Close() error            { return s.f.Close() }

func (s *mp3Source) Read(maxFrames int) (soxr.Buffer, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	frameBytes := mp3Channels * mp3BytesPerSample
	if cap(s.raw) < maxFrames*frameBytes {
		s.raw = make([]byte, maxFrames*frameBytes)
		s.out = make([]int16, maxFrames*mp3Channels)
	}
	n, err := io.ReadFull(s.dec, s.raw[:maxFrames*frameBytes])
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		s.err = io.EOF
	case err != nil:
		s.err = err
	}
	frames := n / frameBytes
	if frames == 0 {
		return nil, 0, s.err
	}
	out := s.out[:frames*mp3Channels]
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(s.raw[i*mp3BytesPerSample:]))
	}
	return soxr.Interleaved(out), frames, nil
}

// oggSource decodes Ogg Vorbis to float32.
type oggSource struct {
	f   *os.File
	dec *oggvorbis.Reader
	out []float32
	err error
}

func newOggSource(f *os.File) (*oggSource, error) {
	dec, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("invalid Ogg Vorbis file: %w", err)
	}
	return &oggSource{f: f, dec: dec}, nil
}

func (s *oggSource) SampleRate() int         { return s.dec.SampleRate() }
func (s *oggSource) Channels() int           { return s.dec.Channels() }
func (s *oggSource) BitDepth() int           { return 0 }
func (s *oggSource) Datatype() soxr.Datatype { return soxr.Float32I }
func (s *oggSource) TotalFrames() int64      { return s.dec.Length() }
func (s *oggSource) Close() error            { return s.f.Close() }

func (s *oggSource) Read(maxFrames int) (soxr.Buffer, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	ch := s.dec.Channels()
	if cap(s.out) < maxFrames*ch {
		s.out = make([]float32, maxFrames*ch)
	}
	n, err := s.dec.Read(s.out[:maxFrames*ch])
	if err != nil {
		s.err = err
	}
	frames := n / ch
	if frames == 0 {
		if s.err == nil {
			s.err = io.EOF
		}
		return nil, 0, s.err
	}
	return soxr.Interleaved(s.out[:frames*ch]), frames, nil
}

// countingInput adapts a source to a session input function, counting
// frames and reporting progress. End of file ends the input.
func countingInput(src source, stats *convertStats, progress *progressTracker) soxr.InputFunc {
	return func(maxFrames int) (soxr.Buffer, error) {
		b, frames, err := src.Read(maxFrames)
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}
		stats.inputFrames += int64(frames)
		progress.reportIfNeeded(stats.inputFrames)
		return b, nil
	}
}

// wavSink writes PCM WAV through the go-audio encoder.
type wavSink struct {
	f        *os.File
	enc      *wav.Encoder
	buf      *audio.IntBuffer
	bitDepth int
}

func createWAVSink(path string, sampleRate, bitDepth, channels int) (*wavSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	const pcmFormat = 1
	return &wavSink{
		f:        f,
		enc:      wav.NewEncoder(f, sampleRate, bitDepth, channels, pcmFormat),
		buf:      &audio.IntBuffer{Format: &audio.Format{NumChannels: channels, SampleRate: sampleRate}, SourceBitDepth: bitDepth},
		bitDepth: bitDepth,
	}, nil
}

// writeSamples narrows full-range int32 samples to the sink depth; int16
// samples are written as they are.
func writeSamples[T int16 | int32](w *wavSink, samples []T) error {
	if len(samples) == 0 {
		return nil
	}
	shift := 0
	if _, wide := any(samples).([]int32); wide {
		shift = int32Bits - w.bitDepth
	}
	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]
	for i, v := range samples {
		w.buf.Data[i] = int(v) >> shift
	}
	return w.enc.Write(w.buf)
}

// Close finalises the WAV header and closes the file.
func (w *wavSink) Close() error {
	if err := w.enc.Close(); err != nil {
		_ = w.f.Close()
		return err
	}
	return w.f.Close()
}

// progressTracker handles progress reporting.
type progressTracker struct {
	totalFrames  int64
	lastProgress int
	verbose      bool
}

func newProgressTracker(totalFrames int64, verbose bool) *progressTracker {
	return &progressTracker{totalFrames: totalFrames, verbose: verbose}
}

// reportIfNeeded reports progress if threshold crossed.
func (p *progressTracker) reportIfNeeded(currentFrames int64) {
	if !p.verbose || p.totalFrames == 0 {
		return
	}
	progress := int(float64(currentFrames) / float64(p.totalFrames) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		log.Printf("Progress: %d%%", progress)
		p.lastProgress = progress
	}
}
