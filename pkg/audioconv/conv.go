// Package audioconv turns recorded clips into the mono 16kHz float32 PCM
// speech engines expect, and back into WAV for engines that want a file.
package audioconv

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	popus "github.com/pekim/opus"
)

const SampleRate = 16000

var ErrUnsupported = errors.New("audioconv: unsupported format")

// Options bounds decoding; MaxSamples 0 means no limit.
type Options struct {
	MaxSamples int
}

// stream is decoded audio before it is brought to mono 16kHz.
type stream struct {
	samples  []float32 // interleaved
	channels int
	rate     int
}

type decoder func(r io.ReadSeeker) (stream, error)

// decoders lists, per extension, the codecs tried in order. Ogg files may
// carry either Vorbis or Opus.
var decoders = map[string][]decoder{
	".wav":  {decodeWAV},
	".mp3":  {decodeMP3},
	".ogg":  {decodeVorbis, decodeOpus},
	".oga":  {decodeVorbis, decodeOpus},
	".opus": {decodeOpus},
}

// Supported reports whether DecodeFile understands path's extension.
func Supported(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// DecodeFile decodes a wav, mp3, ogg or opus clip into mono PCM at
// SampleRate.
func DecodeFile(path string, opt Options) ([]float32, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decs, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var errs []error
	for _, dec := range decs {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		s, err := dec(f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return s.mono16k(opt.MaxSamples), nil
	}
	return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), errors.Join(errs...))
}

func (s stream) mono16k(maxSamples int) []float32 {
	x := downmixInterleaved(s.samples, s.channels)
	x = resampleLinear(x, s.rate, SampleRate)
	if maxSamples > 0 && len(x) > maxSamples {
		x = x[:maxSamples]
	}
	return x
}

func decodeWAV(r io.ReadSeeker) (stream, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return stream{}, errors.New("invalid wav")
	}
	pb, err := dec.FullPCMBuffer()
	if err != nil {
		return stream{}, fmt.Errorf("read wav: %w", err)
	}
	if pb == nil || len(pb.Data) == 0 || pb.Format == nil {
		return stream{}, errors.New("empty wav")
	}

	depth := int(dec.BitDepth)
	if depth == 0 {
		depth = 16
	}
	return stream{
		samples:  intSliceToFloat32(pb.Data, depth),
		channels: max(pb.Format.NumChannels, 1),
		rate:     pb.Format.SampleRate,
	}, nil
}

// decodeMP3 relies on go-mp3 always producing 16-bit little-endian stereo.
func decodeMP3(r io.ReadSeeker) (stream, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return stream{}, err
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return stream{}, fmt.Errorf("read mp3: %w", err)
	}

	samples := make([]float32, len(raw)/2)
	for i := range samples {
		samples[i] = float32(int16(binary.LittleEndian.Uint16(raw[2*i:]))) / 32768
	}
	return stream{samples: samples, channels: 2, rate: dec.SampleRate()}, nil
}

func decodeVorbis(r io.ReadSeeker) (stream, error) {
	pcm, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return stream{}, fmt.Errorf("vorbis: %w", err)
	}
	if format == nil || format.Channels <= 0 {
		return stream{}, errors.New("vorbis: invalid stream")
	}
	return stream{samples: pcm, channels: format.Channels, rate: format.SampleRate}, nil
}

// opusRate is the rate libopus decodes at regardless of the input.
const opusRate = 48000

func decodeOpus(r io.ReadSeeker) (stream, error) {
	dec, err := popus.NewDecoder(r)
	if err != nil {
		return stream{}, fmt.Errorf("opus: %w", err)
	}
	defer dec.Destroy()

	ch := max(dec.ChannelCount(), 1)
	buf := make([]int16, opusRate/2*ch)

	var samples []float32
	for {
		n, err := dec.Read(buf) // n counts frames, not samples
		for _, v := range buf[:n*ch] {
			samples = append(samples, float32(v)/32768)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return stream{}, fmt.Errorf("opus: %w", err)
		}
	}
	return stream{samples: samples, channels: ch, rate: opusRate}, nil
}

func intSliceToFloat32(data []int, bitDepth int) []float32 {
	out := make([]float32, len(data))
	scale := 1.0 / float64(int64(1)<<(bitDepth-1))
	for i, v := range data {
		out[i] = float32(clamp(float64(v)*scale, -1, 1))
	}
	return out
}

func downmixInterleaved(in []float32, channels int) []float32 {
	if channels <= 1 {
		return in
	}
	out := make([]float32, len(in)/channels)
	for i := range out {
		var sum float32
		for _, v := range in[i*channels : (i+1)*channels] {
			sum += v
		}
		out[i] = sum / float32(channels)
	}
	return out
}

// resampleLinear interpolates between neighbouring samples. It is enough
// for speech recognition, which discards most of the spectrum anyway.
func resampleLinear(in []float32, inRate, outRate int) []float32 {
	if inRate <= 0 || inRate == outRate || len(in) == 0 {
		return in
	}
	ratio := float64(outRate) / float64(inRate)
	out := make([]float32, int(math.Ceil(float64(len(in))*ratio)))
	last := len(in) - 1
	for i := range out {
		pos := float64(i) / ratio
		j := int(pos)
		if j >= last {
			out[i] = in[last]
			continue
		}
		frac := float32(pos - float64(j))
		out[i] = in[j]*(1-frac) + in[j+1]*frac
	}
	return out
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}
