package audioconv

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// EncodeWAV16k encodes mono 16kHz float32 PCM as a 16-bit PCM WAV file.
func EncodeWAV16k(pcm []float32) ([]byte, error) {
	if len(pcm) == 0 {
		return nil, errors.New("no samples")
	}

	ws := &memWriteSeeker{}
	enc := wav.NewEncoder(ws, 16000, 16, 1, 1)

	data := make([]int, len(pcm))
	for i, v := range pcm {
		data[i] = int(math.Round(clamp(float64(v), -1, 1) * math.MaxInt16))
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 16000},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close wav: %w", err)
	}

	return ws.buf, nil
}

// memWriteSeeker is the in-memory io.WriteSeeker the wav encoder needs to
// patch its header on Close.
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	if need := m.pos + len(p); need > len(m.buf) {
		m.buf = append(m.buf, make([]byte, need-len(m.buf))...)
	}
	n := copy(m.buf[m.pos:], p)
	m.pos += n
	return n, nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(m.pos) + offset
	case io.SeekEnd:
		abs = int64(len(m.buf)) + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("negative position")
	}
	m.pos = int(abs)
	return abs, nil
}
