package audio

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate = 16000
	frameSize  = 320 // 20ms
	frameDur   = 20 * time.Millisecond
)

// ErrNoSpeech is returned when no voice onset happens before the timeout.
var ErrNoSpeech = errors.New("no speech before timeout")

type RecorderConfig struct {
	SilenceThreshRMS float64       // floor for the VAD threshold
	SilenceDuration  time.Duration // trailing silence that ends a phrase
	Calibration      time.Duration // ambient noise sampling before listening, 0 disables
}

func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		SilenceThreshRMS: 0.015,
		SilenceDuration:  600 * time.Millisecond,
		Calibration:      500 * time.Millisecond,
	}
}

type Recorder struct {
	cfg RecorderConfig
}

func NewRecorder(cfg RecorderConfig) *Recorder {
	if cfg.SilenceThreshRMS <= 0 {
		cfg.SilenceThreshRMS = DefaultRecorderConfig().SilenceThreshRMS
	}
	if cfg.SilenceDuration <= 0 {
		cfg.SilenceDuration = DefaultRecorderConfig().SilenceDuration
	}
	return &Recorder{cfg: cfg}
}

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Capture records one phrase of mono 16kHz PCM. It waits at most timeout
// for speech to start and stops after trailing silence or phraseLimit.
func (r *Recorder) Capture(ctx context.Context, timeout, phraseLimit time.Duration) ([]float32, error) {
	buf := make([]float32, frameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	read := func() (float64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := stream.Read(); err != nil {
			return 0, err
		}
		return frameRMS(buf), nil
	}

	thresh := r.cfg.SilenceThreshRMS
	if r.cfg.Calibration > 0 {
		var (
			sum    float64
			frames = int(r.cfg.Calibration / frameDur)
		)
		for i := 0; i < frames; i++ {
			rms, err := read()
			if err != nil {
				return nil, err
			}
			sum += rms
		}
		if frames > 0 {
			thresh = adjustThreshold(thresh, sum/float64(frames))
		}
	}

	v := newVAD(thresh, r.cfg.SilenceDuration, timeout, phraseLimit)
	out := make([]float32, 0, SampleRate*3)

	for {
		rms, err := read()
		if err != nil {
			return nil, err
		}

		keep, done := v.push(rms)
		if keep {
			out = append(out, buf...)
		}
		if done {
			break
		}
	}

	if !v.spoke() {
		return nil, ErrNoSpeech
	}
	return out, nil
}

// adjustThreshold raises the VAD threshold above measured ambient noise.
func adjustThreshold(floor, ambient float64) float64 {
	return math.Max(floor, ambient*1.5)
}

// vad is the frame-by-frame phrase detector behind Capture.
type vad struct {
	thresh        float64
	silenceFrames int
	onsetFrames   int
	phraseFrames  int

	speaking bool
	waited   int
	length   int
	silent   int
}

func newVAD(thresh float64, silence, timeout, phraseLimit time.Duration) *vad {
	return &vad{
		thresh:        thresh,
		silenceFrames: max(1, int(silence/frameDur)),
		onsetFrames:   max(1, int(timeout/frameDur)),
		phraseFrames:  max(1, int(phraseLimit/frameDur)),
	}
}

// push feeds one frame's RMS and reports whether the frame belongs to the
// phrase and whether capture is finished.
func (v *vad) push(rms float64) (keep, done bool) {
	if !v.speaking {
		if rms <= v.thresh {
			v.waited++
			return false, v.waited >= v.onsetFrames
		}
		v.speaking = true
	}

	v.length++
	if rms > v.thresh {
		v.silent = 0
	} else {
		v.silent++
	}

	return true, v.silent >= v.silenceFrames || v.length >= v.phraseFrames
}

func (v *vad) spoke() bool {
	return v.speaking
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
