package listen

import (
	"context"
	"errors"
	log "log/slog"
	"time"

	"voxa/pkg/stt"
)

type Capturer interface {
	Capture(ctx context.Context, timeout, phraseLimit time.Duration) ([]float32, error)
}

// Ducker turns other audio down while the microphone is open.
type Ducker interface {
	Duck(ctx context.Context) error
	Restore(ctx context.Context) error
}

type Chime interface {
	Play(ctx context.Context) error
}

type Notifier interface {
	Listening()
	Heard(text string)
}

type MicDeps struct {
	Recorder Capturer
	Engine   stt.Engine
	Options  stt.Options

	// Optional.
	Ducker   Ducker
	Chime    Chime
	Notifier Notifier
}

// Mic records one phrase from the default input device and transcribes it.
type Mic struct {
	d MicDeps
}

func NewMic(d MicDeps) (*Mic, error) {
	if d.Recorder == nil {
		return nil, errors.New("listen: recorder must not be nil")
	}
	if d.Engine == nil {
		return nil, errors.New("listen: engine must not be nil")
	}
	return &Mic{d: d}, nil
}

func (m *Mic) Listen(ctx context.Context, timeout, phraseLimit time.Duration) (string, error) {
	if m.d.Chime != nil {
		if err := m.d.Chime.Play(ctx); err != nil {
			log.Debug("Chime failed", "err", err)
		}
	}
	if m.d.Notifier != nil {
		m.d.Notifier.Listening()
	}

	pcm, err := m.capture(ctx, timeout, phraseLimit)
	if err != nil {
		return "", noSpeech(err)
	}
	log.Debug("Recorded", "samples", len(pcm))

	text, err := transcribe(ctx, m.d.Engine, m.d.Options, pcm)
	if err != nil {
		return "", err
	}
	if m.d.Notifier != nil {
		m.d.Notifier.Heard(text)
	}
	return text, nil
}

func (m *Mic) capture(ctx context.Context, timeout, phraseLimit time.Duration) ([]float32, error) {
	if m.d.Ducker != nil {
		if err := m.d.Ducker.Duck(ctx); err != nil {
			log.Debug("Duck failed", "err", err)
		}
		defer func() {
			// restore even when ctx is already done
			if err := m.d.Ducker.Restore(context.WithoutCancel(ctx)); err != nil {
				log.Debug("Unduck failed", "err", err)
			}
		}()
	}

	return m.d.Recorder.Capture(ctx, timeout, phraseLimit)
}
