// Package stt turns 16kHz mono PCM into text, either locally through
// whisper.cpp or remotely through the OpenAI transcription endpoint.
package stt

import (
	"context"
	"errors"
)

// ErrNoAudio is returned when an engine is handed an empty buffer.
var ErrNoAudio = errors.New("stt: no audio samples provided")

type Options struct {
	Language      string // "auto", "en", ...
	Threads       int    // <=0 means runtime.NumCPU()
	InitialPrompt string
}

type Segment struct {
	Text     string
	StartSec float64
	EndSec   float64
}

type Result struct {
	Text     string
	Segments []Segment
	Language string
}

// Engine is implemented by every transcription backend.
type Engine interface {
	// pcm16k must be mono at 16 kHz, float32 in [-1, 1].
	TranscribePCM(ctx context.Context, pcm16k []float32, opt Options) (Result, error)
	Close() error
}
