package stt

import (
	"bytes"
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"voxa/pkg/audioconv"
)

// OpenAI uploads each utterance as a WAV file to the transcription API.
type OpenAI struct {
	client openai.Client
	model  openai.AudioModel
}

var _ Engine = (*OpenAI)(nil)

// NewOpenAI builds a remote engine. An empty model selects whisper-1.
func NewOpenAI(model string, opts ...option.RequestOption) *OpenAI {
	m := openai.AudioModel(model)
	if model == "" {
		m = openai.AudioModelWhisper1
	}
	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  m,
	}
}

func (o *OpenAI) TranscribePCM(ctx context.Context, pcm16k []float32, opt Options) (Result, error) {
	if len(pcm16k) == 0 {
		return Result{}, ErrNoAudio
	}

	data, err := audioconv.EncodeWAV16k(pcm16k)
	if err != nil {
		return Result{}, fmt.Errorf("encode wav: %w", err)
	}

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(data), "utterance.wav", "audio/wav"),
		Model: o.model,
	}
	if opt.Language != "" && opt.Language != "auto" {
		params.Language = openai.String(opt.Language)
	}
	if opt.InitialPrompt != "" {
		params.Prompt = openai.String(opt.InitialPrompt)
	}

	res, err := o.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return Result{}, fmt.Errorf("transcribe: %w", err)
	}

	return Result{Text: res.Text, Language: opt.Language}, nil
}

func (o *OpenAI) Close() error { return nil }
