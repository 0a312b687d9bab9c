// Package listen provides the utterance sources the dialogue listens to.
// Every backend returns trimmed text as heard and reports any failure,
// silence included, as ErrNoSpeech.
package listen

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"regexp"
	"strings"
	"time"

	"voxa/pkg/stt"
)

var ErrNoSpeech = errors.New("listen: no speech detected")

// whisper marks silence and noise with bracketed tags such as
// [BLANK_AUDIO] or (music).
var nonSpeech = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)

// sentencePunct is trimmed from the edges of every word. Casing is kept
// for message bodies.
const sentencePunct = ".,!?;:"

func clean(text string) string {
	fields := strings.Fields(nonSpeech.ReplaceAllString(text, " "))
	words := fields[:0]
	for _, f := range fields {
		if f = strings.Trim(f, sentencePunct); f != "" {
			words = append(words, f)
		}
	}
	return strings.Join(words, " ")
}

func noSpeech(cause error) error {
	if cause == nil {
		return ErrNoSpeech
	}
	return fmt.Errorf("%w: %w", ErrNoSpeech, cause)
}

// transcribe runs eng over pcm and maps empty or failed results to
// ErrNoSpeech.
func transcribe(ctx context.Context, eng stt.Engine, opt stt.Options, pcm []float32) (string, error) {
	start := time.Now()
	res, err := eng.TranscribePCM(ctx, pcm, opt)
	if err != nil {
		return "", noSpeech(err)
	}

	text := clean(res.Text)
	log.Debug("Transcribed", "text", text, "lang", res.Language, "took", time.Since(start))
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}
