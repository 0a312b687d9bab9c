package listen

import (
	"context"
	"strings"
	"time"
)

// Socket hands over utterances pushed from outside, typically typed with
// voxa-ctl and delivered through the ipc server.
type Socket struct {
	in chan string
}

func NewSocket(buffer int) *Socket {
	if buffer <= 0 {
		buffer = 16
	}
	return &Socket{in: make(chan string, buffer)}
}

// Push queues an utterance. It reports false when the queue is full.
func (s *Socket) Push(text string) bool {
	select {
	case s.in <- text:
		return true
	default:
		return false
	}
}

func (s *Socket) Listen(ctx context.Context, timeout, _ time.Duration) (string, error) {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return "", noSpeech(ctx.Err())
	case <-t.C:
		return "", ErrNoSpeech
	case text := <-s.in:
		text = strings.TrimSpace(text)
		if text == "" {
			return "", ErrNoSpeech
		}
		return text, nil
	}
}
