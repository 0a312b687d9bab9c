package listen

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"voxa/pkg/audioconv"
	"voxa/pkg/stt"
)

// Files replays recorded clips in name order, one per Listen call. Once
// every clip has been played it behaves like a silent room.
type Files struct {
	engine stt.Engine
	opt    stt.Options

	mu    sync.Mutex
	clips []string
	next  int
}

func NewFiles(dir string, eng stt.Engine, opt stt.Options) (*Files, error) {
	if eng == nil {
		return nil, errors.New("listen: engine must not be nil")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read clips: %w", err)
	}

	var clips []string
	for _, e := range entries {
		if e.IsDir() || !audioconv.Supported(e.Name()) {
			continue
		}
		clips = append(clips, filepath.Join(dir, e.Name()))
	}
	if len(clips) == 0 {
		return nil, fmt.Errorf("no audio clips in %s", dir)
	}
	sort.Strings(clips)

	return &Files{engine: eng, opt: opt, clips: clips}, nil
}

func (f *Files) Remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clips) - f.next
}

func (f *Files) Listen(ctx context.Context, timeout, phraseLimit time.Duration) (string, error) {
	clip, ok := f.take()
	if !ok {
		return "", silence(ctx, timeout)
	}
	log.Debug("Replaying clip", "path", clip)

	maxSamples := 0
	if phraseLimit > 0 {
		maxSamples = int(phraseLimit.Seconds() * audioconv.SampleRate)
	}

	pcm, err := audioconv.DecodeFile(clip, audioconv.Options{MaxSamples: maxSamples})
	if err != nil {
		return "", noSpeech(err)
	}
	return transcribe(ctx, f.engine, f.opt, pcm)
}

func (f *Files) take() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.next >= len(f.clips) {
		return "", false
	}
	clip := f.clips[f.next]
	f.next++
	return clip, true
}

// silence waits out the timeout the way an idle microphone would.
func silence(ctx context.Context, timeout time.Duration) error {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return noSpeech(ctx.Err())
	case <-t.C:
		return ErrNoSpeech
	}
}
