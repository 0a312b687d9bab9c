package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Launcher starts local applications and leaves them running.
type Launcher struct {
	start func(path string) error
}

func NewLauncher() *Launcher {
	return &Launcher{start: func(path string) error {
		return exec.Command(path).Start()
	}}
}

// LaunchIfPresent starts the executable at path. A missing file yields an
// error wrapping fs.ErrNotExist.
func (l *Launcher) LaunchIfPresent(_ context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("launch: %w", os.ErrNotExist)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("launch %s: %w", path, err)
	}
	if err := l.start(path); err != nil {
		return fmt.Errorf("launch %s: %w", path, err)
	}
	return nil
}
