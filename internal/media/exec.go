// Package media drives the desktop on the assistant's behalf: it opens
// pages in the default browser, resolves YouTube searches to a video,
// sends media keys and starts local applications.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrUnsupported is returned for operations the current platform cannot do.
var ErrUnsupported = errors.New("media: unsupported on this platform")

// Runner runs an external command to completion.
type Runner func(ctx context.Context, name string, args ...string) error

const commandTimeout = 5 * time.Second

// Exec is the default Runner. Every command is bounded by commandTimeout.
func Exec(ctx context.Context, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
