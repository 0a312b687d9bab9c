package media

import (
	"context"
	"errors"
	"runtime"
)

// Browser opens URLs with the platform's default handler.
type Browser struct {
	run  Runner
	goos string
}

func NewBrowser(run Runner) *Browser {
	if run == nil {
		run = Exec
	}
	return &Browser{run: run, goos: runtime.GOOS}
}

func (b *Browser) Open(ctx context.Context, url string) error {
	if url == "" {
		return errors.New("media: empty url")
	}

	switch b.goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return b.run(ctx, "xdg-open", url)
	case "darwin":
		return b.run(ctx, "open", url)
	case "windows":
		return b.run(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return ErrUnsupported
	}
}
