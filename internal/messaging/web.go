// Package messaging delivers composed messages to a contact address over
// one of several transports.
package messaging

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/url"
	"strings"
	"time"
)

const DefaultWebURL = "https://web.whatsapp.com"

type Opener interface {
	Open(ctx context.Context, url string) error
}

type Presser interface {
	Press(ctx context.Context, key string) error
}

// Web drives a messaging web client in the browser: it opens a prefilled
// chat, waits for the page to load and presses Enter.
type Web struct {
	open    Opener
	keys    Presser
	base    string
	sendKey string
}

func NewWeb(open Opener, keys Presser, base, sendKey string) (*Web, error) {
	if open == nil {
		return nil, errors.New("messaging: opener must not be nil")
	}
	if keys == nil {
		return nil, errors.New("messaging: key presser must not be nil")
	}
	if base == "" {
		base = DefaultWebURL
	}
	if sendKey == "" {
		sendKey = "enter"
	}
	return &Web{open: open, keys: keys, base: strings.TrimRight(base, "/"), sendKey: sendKey}, nil
}

func (w *Web) ChatURL(address, body string) string {
	q := url.Values{}
	q.Set("phone", address)
	q.Set("text", body)
	return w.base + "/send?" + q.Encode()
}

func (w *Web) SendInstant(ctx context.Context, address, body string, delay time.Duration) error {
	if err := w.open.Open(ctx, w.ChatURL(address, body)); err != nil {
		return fmt.Errorf("open chat: %w", err)
	}

	log.Debug("Waiting for chat to load", "delay", delay)
	if err := sleep(ctx, delay); err != nil {
		return err
	}

	if err := w.keys.Press(ctx, w.sendKey); err != nil {
		return fmt.Errorf("press send: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
