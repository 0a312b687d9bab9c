package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	log "log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// BusMessage is one JSON frame on the message bus.
type BusMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

const busWriteTimeout = 10 * time.Second

// Bus publishes messages to a websocket hub that relays them to the
// addressed peer. A failed write redials the hub once and retries.
type Bus struct {
	url  string
	from string

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewBus(ctx context.Context, wsURL, from string) (*Bus, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("parse bus url: %w", err)
	}

	b := &Bus{url: u.String(), from: from}
	if err := b.dial(ctx); err != nil {
		return nil, err
	}

	log.Info("Connected to bus", "url", wsURL)
	return b, nil
}

func (b *Bus) dial(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, b.url, nil)
	if err != nil {
		return fmt.Errorf("dial bus: %w", err)
	}
	b.conn = conn
	return nil
}

// SendInstant ignores delay; the hub delivers immediately.
func (b *Bus) SendInstant(ctx context.Context, address, body string, _ time.Duration) error {
	data, err := json.Marshal(BusMessage{
		From:    b.from,
		To:      address,
		Kind:    "message",
		Content: body,
	})
	if err != nil {
		return err
	}

	deadline := time.Now().Add(busWriteTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	err = b.write(deadline, data)
	if err == nil {
		return nil
	}

	log.Warn("Bus write failed, reconnecting", "url", b.url, "err", err)
	_ = b.conn.Close()
	if derr := b.dial(ctx); derr != nil {
		return fmt.Errorf("write bus: %w", errors.Join(err, derr))
	}
	if err := b.write(deadline, data); err != nil {
		return fmt.Errorf("write bus: %w", err)
	}
	log.Info("Reconnected to bus", "url", b.url)
	return nil
}

func (b *Bus) write(deadline time.Time, data []byte) error {
	if err := b.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return b.conn.WriteMessage(websocket.TextMessage, data)
}

func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	_ = b.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return b.conn.Close()
}
