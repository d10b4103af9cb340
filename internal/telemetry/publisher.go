package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"andon-console/config"
)

// ErrDisabled is returned by Publish when no telemetry URL is configured.
var ErrDisabled = errors.New("telemetry: disabled")

// Publisher sends frames over a single websocket connection. The connection
// is dialed on first use and dropped after any write error; the next
// Publish redials.
type Publisher struct {
	url          string
	writeTimeout time.Duration

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewPublisher creates a publisher for cfg.URL.
func NewPublisher(cfg *config.TelemetryConfig) *Publisher {
	timeout := time.Duration(cfg.WriteTimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Publisher{url: cfg.URL, writeTimeout: timeout}
}

// Publish writes f as a JSON text message.
func (p *Publisher) Publish(ctx context.Context, f Frame) error {
	if p.url == "" {
		return ErrDisabled
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	if p.conn == nil {
		conn, _, err := websocket.Dial(ctx, p.url, nil)
		if err != nil {
			return fmt.Errorf("telemetry dial %s: %w", p.url, err)
		}
		// Nothing is expected from the server; keep control frames flowing.
		conn.CloseRead(context.Background())
		p.conn = conn
		log.Printf("telemetry: connected to %s", p.url)
	}

	if err := wsjson.Write(ctx, p.conn, f); err != nil {
		p.conn.Close(websocket.StatusInternalError, "write failed")
		p.conn = nil
		return fmt.Errorf("telemetry write: %w", err)
	}
	return nil
}

// Connected reports whether a connection is currently open.
func (p *Publisher) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn != nil
}

// Close closes the connection, if any.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close(websocket.StatusNormalClosure, "")
	p.conn = nil
	return err
}
