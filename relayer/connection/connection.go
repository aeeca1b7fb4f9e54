// Package connection provides reconnecting WebSocket (Chain-G) and
// HTTP (Chain-E) client handles shared across the relayer's pipeline
// stages, grounded on the reference relayer's retry_api.rs backoff
// shape and the teacher's api_fetcher.go struct-with-BaseURL client.
package connection

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Backoff parameters: base 1s, factor 2, capped at 5 reconnect
// attempts before giving up on a single Dial call and returning to the
// caller, matching the reference relayer's retry_n bound.
const (
	backoffBase   = 1 * time.Second
	backoffFactor = 2
	maxAttempts   = 5
)

// GearConnection holds a reconnecting WebSocket handle to a Chain-G RPC
// node. Holders of the same *GearConnection pointer share the same
// underlying connection and reconnect notifications, the way the reference
// relayer's GearApi handle is cloned into every pipeline stage that
// needs chain access.
type GearConnection struct {
	endpoint string

	mu     sync.RWMutex
	conn   *websocket.Conn
	notify chan struct{}
}

// NewGearConnection dials endpoint, retrying with exponential backoff.
func NewGearConnection(ctx context.Context, endpoint string) (*GearConnection, error) {
	c := &GearConnection{endpoint: endpoint, notify: make(chan struct{})}
	if err := c.dial(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *GearConnection) dial(ctx context.Context) error {
	var lastErr error
	wait := backoffBase
	for attempt := 0; attempt < maxAttempts; attempt++ {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.endpoint, nil)
		if err == nil {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
			return nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt+1).Msg("gear connection: dial failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= backoffFactor
	}
	return fmt.Errorf("gear connection: dial %s: %w", c.endpoint, lastErr)
}

// Reconnect tears down the current socket and redials with backoff,
// broadcasting on Notify() once the new connection is live so pipeline
// stages holding a stale handle know to resubscribe.
func (c *GearConnection) Reconnect(ctx context.Context) error {
	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.mu.Unlock()

	if err := c.dial(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	old := c.notify
	c.notify = make(chan struct{})
	c.mu.Unlock()
	close(old)
	return nil
}

// Notify returns a channel closed exactly once, the next time Reconnect
// succeeds; callers re-fetch it after it fires to wait on the following
// reconnect.
func (c *GearConnection) Notify() <-chan struct{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.notify
}

// Conn returns the live underlying WebSocket connection.
func (c *GearConnection) Conn() *websocket.Conn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn
}

// EthereumConnection holds an HTTP client handle to a Chain-E JSON-RPC
// endpoint, matching the teacher's APIFetcher shape exactly (plain
// *http.Client, no reconnect state needed since net/http already pools
// and redials connections per request).
type EthereumConnection struct {
	BaseURL string
	Client  *http.Client
}

// NewEthereumConnection returns a connection handle for baseURL.
func NewEthereumConnection(baseURL string) *EthereumConnection {
	return &EthereumConnection{BaseURL: baseURL, Client: &http.Client{Timeout: 30 * time.Second}}
}
