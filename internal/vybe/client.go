// Package vybe implements a reconnecting streaming client for the Vybe live
// trade feed.
package vybe

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"solana-trade-stream/internal/observability"
)

// Client streams events from the venue. One Connect may run at a time.
type Client struct {
	cfg          ClientConfig
	sink         Sink
	logger       *log.Logger
	metrics      *observability.Metrics
	policy       BackoffPolicy
	dialer       *websocket.Dialer
	closeTimeout time.Duration

	reconnect atomic.Bool
	state     atomic.Int32
	attempts  atomic.Int64

	mu        sync.Mutex
	running   bool
	shutdown  chan struct{} // sender side, nil once taken by Disconnect
	attemptID string
}

// NewClient creates a Client. Missing optional fields get defaults.
func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	sink := withLogger(cfg.Sink, logger)

	if cfg.BaseReconnectDelay <= 0 {
		cfg.BaseReconnectDelay = DefaultReconnectDelay
	}
	if cfg.ConfigureMessage.Type == "" {
		cfg.ConfigureMessage.Type = ConfigureType
	}

	policy := cfg.Backoff
	if policy == nil {
		policy = ConstantBackoff(cfg.BaseReconnectDelay)
	}
	policy = WithMaxAttempts(policy, cfg.MaxReconnectAttempts)

	handshakeTimeout := cfg.HandshakeTimeout
	if handshakeTimeout == 0 {
		handshakeTimeout = 45 * time.Second
	}

	closeTimeout := cfg.CloseTimeout
	if closeTimeout == 0 {
		closeTimeout = time.Second
	}

	c := &Client{
		cfg:     cfg,
		sink:    sink,
		logger:  logger,
		metrics: cfg.Metrics,
		policy:  policy,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		},
		closeTimeout: closeTimeout,
	}
	c.reconnect.Store(cfg.Reconnect)
	c.setState(StateDisconnected)
	return c
}

// Connect runs attempts until reconnect is disabled, the policy gives up,
// Disconnect is called or ctx is done. Attempt failures are reported to the
// Sink only. A non-nil error means Connect could not start at all.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}
	shutdown := make(chan struct{}, 1)
	c.running = true
	c.shutdown = shutdown
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.shutdown = nil
		c.mu.Unlock()
		c.setState(StateDisconnected)
	}()

	// Local configuration never changes between attempts, so it is checked once.
	target, err := parseURI(c.cfg.WebsocketURI)
	if err != nil {
		c.reportError("Failed to parse WebSocket URI", err)
		return err
	}
	payload, err := json.Marshal(c.cfg.ConfigureMessage)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrEncodeConfigure, err)
		c.reportError("Failed to serialize configure message", err)
		return err
	}

	c.policy.Reset()
	for {
		if c.runSession(ctx, target, payload, shutdown) == outcomeShutdown {
			return nil
		}
		if !c.reconnect.Load() || ctx.Err() != nil {
			return nil
		}

		delay := c.policy.NextBackOff()
		if delay == backoff.Stop {
			c.logger.Printf("Reconnect attempts exhausted after %d attempts", c.Attempts())
			return nil
		}

		c.setState(StateReconnecting)
		c.metrics.RecordReconnect(delay.Seconds())
		c.logger.Printf("Attempting to reconnect in %v...", delay)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-shutdown:
			timer.Stop()
			return nil
		case <-ctx.Done():
			timer.Stop()
			return nil
		}

		if !c.reconnect.Load() {
			return nil
		}
	}
}

// Disconnect requests termination of the active attempt and disables
// reconnects. It never blocks and repeated calls are no-ops.
func (c *Client) Disconnect() {
	c.mu.Lock()
	shutdown := c.shutdown
	c.shutdown = nil
	c.mu.Unlock()

	if shutdown != nil {
		select {
		case shutdown <- struct{}{}:
		default:
		}
		c.logger.Println("Disconnect signal sent")
	}

	c.reconnect.Store(false)
}

// Reconnecting reports whether the supervisor will start new attempts.
func (c *Client) Reconnecting() bool {
	return c.reconnect.Load()
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	return State(c.state.Load())
}

// Attempts returns the number of attempts started so far.
func (c *Client) Attempts() int64 {
	return c.attempts.Load()
}

// AttemptID returns the identifier of the latest attempt.
func (c *Client) AttemptID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attemptID
}

func (c *Client) setAttemptID(id string) {
	c.mu.Lock()
	c.attemptID = id
	c.mu.Unlock()
}

func (c *Client) setState(s State) {
	c.state.Store(int32(s))
	c.metrics.SetState(s.String(), stateNames)
}

// reportError counts err by kind and forwards "prefix: err" to the sink.
func (c *Client) reportError(prefix string, err error) {
	c.metrics.RecordError(string(Classify(err)))
	c.sink.OnError(fmt.Sprintf("%s: %v", prefix, err))
}
