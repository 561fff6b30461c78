package vybe

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"solana-trade-stream/internal/observability"
)

// APIKeyHeader carries the credential on the upgrade request.
const APIKeyHeader = "X-API-Key"

// DefaultWebsocketURI is the public live endpoint.
const DefaultWebsocketURI = "wss://api.vybenetwork.xyz/live"

// DefaultReconnectDelay is used when BaseReconnectDelay is not positive.
const DefaultReconnectDelay = 1000 * time.Millisecond

// ClientConfig configures a Client. It must not be modified after Connect.
type ClientConfig struct {
	// WebsocketURI is the ws:// or wss:// endpoint.
	WebsocketURI string
	// APIKey is sent in the X-API-Key header, never in the URI.
	APIKey string
	// BaseReconnectDelay is the fixed wait used when Backoff is nil.
	// Zero means DefaultReconnectDelay.
	BaseReconnectDelay time.Duration
	// Reconnect enables the supervisor. Disconnect clears it.
	Reconnect bool
	// ConfigureMessage is sent once per connection. An empty Type is
	// sent as ConfigureType.
	ConfigureMessage ConfigureMessage
	// Sink receives callbacks. Nil uses a LogSink on Logger.
	Sink Sink
	// Backoff overrides the constant BaseReconnectDelay policy.
	Backoff BackoffPolicy
	// MaxReconnectAttempts bounds consecutive reconnects. 0 is unbounded.
	MaxReconnectAttempts int
	// HandshakeTimeout bounds the websocket upgrade.
	HandshakeTimeout time.Duration
	// CloseTimeout bounds the close frame written on shutdown.
	CloseTimeout time.Duration
	// Logger is used for client and default sink output.
	Logger *log.Logger
	// Metrics is optional.
	Metrics *observability.Metrics
}

// DefaultConfig streams Raydium V4 trades from the live endpoint and
// reconnects after a fixed 1s delay.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		WebsocketURI:       DefaultWebsocketURI,
		BaseReconnectDelay: DefaultReconnectDelay,
		Reconnect:          true,
		ConfigureMessage:   DefaultConfigureMessage(),
		HandshakeTimeout:   45 * time.Second,
		CloseTimeout:       time.Second,
	}
}

// parseURI resolves the websocket endpoint without touching the network.
func parseURI(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return "", fmt.Errorf("%w: unsupported scheme %q in %q", ErrInvalidURI, u.Scheme, raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host in %q", ErrInvalidURI, raw)
	}
	return u.String(), nil
}
