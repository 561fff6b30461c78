// Package config loads the stream client configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"solana-trade-stream/internal/observability"
	"solana-trade-stream/internal/solana"
	"solana-trade-stream/internal/vybe"
)

// Backoff kinds.
const (
	BackoffConstant    = "constant"
	BackoffLinear      = "linear"
	BackoffExponential = "exponential"
)

// Config holds the stream service configuration.
type Config struct {
	// Venue
	APIKey       string `env:"VIBE_API_KEY"`
	WebsocketURI string `env:"VYBE_WS_URI" envDefault:"wss://api.vybenetwork.xyz/live"`
	APIURL       string `env:"VYBE_API_URL" envDefault:"https://api.vybenetwork.xyz"`

	// Reconnect (delays parsed as milliseconds)
	Reconnect           bool   `env:"RECONNECT" envDefault:"true"`
	ReconnectDelayMS    int    `env:"RECONNECT_DELAY_MS" envDefault:"1000"`
	Backoff             string `env:"BACKOFF" envDefault:"constant"`
	MaxReconnectDelayMS int    `env:"MAX_RECONNECT_DELAY_MS" envDefault:"30000"`
	MaxAttempts         int    `env:"MAX_ATTEMPTS" envDefault:"0"`

	// Filters
	Programs   []string `env:"PROGRAMS" envSeparator:"," envDefault:"RAYDIUM_V4"`
	TokenMints []string `env:"TOKEN_MINTS" envSeparator:","`

	// Outputs
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`
	RedisURL    string `env:"REDIS_URL"`
	RedisStream string `env:"REDIS_STREAM" envDefault:"vybe:trades"`

	// Computed durations (not from env)
	ReconnectDelay    time.Duration `env:"-"`
	MaxReconnectDelay time.Duration `env:"-"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	cfg.Programs = trimAll(cfg.Programs)
	cfg.TokenMints = trimAll(cfg.TokenMints)
	cfg.Backoff = strings.ToLower(strings.TrimSpace(cfg.Backoff))

	cfg.ReconnectDelay = time.Duration(cfg.ReconnectDelayMS) * time.Millisecond
	cfg.MaxReconnectDelay = time.Duration(cfg.MaxReconnectDelayMS) * time.Millisecond

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("VIBE_API_KEY is required")
	}
	if c.WebsocketURI == "" {
		return errors.New("websocket URI is required")
	}
	if c.APIURL == "" {
		return errors.New("api URL is required")
	}

	switch c.Backoff {
	case BackoffConstant, BackoffLinear, BackoffExponential:
	default:
		return fmt.Errorf("invalid backoff kind: %s", c.Backoff)
	}

	if c.ReconnectDelay <= 0 {
		return fmt.Errorf("reconnect delay must be positive, got %v", c.ReconnectDelay)
	}
	if c.Backoff != BackoffConstant && c.MaxReconnectDelay < c.ReconnectDelay {
		return fmt.Errorf("max reconnect delay %v is below reconnect delay %v", c.MaxReconnectDelay, c.ReconnectDelay)
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("max attempts must not be negative, got %d", c.MaxAttempts)
	}

	if len(c.Programs) == 0 {
		return errors.New("at least one program must be configured")
	}
	for _, p := range c.Programs {
		if _, err := ResolveProgram(p); err != nil {
			return err
		}
	}
	for _, mint := range c.TokenMints {
		if err := solana.ValidateAddress(mint); err != nil {
			return fmt.Errorf("token mint: %w", err)
		}
	}

	if c.RedisURL != "" && c.RedisStream == "" {
		return errors.New("redis stream is required when a redis URL is set")
	}

	return nil
}

// ResolveProgram maps a trading program name or a raw program address to
// the program id sent to the venue.
func ResolveProgram(p string) (string, error) {
	if tp, ok := vybe.ParseTradingProgram(p); ok {
		return tp.ProgramID(), nil
	}
	if err := solana.ValidateAddress(p); err != nil {
		return "", fmt.Errorf("unknown program %q: %w", p, err)
	}
	return p, nil
}

// Filters builds one trade filter per program, or per program and mint
// pair when token mints are configured.
func (c *Config) Filters() (vybe.Filters, error) {
	var trades []vybe.TradeFilter
	for _, p := range c.Programs {
		id, err := ResolveProgram(p)
		if err != nil {
			return vybe.Filters{}, err
		}
		if len(c.TokenMints) == 0 {
			trades = append(trades, vybe.TradeFilter{ProgramID: vybe.String(id)})
			continue
		}
		for _, mint := range c.TokenMints {
			trades = append(trades, vybe.TradeFilter{
				ProgramID:        vybe.String(id),
				TokenMintAddress: vybe.String(mint),
			})
		}
	}
	return vybe.Filters{Trades: trades}, nil
}

// BackoffPolicy returns the reconnect policy for the configured kind.
func (c *Config) BackoffPolicy() vybe.BackoffPolicy {
	switch c.Backoff {
	case BackoffLinear:
		return vybe.LinearBackoff(c.ReconnectDelay, c.ReconnectDelay, c.MaxReconnectDelay)
	case BackoffExponential:
		return vybe.ExponentialBackoff(c.ReconnectDelay, c.MaxReconnectDelay)
	default:
		return vybe.ConstantBackoff(c.ReconnectDelay)
	}
}

// ClientConfig assembles the client configuration. sink may be nil.
func (c *Config) ClientConfig(sink vybe.Sink, logger *log.Logger, metrics *observability.Metrics) (vybe.ClientConfig, error) {
	filters, err := c.Filters()
	if err != nil {
		return vybe.ClientConfig{}, err
	}

	cc := vybe.DefaultConfig()
	cc.WebsocketURI = c.WebsocketURI
	cc.APIKey = c.APIKey
	cc.BaseReconnectDelay = c.ReconnectDelay
	cc.Reconnect = c.Reconnect
	cc.ConfigureMessage = vybe.NewConfigureMessage(filters)
	cc.Backoff = c.BackoffPolicy()
	cc.MaxReconnectAttempts = c.MaxAttempts
	cc.Sink = sink
	cc.Logger = logger
	cc.Metrics = metrics
	return cc, nil
}

func trimAll(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
