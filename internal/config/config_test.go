package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-trade-stream/internal/vybe"
)

const (
	raydiumID = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	pumpFunID = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
	usdcMint  = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	bonkMint  = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("VIBE_API_KEY", "secret")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, vybe.DefaultWebsocketURI, cfg.WebsocketURI)
	assert.Equal(t, vybe.DefaultAPIBaseURL, cfg.APIURL)
	assert.True(t, cfg.Reconnect)
	assert.Equal(t, time.Second, cfg.ReconnectDelay)
	assert.Equal(t, 30*time.Second, cfg.MaxReconnectDelay)
	assert.Equal(t, BackoffConstant, cfg.Backoff)
	assert.Equal(t, 0, cfg.MaxAttempts)
	assert.Equal(t, []string{"RAYDIUM_V4"}, cfg.Programs)
	assert.Empty(t, cfg.TokenMints)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "vybe:trades", cfg.RedisStream)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("VIBE_API_KEY", "secret")
	t.Setenv("VYBE_WS_URI", "ws://localhost:8080/live")
	t.Setenv("RECONNECT", "false")
	t.Setenv("RECONNECT_DELAY_MS", "250")
	t.Setenv("BACKOFF", " Exponential ")
	t.Setenv("MAX_RECONNECT_DELAY_MS", "4000")
	t.Setenv("MAX_ATTEMPTS", "5")
	t.Setenv("PROGRAMS", "raydium_v4, "+pumpFunID)
	t.Setenv("TOKEN_MINTS", usdcMint+" ,"+bonkMint)
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.False(t, cfg.Reconnect)
	assert.Equal(t, 250*time.Millisecond, cfg.ReconnectDelay)
	assert.Equal(t, 4*time.Second, cfg.MaxReconnectDelay)
	assert.Equal(t, BackoffExponential, cfg.Backoff)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, []string{"raydium_v4", pumpFunID}, cfg.Programs)
	assert.Equal(t, []string{usdcMint, bonkMint}, cfg.TokenMints)
	require.NoError(t, cfg.Validate())

	filters, err := cfg.Filters()
	require.NoError(t, err)
	require.Len(t, filters.Trades, 4)
	assert.Equal(t, raydiumID, *filters.Trades[0].ProgramID)
	assert.Equal(t, usdcMint, *filters.Trades[0].TokenMintAddress)
	assert.Equal(t, bonkMint, *filters.Trades[1].TokenMintAddress)
	assert.Equal(t, pumpFunID, *filters.Trades[3].ProgramID)
}

func TestLoadFromEnv_BadValue(t *testing.T) {
	t.Setenv("RECONNECT_DELAY_MS", "soon")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse environment variables")
}

func validConfig() *Config {
	return &Config{
		APIKey:            "secret",
		WebsocketURI:      vybe.DefaultWebsocketURI,
		APIURL:            vybe.DefaultAPIBaseURL,
		Reconnect:         true,
		Backoff:           BackoffConstant,
		Programs:          []string{"RAYDIUM_V4"},
		RedisStream:       "vybe:trades",
		ReconnectDelay:    time.Second,
		MaxReconnectDelay: 30 * time.Second,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing api key", func(c *Config) { c.APIKey = "" }, "VIBE_API_KEY is required"},
		{"missing uri", func(c *Config) { c.WebsocketURI = "" }, "websocket URI is required"},
		{"missing api url", func(c *Config) { c.APIURL = "" }, "api URL is required"},
		{"bad backoff", func(c *Config) { c.Backoff = "fibonacci" }, "invalid backoff kind"},
		{"zero delay", func(c *Config) { c.ReconnectDelay = 0 }, "reconnect delay must be positive"},
		{"max below base", func(c *Config) {
			c.Backoff = BackoffLinear
			c.MaxReconnectDelay = time.Millisecond
		}, "max reconnect delay"},
		{"negative attempts", func(c *Config) { c.MaxAttempts = -1 }, "max attempts must not be negative"},
		{"no programs", func(c *Config) { c.Programs = nil }, "at least one program"},
		{"unknown program", func(c *Config) { c.Programs = []string{"UNISWAP"} }, "unknown program"},
		{"bad mint", func(c *Config) { c.TokenMints = []string{"not-a-mint"} }, "token mint"},
		{"redis without stream", func(c *Config) {
			c.RedisURL = "redis://localhost:6379"
			c.RedisStream = ""
		}, "redis stream is required"},
	}

	require.NoError(t, validConfig().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBackoffPolicy(t *testing.T) {
	cfg := validConfig()
	cfg.ReconnectDelay = 100 * time.Millisecond
	cfg.MaxReconnectDelay = 300 * time.Millisecond

	cfg.Backoff = BackoffConstant
	p := cfg.BackoffPolicy()
	assert.Equal(t, 100*time.Millisecond, p.NextBackOff())
	assert.Equal(t, 100*time.Millisecond, p.NextBackOff())

	cfg.Backoff = BackoffLinear
	p = cfg.BackoffPolicy()
	assert.Equal(t, 100*time.Millisecond, p.NextBackOff())
	assert.Equal(t, 200*time.Millisecond, p.NextBackOff())
	assert.Equal(t, 300*time.Millisecond, p.NextBackOff())
	assert.Equal(t, 300*time.Millisecond, p.NextBackOff())

	cfg.Backoff = BackoffExponential
	p = cfg.BackoffPolicy()
	assert.Equal(t, 100*time.Millisecond, p.NextBackOff())
	assert.Equal(t, 200*time.Millisecond, p.NextBackOff())
	assert.Equal(t, 300*time.Millisecond, p.NextBackOff())
}

func TestClientConfig(t *testing.T) {
	cfg := validConfig()
	cfg.MaxAttempts = 3

	cc, err := cfg.ClientConfig(nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "secret", cc.APIKey)
	assert.Equal(t, vybe.DefaultWebsocketURI, cc.WebsocketURI)
	assert.True(t, cc.Reconnect)
	assert.Equal(t, time.Second, cc.BaseReconnectDelay)
	assert.Equal(t, 3, cc.MaxReconnectAttempts)
	assert.NotNil(t, cc.Backoff)
	assert.Equal(t, vybe.DefaultConfigureMessage(), cc.ConfigureMessage)
}

func TestResolveProgram(t *testing.T) {
	id, err := ResolveProgram("PUMP_FUN")
	require.NoError(t, err)
	assert.Equal(t, pumpFunID, id)

	id, err = ResolveProgram(raydiumID)
	require.NoError(t, err)
	assert.Equal(t, raydiumID, id)

	_, err = ResolveProgram("RAYDIUM_V4_ID")
	assert.Error(t, err)
}
