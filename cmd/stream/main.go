package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"solana-trade-stream/internal/config"
	"solana-trade-stream/internal/observability"
	"solana-trade-stream/internal/publish"
	"solana-trade-stream/internal/vybe"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup always runs.
func run() int {
	// Setup logger
	logger := log.New(os.Stdout, "[stream] ", log.LstdFlags|log.Lshortfile)

	// Environment first, flags override
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Printf("Config error: %v", err)
		return 1
	}

	flag.StringVar(&cfg.WebsocketURI, "uri", cfg.WebsocketURI, "Vybe live websocket URI")
	flag.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "Vybe REST API base URL")
	flag.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "Vybe API key (default from VIBE_API_KEY)")
	programs := flag.String("programs", strings.Join(cfg.Programs, ","), "Comma-separated trading programs (names or program ids)")
	mints := flag.String("token-mints", strings.Join(cfg.TokenMints, ","), "Comma-separated token mints to narrow each program filter")
	flag.BoolVar(&cfg.Reconnect, "reconnect", cfg.Reconnect, "Reconnect after a dropped session")
	flag.DurationVar(&cfg.ReconnectDelay, "reconnect-delay", cfg.ReconnectDelay, "Base delay between reconnect attempts")
	flag.DurationVar(&cfg.MaxReconnectDelay, "max-reconnect-delay", cfg.MaxReconnectDelay, "Upper bound for linear and exponential backoff")
	flag.StringVar(&cfg.Backoff, "backoff", cfg.Backoff, "Backoff kind: constant, linear or exponential")
	flag.IntVar(&cfg.MaxAttempts, "max-attempts", cfg.MaxAttempts, "Consecutive reconnect attempts before giving up (0 = unbounded)")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Ops HTTP address for /metrics, /health and /state (empty to disable)")
	flag.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL to publish trades to (empty to disable)")
	flag.StringVar(&cfg.RedisStream, "redis-stream", cfg.RedisStream, "Redis stream key")

	flag.Parse()

	cfg.Programs = splitList(*programs)
	cfg.TokenMints = splitList(*mints)

	if err := cfg.Validate(); err != nil {
		logger.Printf("Invalid configuration: %v", err)
		return 1
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics("", registry)

	// Compose sinks
	sinks := []vybe.Sink{vybe.NewLogSink(logger)}
	if cfg.RedisURL != "" {
		redisSink, err := publish.NewRedisSink(context.Background(), cfg.RedisURL, publish.RedisOptions{
			Stream: cfg.RedisStream,
			Logger: logger,
		})
		if err != nil {
			logger.Printf("Failed to connect to Redis: %v", err)
			return 1
		}
		defer redisSink.Close()
		sinks = append(sinks, redisSink)
		logger.Printf("Publishing trades to Redis stream %s", cfg.RedisStream)
	}

	clientCfg, err := cfg.ClientConfig(vybe.MultiSink(sinks...), logger, metrics)
	if err != nil {
		logger.Printf("Failed to build client config: %v", err)
		return 1
	}
	if err := clientCfg.ConfigureMessage.Filters.Validate(); err != nil {
		logger.Printf("Invalid filters: %v", err)
		return 1
	}
	client := vybe.NewClient(clientCfg)

	// Token details are informational; a failed lookup never blocks streaming
	if len(cfg.TokenMints) > 0 {
		describeTokens(context.Background(), vybe.NewTokenAPI(cfg.APIKey, vybe.WithBaseURL(cfg.APIURL)), cfg.TokenMints, logger)
	}

	// Start ops server if enabled
	var srv *http.Server
	if cfg.MetricsAddr != "" {
		srv = &http.Server{
			Addr:         cfg.MetricsAddr,
			Handler:      newRouter(client, observability.HandlerFor(registry)),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			logger.Printf("Starting ops server on %s", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Printf("Ops server error: %v", err)
			}
		}()
	}

	// Handle shutdown signals with graceful timeout
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel to signal main goroutine completion
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			logger.Printf("Received signal %v, disconnecting...", sig)
		case <-done:
			return
		}
		client.Disconnect()

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	logger.Printf("Streaming from %s with %d trade filter(s)", cfg.WebsocketURI, len(clientCfg.ConfigureMessage.Filters.Trades))
	err = client.Connect(context.Background())
	close(done)

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(ctx); err != nil {
			logger.Printf("Ops server shutdown error: %v", err)
		}
		cancel()
	}

	if err != nil {
		logger.Printf("Error: %v", err)
		return 1
	}

	logger.Println("Shutdown complete")
	return 0
}

// tokenDetailer is the part of vybe.TokenAPI used at startup.
type tokenDetailer interface {
	TokenDetails(ctx context.Context, mint string) (*vybe.TokenDetails, error)
}

// describeTokens logs the venue's summary of every filtered mint.
func describeTokens(ctx context.Context, api tokenDetailer, mints []string, logger *log.Logger) {
	for _, mint := range mints {
		lookupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		details, err := api.TokenDetails(lookupCtx, mint)
		cancel()
		if err != nil {
			logger.Printf("Token lookup for %s failed: %v", mint, err)
			continue
		}
		logger.Printf("Tracking %s (%s): price %s, 1d %s, market cap %s",
			details.Symbol, mint, details.Price, details.Price1d, details.MarketCap)
	}
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
