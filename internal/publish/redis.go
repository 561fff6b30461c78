// Package publish forwards decoded events to external consumers.
package publish

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"solana-trade-stream/internal/vybe"
)

// DefaultWriteTimeout bounds a single XADD.
const DefaultWriteTimeout = 2 * time.Second

// RedisSink appends every event to a Redis stream. Lifecycle callbacks
// are ignored; compose it with another Sink through vybe.MultiSink.
type RedisSink struct {
	client  *redis.Client
	stream  string
	maxLen  int64
	timeout time.Duration
	logger  *log.Logger
}

// RedisOptions configures a RedisSink.
type RedisOptions struct {
	// Stream is the destination stream key.
	Stream string
	// MaxLen approximately caps the stream length. 0 leaves it unbounded.
	MaxLen int64
	// WriteTimeout bounds each XADD. 0 uses DefaultWriteTimeout.
	WriteTimeout time.Duration
	Logger       *log.Logger
}

// NewRedisSink connects to redisURL and verifies the connection.
func NewRedisSink(ctx context.Context, redisURL string, opts RedisOptions) (*RedisSink, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewRedisSinkFromClient(client, opts), nil
}

// NewRedisSinkFromClient wraps an existing client.
func NewRedisSinkFromClient(client *redis.Client, opts RedisOptions) *RedisSink {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	timeout := opts.WriteTimeout
	if timeout == 0 {
		timeout = DefaultWriteTimeout
	}
	return &RedisSink{
		client:  client,
		stream:  opts.Stream,
		maxLen:  opts.MaxLen,
		timeout: timeout,
		logger:  logger,
	}
}

// Publish appends ev to the stream and returns the entry id.
func (s *RedisSink) Publish(ctx context.Context, ev vybe.Event) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: EventValues(ev),
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	id, err := s.client.XAdd(ctx, args).Result()
	if err != nil {
		return "", fmt.Errorf("redis XADD %s: %w", s.stream, err)
	}
	return id, nil
}

// OnMessage publishes ev. Failures are logged and never stop the stream.
func (s *RedisSink) OnMessage(ev vybe.Event) {
	if _, err := s.Publish(context.Background(), ev); err != nil {
		s.logger.Printf("Failed to publish %s: %v", ev.Signature, err)
	}
}

func (s *RedisSink) OnConnect()         {}
func (s *RedisSink) OnDisconnect()      {}
func (s *RedisSink) OnError(msg string) {}

// Close closes the underlying client.
func (s *RedisSink) Close() error {
	return s.client.Close()
}

// EventValues flattens ev into stream entry fields named as on the wire.
func EventValues(ev vybe.Event) map[string]interface{} {
	return map[string]interface{}{
		"authorityAddress": ev.AuthorityAddress,
		"blockTime":        strconv.FormatUint(ev.BlockTime, 10),
		"iixOrdinal":       strconv.FormatUint(uint64(ev.IixOrdinal), 10),
		"baseMintAddress":  ev.BaseMintAddress,
		"interIxOrdinal":   strconv.FormatUint(uint64(ev.InterIxOrdinal), 10),
		"ixOrdinal":        strconv.FormatUint(uint64(ev.IxOrdinal), 10),
		"marketId":         ev.MarketID,
		"quoteMintAddress": ev.QuoteMintAddress,
		"price":            ev.Price,
		"programId":        ev.ProgramID,
		"signature":        ev.Signature,
		"slot":             strconv.FormatUint(ev.Slot, 10),
		"txIndex":          strconv.FormatUint(uint64(ev.TxIndex), 10),
		"fee":              ev.Fee,
		"feePayer":         ev.FeePayer,
		"baseSize":         ev.BaseSize,
		"quoteSize":        ev.QuoteSize,
	}
}
