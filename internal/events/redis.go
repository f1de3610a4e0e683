package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultChannel = "jobshop:events"
	DefaultStream  = "jobshop:events:stream"

	defaultStreamMaxLen = 10000
	eventVersion        = "1.0"
)

// RedisConfig holds connection and key settings for RedisPublisher.
type RedisConfig struct {
	URL      string
	Password string
	// Channel receives every event via PUBLISH (default "jobshop:events").
	Channel string
	// Stream receives every event via XADD (default "jobshop:events:stream").
	Stream string
	// StreamMaxLen caps the stream with approximate trimming (default 10000).
	StreamMaxLen int64
}

// RedisPublisher publishes events to a Pub/Sub channel for live dashboards
// and appends them to a capped stream for consumers that must not miss any.
type RedisPublisher struct {
	client       *redis.Client
	channel      string
	stream       string
	streamMaxLen int64
}

func NewRedisPublisher(cfg RedisConfig) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	if cfg.Stream == "" {
		cfg.Stream = DefaultStream
	}
	if cfg.StreamMaxLen <= 0 {
		cfg.StreamMaxLen = defaultStreamMaxLen
	}

	return &RedisPublisher{
		client:       redis.NewClient(opts),
		channel:      cfg.Channel,
		stream:       cfg.Stream,
		streamMaxLen: cfg.StreamMaxLen,
	}, nil
}

// Ping verifies the connection.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	return nil
}

func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	if ev.Version == "" {
		ev.Version = eventVersion
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publishing to channel: %w", err)
	}

	fields := map[string]any{
		"type":      string(ev.Type),
		"timestamp": ev.Timestamp.UTC().Format(time.RFC3339),
		"payload":   string(payload),
	}
	if ev.OperatorID != "" {
		fields["operatorId"] = ev.OperatorID
	}
	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
		MaxLen: p.streamMaxLen,
		Approx: true,
	}).Err(); err != nil {
		return fmt.Errorf("adding to stream: %w", err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

func (p *RedisPublisher) Channel() string { return p.channel }

func (p *RedisPublisher) Stream() string { return p.stream }
