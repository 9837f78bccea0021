package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/localnerve/resonance/internal/logger"
	"github.com/localnerve/resonance/internal/types"
)

// ConstellationUpdate is broadcast after an aggregate row changes. It
// carries only community totals, never a user identifier.
type ConstellationUpdate struct {
	Day             types.Day `json:"day"`
	AxisSlug        string    `json:"axisSlug"`
	CompletionCount int64     `json:"completionCount"`
	Intensity       float64   `json:"intensity"`
}

// Publisher fans constellation updates out to live visualizations.
type Publisher interface {
	PublishConstellation(ctx context.Context, update ConstellationUpdate) error
	Close() error
}

// NopPublisher drops every update.
type NopPublisher struct{}

func (NopPublisher) PublishConstellation(context.Context, ConstellationUpdate) error { return nil }
func (NopPublisher) Close() error                                                   { return nil }

type redisPublisher struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewRedisPublisher connects to addr and verifies it with a ping.
func NewRedisPublisher(ctx context.Context, addr, channel string, log *logger.Logger) (Publisher, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	if channel == "" {
		channel = "resonance:constellation"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewRedisPublisherFromClient(rdb, channel, log), nil
}

// NewRedisPublisherFromClient wraps an existing client.
func NewRedisPublisherFromClient(rdb *goredis.Client, channel string, log *logger.Logger) Publisher {
	return &redisPublisher{
		log:     log.With("service", "RedisConstellationPublisher"),
		rdb:     rdb,
		channel: channel,
	}
}

func (p *redisPublisher) PublishConstellation(ctx context.Context, update ConstellationUpdate) error {
	raw, err := json.Marshal(update)
	if err != nil {
		return err
	}
	if err := p.rdb.Publish(ctx, p.channel, raw).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

func (p *redisPublisher) Close() error {
	return p.rdb.Close()
}

// Subscribe streams decoded updates from channel until ctx is done.
// Used by resonancectl watch.
func Subscribe(ctx context.Context, rdb *goredis.Client, channel string, log *logger.Logger, onUpdate func(ConstellationUpdate)) error {
	if onUpdate == nil {
		return fmt.Errorf("onUpdate callback required")
	}

	sub := rdb.Subscribe(ctx, channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe: %w", err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok || m == nil {
				return nil
			}
			var update ConstellationUpdate
			if err := json.Unmarshal([]byte(m.Payload), &update); err != nil {
				log.Warn("bad constellation payload", "error", err)
				continue
			}
			onUpdate(update)
		}
	}
}
