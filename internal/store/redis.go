package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"codeberg.org/algorave/errorstack/internal/logger"
	"github.com/redis/go-redis/v9"
)

// redis key patterns
const (
	// {prefix}:current - JSON encoded current error
	keyCurrent = "%s:current"

	// {prefix}:events - pub/sub channel carrying JSON encoded events
	channelEvents = "%s:events"
)

const redisWriteTimeout = 5 * time.Second

// RedisMirror replicates store events to Redis so other processes can read the
// current error and follow changes.
type RedisMirror struct {
	client  *redis.Client
	prefix  string
	key     string
	channel string
}

// connects to redisURL and checks the connection
func NewRedisMirror(redisURL, prefix string) (*RedisMirror, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("connected to redis", "prefix", prefix)

	return NewRedisMirrorWithClient(client, prefix), nil
}

// wraps an existing client
func NewRedisMirrorWithClient(client *redis.Client, prefix string) *RedisMirror {
	if prefix == "" {
		prefix = "errorstack"
	}

	return &RedisMirror{
		client:  client,
		prefix:  prefix,
		key:     fmt.Sprintf(keyCurrent, prefix),
		channel: fmt.Sprintf(channelEvents, prefix),
	}
}

// returns the underlying client for other Redis-backed components
func (m *RedisMirror) Client() *redis.Client {
	return m.client
}

// closes the Redis connection
func (m *RedisMirror) Close() error {
	return m.client.Close()
}

// applies events until the channel closes or ctx is done
func (m *RedisMirror) Run(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, redisWriteTimeout)
			if err := m.Apply(writeCtx, evt); err != nil {
				logger.ErrorErr(err, "failed to mirror error event to redis", "kind", evt.Kind)
			}
			cancel()
		}
	}
}

// writes one event: SET or DEL the current key, then PUBLISH the event
func (m *RedisMirror) Apply(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pipe := m.client.TxPipeline()

	switch evt.Kind {
	case EventPublished:
		recJSON, err := json.Marshal(evt.Record)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		pipe.Set(ctx, m.key, recJSON, 0)
	case EventCleared:
		pipe.Del(ctx, m.key)
	default:
		return fmt.Errorf("unknown event kind %q", evt.Kind)
	}

	pipe.Publish(ctx, m.channel, payload)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write event to redis: %w", err)
	}

	return nil
}
