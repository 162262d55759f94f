package notify

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sink is a fire-and-forget push channel to the owner-facing notification
// transport (the WebSocket tier subscribes on the other side). At-most-once,
// best-effort, no acknowledgment.
type Sink interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// ChannelFor returns the per-user notification channel name.
func ChannelFor(owner string) string {
	return "user_" + owner
}

// RedisSink publishes notifications through Redis pub/sub.
type RedisSink struct {
	client *redis.Client
}

func NewRedisSink(addr, password string, db int) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisSink{client: client}, nil
}

func (s *RedisSink) Publish(ctx context.Context, channel string, payload []byte) error {
	return s.client.Publish(ctx, channel, payload).Err()
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}

// NopSink discards every notification. Used when notifications are disabled
// and in tests.
type NopSink struct{}

func (NopSink) Publish(ctx context.Context, channel string, payload []byte) error {
	return nil
}
