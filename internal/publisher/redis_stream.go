// Package publisher pushes show and lineup changes onto Redis streams
// for downstream consumers (the websocket fanout, external bots).
package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ShowUpdatesStream carries created/merged/updated show records.
	ShowUpdatesStream = "shows.updates"
	// LineupUpdatesStream carries newly resolved lineups.
	LineupUpdatesStream = "shows.lineups"
)

// RedisStreamPublisher publishes events to Redis streams
type RedisStreamPublisher struct {
	client *redis.Client
}

// NewRedisStreamPublisher creates a publisher from an existing client
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
	}
}

// NewRedisPublisher creates a publisher with its own connection
func NewRedisPublisher(redisURL string) (*RedisStreamPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStreamPublisher{
		client: client,
	}, nil
}

// Close closes the Redis connection
func (p *RedisStreamPublisher) Close() error {
	return p.client.Close()
}

// PublishShowUpdate publishes a created/merged/updated show
func (p *RedisStreamPublisher) PublishShowUpdate(ctx context.Context, showData interface{}) error {
	return p.publish(ctx, ShowUpdatesStream, showData)
}

// PublishLineupUpdate publishes a resolved lineup for a show
func (p *RedisStreamPublisher) PublishLineupUpdate(ctx context.Context, lineupData interface{}) error {
	return p.publish(ctx, LineupUpdatesStream, lineupData)
}

func (p *RedisStreamPublisher) publish(ctx context.Context, stream string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
