package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tlebon/ccb-dashboard/internal/store"
)

const (
	// UpcomingShowsKey caches the merged upcoming-shows response.
	UpcomingShowsKey = "shows:upcoming"
	// UpcomingShowsTTL keeps the cache fresh between ingest runs.
	UpcomingShowsTTL = 5 * time.Minute

	// unseenNamesKey collects extracted names that matched no
	// performer, for manual registry review.
	unseenNamesKey = "lineup:unseen-names"
)

// RedisCache handles caching and fast state storage
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache connection
func NewRedisCache(redisURL string) (*RedisCache, error) {
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

	return &RedisCache{
		client: client,
	}, nil
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify connection
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Set stores a key-value pair with TTL
func (rc *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return rc.client.Set(ctx, key, value, ttl).Err()
}

// Get retrieves a value by key
func (rc *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return rc.client.Get(ctx, key).Result()
}

// Delete removes a key
func (rc *RedisCache) Delete(ctx context.Context, keys ...string) error {
	return rc.client.Del(ctx, keys...).Err()
}

// SetUpcomingShows caches the merged upcoming-shows list.
func (rc *RedisCache) SetUpcomingShows(ctx context.Context, shows []*store.Show) error {
	data, err := json.Marshal(shows)
	if err != nil {
		return err
	}
	return rc.client.Set(ctx, UpcomingShowsKey, data, UpcomingShowsTTL).Err()
}

// GetUpcomingShows returns the cached list, or (nil, nil) on a miss.
func (rc *RedisCache) GetUpcomingShows(ctx context.Context) ([]*store.Show, error) {
	data, err := rc.client.Get(ctx, UpcomingShowsKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var shows []*store.Show
	if err := json.Unmarshal(data, &shows); err != nil {
		return nil, err
	}
	return shows, nil
}

// InvalidateUpcomingShows drops the cached list after ingest runs.
func (rc *RedisCache) InvalidateUpcomingShows(ctx context.Context) error {
	return rc.client.Del(ctx, UpcomingShowsKey).Err()
}

// ReportUnseenNames records extracted names that matched no performer,
// so they can be reviewed and added to the registry.
func (rc *RedisCache) ReportUnseenNames(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	members := make([]interface{}, len(names))
	for i, name := range names {
		members[i] = name
	}
	return rc.client.SAdd(ctx, unseenNamesKey, members...).Err()
}

// UnseenNames returns the pending unseen-name report.
func (rc *RedisCache) UnseenNames(ctx context.Context) ([]string, error) {
	return rc.client.SMembers(ctx, unseenNamesKey).Result()
}
