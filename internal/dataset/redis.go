package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/awaistahir/smart-wash/internal/engine"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "smartwash:dataset:"

// DefaultRedisTTL is how long a shared snapshot lives when no TTL is configured
const DefaultRedisTTL = 10 * time.Minute

// RedisCache shares loaded snapshots between daemon replicas
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOptions configures the snapshot cache connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisCache connects to redis and verifies the connection
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get returns the cached snapshot for a source id. A miss returns false and no error.
func (c *RedisCache) Get(ctx context.Context, id string) ([]engine.UsageRecord, bool, error) {
	val, err := c.client.Get(ctx, redisKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var records []engine.UsageRecord
	if err := json.Unmarshal([]byte(val), &records); err != nil {
		return nil, false, fmt.Errorf("decoding cached snapshot: %w", err)
	}
	return records, true, nil
}

// Set stores a snapshot under the source id
func (c *RedisCache) Set(ctx context.Context, id string, records []engine.UsageRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, redisKeyPrefix+id, data, c.ttl).Err()
}

// Close closes the redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
