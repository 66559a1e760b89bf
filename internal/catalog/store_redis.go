package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey holds the catalog when no key is configured.
const DefaultRedisKey = "designstudio:assets"

// RedisStore keeps the catalog as a JSON array under a single key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a RedisStore. An empty key uses DefaultRedisKey.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

// Load reads the catalog. A missing key is an empty catalog.
func (r *RedisStore) Load(ctx context.Context) ([]Asset, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis GET %s: %w", r.key, err)
	}
	return decodeAssets(data)
}

// Save replaces the value under the key. No TTL: the catalog lives until
// assets are released.
func (r *RedisStore) Save(ctx context.Context, assets []Asset) error {
	data, err := encodeAssets(assets)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", r.key, err)
	}
	return nil
}
