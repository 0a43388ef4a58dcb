package cache

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/madhuracj/weblate/internal/compress"
)

var _ Cache = (*RedisCache)(nil)

// RedisCache stores values in redis, compressed with the given codec.
type RedisCache struct {
	client  *redis.Client
	encoder compress.Compress
}

// NewRedisCache connects to redis at addr and verifies the connection.
func NewRedisCache(addr, password string, encoder compress.Compress) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0, // Use default DB
		Protocol: 2, // Connection protocol
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{client: client, encoder: encoder}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	res := r.client.Get(ctx, key)
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return nil, ErrMiss
		}
		return nil, res.Err()
	}

	buf, err := res.Bytes()
	if err != nil {
		return nil, err
	}

	return r.encoder.Decode(buf)
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	encoded, err := r.encoder.Encode(value)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, key, encoded, ttl).Err()
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
