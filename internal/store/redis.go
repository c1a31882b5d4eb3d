package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisKV stores documents as plain Redis string values.
type RedisKV struct {
	client *redis.Client
	prefix string
}

// NewRedisKV wraps client. Every key is prefixed with prefix.
func NewRedisKV(client *redis.Client, prefix string) *RedisKV {
	return &RedisKV{client: client, prefix: prefix}
}

// Get returns the document stored under key, or nil if there is none.
func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s from redis: %w", key, err)
	}
	return data, nil
}

// Put overwrites the document stored under key. Documents never expire.
func (r *RedisKV) Put(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("setting %s in redis: %w", key, err)
	}
	return nil
}
