package store

import (
	"context"
	"os"
	"testing"

	"github.com/go-redis/redis/v8"
)

func newTestRedis(t *testing.T) *RedisKV {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	prefix := "gripcheck-test:" + t.Name() + ":"
	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
	})
	return NewRedisKV(client, prefix)
}

func TestRedisKV(t *testing.T) {
	kv := newTestRedis(t)
	ctx := context.Background()

	got, err := kv.Get(ctx, KeyCrew)
	if err != nil {
		t.Fatalf("Get missing: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing key, got %q", got)
	}

	if err := kv.Put(ctx, KeyCrew, []byte("[]")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err = kv.Get(ctx, KeyCrew)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "[]" {
		t.Errorf("expected '[]', got %q", got)
	}
}
