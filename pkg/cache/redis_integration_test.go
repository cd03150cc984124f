//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestRedisCache_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := redis.NewClient(&redis.Options{Addr: addr})
	c := NewRedisCache(client, "mvnresolve-test:")
	defer c.Close()
	defer c.Clear(context.Background())

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get(k) = %q, %v, %v", data, hit, err)
	}
	if ttl := client.TTL(ctx, "mvnresolve-test:k").Val(); ttl <= 0 || ttl > time.Minute {
		t.Errorf("TTL = %v, want (0, 1m]", ttl)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should miss")
	}

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n := client.Exists(ctx, "mvnresolve-test:a", "mvnresolve-test:b").Val(); n != 0 {
		t.Errorf("Clear left %d keys", n)
	}
}

func TestRedisCache_ScopedClear(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: addr}), "mvnresolve-test:")
	defer c.Close()
	defer c.Clear(context.Background())

	a, b := Scoped(c, "a:"), Scoped(c, "b:")
	_ = a.Set(ctx, "k", []byte("1"), 0)
	_ = b.Set(ctx, "k", []byte("2"), 0)
	if err := a.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, hit, _ := a.Get(ctx, "k"); hit {
		t.Error("cleared scope should miss")
	}
	if _, hit, _ := b.Get(ctx, "k"); !hit {
		t.Error("other scope should survive")
	}
}
