package billing

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestStatusCache_Redis(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewStatusCache(client, time.Minute, zap.NewNop())
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "cus_1"); ok {
		t.Fatal("expected miss on empty cache")
	}

	cache.Set(ctx, "cus_1", true)
	cache.Set(ctx, "cus_2", false)

	if paid, ok := cache.Get(ctx, "cus_1"); !ok || !paid {
		t.Fatalf("expected cached paid=true, got paid=%v ok=%v", paid, ok)
	}
	if paid, ok := cache.Get(ctx, "cus_2"); !ok || paid {
		t.Fatalf("expected cached paid=false, got paid=%v ok=%v", paid, ok)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok := cache.Get(ctx, "cus_1"); ok {
		t.Fatal("expected entry to expire")
	}

	cache.Set(ctx, "cus_1", true)
	cache.Invalidate(ctx, "cus_1")
	if _, ok := cache.Get(ctx, "cus_1"); ok {
		t.Fatal("expected entry to be invalidated")
	}
}

func TestStatusCache_Local(t *testing.T) {
	cache := NewStatusCache(nil, time.Minute, zap.NewNop())
	ctx := context.Background()

	cache.Set(ctx, "cus_1", true)
	if paid, ok := cache.Get(ctx, "cus_1"); !ok || !paid {
		t.Fatalf("expected cached paid=true, got paid=%v ok=%v", paid, ok)
	}
	cache.Invalidate(ctx, "cus_1")
	if _, ok := cache.Get(ctx, "cus_1"); ok {
		t.Fatal("expected entry to be invalidated")
	}
}

func TestStatusCache_Disabled(t *testing.T) {
	ctx := context.Background()
	for _, cache := range []*StatusCache{nil, NewStatusCache(nil, 0, zap.NewNop())} {
		cache.Set(ctx, "cus_1", true)
		if _, ok := cache.Get(ctx, "cus_1"); ok {
			t.Fatal("disabled cache must never hit")
		}
	}
}
