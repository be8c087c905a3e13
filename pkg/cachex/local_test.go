package cachex

import (
	"context"
	"testing"
	"time"
)

func TestLocalGetMissAfterTTL(t *testing.T) {
	ctx := context.Background()
	cache := NewLocal(10)

	cache.SetWithTTL(ctx, "k1", []byte("v1"), 20*time.Millisecond)

	if value, ok := cache.Get(ctx, "k1"); !ok || string(value) != "v1" {
		t.Fatalf("expected hit with v1, got %q ok=%v", value, ok)
	}

	time.Sleep(30 * time.Millisecond)

	if _, ok := cache.Get(ctx, "k1"); ok {
		t.Fatal("expected miss after TTL expired")
	}
}

func TestLocalBoundedSize(t *testing.T) {
	ctx := context.Background()
	cache := NewLocal(3)

	cache.SetWithTTL(ctx, "a", []byte("1"), time.Minute)
	cache.SetWithTTL(ctx, "b", []byte("2"), time.Minute)
	cache.SetWithTTL(ctx, "c", []byte("3"), time.Minute)
	cache.SetWithTTL(ctx, "d", []byte("4"), time.Minute)

	if got := cache.Len(); got > 3 {
		t.Fatalf("expected at most 3 entries, got %d", got)
	}
	if _, ok := cache.Get(ctx, "d"); !ok {
		t.Fatal("expected the newest entry to survive eviction")
	}
}

func TestLocalSweepPrefersExpired(t *testing.T) {
	ctx := context.Background()
	cache := NewLocal(2)

	cache.SetWithTTL(ctx, "old", []byte("1"), time.Millisecond)
	cache.SetWithTTL(ctx, "live", []byte("2"), time.Minute)
	time.Sleep(5 * time.Millisecond)

	cache.SetWithTTL(ctx, "new", []byte("3"), time.Minute)

	if _, ok := cache.Get(ctx, "live"); !ok {
		t.Fatal("expected live entry to survive, expired entry should be evicted first")
	}
	if _, ok := cache.Get(ctx, "new"); !ok {
		t.Fatal("expected new entry to be stored")
	}
}

func TestLocalDeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	cache := NewLocal(10)

	cache.SetWithTTL(ctx, "search:q=go:p=1", []byte("1"), time.Minute)
	cache.SetWithTTL(ctx, "search:q=go:p=2", []byte("2"), time.Minute)
	cache.SetWithTTL(ctx, "stats:job1", []byte("3"), time.Minute)

	cache.DeleteByPrefix(ctx, "search:")

	if _, ok := cache.Get(ctx, "search:q=go:p=1"); ok {
		t.Fatal("expected prefixed entry to be evicted")
	}
	if _, ok := cache.Get(ctx, "search:q=go:p=2"); ok {
		t.Fatal("expected prefixed entry to be evicted")
	}
	if _, ok := cache.Get(ctx, "stats:job1"); !ok {
		t.Fatal("expected unrelated entry to survive")
	}
}
