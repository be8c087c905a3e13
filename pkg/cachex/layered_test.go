package cachex

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeShared struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	deleted []string
	swept   []string
}

func newFakeShared() *fakeShared {
	return &fakeShared{
		entries: make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
	}
}

func (f *fakeShared) GetWithTTL(_ context.Context, key string) ([]byte, time.Duration, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.entries[key]
	if !ok {
		return nil, 0, false
	}
	return value, f.ttls[key], true
}

func (f *fakeShared) Set(_ context.Context, key string, value []byte, tier Tier) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = value
	f.ttls[key] = tier.TTL()
}

func (f *fakeShared) Delete(_ context.Context, keys ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.entries, key)
		f.deleted = append(f.deleted, key)
	}
}

func (f *fakeShared) DeleteByPrefix(_ context.Context, prefix string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.swept = append(f.swept, prefix)
}

func TestLayeredBackfillsLocalOnSharedHit(t *testing.T) {
	ctx := context.Background()
	local := NewLocal(10)
	shared := newFakeShared()
	shared.entries["stats:job1"] = []byte("payload")
	shared.ttls["stats:job1"] = time.Minute

	cache := NewLayered(local, shared)

	value, ok := cache.Get(ctx, "stats:job1")
	if !ok || string(value) != "payload" {
		t.Fatalf("expected shared hit, got %q ok=%v", value, ok)
	}

	if _, ok := local.Get(ctx, "stats:job1"); !ok {
		t.Fatal("expected shared hit to backfill the local layer")
	}
}

func TestLayeredSetReachesBothLayers(t *testing.T) {
	ctx := context.Background()
	local := NewLocal(10)
	shared := newFakeShared()
	cache := NewLayered(local, shared)

	cache.Set(ctx, "k", []byte("v"), TierDynamic)

	if _, ok := local.Get(ctx, "k"); !ok {
		t.Fatal("expected local layer to hold the entry immediately")
	}

	deadline := time.Now().Add(time.Second)
	for {
		if _, _, ok := shared.GetWithTTL(ctx, "k"); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expected shared layer to receive the entry")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestLayeredDeleteEvictsBothLayers(t *testing.T) {
	ctx := context.Background()
	local := NewLocal(10)
	shared := newFakeShared()
	shared.entries["k"] = []byte("v")
	shared.ttls["k"] = time.Minute
	local.SetWithTTL(ctx, "k", []byte("v"), time.Minute)

	cache := NewLayered(local, shared)
	cache.Delete(ctx, "k")

	if _, ok := local.Get(ctx, "k"); ok {
		t.Fatal("expected local eviction")
	}
	if _, _, ok := shared.GetWithTTL(ctx, "k"); ok {
		t.Fatal("expected shared eviction")
	}

	cache.DeleteByPrefix(ctx, "search:")
	shared.mu.Lock()
	defer shared.mu.Unlock()
	if len(shared.swept) != 1 || shared.swept[0] != "search:" {
		t.Fatalf("expected prefix sweep on shared layer, got %v", shared.swept)
	}
}
