package cachex

import (
	"context"
	"strings"
	"sync"
	"time"
)

type localEntry struct {
	value     []byte
	expiresAt time.Time
}

// Local is the in-process cache layer: bounded size, per-entry TTL,
// lazy expiry with a sweep when the bound is hit. Eviction cannot fail.
type Local struct {
	mu         sync.RWMutex
	maxEntries int
	entries    map[string]localEntry
}

// NewLocal creates a local cache holding at most maxEntries entries.
func NewLocal(maxEntries int) *Local {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &Local{
		maxEntries: maxEntries,
		entries:    make(map[string]localEntry),
	}
}

func (l *Local) Get(_ context.Context, key string) ([]byte, bool) {
	l.mu.RLock()
	entry, ok := l.entries[key]
	l.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}

func (l *Local) Set(ctx context.Context, key string, value []byte, tier Tier) {
	l.SetWithTTL(ctx, key, value, tier.TTL())
}

// SetWithTTL stores value with an explicit TTL. Used by the layered cache to
// backfill with the remaining TTL observed on the shared layer.
func (l *Local) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.entries[key]; !exists && len(l.entries) >= l.maxEntries {
		l.sweepLocked()
		// Still full after dropping expired entries: make room by evicting
		// one arbitrary entry. Anything here is rebuildable on the next miss.
		if len(l.entries) >= l.maxEntries {
			for k := range l.entries {
				delete(l.entries, k)
				break
			}
		}
	}

	l.entries[key] = localEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

func (l *Local) Delete(_ context.Context, keys ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, key := range keys {
		delete(l.entries, key)
	}
}

func (l *Local) DeleteByPrefix(_ context.Context, prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key := range l.entries {
		if strings.HasPrefix(key, prefix) {
			delete(l.entries, key)
		}
	}
}

// Len returns the current entry count, expired entries included.
func (l *Local) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *Local) sweepLocked() {
	now := time.Now()
	for key, entry := range l.entries {
		if now.After(entry.expiresAt) {
			delete(l.entries, key)
		}
	}
}
