package cachex

import (
	"context"
	"time"
)

// sharedLayer is what Layered needs from the remote cache. *Redis satisfies
// it; tests substitute their own.
type sharedLayer interface {
	GetWithTTL(ctx context.Context, key string) ([]byte, time.Duration, bool)
	Set(ctx context.Context, key string, value []byte, tier Tier)
	Delete(ctx context.Context, keys ...string)
	DeleteByPrefix(ctx context.Context, prefix string)
}

// Layered composes the in-process layer with the shared layer. Reads check
// local first, then shared; a shared hit is backfilled locally with the
// remaining TTL. Writes land locally right away and propagate to the shared
// layer asynchronously.
type Layered struct {
	local  *Local
	shared sharedLayer
}

func NewLayered(local *Local, shared sharedLayer) *Layered {
	return &Layered{local: local, shared: shared}
}

func (c *Layered) Get(ctx context.Context, key string) ([]byte, bool) {
	if value, ok := c.local.Get(ctx, key); ok {
		return value, true
	}

	value, remaining, ok := c.shared.GetWithTTL(ctx, key)
	if !ok {
		return nil, false
	}
	c.local.SetWithTTL(ctx, key, value, remaining)
	return value, true
}

func (c *Layered) Set(ctx context.Context, key string, value []byte, tier Tier) {
	c.local.Set(ctx, key, value, tier)

	// The shared write happens off the request path. WithoutCancel keeps it
	// alive after the request context is done.
	bg := context.WithoutCancel(ctx)
	go c.shared.Set(bg, key, value, tier)
}

// Delete evicts synchronously on both layers: invalidation is the one path
// where leaving a stale entry behind defeats the purpose.
func (c *Layered) Delete(ctx context.Context, keys ...string) {
	c.local.Delete(ctx, keys...)
	c.shared.Delete(ctx, keys...)
}

func (c *Layered) DeleteByPrefix(ctx context.Context, prefix string) {
	c.local.DeleteByPrefix(ctx, prefix)
	c.shared.DeleteByPrefix(ctx, prefix)
}
