package cachex

import (
	"context"
	"time"
)

// Tier classifies cached data by how fast it goes stale. The TTL is the
// backstop that bounds staleness when an explicit invalidation is missed.
type Tier int

const (
	// TierStatic is for data that changes only via rare administrative action.
	TierStatic Tier = iota
	// TierDynamic is for aggregates recomputable from current counters.
	TierDynamic
	// TierShort is for expensive results highly sensitive to exact counter values.
	TierShort
)

// TTL returns the expiry applied to entries of this tier.
func (t Tier) TTL() time.Duration {
	switch t {
	case TierStatic:
		return 30 * time.Minute
	case TierDynamic:
		return 5 * time.Minute
	default:
		return 30 * time.Second
	}
}

// Cache is the read-through cache contract used by the discovery read side.
// Implementations must never propagate backend failures: a failed read is a
// miss, a failed write or eviction is logged and swallowed.
type Cache interface {
	// Get returns the cached payload for key, or false on miss.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key with the tier's TTL.
	Set(ctx context.Context, key string, value []byte, tier Tier)

	// Delete evicts the given exact keys.
	Delete(ctx context.Context, keys ...string)

	// DeleteByPrefix evicts every entry whose key starts with prefix.
	// Query-shaped keys are enumerable only by prefix at invalidation time.
	DeleteByPrefix(ctx context.Context, prefix string)
}
