package discovery

import (
	"context"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/cachex"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/logx"
)

// CacheInvalidator evicts the read-side cache after a write that changes
// capacity or visibility. Eviction is deliberately coarse: a false eviction
// costs one recomputation, a missed one would serve wrong capacity data until
// the TTL backstop. Runs synchronously after the commit; the cache swallows
// backend failures, so this can never fail the request.
type CacheInvalidator struct {
	cache cachex.Cache
}

func NewCacheInvalidator(cache cachex.Cache) *CacheInvalidator {
	return &CacheInvalidator{cache: cache}
}

// OnCapacityOrVisibilityChange evicts every cached view the job could appear
// in. Query-shaped keys cannot be enumerated per job, so the whole search and
// company namespaces go.
func (i *CacheInvalidator) OnCapacityOrVisibilityChange(ctx context.Context, jobID kernel.JobID) {
	logx.Debugf("discovery: invalidating read side for job %s", jobID)

	i.cache.Delete(ctx, StatsKey)
	i.cache.DeleteByPrefix(ctx, SearchKeyPrefix)
	i.cache.DeleteByPrefix(ctx, CompanyKeyPrefix)
	i.cache.DeleteByPrefix(ctx, JobKeyPrefix)
}
