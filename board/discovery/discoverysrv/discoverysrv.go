package discoverysrv

import (
	"context"
	"encoding/json"

	"github.com/thaihadefi/Innovation-Project-sub000/board/discovery"
	"github.com/thaihadefi/Innovation-Project-sub000/board/job"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/cachex"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/errx"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/logx"
)

// DiscoveryService serves the public read side through the cache. Every
// operation is read-through: a hit is served as-is, a miss computes the
// result and stores it under the tier matching its staleness tolerance.
type DiscoveryService struct {
	reader discovery.Reader
	cache  cachex.Cache
}

// NewDiscoveryService creates a new instance of the discovery service
func NewDiscoveryService(reader discovery.Reader, cache cachex.Cache) *DiscoveryService {
	return &DiscoveryService{
		reader: reader,
		cache:  cache,
	}
}

// Search retrieves published jobs matching the filters. Results carry counter
// snapshots, so they live in the dynamic tier and are evicted on every
// capacity change.
func (s *DiscoveryService) Search(ctx context.Context, filters discovery.SearchFilters) (*job.PaginatedJobsResponse, error) {
	key := discovery.SearchKey(filters)
	if cached, ok := getCached[job.PaginatedJobsResponse](ctx, s.cache, key); ok {
		return cached, nil
	}

	page, err := s.reader.SearchJobs(ctx, filters)
	if err != nil {
		return nil, errx.Wrap(err, "failed to search jobs", errx.TypeInternal)
	}

	resp := toJobsResponse(page)
	s.put(ctx, key, resp, cachex.TierDynamic)
	return resp, nil
}

// CompanyJobs retrieves a company's published listings.
func (s *DiscoveryService) CompanyJobs(ctx context.Context, companyID kernel.CompanyID, pagination kernel.PaginationOptions) (*job.PaginatedJobsResponse, error) {
	key := discovery.CompanyKey(companyID, pagination)
	if cached, ok := getCached[job.PaginatedJobsResponse](ctx, s.cache, key); ok {
		return cached, nil
	}

	page, err := s.reader.CompanyJobs(ctx, companyID, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list company jobs", errx.TypeInternal)
	}

	resp := toJobsResponse(page)
	s.put(ctx, key, resp, cachex.TierDynamic)
	return resp, nil
}

// JobBySlug retrieves one published job's detail view. Details change rarely
// and every capacity change evicts the whole job namespace, so the entry sits
// in the static tier with the TTL as backstop only.
func (s *DiscoveryService) JobBySlug(ctx context.Context, slug kernel.JobSlug) (*job.JobResponse, error) {
	key := discovery.JobKey(slug)
	if cached, ok := getCached[job.JobResponse](ctx, s.cache, key); ok {
		return cached, nil
	}

	jobEntity, err := s.reader.JobBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	resp := job.ToResponse(jobEntity)
	s.put(ctx, key, resp, cachex.TierStatic)
	return &resp, nil
}

// Stats retrieves board-wide aggregates. The aggregation scans every job row,
// so it sits in the short tier: expensive to compute, highly sensitive to the
// exact counter values.
func (s *DiscoveryService) Stats(ctx context.Context) (*discovery.BoardStats, error) {
	if cached, ok := getCached[discovery.BoardStats](ctx, s.cache, discovery.StatsKey); ok {
		return cached, nil
	}

	stats, err := s.reader.BoardStats(ctx)
	if err != nil {
		return nil, errx.Wrap(err, "failed to compute board stats", errx.TypeInternal)
	}

	s.put(ctx, discovery.StatsKey, stats, cachex.TierShort)
	return stats, nil
}

// getCached returns the decoded entry for key, or false on miss. A cached
// payload that no longer decodes is treated as a miss and overwritten by the
// caller's refill.
func getCached[T any](ctx context.Context, cache cachex.Cache, key string) (*T, bool) {
	data, ok := cache.Get(ctx, key)
	if !ok {
		return nil, false
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		logx.Warnf("discovery: dropping undecodable cache entry %s: %v", key, err)
		return nil, false
	}
	return &value, true
}

func (s *DiscoveryService) put(ctx context.Context, key string, value any, tier cachex.Tier) {
	data, err := json.Marshal(value)
	if err != nil {
		logx.Warnf("discovery: failed to encode cache entry %s: %v", key, err)
		return
	}
	s.cache.Set(ctx, key, data, tier)
}

func toJobsResponse(jobs *kernel.Paginated[job.Job]) *job.PaginatedJobsResponse {
	responses := make([]job.JobResponse, 0, len(jobs.Items))
	for i := range jobs.Items {
		responses = append(responses, job.ToResponse(&jobs.Items[i]))
	}
	return &job.PaginatedJobsResponse{
		Items: responses,
		Page:  jobs.Page,
		Empty: jobs.Empty,
	}
}
