package discoverysrv

import (
	"context"
	"testing"

	"github.com/thaihadefi/Innovation-Project-sub000/board/discovery"
	"github.com/thaihadefi/Innovation-Project-sub000/board/job"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/cachex"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

type fakeReader struct {
	searchCalls  int
	companyCalls int
	slugCalls    int
	statsCalls   int
	stats        discovery.BoardStats
}

func (r *fakeReader) SearchJobs(_ context.Context, filters discovery.SearchFilters) (*kernel.Paginated[job.Job], error) {
	r.searchCalls++
	items := []job.Job{
		{ID: kernel.JobID("job-1"), Title: "Backend Engineer", Status: job.JobStatusPublished},
	}
	return kernel.NewPaginated(items, filters.Pagination, len(items)), nil
}

func (r *fakeReader) CompanyJobs(_ context.Context, _ kernel.CompanyID, pagination kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	r.companyCalls++
	return kernel.NewPaginated([]job.Job{}, pagination, 0), nil
}

func (r *fakeReader) JobBySlug(_ context.Context, slug kernel.JobSlug) (*job.Job, error) {
	r.slugCalls++
	return &job.Job{ID: kernel.JobID("job-1"), Slug: slug, Title: "Backend Engineer", Status: job.JobStatusPublished}, nil
}

func (r *fakeReader) BoardStats(context.Context) (*discovery.BoardStats, error) {
	r.statsCalls++
	stats := r.stats
	return &stats, nil
}

func newService() (*DiscoveryService, *fakeReader, *discovery.CacheInvalidator) {
	reader := &fakeReader{stats: discovery.BoardStats{TotalJobs: 3, PublishedJobs: 2, TotalApplications: 7}}
	cache := cachex.NewLocal(64)
	return NewDiscoveryService(reader, cache), reader, discovery.NewCacheInvalidator(cache)
}

func TestSearchIsReadThrough(t *testing.T) {
	ctx := context.Background()
	service, reader, _ := newService()
	filters := discovery.SearchFilters{Query: "engineer"}

	first, err := service.Search(ctx, filters)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	second, err := service.Search(ctx, filters)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if reader.searchCalls != 1 {
		t.Errorf("second search must be served from cache: %d reader calls", reader.searchCalls)
	}
	if len(first.Items) != 1 || len(second.Items) != 1 {
		t.Errorf("cached result must match the computed one")
	}
	if second.Items[0].ID != first.Items[0].ID {
		t.Errorf("cached item diverged: %s vs %s", second.Items[0].ID, first.Items[0].ID)
	}
}

func TestEquivalentSearchesShareTheCacheEntry(t *testing.T) {
	ctx := context.Background()
	service, reader, _ := newService()

	if _, err := service.Search(ctx, discovery.SearchFilters{Query: "Engineer"}); err != nil {
		t.Fatalf("search: %v", err)
	}
	if _, err := service.Search(ctx, discovery.SearchFilters{Query: "  engineer "}); err != nil {
		t.Fatalf("search: %v", err)
	}

	if reader.searchCalls != 1 {
		t.Errorf("normalized-equal searches must share one entry: %d reader calls", reader.searchCalls)
	}
}

func TestStatsAreCached(t *testing.T) {
	ctx := context.Background()
	service, reader, _ := newService()

	first, err := service.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if _, err := service.Stats(ctx); err != nil {
		t.Fatalf("stats: %v", err)
	}

	if reader.statsCalls != 1 {
		t.Errorf("second stats read must be served from cache: %d reader calls", reader.statsCalls)
	}
	if first.TotalApplications != 7 {
		t.Errorf("stats payload: got %d, want 7", first.TotalApplications)
	}
}

func TestJobBySlugIsReadThrough(t *testing.T) {
	ctx := context.Background()
	service, reader, _ := newService()
	slug := kernel.JobSlug("backend-engineer-a1b2c3d4")

	first, err := service.JobBySlug(ctx, slug)
	if err != nil {
		t.Fatalf("job by slug: %v", err)
	}
	second, err := service.JobBySlug(ctx, slug)
	if err != nil {
		t.Fatalf("job by slug: %v", err)
	}

	if reader.slugCalls != 1 {
		t.Errorf("second read must be served from cache: %d reader calls", reader.slugCalls)
	}
	if first.ID != second.ID || second.Slug != slug {
		t.Errorf("cached detail diverged: %+v vs %+v", first, second)
	}
}

func TestInvalidationForcesRecomputation(t *testing.T) {
	ctx := context.Background()
	service, reader, invalidator := newService()
	filters := discovery.SearchFilters{Query: "engineer"}

	if _, err := service.Search(ctx, filters); err != nil {
		t.Fatalf("search: %v", err)
	}
	if _, err := service.Stats(ctx); err != nil {
		t.Fatalf("stats: %v", err)
	}
	if _, err := service.CompanyJobs(ctx, kernel.NewCompanyID("c-1"), kernel.PaginationOptions{}); err != nil {
		t.Fatalf("company jobs: %v", err)
	}
	if _, err := service.JobBySlug(ctx, kernel.JobSlug("backend-engineer-a1b2c3d4")); err != nil {
		t.Fatalf("job by slug: %v", err)
	}

	invalidator.OnCapacityOrVisibilityChange(ctx, kernel.JobID("job-1"))

	if _, err := service.Search(ctx, filters); err != nil {
		t.Fatalf("search: %v", err)
	}
	if _, err := service.Stats(ctx); err != nil {
		t.Fatalf("stats: %v", err)
	}
	if _, err := service.CompanyJobs(ctx, kernel.NewCompanyID("c-1"), kernel.PaginationOptions{}); err != nil {
		t.Fatalf("company jobs: %v", err)
	}
	if _, err := service.JobBySlug(ctx, kernel.JobSlug("backend-engineer-a1b2c3d4")); err != nil {
		t.Fatalf("job by slug: %v", err)
	}

	if reader.searchCalls != 2 || reader.statsCalls != 2 || reader.companyCalls != 2 || reader.slugCalls != 2 {
		t.Errorf("invalidation must evict every read-side view: search=%d stats=%d company=%d job=%d",
			reader.searchCalls, reader.statsCalls, reader.companyCalls, reader.slugCalls)
	}
}
