package discovery

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// Cache key namespaces. Invalidation evicts the stats key exactly and the
// search and company namespaces by prefix, so every key built here must live
// under one of these.
const (
	SearchKeyPrefix  = "discovery:search:"
	CompanyKeyPrefix = "discovery:company:"
	JobKeyPrefix     = "discovery:job:"
	StatsKey         = "discovery:stats"
)

// SearchKey derives the cache key for a search. Filters are normalized and
// sorted by name, so two requests for the same logical search always map to
// the same key regardless of casing or stray whitespace.
func SearchKey(filters SearchFilters) string {
	pagination := filters.Pagination.Normalize()

	parts := []string{
		fmt.Sprintf("page=%d", pagination.Page),
		fmt.Sprintf("size=%d", pagination.PageSize),
	}
	if q := normalize(filters.Query); q != "" {
		parts = append(parts, "q="+q)
	}
	if loc := normalize(filters.Location); loc != "" {
		parts = append(parts, "loc="+loc)
	}
	sort.Strings(parts)

	return SearchKeyPrefix + strings.Join(parts, "&")
}

// CompanyKey derives the cache key for one page of a company's listings.
func CompanyKey(companyID kernel.CompanyID, pagination kernel.PaginationOptions) string {
	p := pagination.Normalize()
	return fmt.Sprintf("%s%s:page=%d&size=%d", CompanyKeyPrefix, companyID.String(), p.Page, p.PageSize)
}

// JobKey derives the cache key for one published job's detail view. Slugs are
// minted lowercase, so no further normalization is needed.
func JobKey(slug kernel.JobSlug) string {
	return JobKeyPrefix + "slug=" + slug.String()
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
