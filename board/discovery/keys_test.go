package discovery

import (
	"strings"
	"testing"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

func TestSearchKeyIsDeterministic(t *testing.T) {
	a := SearchKey(SearchFilters{
		Query:    "Backend Engineer",
		Location: "Lima",
		Pagination: kernel.PaginationOptions{
			Page: 2, PageSize: 20,
		},
	})
	b := SearchKey(SearchFilters{
		Query:    "  backend   engineer ",
		Location: "LIMA",
		Pagination: kernel.PaginationOptions{
			Page: 2, PageSize: 20,
		},
	})

	if a != b {
		t.Errorf("equivalent searches must share a key:\n%s\n%s", a, b)
	}
}

func TestSearchKeySeparatesDifferentSearches(t *testing.T) {
	base := SearchFilters{Query: "engineer"}

	keys := map[string]bool{
		SearchKey(base): true,
	}

	variants := []SearchFilters{
		{Query: "designer"},
		{Query: "engineer", Location: "lima"},
		{Query: "engineer", Pagination: kernel.PaginationOptions{Page: 2}},
		{Query: "engineer", Pagination: kernel.PaginationOptions{PageSize: 50}},
	}
	for _, v := range variants {
		key := SearchKey(v)
		if keys[key] {
			t.Errorf("distinct search %+v collided on %s", v, key)
		}
		keys[key] = true
	}
}

func TestSearchKeyDefaultsMatchNormalizedPagination(t *testing.T) {
	implicit := SearchKey(SearchFilters{Query: "engineer"})
	explicit := SearchKey(SearchFilters{
		Query:      "engineer",
		Pagination: kernel.PaginationOptions{Page: 1, PageSize: 20},
	})

	if implicit != explicit {
		t.Errorf("zero pagination must key like the defaults:\n%s\n%s", implicit, explicit)
	}
}

func TestKeysLiveUnderTheirNamespaces(t *testing.T) {
	if key := SearchKey(SearchFilters{}); !strings.HasPrefix(key, SearchKeyPrefix) {
		t.Errorf("search key outside its namespace: %s", key)
	}
	if key := CompanyKey(kernel.NewCompanyID("c-1"), kernel.PaginationOptions{}); !strings.HasPrefix(key, CompanyKeyPrefix) {
		t.Errorf("company key outside its namespace: %s", key)
	}
	if key := JobKey(kernel.JobSlug("backend-engineer-a1b2c3d4")); !strings.HasPrefix(key, JobKeyPrefix) {
		t.Errorf("job key outside its namespace: %s", key)
	}
}
