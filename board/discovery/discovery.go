package discovery

import (
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// SearchFilters narrows the public job search. Empty fields match everything.
type SearchFilters struct {
	Query      string                   `json:"query,omitempty"`
	Location   string                   `json:"location,omitempty"`
	Pagination kernel.PaginationOptions `json:"pagination"`
}

// BoardStats are board-wide aggregates derived from the job counters. They are
// served from cache and may lag the counters by up to the short tier TTL.
type BoardStats struct {
	TotalJobs            int `db:"total_jobs" json:"total_jobs"`
	PublishedJobs        int `db:"published_jobs" json:"published_jobs"`
	TotalApplications    int `db:"total_applications" json:"total_applications"`
	ApprovedApplications int `db:"approved_applications" json:"approved_applications"`
}
