package kernel

// PaginationOptions is the caller-supplied page request.
type PaginationOptions struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Normalize clamps the request to sane values.
func (p PaginationOptions) Normalize() PaginationOptions {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

// Limit returns the SQL LIMIT value.
func (p PaginationOptions) Limit() int {
	return p.Normalize().PageSize
}

// Offset returns the SQL OFFSET value.
func (p PaginationOptions) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Page describes the slice of results actually returned.
type Page struct {
	Number int `json:"number"`
	Size   int `json:"size"`
	Total  int `json:"total"`
	Pages  int `json:"pages"`
}

// Paginated wraps a page of items of any type.
type Paginated[T any] struct {
	Items []T  `json:"items"`
	Page  Page `json:"page"`
	Empty bool `json:"empty"`
}

// NewPaginated assembles a page of items with the derived page metadata.
func NewPaginated[T any](items []T, opts PaginationOptions, total int) *Paginated[T] {
	n := opts.Normalize()
	pages := (total + n.PageSize - 1) / n.PageSize

	return &Paginated[T]{
		Items: items,
		Page: Page{
			Number: n.Page,
			Size:   n.PageSize,
			Total:  total,
			Pages:  pages,
		},
		Empty: len(items) == 0,
	}
}
