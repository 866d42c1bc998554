package domain

// MaxPage caps the page number so Offset can never overflow.
const MaxPage = 1_000_000

// PaginationParams carries page/limit values from the HTTP layer to the repo layer.
// Page is 1-indexed. NewPaginationParams caps Limit at 100 and Page at MaxPage.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of items to return.
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional query params.
// Nil pointers fall back to page=1, limit=20. The limit is capped at 100 and
// the page at MaxPage.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: 20}
	if page != nil && *page >= 1 {
		p.Page = min(*page, MaxPage)
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, 100)
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Window returns the [lo, hi) slice bounds of this page within n items.
// Pages past the end, and params not built by NewPaginationParams that are
// out of range, yield an empty window.
func (p PaginationParams) Window(n int) (lo, hi int) {
	if p.Page < 1 || p.Limit < 1 || p.Page-1 > n/p.Limit {
		return n, n
	}
	lo = min(p.Offset(), n)
	hi = min(lo+p.Limit, n)
	return lo, hi
}
