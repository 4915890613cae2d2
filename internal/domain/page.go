package domain

// Trip lists are browsed on phones from the truck, so the default page stays
// small; the cap keeps a greedy client from pulling a whole season of trips
// in one query.
const (
	defaultTripPageLimit = 20
	maxTripPageLimit     = 100
)

// PaginationParams carries page/limit values from the HTTP layer down to the
// repo layer. Page is 1-indexed.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional HTTP query
// params. Nil or out-of-range values fall back to the defaults above.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: defaultTripPageLimit}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = *limit
		if p.Limit > maxTripPageLimit {
			p.Limit = maxTripPageLimit
		}
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
