package utils

// Page size bounds for list endpoints.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination holds pagination metadata for list responses.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NormalizePage applies defaults and the upper bound to page and limit.
func NormalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// NewPagination computes page metadata. totalPages is 0 for an empty set.
func NewPagination(page, limit, total int) Pagination {
	page, limit = NormalizePage(page, limit)
	totalPages := (total + limit - 1) / limit
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// PageOffset returns the number of items before page, capped at n. Pages
// past the end yield n without overflowing.
func PageOffset(page, limit, n int) int {
	page, limit = NormalizePage(page, limit)
	if page-1 > n/limit {
		return n
	}
	offset := (page - 1) * limit
	if offset > n {
		return n
	}
	return offset
}

// PageBounds returns the slice bounds [start,end) of page within n items.
func PageBounds(page, limit, n int) (int, int) {
	_, limit = NormalizePage(page, limit)
	start := PageOffset(page, limit, n)
	end := n
	if n-start > limit {
		end = start + limit
	}
	return start, end
}
