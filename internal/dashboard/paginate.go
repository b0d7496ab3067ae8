package dashboard

// DefaultLimit is the page size used when none is given.
const DefaultLimit = 10

// Page is a window over a slice.
type Page[T any] struct {
	Items   []T  `json:"items"`
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
}

// Paginate returns the 1-based page of items. Pages past the end are empty.
func Paginate[T any](items []T, page, limit int) Page[T] {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	p := Page[T]{Items: []T{}, Page: page, Limit: limit, Total: len(items)}

	pages := len(items) / limit
	if len(items)%limit != 0 {
		pages++
	}
	// Compare page numbers before multiplying so huge pages cannot overflow.
	if page-1 >= pages {
		return p
	}
	start := (page - 1) * limit
	end := min(start+limit, len(items))
	p.Items = items[start:end]
	p.HasNext = end < len(items)
	return p
}
