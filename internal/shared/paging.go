package shared

// Page wraps one slice of an ordered result set with pagination metadata.
type Page[T any] struct {
	Page      int `json:"page"`
	PageSize  int `json:"page_size"`
	PageCount int `json:"page_count"`
	ItemCount int `json:"item_count"`
	Items     []T `json:"items"`
}

// Paginate slices items for a 1-based page of pageSize entries. Pages past
// the end come back empty, with the metadata still describing the full set.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	first := (page - 1) * pageSize
	last := page * pageSize
	if first > len(items) {
		first = len(items)
	}
	if last > len(items) {
		last = len(items)
	}
	return Page[T]{
		Page:      page,
		PageSize:  pageSize,
		PageCount: (len(items) + pageSize - 1) / pageSize,
		ItemCount: len(items),
		Items:     items[first:last],
	}
}
