// Package table builds the paged tabular listing of production entries.
package table

// Page is one page of items.
type Page[T any] struct {
	Items    []T
	Page     int // 1-based
	PageSize int
	HasNext  bool
	HasPrev  bool
	Total    int
}

const defaultPageSize = 50

// Paginate slices items for the given page. Out-of-range values fall back to
// page 1 and the default size; a page past the end is empty.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	total := len(items)

	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)

	return Page[T]{
		Items:    items[start:end],
		Page:     page,
		PageSize: pageSize,
		HasNext:  end < total,
		HasPrev:  page > 1,
		Total:    total,
	}
}
