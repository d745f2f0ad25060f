// ABOUTME: Generic pagination envelope shared by storage and the HTTP API
// ABOUTME: Normalizes page numbers and sizes the same way everywhere
package models

// Pagination defaults
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is one page of results plus navigation info
type Page[T any] struct {
	Items       []T  `json:"items"`
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// NormalizePage clamps page and size to sane values
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// Offset returns the row offset for a normalized page
func Offset(page, size int) int {
	return (page - 1) * size
}

// NewPage builds a page envelope from items and the total count
func NewPage[T any](items []T, page, size, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = (total + size - 1) / size
	}
	return Page[T]{
		Items:       items,
		Page:        page,
		PageSize:    size,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}
