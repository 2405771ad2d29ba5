package service

import "catalog-service/internal/domain"

// Pagination bounds.
const (
	MaxPageSize     = 100
	DefaultPageSize = 10
)

// Page is a validated pagination request.
type Page struct {
	Number int
	Size   int
}

// NewPage validates pagination parameters: page >= 1, 1 <= size <= 100.
func NewPage(number, size int) (Page, error) {
	if number < 1 {
		return Page{}, domain.NewError(domain.KindInvalidArgument, "page number must be at least 1")
	}
	if size < 1 || size > MaxPageSize {
		return Page{}, domain.Errorf(domain.KindInvalidArgument, "page size must be between 1 and %d", MaxPageSize)
	}
	return Page{Number: number, Size: size}, nil
}

// Offset is the number of rows to skip for this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// PagedResult is one page of a listing plus its paging envelope.
type PagedResult[T any] struct {
	Items       []T
	TotalCount  int
	Page        int
	PageSize    int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

// NewPagedResult assembles the paging envelope for a page of items.
func NewPagedResult[T any](items []T, totalCount int, page Page) PagedResult[T] {
	totalPages := (totalCount + page.Size - 1) / page.Size
	return PagedResult[T]{
		Items:       items,
		TotalCount:  totalCount,
		Page:        page.Number,
		PageSize:    page.Size,
		TotalPages:  totalPages,
		HasNext:     page.Number < totalPages,
		HasPrevious: page.Number > 1,
	}
}
