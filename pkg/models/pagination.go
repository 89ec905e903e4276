package models

import "math"

// PaginationMetadata describes one page of a list result. It is computed per
// query and never persisted.
type PaginationMetadata struct {
	TotalItemCount int `json:"totalItemCount"`
	PageSize       int `json:"pageSize"`
	CurrentPage    int `json:"currentPage"`
	TotalPages     int `json:"totalPages"`
}

// NewPaginationMetadata derives TotalPages as ceil(total / pageSize).
// A non-positive pageSize yields zero pages.
func NewPaginationMetadata(total, pageSize, currentPage int) PaginationMetadata {
	pages := 0
	if pageSize > 0 {
		pages = (total + pageSize - 1) / pageSize
	}
	return PaginationMetadata{
		TotalItemCount: total,
		PageSize:       pageSize,
		CurrentPage:    currentPage,
		TotalPages:     pages,
	}
}

// Offset returns the number of rows preceding the current page. It
// saturates at math.MaxInt instead of wrapping.
func (m PaginationMetadata) Offset() int {
	if m.CurrentPage < 1 || m.PageSize < 1 {
		return 0
	}
	if m.CurrentPage-1 > math.MaxInt/m.PageSize {
		return math.MaxInt
	}
	return (m.CurrentPage - 1) * m.PageSize
}
