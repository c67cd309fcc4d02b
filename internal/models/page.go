package models

import "math"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest selects a 1-based page of results
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest clamps page and size to sane values.
func NewPageRequest(page, size int) PageRequest {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return PageRequest{Page: page, Size: size}
}

// Offset is the number of rows to skip.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Size
}

// PageMeta mirrors the pagination block returned by the feed endpoints
type PageMeta struct {
	CurrentPage     int   `json:"currentPage"`
	TotalPages      int   `json:"totalPages"`
	TotalItems      int64 `json:"totalItems"`
	ItemsPerPage    int   `json:"itemsPerPage"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// Page is one page of items plus its metadata
type Page[T any] struct {
	Items []T      `json:"items"`
	Meta  PageMeta `json:"meta"`
}

// NewPage builds a page for the given request and total item count.
func NewPage[T any](items []T, req PageRequest, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := int(math.Ceil(float64(total) / float64(req.Size)))
	return Page[T]{
		Items: items,
		Meta: PageMeta{
			CurrentPage:     req.Page,
			TotalPages:      totalPages,
			TotalItems:      total,
			ItemsPerPage:    req.Size,
			HasNextPage:     req.Page < totalPages,
			HasPreviousPage: req.Page > 1,
		},
	}
}
