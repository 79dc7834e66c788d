package model

import (
	"fmt"
	"math"
)

const (
	DefaultPage   = 0
	DefaultSize   = 10
	DefaultSortBy = "id"
)

// sortableFields maps the public sort keys onto stored field names.
var sortableFields = map[string]string{
	"id":          "id",
	"title":       "title",
	"description": "description",
	"created_at":  "created_at",
	"updated_at":  "updated_at",
}

// PageRequest describes one page of a listing sorted ascending by SortBy.
type PageRequest struct {
	Page   int
	Size   int
	SortBy string
}

// Validate rejects negative pages, empty pages, pages whose offset overflows
// and unknown sort keys.
func (r PageRequest) Validate() error {
	if r.Page < 0 {
		return fmt.Errorf("page must not be negative, got %d", r.Page)
	}
	if r.Size < 1 {
		return fmt.Errorf("size must be at least 1, got %d", r.Size)
	}
	if r.Page > math.MaxInt/r.Size {
		return fmt.Errorf("page %d is out of range for size %d", r.Page, r.Size)
	}
	if _, ok := sortableFields[r.SortBy]; !ok {
		return fmt.Errorf("cannot sort by %q", r.SortBy)
	}
	return nil
}

// Offset is the number of records before the first one on this page.
func (r PageRequest) Offset() int {
	return r.Page * r.Size
}

// SortField returns the stored field name for SortBy.
func (r PageRequest) SortField() string {
	return sortableFields[r.SortBy]
}

// Page is one page of recipes plus the totals of the full result set.
type Page struct {
	Content          []*Recipe `json:"content"`
	Page             int       `json:"page"`
	Size             int       `json:"size"`
	NumberOfElements int       `json:"number_of_elements"`
	TotalElements    int64     `json:"total_elements"`
	TotalPages       int       `json:"total_pages"`
	HasNext          bool      `json:"has_next"`
}

// NewPage computes page metadata from the content of the page and the total count.
func NewPage(content []*Recipe, req PageRequest, total int64) *Page {
	if content == nil {
		content = []*Recipe{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return &Page{
		Content:          content,
		Page:             req.Page,
		Size:             req.Size,
		NumberOfElements: len(content),
		TotalElements:    total,
		TotalPages:       totalPages,
		HasNext:          req.Page+1 < totalPages,
	}
}
