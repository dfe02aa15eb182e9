package models

// Page is one window of a paginated listing. Page numbers start at 0.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	HasNext       bool  `json:"hasNext"`
	HasPrevious   bool  `json:"hasPrevious"`
}

// PageRequest is a normalised page/size pair.
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest clamps page to >= 0 and size to (0, maxSize], using defaultSize for
// non-positive sizes.
func NewPageRequest(page, size, defaultSize, maxSize int) PageRequest {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultSize
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	if size <= 0 {
		size = 10
	}
	return PageRequest{Page: page, Size: size}
}

// Skip is the number of records before the page.
func (p PageRequest) Skip() int64 {
	return int64(p.Page) * int64(p.Size)
}

// NewPage builds the metadata for content taken from a listing of total records.
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		HasNext:       req.Page+1 < totalPages,
		HasPrevious:   req.Page > 0,
	}
}
