package shared

import "time"

// DefaultPageSize is used when a listing does not specify a page size
const DefaultPageSize = 15

// MaxPageSize caps page sizes requested by callers
const MaxPageSize = 100

// Filter represents query filter options shared by ledger listings
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// Normalize applies defaults and bounds to paging fields
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

// Offset returns the number of rows to skip for the current page
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// DateRange is an inclusive time interval. Nil bounds are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// IsEmpty reports whether neither bound is set
func (r DateRange) IsEmpty() bool {
	return r.From == nil && r.To == nil
}

// Validate checks that From is not after To
func (r DateRange) Validate() error {
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return NewValidationError("start date must not be after end date")
	}
	return nil
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated builds a page with totalPages = ceil(total/pageSize)
func NewPaginated[T any](items []T, total int64, page, pageSize int) *Paginated[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	if items == nil {
		items = make([]T, 0)
	}
	return &Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
