package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		in       Filter
		page     int
		pageSize int
		offset   int
	}{
		{"defaults", Filter{}, 1, DefaultPageSize, 0},
		{"second page", Filter{Page: 2, PageSize: 15}, 2, 15, 15},
		{"caps page size", Filter{Page: 1, PageSize: 1000}, 1, MaxPageSize, 0},
		{"negative page", Filter{Page: -3, PageSize: 10}, 1, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.in.Normalize()
			assert.Equal(t, tt.page, f.Page)
			assert.Equal(t, tt.pageSize, f.PageSize)
			assert.Equal(t, tt.offset, f.Offset())
		})
	}
}

func TestNewPaginated_TotalPages(t *testing.T) {
	assert.Equal(t, 0, NewPaginated([]int{}, 0, 1, 15).TotalPages)
	assert.Equal(t, 1, NewPaginated([]int{1}, 1, 1, 15).TotalPages)
	assert.Equal(t, 1, NewPaginated([]int{}, 15, 1, 15).TotalPages)
	assert.Equal(t, 2, NewPaginated([]int{}, 16, 1, 15).TotalPages)

	p := NewPaginated[int](nil, 0, 1, 15)
	assert.NotNil(t, p.Items)
}

func TestDateRange_Validate(t *testing.T) {
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, DateRange{}.Validate())
	assert.True(t, DateRange{}.IsEmpty())
	assert.NoError(t, DateRange{From: &from, To: &to}.Validate())
	assert.ErrorIs(t, DateRange{From: &to, To: &from}.Validate(), ErrValidation)
}
