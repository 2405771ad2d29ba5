package service

import (
	"testing"

	"catalog-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPage(t *testing.T) {
	p, err := NewPage(3, 25)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Number)
	assert.Equal(t, 25, p.Size)
	assert.Equal(t, 50, p.Offset())
}

func TestNewPageValidation(t *testing.T) {
	tests := []struct {
		name   string
		number int
		size   int
	}{
		{"page zero", 0, 10},
		{"negative page", -1, 10},
		{"size zero", 1, 0},
		{"size above max", 1, MaxPageSize + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPage(tt.number, tt.size)
			require.Error(t, err)
			assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
		})
	}
}

func TestNewPagedResult(t *testing.T) {
	page, err := NewPage(2, 10)
	require.NoError(t, err)

	result := NewPagedResult([]int{1, 2, 3}, 25, page)
	assert.Equal(t, 25, result.TotalCount)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 10, result.PageSize)
	assert.Equal(t, 3, result.TotalPages)
	assert.True(t, result.HasNext)
	assert.True(t, result.HasPrevious)
}

func TestNewPagedResultBoundaries(t *testing.T) {
	first, _ := NewPage(1, 10)
	empty := NewPagedResult([]int(nil), 0, first)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrevious)

	// 21 rows at size 10 round up to 3 pages.
	assert.Equal(t, 3, NewPagedResult([]int{1}, 21, first).TotalPages)

	last, _ := NewPage(3, 10)
	result := NewPagedResult([]int{1}, 21, last)
	assert.False(t, result.HasNext)
	assert.True(t, result.HasPrevious)
}
