package queryparams

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateClamps(t *testing.T) {
	p := ListParams{Page: -3, PerPage: 1000, OrderBy: "sideways"}
	p.Validate()
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, MaxPerPage, p.PerPage)
	assert.Equal(t, DefaultOrderBy, p.OrderBy)

	p = ListParams{Page: 2, PerPage: 0, OrderBy: "asc"}
	p.Validate()
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, "asc", p.OrderBy)
	assert.Equal(t, DefaultPerPage, p.CalculateOffset())
}

func TestNewPaginatedResult(t *testing.T) {
	params := DefaultListParams("id")
	params.PerPage = 10
	res := NewPaginatedResult([]int{1, 2}, params, 21)
	assert.Equal(t, 3, res.Meta.TotalPages)
	assert.Equal(t, int64(21), res.Meta.TotalItems)
	assert.Equal(t, 0, CalculateTotalPages(0, 10))
}
