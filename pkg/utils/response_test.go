package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaginationDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/bin-tags", nil)
	p := ParsePagination(r)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 0, p.Offset())
}

func TestParsePaginationClampsBadValues(t *testing.T) {
	for _, q := range []string{"page=0&limit=0", "page=-3&limit=-1", "page=abc&limit=xyz"} {
		r := httptest.NewRequest("GET", "/api/bin-tags?"+q, nil)
		p := ParsePagination(r)

		assert.Equal(t, 1, p.Page, q)
		assert.Equal(t, 10, p.Limit, q)
	}
}

func TestPaginationOffset(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/bin-tags?page=3&limit=25", nil)
	p := ParsePagination(r)

	assert.Equal(t, 50, p.Offset())
}

func TestTotalPages(t *testing.T) {
	p := Pagination{Page: 1, Limit: 10}

	assert.Equal(t, 0, p.TotalPages(0))
	assert.Equal(t, 1, p.TotalPages(1))
	assert.Equal(t, 1, p.TotalPages(10))
	assert.Equal(t, 2, p.TotalPages(11))
	assert.Equal(t, 5, p.TotalPages(41))
}

func TestNewPagedResponseEnvelope(t *testing.T) {
	p := Pagination{Page: 2, Limit: 10}
	resp := NewPagedResponse(p, 35, []string{"a", "b"})

	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 10, resp.Limit)
	assert.Equal(t, 35, resp.TotalRecords)
	assert.Equal(t, 4, resp.TotalPages)
	assert.Equal(t, []string{"a", "b"}, resp.Data)
}
