package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/admin/contacts?page=3&per_page=10", nil)
	p := ParsePagination(r, 25, 100)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PerPage)
	assert.EqualValues(t, 20, p.Offset())
	assert.EqualValues(t, 10, p.Limit())

	t.Run("defaults", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/admin/contacts", nil)
		p := ParsePagination(r, 25, 100)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 25, p.PerPage)
		assert.EqualValues(t, 0, p.Offset())
	})

	t.Run("clamps", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?page=-1&per_page=5000", nil)
		p := ParsePagination(r, 25, 100)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 100, p.PerPage)
	})
}

func TestPaginationMeta(t *testing.T) {
	p := Pagination{Page: 2, PerPage: 10}
	meta := p.Meta(25)
	assert.EqualValues(t, 25, meta.Total)
	assert.Equal(t, 3, meta.Pages)
	assert.Equal(t, 2, meta.Page)

	assert.Equal(t, 0, Pagination{Page: 1, PerPage: 10}.Meta(0).Pages)
}

func TestParseFilters(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/api/v1/jobs?q=go&location=pune&job_type=full_time&job_type=contract"+
			"&category=2&category=x&salary=0-300000&posted_within=30&remote=1&featured=1&sort=newest&page=2", nil)

	f := parseFilters(r)
	assert.Equal(t, "go", f.Keyword)
	assert.Equal(t, "pune", f.Location)
	assert.Equal(t, []string{"full_time", "contract"}, f.JobTypes)
	// Malformed category values are dropped, not fatal.
	assert.Equal(t, []int64{2}, f.CategoryIDs)
	assert.Equal(t, "0-300000", f.SalaryBucket)
	assert.Equal(t, 30, f.PostedWithinDays)
	assert.True(t, f.RemoteOnly)
	assert.True(t, f.FeaturedOnly)
	assert.Equal(t, "newest", f.Sort)
	assert.Equal(t, 2, f.Page)
}
