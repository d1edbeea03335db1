package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/careers-go/internal/model"
	"github.com/olegiv/careers-go/internal/store"
)

func TestSearchBaseVisibility(t *testing.T) {
	db := newTestDB(t)
	search := NewSearchService(db)
	ctx := context.Background()

	visible := seedJob(t, db, nil)
	seedJob(t, db, func(p *store.CreateJobParams) { p.Status = model.JobStatusDraft })
	seedJob(t, db, func(p *store.CreateJobParams) { p.Status = model.JobStatusClosed })
	seedJob(t, db, func(p *store.CreateJobParams) {
		p.PublishedDate = sql.NullTime{Time: time.Now().Add(time.Hour), Valid: true}
	})

	result, err := search.Search(ctx, Filters{})
	require.NoError(t, err)
	require.EqualValues(t, 1, result.Total)
	assert.Equal(t, visible.ID, result.Jobs[0].ID)
}

func TestSearchFiltersNarrow(t *testing.T) {
	db := newTestDB(t)
	search := NewSearchService(db)
	ctx := context.Background()

	seedJob(t, db, func(p *store.CreateJobParams) {
		p.Title = "Go Backend Engineer"
		p.Slug = "go-backend-engineer"
		p.RequiredSkills = "Go, SQL"
		p.Location = "Bengaluru"
	})
	seedJob(t, db, func(p *store.CreateJobParams) {
		p.Title = "Frontend Developer"
		p.Slug = "frontend-developer"
		p.RequiredSkills = "TypeScript, React"
		p.Location = "Mumbai"
		p.JobType = model.JobTypeContract
	})

	unfiltered, err := search.Search(ctx, Filters{})
	require.NoError(t, err)

	// Every added filter narrows or keeps the result set, never grows it.
	steps := []Filters{
		{Keyword: "go"},
		{Keyword: "go", Location: "bengaluru"},
		{Keyword: "go", Location: "bengaluru", JobTypes: []string{model.JobTypeFullTime}},
	}
	prev := unfiltered.Total
	for _, f := range steps {
		result, err := search.Search(ctx, f)
		require.NoError(t, err)
		assert.LessOrEqual(t, result.Total, prev)
		prev = result.Total
	}

	byKeyword, err := search.Search(ctx, Filters{Keyword: "typescript"})
	require.NoError(t, err)
	require.EqualValues(t, 1, byKeyword.Total)
	assert.Equal(t, "Frontend Developer", byKeyword.Jobs[0].Title)

	// Unknown enum values degrade to no constraint.
	loose, err := search.Search(ctx, Filters{JobTypes: []string{"gig-work"}})
	require.NoError(t, err)
	assert.Equal(t, unfiltered.Total, loose.Total)
}

func TestSearchRemoteLocation(t *testing.T) {
	db := newTestDB(t)
	search := NewSearchService(db)
	ctx := context.Background()

	remote := seedJob(t, db, func(p *store.CreateJobParams) {
		p.IsRemoteAllowed = true
		p.Location = "Anywhere"
	})
	seedJob(t, db, func(p *store.CreateJobParams) { p.Location = "Chennai" })

	result, err := search.Search(ctx, Filters{Location: "Remote"})
	require.NoError(t, err)
	require.EqualValues(t, 1, result.Total)
	assert.Equal(t, remote.ID, result.Jobs[0].ID)

	result, err = search.Search(ctx, Filters{RemoteOnly: true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.Total)
}

func TestSearchSalaryBucket(t *testing.T) {
	db := newTestDB(t)
	search := NewSearchService(db)
	ctx := context.Background()

	low := seedJob(t, db, func(p *store.CreateJobParams) {
		p.SalaryMin = sql.NullInt64{Int64: 100000, Valid: true}
		p.SalaryMax = sql.NullInt64{Int64: 250000, Valid: true}
	})
	high := seedJob(t, db, func(p *store.CreateJobParams) {
		p.SalaryMin = sql.NullInt64{Int64: 3000000, Valid: true}
		p.SalaryMax = sql.NullInt64{Int64: 4000000, Valid: true}
	})
	noSalary := seedJob(t, db, nil)

	result, err := search.Search(ctx, Filters{SalaryBucket: "0-300000"})
	require.NoError(t, err)
	require.EqualValues(t, 1, result.Total)
	assert.Equal(t, low.ID, result.Jobs[0].ID)

	result, err = search.Search(ctx, Filters{SalaryBucket: "2400000+"})
	require.NoError(t, err)
	require.EqualValues(t, 1, result.Total)
	assert.Equal(t, high.ID, result.Jobs[0].ID)

	// Unknown bucket names impose no constraint.
	result, err = search.Search(ctx, Filters{SalaryBucket: "a-lot"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, result.Total)
	_ = noSalary
}

func TestSearchSortSalary(t *testing.T) {
	db := newTestDB(t)
	search := NewSearchService(db)
	ctx := context.Background()

	mid := seedJob(t, db, func(p *store.CreateJobParams) {
		p.SalaryMin = sql.NullInt64{Int64: 500000, Valid: true}
		p.SalaryMax = sql.NullInt64{Int64: 900000, Valid: true}
	})
	top := seedJob(t, db, func(p *store.CreateJobParams) {
		p.SalaryMin = sql.NullInt64{Int64: 1500000, Valid: true}
		p.SalaryMax = sql.NullInt64{Int64: 2500000, Valid: true}
	})

	result, err := search.Search(ctx, Filters{Sort: SortSalaryHigh})
	require.NoError(t, err)
	require.Len(t, result.Jobs, 2)
	assert.Equal(t, top.ID, result.Jobs[0].ID)
	assert.Equal(t, mid.ID, result.Jobs[1].ID)

	result, err = search.Search(ctx, Filters{Sort: SortSalaryLow})
	require.NoError(t, err)
	assert.Equal(t, mid.ID, result.Jobs[0].ID)
}

func TestSearchSortRelevance(t *testing.T) {
	db := newTestDB(t)
	search := NewSearchService(db)
	ctx := context.Background()

	// Matches in title, short description and skills.
	strong := seedJob(t, db, func(p *store.CreateJobParams) {
		p.Title = "Kafka Platform Engineer"
		p.Slug = "kafka-platform-engineer"
		p.ShortDescription = "Operate Kafka clusters."
		p.RequiredSkills = "Kafka, Go"
		p.PostedDate = time.Now().Add(-48 * time.Hour)
	})
	// Matches only in skills, but is newer.
	weak := seedJob(t, db, func(p *store.CreateJobParams) {
		p.Title = "Data Engineer"
		p.Slug = "data-engineer"
		p.RequiredSkills = "Kafka"
	})

	result, err := search.Search(ctx, Filters{Keyword: "kafka", Sort: SortRelevance})
	require.NoError(t, err)
	require.Len(t, result.Jobs, 2)
	assert.Equal(t, strong.ID, result.Jobs[0].ID)
	assert.Equal(t, weak.ID, result.Jobs[1].ID)
}

func TestSearchPaginationStable(t *testing.T) {
	db := newTestDB(t)
	search := NewSearchService(db)
	ctx := context.Background()

	total := SearchPageSize + 3
	for i := 0; i < total; i++ {
		seedJob(t, db, nil)
	}

	page1, err := search.Search(ctx, Filters{Page: 1})
	require.NoError(t, err)
	assert.EqualValues(t, total, page1.Total)
	assert.Equal(t, 2, page1.NumPages)
	require.Len(t, page1.Jobs, SearchPageSize)

	page2, err := search.Search(ctx, Filters{Page: 2})
	require.NoError(t, err)
	require.Len(t, page2.Jobs, 3)

	seen := make(map[int64]bool)
	for _, job := range append(page1.Jobs, page2.Jobs...) {
		assert.False(t, seen[job.ID], "posting %d appears twice", job.ID)
		seen[job.ID] = true
	}

	// Page numbers below one clamp to the first page.
	clamped, err := search.Search(ctx, Filters{Page: -4})
	require.NoError(t, err)
	assert.Equal(t, 1, clamped.Page)
	assert.Len(t, clamped.Jobs, SearchPageSize)
}

func TestSuggest(t *testing.T) {
	db := newTestDB(t)
	search := NewSearchService(db)
	ctx := context.Background()

	seedJob(t, db, func(p *store.CreateJobParams) {
		p.Title = "DevOps Engineer"
		p.Slug = "devops-engineer"
		p.Location = "Delhi"
	})
	seedJob(t, db, func(p *store.CreateJobParams) {
		p.Title = "Developer Advocate"
		p.Slug = "developer-advocate"
		p.Location = "Pune"
	})

	suggestions, err := search.Suggest(ctx, "dev", 10)
	require.NoError(t, err)
	assert.Contains(t, suggestions, "DevOps Engineer")
	assert.Contains(t, suggestions, "Developer Advocate")
	assert.NotContains(t, suggestions, "Pune")

	byLocation, err := search.Suggest(ctx, "del", 10)
	require.NoError(t, err)
	assert.Contains(t, byLocation, "Delhi")

	empty, err := search.Suggest(ctx, "   ", 10)
	require.NoError(t, err)
	assert.Nil(t, empty)
}
