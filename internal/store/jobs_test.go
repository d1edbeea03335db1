package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/careers-go/internal/model"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDBWithConfig(filepath.Join(t.TempDir(), "test.db"), DBConfig{
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func insertJob(t *testing.T, q *Queries, ref string, mutate func(*CreateJobParams)) model.JobPosting {
	t.Helper()

	params := CreateJobParams{
		ReferenceID:      ref,
		Title:            "Backend Engineer " + ref,
		Slug:             "backend-engineer-" + ref,
		JobType:          model.JobTypeFullTime,
		ExperienceLevel:  model.ExperienceMid,
		Location:         "Hyderabad",
		ShortDescription: "Run backend services.",
		SalaryCurrency:   "INR",
		SalaryPeriod:     model.SalaryPeriodYearly,
		Status:           model.JobStatusOpen,
		Priority:         model.PriorityNormal,
		VacancyCount:     1,
		PostedDate:       time.Now().Add(-2 * time.Hour),
	}
	if mutate != nil {
		mutate(&params)
	}
	job, err := q.CreateJob(context.Background(), params)
	require.NoError(t, err)
	return job
}

// Visibility cutoffs must hold regardless of the process time zone:
// timestamps are bound by the driver in the local zone, so comparing
// them against the SQL CURRENT_TIMESTAMP string is not an option.
func TestPublishedVisibilityNonUTC(t *testing.T) {
	zone, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	orig := time.Local
	time.Local = zone
	t.Cleanup(func() { time.Local = orig })

	db := newTestDB(t)
	q := New(db)
	ctx := context.Background()

	past := insertJob(t, q, "JA-PAST0001", func(p *CreateJobParams) {
		p.IsFeatured = true
		p.PublishedDate = sql.NullTime{Time: time.Now().Add(-time.Hour), Valid: true}
	})
	insertJob(t, q, "JA-FUTR0001", func(p *CreateJobParams) {
		p.IsFeatured = true
		p.PublishedDate = sql.NullTime{Time: time.Now().Add(time.Hour), Valid: true}
	})

	featured, err := q.ListFeaturedJobs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, past.ID, featured[0].ID)

	stats, err := q.GetJobStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.OpenJobs)

	entries, err := q.ListSitemapEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, past.ID, entries[0].ID)

	since, err := q.ListJobsPublishedSince(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, since, 1)
	assert.Equal(t, past.ID, since[0].ID)
}

func TestCategoryCountsNonUTC(t *testing.T) {
	zone, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	orig := time.Local
	time.Local = zone
	t.Cleanup(func() { time.Local = orig })

	db := newTestDB(t)
	q := New(db)
	ctx := context.Background()

	cat, err := q.CreateCategory(ctx, CreateCategoryParams{
		Name: "Engineering", Slug: "engineering", IsActive: true,
	})
	require.NoError(t, err)

	insertJob(t, q, "JA-CATJOB01", func(p *CreateJobParams) {
		p.CategoryID = sql.NullInt64{Int64: cat.ID, Valid: true}
		p.PublishedDate = sql.NullTime{Time: time.Now().Add(-time.Hour), Valid: true}
	})
	insertJob(t, q, "JA-CATJOB02", func(p *CreateJobParams) {
		p.CategoryID = sql.NullInt64{Int64: cat.ID, Valid: true}
		p.PublishedDate = sql.NullTime{Time: time.Now().Add(time.Hour), Valid: true}
	})

	counts, err := q.CountOpenJobsByCategory(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.EqualValues(t, 1, counts[0].JobCount)
}
