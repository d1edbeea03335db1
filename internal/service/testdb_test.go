package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/careers-go/internal/model"
	"github.com/olegiv/careers-go/internal/store"
	"github.com/olegiv/careers-go/internal/util"
)

// newTestDB opens a migrated throwaway SQLite database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDBWithConfig(filepath.Join(t.TempDir(), "test.db"), store.DBConfig{
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, store.Migrate(db))
	return db
}

// seedJob inserts an open, published posting; mutate adjusts the
// defaults before insert.
func seedJob(t *testing.T, db *sql.DB, mutate func(*store.CreateJobParams)) model.JobPosting {
	t.Helper()

	ref := util.NewJobReference()
	params := store.CreateJobParams{
		ReferenceID:      ref,
		Title:            "Software Engineer " + ref,
		Slug:             util.Slugify("software-engineer-" + ref),
		JobType:          model.JobTypeFullTime,
		ExperienceLevel:  model.ExperienceMid,
		Location:         "Hyderabad",
		ShortDescription: "Build and run backend services.",
		SalaryCurrency:   "INR",
		SalaryPeriod:     model.SalaryPeriodYearly,
		ShowSalary:       true,
		Status:           model.JobStatusOpen,
		Priority:         model.PriorityNormal,
		VacancyCount:     1,
		PostedDate:       time.Now().Add(-time.Hour),
		PublishedDate:    sql.NullTime{Time: time.Now().Add(-time.Hour), Valid: true},
	}
	if mutate != nil {
		mutate(&params)
	}

	job, err := store.New(db).CreateJob(context.Background(), params)
	require.NoError(t, err)
	return job
}
