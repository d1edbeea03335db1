package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/careers-go/internal/cache"
	"github.com/olegiv/careers-go/internal/model"
	"github.com/olegiv/careers-go/internal/service"
	"github.com/olegiv/careers-go/internal/store"
	"github.com/olegiv/careers-go/internal/util"
)

func seedPosting(t *testing.T, db *sql.DB, mutate func(*store.CreateJobParams)) model.JobPosting {
	t.Helper()

	ref := util.NewJobReference()
	params := store.CreateJobParams{
		ReferenceID:      ref,
		Title:            "Software Engineer " + ref,
		Slug:             "software-engineer-" + strings.ToLower(strings.TrimPrefix(ref, util.JobReferencePrefix)),
		JobType:          model.JobTypeFullTime,
		ExperienceLevel:  model.ExperienceMid,
		Location:         "Hyderabad",
		ShortDescription: "Build and run backend services.",
		SalaryCurrency:   "INR",
		SalaryPeriod:     model.SalaryPeriodYearly,
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

func newJobRouter(db *sql.DB) (chi.Router, *cache.MemoryCache) {
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	h := NewJobHandler(db, service.NewStatsService(db, mem))
	r := chi.NewRouter()
	r.Get("/api/v1/jobs/{id}", h.Get)
	return r, mem
}

func TestJobGetCountsView(t *testing.T) {
	db := newTestDB(t)
	router, mem := newJobRouter(db)
	t.Cleanup(func() { _ = mem.Close() })

	job := seedPosting(t, db, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", fmt.Sprintf("/api/v1/jobs/%d", job.ID), nil))
	require.Equal(t, 200, w.Code)

	reloaded, err := store.New(db).GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, reloaded.ViewsCount)
}

func TestJobGetHiddenPostingsDoNotCountViews(t *testing.T) {
	db := newTestDB(t)
	router, mem := newJobRouter(db)
	t.Cleanup(func() { _ = mem.Close() })

	draft := seedPosting(t, db, func(p *store.CreateJobParams) {
		p.Status = model.JobStatusDraft
		p.PublishedDate = sql.NullTime{}
	})
	future := seedPosting(t, db, func(p *store.CreateJobParams) {
		p.PublishedDate = sql.NullTime{Time: time.Now().Add(time.Hour), Valid: true}
	})

	for _, job := range []model.JobPosting{draft, future} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", fmt.Sprintf("/api/v1/jobs/%d", job.ID), nil))
		assert.Equal(t, 404, w.Code)

		reloaded, err := store.New(db).GetJob(context.Background(), job.ID)
		require.NoError(t, err)
		assert.Zero(t, reloaded.ViewsCount, "probing a hidden posting must not move the view counter")
	}
}
