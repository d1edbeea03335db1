package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/careers-go/internal/model"
	"github.com/olegiv/careers-go/internal/store"
	"github.com/olegiv/careers-go/internal/util"
)

func TestCreateJobDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewJobService(db)
	ctx := context.Background()

	job, err := svc.Create(ctx, CreateJobParams{Title: "Staff Engineer"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(job.ReferenceID, util.JobReferencePrefix))
	assert.Equal(t, "staff-engineer", job.Slug)
	assert.Equal(t, model.JobStatusDraft, job.Status)
	assert.Equal(t, model.JobTypeFullTime, job.JobType)
	assert.Equal(t, model.ExperienceMid, job.ExperienceLevel)
	assert.Equal(t, "INR", job.SalaryCurrency)
	assert.EqualValues(t, 1, job.VacancyCount)
	assert.False(t, job.PublishedDate.Valid)
}

func TestCreateJobSlugCollision(t *testing.T) {
	db := newTestDB(t)
	svc := NewJobService(db)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateJobParams{Title: "Platform Engineer"})
	require.NoError(t, err)
	assert.Equal(t, "platform-engineer", first.Slug)

	second, err := svc.Create(ctx, CreateJobParams{Title: "Platform Engineer"})
	require.NoError(t, err)
	assert.Equal(t, "platform-engineer-2", second.Slug)

	third, err := svc.Create(ctx, CreateJobParams{Title: "Platform Engineer"})
	require.NoError(t, err)
	assert.Equal(t, "platform-engineer-3", third.Slug)
}

func TestPublishAndClose(t *testing.T) {
	db := newTestDB(t)
	svc := NewJobService(db)
	queries := store.New(db)
	ctx := context.Background()

	job, err := svc.Create(ctx, CreateJobParams{Title: "SRE"})
	require.NoError(t, err)

	require.NoError(t, svc.Publish(ctx, job.ID))
	published, err := queries.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusOpen, published.Status)
	require.True(t, published.PublishedDate.Valid)
	firstStamp := published.PublishedDate.Time

	// Re-publishing keeps the original timestamp.
	require.NoError(t, svc.Publish(ctx, job.ID))
	again, err := queries.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, again.PublishedDate.Time.Equal(firstStamp))

	require.NoError(t, svc.Close(ctx, job.ID))
	closed, err := queries.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusClosed, closed.Status)
	assert.True(t, closed.ClosedDate.Valid)
	// The first publish stamp survives closing.
	assert.True(t, closed.PublishedDate.Time.Equal(firstStamp))
}

func TestViewJob(t *testing.T) {
	db := newTestDB(t)
	svc := NewJobService(db)
	ctx := context.Background()

	job := seedJob(t, db, nil)

	viewed, err := svc.ViewJob(ctx, job.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, viewed.ViewsCount)

	viewed, err = svc.ViewJob(ctx, job.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, viewed.ViewsCount)
}
