package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/careers-go/internal/geoip"
	"github.com/olegiv/careers-go/internal/mailer"
	"github.com/olegiv/careers-go/internal/model"
	"github.com/olegiv/careers-go/internal/store"
	"github.com/olegiv/careers-go/internal/util"
)

func newApplicationService(db *sql.DB) *ApplicationService {
	return NewApplicationService(db, mailer.New(mailer.Options{}), geoip.NewLookup(),
		"https://careers.example.com", "hr@example.com")
}

func submitParams(jobID int64) SubmitParams {
	return SubmitParams{
		JobID:          jobID,
		FirstName:      "Asha",
		LastName:       "Verma",
		Email:          "asha@example.com",
		ResumeRef:      "resumes/asha.pdf",
		CoverLetter:    "I have shipped Go services backed by SQL databases.",
		ConsentContact: true,
	}
}

func TestSubmit(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)
	queries := store.New(db)
	ctx := context.Background()

	job := seedJob(t, db, func(p *store.CreateJobParams) {
		p.RequiredSkills = "Go, SQL"
	})

	app, err := svc.Submit(ctx, submitParams(job.ID))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(app.ReferenceCode, util.ApplicationReferencePrefix))
	assert.Equal(t, model.AppStatusApplied, app.Status)
	assert.EqualValues(t, 100, app.SkillsMatch)
	assert.Equal(t, model.SourceWebsite, app.Source)

	// The posting counter moves with the submission.
	reloaded, err := queries.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, reloaded.ApplicationsCount)

	// Submission is recorded on the application's timeline.
	events, err := queries.ListEventsByApplication(ctx, app.ID)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, model.EventKindStatusChange, events[0].Kind)
	assert.Equal(t, "submitted", events[0].Description)
}

func TestSubmitDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)
	ctx := context.Background()

	job := seedJob(t, db, nil)

	_, err := svc.Submit(ctx, submitParams(job.ID))
	require.NoError(t, err)

	// Same address, different case.
	dup := submitParams(job.ID)
	dup.Email = "ASHA@Example.com"
	_, err = svc.Submit(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicateApplication)

	// Same address on a different posting is fine.
	other := seedJob(t, db, nil)
	_, err = svc.Submit(ctx, submitParams(other.ID))
	assert.NoError(t, err)
}

func TestSubmitPreconditions(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*store.CreateJobParams)
		wantErr error
	}{
		{
			name:    "not open",
			mutate:  func(p *store.CreateJobParams) { p.Status = model.JobStatusPaused },
			wantErr: ErrJobNotOpen,
		},
		{
			name: "published in the future",
			mutate: func(p *store.CreateJobParams) {
				p.PublishedDate = sql.NullTime{Time: time.Now().Add(time.Hour), Valid: true}
			},
			wantErr: ErrJobNotPublished,
		},
		{
			name: "deadline passed",
			mutate: func(p *store.CreateJobParams) {
				p.ApplicationDeadline = sql.NullTime{Time: time.Now().Add(-time.Hour), Valid: true}
			},
			wantErr: ErrDeadlinePassed,
		},
		{
			name:    "no vacancies",
			mutate:  func(p *store.CreateJobParams) { p.VacancyCount = 0 },
			wantErr: ErrNoVacancy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := seedJob(t, db, tt.mutate)
			_, err := svc.Submit(ctx, submitParams(job.ID))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("unknown posting", func(t *testing.T) {
		_, err := svc.Submit(ctx, submitParams(99999))
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestSubmitSanitizesFreeText(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)
	ctx := context.Background()

	job := seedJob(t, db, nil)
	p := submitParams(job.ID)
	p.CoverLetter = `<script>alert(1)</script>Dear team`

	app, err := svc.Submit(ctx, p)
	require.NoError(t, err)
	assert.NotContains(t, app.CoverLetter, "<script>")
	assert.Contains(t, app.CoverLetter, "Dear team")
}

func TestTransition(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)
	queries := store.New(db)
	ctx := context.Background()

	job := seedJob(t, db, nil)
	app, err := svc.Submit(ctx, submitParams(job.ID))
	require.NoError(t, err)

	t.Run("invalid status", func(t *testing.T) {
		_, err := svc.Transition(ctx, app.ID, "hired", "", "recruiter", false)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("forward move is logged", func(t *testing.T) {
		updated, err := svc.Transition(ctx, app.ID, model.AppStatusReviewed, "looks promising", "recruiter", false)
		require.NoError(t, err)
		assert.Equal(t, model.AppStatusReviewed, updated.Status)
		assert.True(t, updated.StatusChangedAt.Valid)

		events, err := queries.ListEventsByApplication(ctx, app.ID)
		require.NoError(t, err)
		last := events[len(events)-1]
		assert.Equal(t, model.EventKindStatusChange, last.Kind)
		assert.Equal(t, model.EventLevelInfo, last.Level)
		assert.Equal(t, "applied → reviewed", last.Description)
	})

	t.Run("leaving a terminal status is allowed but flagged", func(t *testing.T) {
		_, err := svc.Transition(ctx, app.ID, model.AppStatusRejected, "", "recruiter", false)
		require.NoError(t, err)

		updated, err := svc.Transition(ctx, app.ID, model.AppStatusShortlisted, "reopened", "recruiter", false)
		require.NoError(t, err)
		assert.Equal(t, model.AppStatusShortlisted, updated.Status)

		events, err := queries.ListEventsByApplication(ctx, app.ID)
		require.NoError(t, err)
		last := events[len(events)-1]
		assert.Equal(t, model.EventLevelWarning, last.Level)
		assert.Equal(t, "rejected → shortlisted", last.Description)
	})
}

func TestRate(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)
	queries := store.New(db)
	ctx := context.Background()

	job := seedJob(t, db, nil)
	app, err := svc.Submit(ctx, submitParams(job.ID))
	require.NoError(t, err)

	assert.Error(t, svc.Rate(ctx, app.ID, 6, "recruiter"))
	assert.Error(t, svc.Rate(ctx, app.ID, -1, "recruiter"))

	require.NoError(t, svc.Rate(ctx, app.ID, 4, "recruiter"))
	reloaded, err := queries.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, reloaded.Rating)
}

func TestTrack(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)
	queries := store.New(db)
	ctx := context.Background()

	job := seedJob(t, db, nil)
	app, err := svc.Submit(ctx, submitParams(job.ID))
	require.NoError(t, err)

	tracked, events, err := svc.Track(ctx, app.ReferenceCode)
	require.NoError(t, err)
	assert.Equal(t, app.ID, tracked.ID)
	assert.NotEmpty(t, events)

	// Each lookup bumps the access counter.
	_, _, err = svc.Track(ctx, app.ReferenceCode)
	require.NoError(t, err)
	reloaded, err := queries.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, reloaded.TrackerAccessCount)

	_, _, err = svc.Track(ctx, "APP-DOESNOTX")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestFeedback(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)
	ctx := context.Background()

	job := seedJob(t, db, nil)
	app, err := svc.Submit(ctx, submitParams(job.ID))
	require.NoError(t, err)

	require.NoError(t, svc.Feedback(ctx, app.ReferenceCode, 5, "smooth process", "203.0.113.9"))

	events, err := NewEventService(db).ListByApplication(ctx, app.ID)
	require.NoError(t, err)
	last := events[len(events)-1]
	assert.Equal(t, model.EventKindFeedback, last.Kind)
	assert.Contains(t, last.Description, "5/5")

	assert.Error(t, svc.Feedback(ctx, app.ReferenceCode, 0, "", ""))
	assert.ErrorIs(t, svc.Feedback(ctx, "APP-DOESNOTX", 3, "", ""), sql.ErrNoRows)
}

func TestSkillsMatchScore(t *testing.T) {
	assert.EqualValues(t, 100, SkillsMatchScore("Go, SQL", "I write Go and SQL daily"))
	assert.EqualValues(t, 50, SkillsMatchScore("Go, Rust", "mostly go these days"))
	assert.EqualValues(t, 0, SkillsMatchScore("Go", "java only"))
	assert.EqualValues(t, 0, SkillsMatchScore("", "anything"))
	assert.EqualValues(t, 0, SkillsMatchScore(" , , ", "anything"))
}
