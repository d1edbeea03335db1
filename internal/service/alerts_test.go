package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/careers-go/internal/mailer"
	"github.com/olegiv/careers-go/internal/model"
)

func newAlertService(db *sql.DB) *AlertService {
	return NewAlertService(db, mailer.New(mailer.Options{}), "https://careers.example.com")
}

func TestSubscribe(t *testing.T) {
	db := newTestDB(t)
	svc := newAlertService(db)
	ctx := context.Background()

	sub, err := svc.Subscribe(ctx, SubscribeParams{
		Email:     "alerts@example.com",
		Frequency: model.FrequencyDaily,
		Keywords:  "golang",
	})
	require.NoError(t, err)
	assert.False(t, sub.IsConfirmed)
	assert.NotEmpty(t, sub.ConfirmationToken)
	assert.Equal(t, model.FrequencyDaily, sub.Frequency)

	t.Run("unknown frequency falls back to weekly", func(t *testing.T) {
		sub, err := svc.Subscribe(ctx, SubscribeParams{
			Email:     "other@example.com",
			Frequency: "hourly",
		})
		require.NoError(t, err)
		assert.Equal(t, model.FrequencyWeekly, sub.Frequency)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Subscribe(ctx, SubscribeParams{Email: "Alerts@Example.com"})
		assert.ErrorIs(t, err, ErrAlreadySubscribed)
	})
}

func TestConfirmRepeatIsNoOp(t *testing.T) {
	db := newTestDB(t)
	svc := newAlertService(db)
	ctx := context.Background()

	sub, err := svc.Subscribe(ctx, SubscribeParams{Email: "confirm@example.com"})
	require.NoError(t, err)

	first, already, err := svc.Confirm(ctx, sub.ConfirmationToken)
	require.NoError(t, err)
	assert.False(t, already)
	assert.True(t, first.IsConfirmed)

	// The second confirm succeeds identically; only the flag tells the
	// caller nothing changed.
	second, already, err := svc.Confirm(ctx, sub.ConfirmationToken)
	require.NoError(t, err)
	assert.True(t, already)
	assert.True(t, second.IsConfirmed)

	_, _, err = svc.Confirm(ctx, "no-such-token")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUnsubscribe(t *testing.T) {
	db := newTestDB(t)
	svc := newAlertService(db)
	ctx := context.Background()

	sub, err := svc.Subscribe(ctx, SubscribeParams{Email: "bye@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Unsubscribe(ctx, sub.ConfirmationToken))
	assert.ErrorIs(t, svc.Unsubscribe(ctx, "missing"), sql.ErrNoRows)
}

func TestMatches(t *testing.T) {
	svc := newAlertService(newTestDB(t))

	job := model.JobPosting{
		Title:            "Senior Go Engineer",
		ShortDescription: "Distributed systems work",
		RequiredSkills:   "Go, Kafka",
		JobType:          model.JobTypeFullTime,
		ExperienceLevel:  model.ExperienceSenior,
		Location:         "Hyderabad, India",
		CategoryID:       sql.NullInt64{Int64: 3, Valid: true},
		SalaryMin:        sql.NullInt64{Int64: 2000000, Valid: true},
		SalaryMax:        sql.NullInt64{Int64: 3000000, Valid: true},
	}

	t.Run("empty profile matches everything", func(t *testing.T) {
		assert.True(t, svc.Matches(model.AlertSubscription{}, job))
	})

	t.Run("keyword", func(t *testing.T) {
		assert.True(t, svc.Matches(model.AlertSubscription{Keywords: "kafka"}, job))
		assert.False(t, svc.Matches(model.AlertSubscription{Keywords: "erlang"}, job))
	})

	t.Run("categories", func(t *testing.T) {
		assert.True(t, svc.Matches(model.AlertSubscription{CategoryIDs: "1,3"}, job))
		assert.False(t, svc.Matches(model.AlertSubscription{CategoryIDs: "7"}, job))
	})

	t.Run("job types and levels", func(t *testing.T) {
		assert.True(t, svc.Matches(model.AlertSubscription{JobTypes: "full_time,contract"}, job))
		assert.False(t, svc.Matches(model.AlertSubscription{JobTypes: "internship"}, job))
		assert.True(t, svc.Matches(model.AlertSubscription{ExperienceLevels: "senior"}, job))
		assert.False(t, svc.Matches(model.AlertSubscription{ExperienceLevels: "intern"}, job))
	})

	t.Run("locations", func(t *testing.T) {
		assert.True(t, svc.Matches(model.AlertSubscription{Locations: "hyderabad"}, job))
		assert.False(t, svc.Matches(model.AlertSubscription{Locations: "mumbai"}, job))

		remote := job
		remote.IsRemoteAllowed = true
		assert.True(t, svc.Matches(model.AlertSubscription{Locations: "remote"}, remote))
		assert.False(t, svc.Matches(model.AlertSubscription{Locations: "remote"}, job))
	})

	t.Run("salary bounds", func(t *testing.T) {
		assert.True(t, svc.Matches(model.AlertSubscription{SalaryMin: sql.NullInt64{Int64: 2500000, Valid: true}}, job))
		assert.False(t, svc.Matches(model.AlertSubscription{SalaryMin: sql.NullInt64{Int64: 3500000, Valid: true}}, job))
		assert.True(t, svc.Matches(model.AlertSubscription{SalaryMax: sql.NullInt64{Int64: 2500000, Valid: true}}, job))
		assert.False(t, svc.Matches(model.AlertSubscription{SalaryMax: sql.NullInt64{Int64: 1500000, Valid: true}}, job))

		noSalary := job
		noSalary.SalaryMin, noSalary.SalaryMax = sql.NullInt64{}, sql.NullInt64{}
		assert.False(t, svc.Matches(model.AlertSubscription{SalaryMin: sql.NullInt64{Int64: 1, Valid: true}}, noSalary))
	})
}

func TestSendDigestsUnknownFrequency(t *testing.T) {
	svc := newAlertService(newTestDB(t))

	_, err := svc.SendDigests(context.Background(), "hourly")
	assert.Error(t, err)
}

func TestSendDigestsNoSubscriptions(t *testing.T) {
	svc := newAlertService(newTestDB(t))

	sent, err := svc.SendDigests(context.Background(), model.FrequencyDaily)
	require.NoError(t, err)
	assert.Zero(t, sent)
}
