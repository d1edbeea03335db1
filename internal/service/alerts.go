// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/careers-go/internal/mailer"
	"github.com/olegiv/careers-go/internal/model"
	"github.com/olegiv/careers-go/internal/store"
	"github.com/olegiv/careers-go/internal/util"
)

// ErrAlreadySubscribed is returned when the email already has a
// subscription.
var ErrAlreadySubscribed = errors.New("a job alert subscription already exists for this email")

// AlertService manages job alert subscriptions and digest delivery.
type AlertService struct {
	db      *sql.DB
	queries *store.Queries
	events  *EventService
	mail    *mailer.Mailer
	baseURL string
}

// NewAlertService creates a new alert service.
func NewAlertService(db *sql.DB, mail *mailer.Mailer, baseURL string) *AlertService {
	return &AlertService{
		db:      db,
		queries: store.New(db),
		events:  NewEventService(db),
		mail:    mail,
		baseURL: baseURL,
	}
}

// SubscribeParams is a validated alert subscription request. The
// filter fields mirror the live search filters.
type SubscribeParams struct {
	Email            string
	Frequency        string
	Keywords         string
	CategoryIDs      []int64
	JobTypes         []string
	ExperienceLevels []string
	Locations        []string
	SalaryMin        sql.NullInt64
	SalaryMax        sql.NullInt64
}

// Subscribe creates an unconfirmed subscription and mails the
// confirmation link.
func (s *AlertService) Subscribe(ctx context.Context, p SubscribeParams) (model.AlertSubscription, error) {
	frequency := p.Frequency
	if !model.IsValidAlertFrequency(frequency) {
		frequency = model.FrequencyWeekly
	}

	sub, err := s.queries.CreateAlert(ctx, store.CreateAlertParams{
		Email:             strings.TrimSpace(p.Email),
		ConfirmationToken: util.NewConfirmationToken(),
		Frequency:         frequency,
		Keywords:          strings.TrimSpace(p.Keywords),
		CategoryIDs:       joinIDs(p.CategoryIDs),
		JobTypes:          strings.Join(p.JobTypes, ","),
		ExperienceLevels:  strings.Join(p.ExperienceLevels, ","),
		Locations:         strings.Join(p.Locations, ","),
		SalaryMin:         p.SalaryMin,
		SalaryMax:         p.SalaryMax,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			return model.AlertSubscription{}, ErrAlreadySubscribed
		}
		return model.AlertSubscription{}, fmt.Errorf("creating subscription: %w", err)
	}

	if err := s.mail.Send(mailer.AlertConfirmation(sub, s.baseURL)); err != nil && !errors.Is(err, mailer.ErrDisabled) {
		slog.Warn("failed to send alert confirmation email", "error", err)
	}

	return sub, nil
}

// Confirm flips a subscription to confirmed. The first confirm wins;
// repeating it with the same token is a silent no-op, reported through
// the second return value.
func (s *AlertService) Confirm(ctx context.Context, token string) (model.AlertSubscription, bool, error) {
	sub, err := s.queries.GetAlertByToken(ctx, token)
	if err != nil {
		return model.AlertSubscription{}, false, err
	}

	affected, err := s.queries.ConfirmAlert(ctx, store.ConfirmAlertParams{
		ID:          sub.ID,
		ConfirmedAt: time.Now(),
	})
	if err != nil {
		return model.AlertSubscription{}, false, fmt.Errorf("confirming subscription: %w", err)
	}

	alreadyConfirmed := affected == 0
	sub.IsConfirmed = true
	return sub, alreadyConfirmed, nil
}

// Unsubscribe deactivates a subscription by token.
func (s *AlertService) Unsubscribe(ctx context.Context, token string) error {
	sub, err := s.queries.GetAlertByToken(ctx, token)
	if err != nil {
		return err
	}
	return s.queries.DeactivateAlert(ctx, sub.ID, time.Now())
}

// Matches reports whether a posting satisfies a subscription's saved
// filter profile. The predicate semantics mirror the live search:
// every non-empty filter narrows, empty filters impose no constraint.
func (s *AlertService) Matches(sub model.AlertSubscription, job model.JobPosting) bool {
	if kw := strings.TrimSpace(sub.Keywords); kw != "" {
		haystack := strings.ToLower(strings.Join([]string{
			job.Title, job.ShortDescription, job.DetailedDescription,
			job.RequiredSkills, job.ToolsTechnologies,
		}, " "))
		if !strings.Contains(haystack, strings.ToLower(kw)) {
			return false
		}
	}

	if ids := splitIDs(sub.CategoryIDs); len(ids) > 0 {
		if !job.CategoryID.Valid || !containsID(ids, job.CategoryID.Int64) {
			return false
		}
	}

	if types := splitCSV(sub.JobTypes); len(types) > 0 && !containsFold(types, job.JobType) {
		return false
	}
	if levels := splitCSV(sub.ExperienceLevels); len(levels) > 0 && !containsFold(levels, job.ExperienceLevel) {
		return false
	}

	if locations := splitCSV(sub.Locations); len(locations) > 0 {
		matched := false
		for _, loc := range locations {
			if strings.Contains(strings.ToLower(loc), "remote") {
				if job.IsRemoteAllowed {
					matched = true
					break
				}
				continue
			}
			if strings.Contains(strings.ToLower(job.Location), strings.ToLower(loc)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if sub.SalaryMin.Valid {
		if !job.SalaryMax.Valid || job.SalaryMax.Int64 < sub.SalaryMin.Int64 {
			return false
		}
	}
	if sub.SalaryMax.Valid {
		if !job.SalaryMin.Valid || job.SalaryMin.Int64 > sub.SalaryMax.Int64 {
			return false
		}
	}

	return true
}

// digestWindows maps a frequency to how far back a digest looks.
var digestWindows = map[string]time.Duration{
	model.FrequencyImmediate: time.Hour,
	model.FrequencyDaily:     24 * time.Hour,
	model.FrequencyWeekly:    7 * 24 * time.Hour,
	model.FrequencyBiweekly:  14 * 24 * time.Hour,
}

// SendDigests mails matched postings to confirmed subscriptions of the
// given frequency. Returns the number of digests sent.
func (s *AlertService) SendDigests(ctx context.Context, frequency string) (int, error) {
	window, ok := digestWindows[frequency]
	if !ok {
		return 0, fmt.Errorf("unknown digest frequency %q", frequency)
	}

	subs, err := s.queries.ListConfirmedAlertsByFrequency(ctx, frequency)
	if err != nil {
		return 0, fmt.Errorf("listing subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return 0, nil
	}

	now := time.Now()
	jobs, err := s.queries.ListJobsPublishedSince(ctx, now.Add(-window))
	if err != nil {
		return 0, fmt.Errorf("listing new postings: %w", err)
	}
	if len(jobs) == 0 {
		return 0, nil
	}

	// A digest is skipped while the subscription is still inside its
	// delivery window; this is what separates biweekly from weekly on
	// a shared cron cadence.
	minInterval := window - 24*time.Hour

	sent := 0
	for _, sub := range subs {
		if sub.LastSentAt.Valid && now.Sub(sub.LastSentAt.Time) < minInterval {
			continue
		}
		since := now.Add(-window)
		if sub.LastSentAt.Valid && sub.LastSentAt.Time.After(since) {
			since = sub.LastSentAt.Time
		}

		var matched []model.JobPosting
		for _, job := range jobs {
			if job.PublishedDate.Valid && !job.PublishedDate.Time.After(since) {
				continue
			}
			if s.Matches(sub, job) {
				matched = append(matched, job)
			}
		}
		if len(matched) == 0 {
			continue
		}

		if err := s.mail.Send(mailer.AlertDigest(sub, matched, s.baseURL)); err != nil {
			if !errors.Is(err, mailer.ErrDisabled) {
				slog.Warn("failed to send alert digest", "subscription_id", sub.ID, "error", err)
			}
			continue
		}

		if err := s.queries.TouchAlertSent(ctx, sub.ID, now); err != nil {
			slog.Warn("failed to record digest delivery", "subscription_id", sub.ID, "error", err)
		}
		sent++
	}

	if sent > 0 {
		if _, err := s.events.AppendSystem(ctx, model.EventKindSystem,
			fmt.Sprintf("sent %d %s alert digest(s)", sent, frequency),
			map[string]any{"frequency": frequency, "count": sent},
		); err != nil {
			slog.Warn("failed to append digest event", "error", err)
		}
	}

	return sent, nil
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

func splitIDs(s string) []int64 {
	var ids []int64
	for _, part := range splitCSV(s) {
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func containsFold(values []string, v string) bool {
	for _, val := range values {
		if strings.EqualFold(val, v) {
			return true
		}
	}
	return false
}
