// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mileusna/useragent"

	"github.com/olegiv/careers-go/internal/geoip"
	"github.com/olegiv/careers-go/internal/mailer"
	"github.com/olegiv/careers-go/internal/model"
	"github.com/olegiv/careers-go/internal/store"
	"github.com/olegiv/careers-go/internal/util"
)

// Intake precondition and validation errors. Each carries a
// user-facing reason; no persistence happens when one is returned.
var (
	ErrJobNotOpen           = errors.New("this position is not accepting applications")
	ErrJobNotPublished      = errors.New("this position is not yet published")
	ErrDeadlinePassed       = errors.New("the application deadline for this position has passed")
	ErrNoVacancy            = errors.New("all vacancies for this position have been filled")
	ErrDuplicateApplication = errors.New("an application with this email already exists for this position")
	ErrInvalidStatus        = errors.New("unknown application status")
)

// strictPolicy strips all markup from free-text applicant input.
var strictPolicy = bluemonday.StrictPolicy()

// ApplicationService implements intake and the application lifecycle.
type ApplicationService struct {
	db      *sql.DB
	queries *store.Queries
	events  *EventService
	mail    *mailer.Mailer
	geo     *geoip.Lookup

	baseURL    string
	adminEmail string
}

// NewApplicationService creates a new application service.
func NewApplicationService(db *sql.DB, mail *mailer.Mailer, geo *geoip.Lookup, baseURL, adminEmail string) *ApplicationService {
	return &ApplicationService{
		db:         db,
		queries:    store.New(db),
		events:     NewEventService(db),
		mail:       mail,
		geo:        geo,
		baseURL:    baseURL,
		adminEmail: adminEmail,
	}
}

// SubmitParams is validated applicant data for one posting.
type SubmitParams struct {
	JobID            int64
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	Address          string
	ExperienceYears  sql.NullInt64
	CurrentSalary    sql.NullInt64
	ExpectedSalary   sql.NullInt64
	ResumeRef        string
	CoverLetter      string
	Source           string
	ConsentContact   bool
	ConsentRetention bool

	// Tracking metadata captured by the handler.
	IPAddress   string
	UserAgent   string
	UTMSource   string
	UTMMedium   string
	UTMCampaign string
}

// Submit runs the intake pipeline: preconditions, duplicate guard,
// persistence, counter bump, event append, best-effort notifications.
func (s *ApplicationService) Submit(ctx context.Context, p SubmitParams) (model.Application, error) {
	job, err := s.queries.GetJob(ctx, p.JobID)
	if err != nil {
		return model.Application{}, err
	}

	now := time.Now()
	if job.Status != model.JobStatusOpen {
		return model.Application{}, ErrJobNotOpen
	}
	if job.PublishedDate.Valid && job.PublishedDate.Time.After(now) {
		return model.Application{}, ErrJobNotPublished
	}
	if job.ApplicationDeadline.Valid && job.ApplicationDeadline.Time.Before(now) {
		return model.Application{}, ErrDeadlinePassed
	}
	if job.VacancyCount <= 0 {
		return model.Application{}, ErrNoVacancy
	}

	count, err := s.queries.CountApplicationsByJobAndEmail(ctx, store.CountApplicationsByJobAndEmailParams{
		JobID: job.ID,
		Email: p.Email,
	})
	if err != nil {
		return model.Application{}, fmt.Errorf("checking duplicate application: %w", err)
	}
	if count > 0 {
		return model.Application{}, ErrDuplicateApplication
	}

	source := p.Source
	if !model.IsValidSourceChannel(source) {
		source = model.SourceWebsite
	}

	app, err := s.queries.CreateApplication(ctx, store.CreateApplicationParams{
		ReferenceCode:    util.NewApplicationReference(),
		JobID:            job.ID,
		FirstName:        strictPolicy.Sanitize(p.FirstName),
		LastName:         strictPolicy.Sanitize(p.LastName),
		Email:            strings.TrimSpace(p.Email),
		Phone:            strings.TrimSpace(p.Phone),
		Address:          strictPolicy.Sanitize(p.Address),
		ExperienceYears:  p.ExperienceYears,
		CurrentSalary:    p.CurrentSalary,
		ExpectedSalary:   p.ExpectedSalary,
		ResumeRef:        p.ResumeRef,
		CoverLetter:      strictPolicy.Sanitize(p.CoverLetter),
		Status:           model.AppStatusApplied,
		SkillsMatch:      SkillsMatchScore(job.RequiredSkills, p.CoverLetter),
		Source:           source,
		ConsentContact:   p.ConsentContact,
		ConsentRetention: p.ConsentRetention,
		IPAddress:        p.IPAddress,
		Country:          s.geo.LookupCountry(p.IPAddress),
		UserAgent:        p.UserAgent,
		DeviceType:       deviceType(p.UserAgent),
		UTMSource:        p.UTMSource,
		UTMMedium:        p.UTMMedium,
		UTMCampaign:      p.UTMCampaign,
	})
	if err != nil {
		// A concurrent duplicate slips past the pre-check and lands on
		// the unique index instead.
		if store.IsUniqueViolation(err) {
			return model.Application{}, ErrDuplicateApplication
		}
		return model.Application{}, fmt.Errorf("creating application: %w", err)
	}

	if err := s.queries.IncrementJobApplications(ctx, job.ID); err != nil {
		slog.Error("failed to increment application counter", "job_id", job.ID, "error", err)
	}

	if _, err := s.events.Append(ctx, EventParams{
		ApplicationID: &app.ID,
		Kind:          model.EventKindStatusChange,
		Description:   "submitted",
		IPAddress:     p.IPAddress,
		Metadata:      map[string]any{"status": model.AppStatusApplied, "source": source},
	}); err != nil {
		slog.Warn("failed to append submission event", "application_id", app.ID, "error", err)
	}

	s.sendBestEffort(ctx, &app.ID, mailer.ApplicationConfirmation(app, job, s.baseURL), "confirmation")
	s.sendBestEffort(ctx, nil, mailer.AdminNewApplication(app, job, s.adminEmail), "admin notification")

	return app, nil
}

// Transition moves an application to a new status. The conventional
// forward path is not hard-enforced; any known status is accepted and
// the change is logged. Leaving a terminal status is allowed but noted
// in the log at warning level.
func (s *ApplicationService) Transition(ctx context.Context, applicationID int64, newStatus, notes, actor string, notifyCandidate bool) (model.Application, error) {
	if !model.IsValidApplicationStatus(newStatus) {
		return model.Application{}, ErrInvalidStatus
	}

	app, err := s.queries.GetApplication(ctx, applicationID)
	if err != nil {
		return model.Application{}, err
	}

	oldStatus := app.Status
	now := time.Now()
	notes = strictPolicy.Sanitize(notes)

	if err := s.queries.UpdateApplicationStatus(ctx, store.UpdateApplicationStatusParams{
		ID:              app.ID,
		Status:          newStatus,
		StatusNotes:     notes,
		StatusChangedAt: now,
		UpdatedAt:       now,
	}); err != nil {
		return model.Application{}, fmt.Errorf("updating application status: %w", err)
	}

	level := model.EventLevelInfo
	if model.IsTerminalStatus(oldStatus) && oldStatus != newStatus {
		level = model.EventLevelWarning
	}
	if _, err := s.events.Append(ctx, EventParams{
		ApplicationID: &app.ID,
		Kind:          model.EventKindStatusChange,
		Level:         level,
		Description:   fmt.Sprintf("%s → %s", oldStatus, newStatus),
		Actor:         actor,
		Metadata:      map[string]any{"from": oldStatus, "to": newStatus, "notes": notes},
	}); err != nil {
		slog.Warn("failed to append transition event", "application_id", app.ID, "error", err)
	}

	app.Status = newStatus
	app.StatusNotes = notes
	app.StatusChangedAt = sql.NullTime{Time: now, Valid: true}
	app.UpdatedAt = now

	if notifyCandidate {
		job, err := s.queries.GetJob(ctx, app.JobID)
		if err != nil {
			slog.Warn("failed to load posting for status email", "job_id", app.JobID, "error", err)
		} else {
			s.sendBestEffort(ctx, &app.ID, mailer.StatusUpdate(app, job, oldStatus, newStatus), "status update")
		}
	}

	return app, nil
}

// Rate sets the recruiter rating (0-5) and logs the change.
func (s *ApplicationService) Rate(ctx context.Context, applicationID, rating int64, actor string) error {
	if rating < 0 || rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5")
	}
	if err := s.queries.UpdateApplicationRating(ctx, store.UpdateApplicationRatingParams{
		ID:        applicationID,
		Rating:    rating,
		UpdatedAt: time.Now(),
	}); err != nil {
		return err
	}
	if _, err := s.events.Append(ctx, EventParams{
		ApplicationID: &applicationID,
		Kind:          model.EventKindRatingChanged,
		Description:   fmt.Sprintf("rating set to %d", rating),
		Actor:         actor,
	}); err != nil {
		slog.Warn("failed to append rating event", "application_id", applicationID, "error", err)
	}
	return nil
}

// Track loads an application by its public reference code, bumping the
// tracker access counter.
func (s *ApplicationService) Track(ctx context.Context, referenceCode string) (model.Application, []model.EventLogEntry, error) {
	app, err := s.queries.GetApplicationByReference(ctx, referenceCode)
	if err != nil {
		return model.Application{}, nil, err
	}

	if err := s.queries.IncrementTrackerAccess(ctx, app.ID); err != nil {
		slog.Warn("failed to increment tracker counter", "application_id", app.ID, "error", err)
	}

	events, err := s.events.ListByApplication(ctx, app.ID)
	if err != nil {
		return model.Application{}, nil, err
	}
	return app, events, nil
}

// Feedback records applicant feedback left on the tracker page as a
// feedback event on the application.
func (s *ApplicationService) Feedback(ctx context.Context, referenceCode string, rating int64, comment, ip string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("feedback rating must be between 1 and 5")
	}
	app, err := s.queries.GetApplicationByReference(ctx, referenceCode)
	if err != nil {
		return err
	}
	_, err = s.events.Append(ctx, EventParams{
		ApplicationID: &app.ID,
		Kind:          model.EventKindFeedback,
		Description:   fmt.Sprintf("tracker feedback: %d/5", rating),
		IPAddress:     ip,
		Metadata:      map[string]any{"rating": rating, "comment": strictPolicy.Sanitize(comment)},
	})
	return err
}

// sendBestEffort delivers a notification without failing the caller.
// Successful sends are recorded in the event log when an application
// owns them.
func (s *ApplicationService) sendBestEffort(ctx context.Context, applicationID *int64, msg mailer.Message, label string) {
	err := s.mail.Send(msg)
	if errors.Is(err, mailer.ErrDisabled) {
		return
	}
	if err != nil {
		slog.Warn("failed to send "+label+" email", "error", err)
		return
	}
	if applicationID != nil {
		if _, err := s.events.Append(ctx, EventParams{
			ApplicationID: applicationID,
			Kind:          model.EventKindEmailSent,
			Description:   label + " email sent",
			Metadata:      map[string]any{"subject": msg.Subject},
		}); err != nil {
			slog.Warn("failed to append email event", "error", err)
		}
	}
}

// SkillsMatchScore returns a 0-100 overlap score between a posting's
// comma-separated required skills and the applicant's free text. Zero
// when the posting lists no required skills. The function is a
// deterministic heuristic, not a ranking signal.
func SkillsMatchScore(requiredSkills, applicantText string) int64 {
	var skills []string
	for _, raw := range strings.Split(requiredSkills, ",") {
		if skill := strings.TrimSpace(raw); skill != "" {
			skills = append(skills, skill)
		}
	}
	if len(skills) == 0 {
		return 0
	}

	haystack := strings.ToLower(applicantText)
	matched := 0
	for _, skill := range skills {
		if strings.Contains(haystack, strings.ToLower(skill)) {
			matched++
		}
	}
	return int64(matched * 100 / len(skills))
}

// deviceType classifies a User-Agent string for application metadata.
func deviceType(ua string) string {
	if ua == "" {
		return ""
	}
	parsed := useragent.Parse(ua)
	switch {
	case parsed.Bot:
		return "bot"
	case parsed.Mobile:
		return "mobile"
	case parsed.Tablet:
		return "tablet"
	case parsed.Desktop:
		return "desktop"
	default:
		return "other"
	}
}
