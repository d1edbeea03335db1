// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/careers-go/internal/geoip"
	"github.com/olegiv/careers-go/internal/mailer"
	"github.com/olegiv/careers-go/internal/model"
	"github.com/olegiv/careers-go/internal/service"
	"github.com/olegiv/careers-go/internal/util"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ApplicationHandler serves the applicant-facing intake and tracking
// endpoints.
type ApplicationHandler struct {
	applications *service.ApplicationService
}

// NewApplicationHandler creates a new application handler.
func NewApplicationHandler(db *sql.DB, mail *mailer.Mailer, geo *geoip.Lookup, baseURL, adminEmail string) *ApplicationHandler {
	return &ApplicationHandler{
		applications: service.NewApplicationService(db, mail, geo, baseURL, adminEmail),
	}
}

// ApplyRequest is the application submission body.
type ApplyRequest struct {
	JobID            int64  `json:"job_id"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	ExperienceYears  *int64 `json:"experience_years"`
	CurrentSalary    *int64 `json:"current_salary"`
	ExpectedSalary   *int64 `json:"expected_salary"`
	ResumeRef        string `json:"resume_ref"`
	CoverLetter      string `json:"cover_letter"`
	Source           string `json:"source"`
	ConsentContact   bool   `json:"consent_contact"`
	ConsentRetention bool   `json:"consent_retention"`
}

func (req *ApplyRequest) validate(quick bool) map[string]string {
	errs := make(map[string]string)
	if req.JobID <= 0 {
		errs["job_id"] = "job_id is required"
	}
	if strings.TrimSpace(req.FirstName) == "" {
		errs["first_name"] = "first name is required"
	}
	if strings.TrimSpace(req.LastName) == "" {
		errs["last_name"] = "last name is required"
	}
	if !emailRegex.MatchString(strings.TrimSpace(req.Email)) {
		errs["email"] = "a valid email address is required"
	}
	if !req.ConsentContact {
		errs["consent_contact"] = "consent to be contacted is required"
	}
	if !quick && strings.TrimSpace(req.ResumeRef) == "" {
		errs["resume_ref"] = "a resume reference is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ApplicationReceipt is the public view of a freshly created
// application.
type ApplicationReceipt struct {
	ReferenceCode string    `json:"reference_code"`
	Status        string    `json:"status"`
	AppliedAt     time.Time `json:"applied_at"`
	TrackURL      string    `json:"track_url"`
}

// Apply handles POST /api/v1/applications.
func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, false)
}

// QuickApply handles POST /api/v1/applications/quick. The quick form
// skips the resume requirement so a candidate can register interest
// from a posting card.
func (h *ApplicationHandler) QuickApply(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, true)
}

func (h *ApplicationHandler) submit(w http.ResponseWriter, r *http.Request, quick bool) {
	var req ApplyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(quick); errs != nil {
		WriteValidationError(w, errs)
		return
	}

	q := r.URL.Query()
	app, err := h.applications.Submit(r.Context(), service.SubmitParams{
		JobID:            req.JobID,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		ExperienceYears:  util.NullInt64FromPtr(req.ExperienceYears),
		CurrentSalary:    util.NullInt64FromPtr(req.CurrentSalary),
		ExpectedSalary:   util.NullInt64FromPtr(req.ExpectedSalary),
		ResumeRef:        req.ResumeRef,
		CoverLetter:      req.CoverLetter,
		Source:           req.Source,
		ConsentContact:   req.ConsentContact,
		ConsentRetention: req.ConsentRetention,
		IPAddress:        clientIP(r),
		UserAgent:        r.UserAgent(),
		UTMSource:        q.Get("utm_source"),
		UTMMedium:        q.Get("utm_medium"),
		UTMCampaign:      q.Get("utm_campaign"),
	})
	if err != nil {
		h.writeSubmitError(w, err)
		return
	}

	WriteCreated(w, ApplicationReceipt{
		ReferenceCode: app.ReferenceCode,
		Status:        app.Status,
		AppliedAt:     app.CreatedAt,
		TrackURL:      "/careers/application/track/" + app.ReferenceCode,
	})
}

func (h *ApplicationHandler) writeSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		WriteNotFound(w, "posting not found")
	case errors.Is(err, service.ErrDuplicateApplication):
		WriteError(w, http.StatusConflict, "duplicate_application", err.Error(), nil)
	case errors.Is(err, service.ErrJobNotOpen),
		errors.Is(err, service.ErrJobNotPublished),
		errors.Is(err, service.ErrDeadlinePassed),
		errors.Is(err, service.ErrNoVacancy):
		WriteError(w, http.StatusUnprocessableEntity, "not_accepting", err.Error(), nil)
	default:
		slog.Error("application intake failed", "error", err)
		WriteInternalError(w, "Failed to submit application")
	}
}

// TrackerEventView is one timeline entry on the tracker page.
type TrackerEventView struct {
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TrackerView is what an applicant sees when checking their status.
type TrackerView struct {
	ReferenceCode string             `json:"reference_code"`
	FullName      string             `json:"full_name"`
	Status        string             `json:"status"`
	StatusNotes   string             `json:"status_notes,omitempty"`
	AppliedAt     time.Time          `json:"applied_at"`
	Timeline      []TrackerEventView `json:"timeline"`
}

// Track handles GET /api/v1/applications/track/{code}.
func (h *ApplicationHandler) Track(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if code == "" {
		WriteBadRequest(w, "Missing reference code", nil)
		return
	}

	app, events, err := h.applications.Track(r.Context(), code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "application not found")
		} else {
			slog.Error("tracker lookup failed", "error", err)
			WriteInternalError(w, "Failed to load application")
		}
		return
	}

	// Internal entries (notes, ratings, emails) stay off the public
	// timeline.
	timeline := make([]TrackerEventView, 0, len(events))
	for _, e := range events {
		if e.Kind != model.EventKindStatusChange && e.Kind != model.EventKindInterviewScheduled {
			continue
		}
		timeline = append(timeline, TrackerEventView{
			Kind:        e.Kind,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		})
	}

	WriteSuccess(w, TrackerView{
		ReferenceCode: app.ReferenceCode,
		FullName:      app.FullName(),
		Status:        app.Status,
		StatusNotes:   app.StatusNotes,
		AppliedAt:     app.CreatedAt,
		Timeline:      timeline,
	}, nil)
}

// FeedbackRequest is applicant feedback on the tracker experience.
type FeedbackRequest struct {
	Rating  int64  `json:"rating"`
	Comment string `json:"comment"`
}

// Feedback handles POST /api/v1/applications/track/{code}/feedback.
func (h *ApplicationHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if code == "" {
		WriteBadRequest(w, "Missing reference code", nil)
		return
	}

	var req FeedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		WriteValidationError(w, map[string]string{"rating": "rating must be between 1 and 5"})
		return
	}

	err := h.applications.Feedback(r.Context(), code, req.Rating, req.Comment, clientIP(r))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "application not found")
		} else {
			slog.Error("feedback submission failed", "error", err)
			WriteInternalError(w, "Failed to record feedback")
		}
		return
	}

	WriteCreated(w, map[string]any{"received": true})
}
