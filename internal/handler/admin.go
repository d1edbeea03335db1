// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/careers-go/internal/cache"
	"github.com/olegiv/careers-go/internal/geoip"
	"github.com/olegiv/careers-go/internal/mailer"
	"github.com/olegiv/careers-go/internal/model"
	"github.com/olegiv/careers-go/internal/service"
	"github.com/olegiv/careers-go/internal/store"
	"github.com/olegiv/careers-go/internal/util"
)

// AdminHandler serves the token-protected management API.
type AdminHandler struct {
	queries      *store.Queries
	jobs         *service.JobService
	applications *service.ApplicationService
	events       *service.EventService
	stats        *service.StatsService
	cache        cache.Cacher
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(db *sql.DB, mail *mailer.Mailer, geo *geoip.Lookup, stats *service.StatsService, c cache.Cacher, baseURL, adminEmail string) *AdminHandler {
	return &AdminHandler{
		queries:      store.New(db),
		jobs:         service.NewJobService(db),
		applications: service.NewApplicationService(db, mail, geo, baseURL, adminEmail),
		events:       service.NewEventService(db),
		stats:        stats,
		cache:        c,
	}
}

// OverviewView is the analytics dashboard payload.
type OverviewView struct {
	Stats           store.JobStats      `json:"stats"`
	StatusBreakdown []store.StatusCount `json:"status_breakdown"`
	TopByConversion []JobDetail         `json:"top_by_conversion"`
}

// Overview handles GET /api/v1/admin/overview.
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.stats.BoardStats(ctx)
	if err != nil {
		slog.Error("failed to load board stats", "error", err)
		WriteInternalError(w, "Failed to load overview")
		return
	}
	breakdown, err := h.queries.CountApplicationsByStatus(ctx)
	if err != nil {
		slog.Error("failed to load status breakdown", "error", err)
		WriteInternalError(w, "Failed to load overview")
		return
	}
	top, err := h.queries.ListTopJobsByConversion(ctx, 5)
	if err != nil {
		slog.Error("failed to load top postings", "error", err)
		WriteInternalError(w, "Failed to load overview")
		return
	}

	topViews := make([]JobDetail, 0, len(top))
	for _, job := range top {
		topViews = append(topViews, jobDetailView(job))
	}
	if breakdown == nil {
		breakdown = []store.StatusCount{}
	}

	WriteSuccess(w, OverviewView{
		Stats:           stats,
		StatusBreakdown: breakdown,
		TopByConversion: topViews,
	}, nil)
}

// CreateJobRequest is the admin posting creation body.
type CreateJobRequest struct {
	Title               string     `json:"title"`
	CategoryID          *int64     `json:"category_id"`
	JobType             string     `json:"job_type"`
	ExperienceLevel     string     `json:"experience_level"`
	Location            string     `json:"location"`
	IsRemoteAllowed     bool       `json:"is_remote_allowed"`
	ShortDescription    string     `json:"short_description"`
	DetailedDescription string     `json:"detailed_description"`
	RequiredSkills      string     `json:"required_skills"`
	PreferredSkills     string     `json:"preferred_skills"`
	ToolsTechnologies   string     `json:"tools_technologies"`
	SalaryMin           *int64     `json:"salary_min"`
	SalaryMax           *int64     `json:"salary_max"`
	SalaryCurrency      string     `json:"salary_currency"`
	SalaryPeriod        string     `json:"salary_period"`
	IsSalaryNegotiable  bool       `json:"is_salary_negotiable"`
	ShowSalary          bool       `json:"show_salary"`
	Priority            string     `json:"priority"`
	IsFeatured          bool       `json:"is_featured"`
	VacancyCount        int64      `json:"vacancy_count"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
}

// CreateJob handles POST /api/v1/admin/jobs. Postings are created as
// drafts; publishing is a separate call.
func (h *AdminHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	errs := make(map[string]string)
	if strings.TrimSpace(req.Title) == "" {
		errs["title"] = "a title is required"
	}
	if strings.TrimSpace(req.ShortDescription) == "" {
		errs["short_description"] = "a short description is required"
	}
	if req.SalaryMin != nil && req.SalaryMax != nil && *req.SalaryMin > *req.SalaryMax {
		errs["salary_min"] = "salary_min must not exceed salary_max"
	}
	if len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	var deadline sql.NullTime
	if req.ApplicationDeadline != nil {
		deadline = sql.NullTime{Time: *req.ApplicationDeadline, Valid: true}
	}

	job, err := h.jobs.Create(r.Context(), service.CreateJobParams{
		Title:               req.Title,
		CategoryID:          util.NullInt64FromPtr(req.CategoryID),
		JobType:             req.JobType,
		ExperienceLevel:     req.ExperienceLevel,
		Location:            req.Location,
		IsRemoteAllowed:     req.IsRemoteAllowed,
		ShortDescription:    req.ShortDescription,
		DetailedDescription: req.DetailedDescription,
		RequiredSkills:      req.RequiredSkills,
		PreferredSkills:     req.PreferredSkills,
		ToolsTechnologies:   req.ToolsTechnologies,
		SalaryMin:           util.NullInt64FromPtr(req.SalaryMin),
		SalaryMax:           util.NullInt64FromPtr(req.SalaryMax),
		SalaryCurrency:      req.SalaryCurrency,
		SalaryPeriod:        req.SalaryPeriod,
		IsSalaryNegotiable:  req.IsSalaryNegotiable,
		ShowSalary:          req.ShowSalary,
		Priority:            req.Priority,
		IsFeatured:          req.IsFeatured,
		VacancyCount:        req.VacancyCount,
		ApplicationDeadline: deadline,
	})
	if err != nil {
		if store.IsForeignKeyViolation(err) {
			WriteValidationError(w, map[string]string{"category_id": "unknown category"})
			return
		}
		slog.Error("posting creation failed", "error", err)
		WriteInternalError(w, "Failed to create posting")
		return
	}

	WriteCreated(w, jobDetailView(job))
}

// PublishJob handles POST /api/v1/admin/jobs/{id}/publish.
func (h *AdminHandler) PublishJob(w http.ResponseWriter, r *http.Request) {
	h.transitionJob(w, r, h.jobs.Publish)
}

// CloseJob handles POST /api/v1/admin/jobs/{id}/close.
func (h *AdminHandler) CloseJob(w http.ResponseWriter, r *http.Request) {
	h.transitionJob(w, r, h.jobs.Close)
}

func (h *AdminHandler) transitionJob(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id int64) error) {
	job, ok := requireEntityByID(w, r, "posting", func(id int64) (model.JobPosting, error) {
		return h.queries.GetJob(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := apply(r.Context(), job.ID); err != nil {
		slog.Error("posting status change failed", "job_id", job.ID, "error", err)
		WriteInternalError(w, "Failed to update posting")
		return
	}

	updated, err := h.queries.GetJob(r.Context(), job.ID)
	if err != nil {
		WriteInternalError(w, "Failed to reload posting")
		return
	}
	WriteSuccess(w, jobDetailView(updated), nil)
}

// ListApplications handles GET /api/v1/admin/jobs/{id}/applications.
func (h *AdminHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	job, ok := requireEntityByID(w, r, "posting", func(id int64) (model.JobPosting, error) {
		return h.queries.GetJob(r.Context(), id)
	})
	if !ok {
		return
	}

	p := ParsePagination(r, 25, 100)
	apps, err := h.queries.ListApplicationsByJob(r.Context(), store.ListApplicationsByJobParams{
		JobID:  job.ID,
		Limit:  p.Limit(),
		Offset: p.Offset(),
	})
	if err != nil {
		slog.Error("listing applications failed", "job_id", job.ID, "error", err)
		WriteInternalError(w, "Failed to list applications")
		return
	}

	views := make([]AdminApplicationView, 0, len(apps))
	for _, app := range apps {
		views = append(views, adminApplicationView(app))
	}
	WriteSuccess(w, views, p.Meta(job.ApplicationsCount))
}

// AdminApplicationView is the recruiter-facing application record.
type AdminApplicationView struct {
	ID            int64     `json:"id"`
	ReferenceCode string    `json:"reference_code"`
	JobID         int64     `json:"job_id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Status        string    `json:"status"`
	StatusNotes   string    `json:"status_notes,omitempty"`
	Rating        int64     `json:"rating"`
	SkillsMatch   int64     `json:"skills_match"`
	Source        string    `json:"source"`
	Country       string    `json:"country,omitempty"`
	DeviceType    string    `json:"device_type,omitempty"`
	ResumeRef     string    `json:"resume_ref,omitempty"`
	AppliedAt     time.Time `json:"applied_at"`
}

func adminApplicationView(app model.Application) AdminApplicationView {
	return AdminApplicationView{
		ID:            app.ID,
		ReferenceCode: app.ReferenceCode,
		JobID:         app.JobID,
		FullName:      app.FullName(),
		Email:         app.Email,
		Phone:         app.Phone,
		Status:        app.Status,
		StatusNotes:   app.StatusNotes,
		Rating:        app.Rating,
		SkillsMatch:   app.SkillsMatch,
		Source:        app.Source,
		Country:       app.Country,
		DeviceType:    app.DeviceType,
		ResumeRef:     app.ResumeRef,
		AppliedAt:     app.CreatedAt,
	}
}

// StatusUpdateRequest is the lifecycle transition body.
type StatusUpdateRequest struct {
	Status          string `json:"status"`
	Notes           string `json:"notes"`
	NotifyCandidate bool   `json:"notify_candidate"`
}

// UpdateApplicationStatus handles PUT /api/v1/admin/applications/{id}/status.
func (h *AdminHandler) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid application ID", nil)
		return
	}

	var req StatusUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	app, err := h.applications.Transition(r.Context(), id, req.Status, req.Notes, actorFrom(r), req.NotifyCandidate)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			WriteNotFound(w, "application not found")
		case errors.Is(err, service.ErrInvalidStatus):
			WriteValidationError(w, map[string]string{"status": err.Error()})
		default:
			slog.Error("status transition failed", "application_id", id, "error", err)
			WriteInternalError(w, "Failed to update status")
		}
		return
	}

	WriteSuccess(w, adminApplicationView(app), nil)
}

// RateRequest is the recruiter rating body.
type RateRequest struct {
	Rating int64 `json:"rating"`
}

// RateApplication handles PUT /api/v1/admin/applications/{id}/rating.
func (h *AdminHandler) RateApplication(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid application ID", nil)
		return
	}

	var req RateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Rating < 0 || req.Rating > 5 {
		WriteValidationError(w, map[string]string{"rating": "rating must be between 0 and 5"})
		return
	}

	if err := h.applications.Rate(r.Context(), id, req.Rating, actorFrom(r)); err != nil {
		slog.Error("rating update failed", "application_id", id, "error", err)
		WriteInternalError(w, "Failed to update rating")
		return
	}

	WriteSuccess(w, map[string]any{"id": id, "rating": req.Rating}, nil)
}

// ApplicationEvents handles GET /api/v1/admin/applications/{id}/events.
func (h *AdminHandler) ApplicationEvents(w http.ResponseWriter, r *http.Request) {
	app, ok := requireEntityByID(w, r, "application", func(id int64) (model.Application, error) {
		return h.queries.GetApplication(r.Context(), id)
	})
	if !ok {
		return
	}

	events, err := h.events.ListByApplication(r.Context(), app.ID)
	if err != nil {
		slog.Error("listing application events failed", "application_id", app.ID, "error", err)
		WriteInternalError(w, "Failed to list events")
		return
	}
	if events == nil {
		events = []model.EventLogEntry{}
	}
	WriteSuccess(w, events, nil)
}

// RecentEvents handles GET /api/v1/admin/events.
func (h *AdminHandler) RecentEvents(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r, 50, 200)

	events, err := h.events.ListRecent(r.Context(), p.Limit(), p.Offset())
	if err != nil {
		slog.Error("listing recent events failed", "error", err)
		WriteInternalError(w, "Failed to list events")
		return
	}
	total, err := h.queries.CountEvents(r.Context())
	if err != nil {
		slog.Error("counting events failed", "error", err)
		WriteInternalError(w, "Failed to list events")
		return
	}
	if events == nil {
		events = []model.EventLogEntry{}
	}
	WriteSuccess(w, events, p.Meta(total))
}

// ListContacts handles GET /api/v1/admin/contacts.
func (h *AdminHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r, 25, 100)

	contacts, err := h.queries.ListContacts(r.Context(), store.ListContactsParams{
		Limit:  p.Limit(),
		Offset: p.Offset(),
	})
	if err != nil {
		slog.Error("listing contacts failed", "error", err)
		WriteInternalError(w, "Failed to list contacts")
		return
	}
	total, err := h.queries.CountContacts(r.Context())
	if err != nil {
		slog.Error("counting contacts failed", "error", err)
		WriteInternalError(w, "Failed to list contacts")
		return
	}
	if contacts == nil {
		contacts = []model.ContactSubmission{}
	}
	WriteSuccess(w, contacts, p.Meta(total))
}

// CategoryRequest is the category create/update body.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   int64  `json:"sort_order"`
}

// CreateCategory handles POST /api/v1/admin/categories.
func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		WriteValidationError(w, map[string]string{"name": "a name is required"})
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	category, err := h.queries.CreateCategory(r.Context(), store.CreateCategoryParams{
		Name:        req.Name,
		Slug:        util.Slugify(req.Name),
		Description: req.Description,
		IsActive:    active,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			WriteError(w, http.StatusConflict, "duplicate_category", "A category with this name already exists", nil)
			return
		}
		slog.Error("category creation failed", "error", err)
		WriteInternalError(w, "Failed to create category")
		return
	}
	WriteCreated(w, category)
}

// UpdateCategory handles PUT /api/v1/admin/categories/{id}.
func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := requireEntityByID(w, r, "category", func(id int64) (model.JobCategory, error) {
		return h.queries.GetCategory(r.Context(), id)
	})
	if !ok {
		return
	}

	var req CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		WriteValidationError(w, map[string]string{"name": "a name is required"})
		return
	}

	active := category.IsActive
	if req.IsActive != nil {
		active = *req.IsActive
	}

	if err := h.queries.UpdateCategory(r.Context(), store.UpdateCategoryParams{
		ID:          category.ID,
		Name:        req.Name,
		Slug:        util.Slugify(req.Name),
		Description: req.Description,
		IsActive:    active,
		SortOrder:   req.SortOrder,
		UpdatedAt:   time.Now(),
	}); err != nil {
		if store.IsUniqueViolation(err) {
			WriteError(w, http.StatusConflict, "duplicate_category", "A category with this name already exists", nil)
			return
		}
		slog.Error("category update failed", "category_id", category.ID, "error", err)
		WriteInternalError(w, "Failed to update category")
		return
	}

	updated, err := h.queries.GetCategory(r.Context(), category.ID)
	if err != nil {
		WriteInternalError(w, "Failed to reload category")
		return
	}
	WriteSuccess(w, updated, nil)
}

// DeleteCategory handles DELETE /api/v1/admin/categories/{id}.
func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := requireEntityByID(w, r, "category", func(id int64) (model.JobCategory, error) {
		return h.queries.GetCategory(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteCategory(r.Context(), category.ID); err != nil {
		if store.IsForeignKeyViolation(err) {
			WriteError(w, http.StatusConflict, "category_in_use", "Postings still reference this category", nil)
			return
		}
		slog.Error("category deletion failed", "category_id", category.ID, "error", err)
		WriteInternalError(w, "Failed to delete category")
		return
	}
	WriteSuccess(w, map[string]any{"deleted": true}, nil)
}

// ListCategories handles GET /api/v1/admin/categories, including job
// counts per category.
func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.queries.ListActiveCategories(r.Context())
	if err != nil {
		slog.Error("listing categories failed", "error", err)
		WriteInternalError(w, "Failed to list categories")
		return
	}
	if categories == nil {
		categories = []model.JobCategory{}
	}
	WriteSuccess(w, categories, nil)
}

// CacheStats handles GET /api/v1/admin/cache. The Redis backend does
// not track statistics; only backends implementing StatsProvider
// report them.
func (h *AdminHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.cache.(cache.StatsProvider)
	if !ok {
		WriteSuccess(w, map[string]any{"stats_available": false}, nil)
		return
	}
	WriteSuccess(w, provider.Stats(), nil)
}

// actorFrom identifies the admin actor for the event log. The API uses
// a shared token, so the actor is a fixed label plus the caller IP.
func actorFrom(r *http.Request) string {
	return "admin@" + clientIP(r)
}
