// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/olegiv/careers-go/internal/model"
	"github.com/olegiv/careers-go/internal/service"
	"github.com/olegiv/careers-go/internal/store"
)

// JobHandler serves the public posting endpoints.
type JobHandler struct {
	queries *store.Queries
	search  *service.SearchService
	stats   *service.StatsService
}

// NewJobHandler creates a new job handler.
func NewJobHandler(db *sql.DB, stats *service.StatsService) *JobHandler {
	return &JobHandler{
		queries: store.New(db),
		search:  service.NewSearchService(db),
		stats:   stats,
	}
}

// SalaryView is the salary block of a posting response, present only
// when the posting shows its salary.
type SalaryView struct {
	Min        *int64 `json:"min,omitempty"`
	Max        *int64 `json:"max,omitempty"`
	Currency   string `json:"currency"`
	Period     string `json:"period"`
	Negotiable bool   `json:"negotiable"`
}

// JobSummary is the listing view of a posting.
type JobSummary struct {
	ID               int64       `json:"id"`
	ReferenceID      string      `json:"reference_id"`
	Title            string      `json:"title"`
	Slug             string      `json:"slug"`
	CategoryID       *int64      `json:"category_id,omitempty"`
	JobType          string      `json:"job_type"`
	ExperienceLevel  string      `json:"experience_level"`
	Location         string      `json:"location"`
	IsRemoteAllowed  bool        `json:"is_remote_allowed"`
	ShortDescription string      `json:"short_description"`
	Salary           *SalaryView `json:"salary,omitempty"`
	Priority         string      `json:"priority"`
	IsFeatured       bool        `json:"is_featured"`
	IsActive         bool        `json:"is_active"`
	PostedDate       time.Time   `json:"posted_date"`
	Deadline         *time.Time  `json:"application_deadline,omitempty"`
}

// JobDetail extends JobSummary with the full posting body and metrics.
type JobDetail struct {
	JobSummary
	DetailedDescription string  `json:"detailed_description"`
	RequiredSkills      string  `json:"required_skills"`
	PreferredSkills     string  `json:"preferred_skills"`
	ToolsTechnologies   string  `json:"tools_technologies"`
	VacancyCount        int64   `json:"vacancy_count"`
	ViewsCount          int64   `json:"views_count"`
	ApplicationsCount   int64   `json:"applications_count"`
	ConversionRate      float64 `json:"conversion_rate"`
}

func jobSummaryView(p model.JobPosting) JobSummary {
	v := JobSummary{
		ID:               p.ID,
		ReferenceID:      p.ReferenceID,
		Title:            p.Title,
		Slug:             p.Slug,
		JobType:          p.JobType,
		ExperienceLevel:  p.ExperienceLevel,
		Location:         p.Location,
		IsRemoteAllowed:  p.IsRemoteAllowed,
		ShortDescription: p.ShortDescription,
		Priority:         p.Priority,
		IsFeatured:       p.IsFeatured,
		IsActive:         p.IsActive(time.Now()),
		PostedDate:       p.PostedDate,
	}
	if p.CategoryID.Valid {
		v.CategoryID = &p.CategoryID.Int64
	}
	if p.ApplicationDeadline.Valid {
		deadline := p.ApplicationDeadline.Time
		v.Deadline = &deadline
	}
	if p.ShowSalary {
		salary := &SalaryView{
			Currency:   p.SalaryCurrency,
			Period:     p.SalaryPeriod,
			Negotiable: p.IsSalaryNegotiable,
		}
		if p.SalaryMin.Valid {
			salary.Min = &p.SalaryMin.Int64
		}
		if p.SalaryMax.Valid {
			salary.Max = &p.SalaryMax.Int64
		}
		v.Salary = salary
	}
	return v
}

func jobDetailView(p model.JobPosting) JobDetail {
	return JobDetail{
		JobSummary:          jobSummaryView(p),
		DetailedDescription: p.DetailedDescription,
		RequiredSkills:      p.RequiredSkills,
		PreferredSkills:     p.PreferredSkills,
		ToolsTechnologies:   p.ToolsTechnologies,
		VacancyCount:        p.VacancyCount,
		ViewsCount:          p.ViewsCount,
		ApplicationsCount:   p.ApplicationsCount,
		ConversionRate:      p.ConversionRate(),
	}
}

// parseFilters reads the search filter set from query parameters.
// Malformed values degrade to no constraint.
func parseFilters(r *http.Request) service.Filters {
	q := r.URL.Query()

	var categoryIDs []int64
	for _, raw := range q["category"] {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			categoryIDs = append(categoryIDs, id)
		}
	}

	return service.Filters{
		Keyword:          q.Get("q"),
		Location:         q.Get("location"),
		JobTypes:         q["job_type"],
		ExperienceLevels: q["experience_level"],
		CategoryIDs:      categoryIDs,
		SalaryBucket:     q.Get("salary"),
		PostedWithinDays: queryInt(r, "posted_within", 0),
		RemoteOnly:       q.Get("remote") == "1",
		FeaturedOnly:     q.Get("featured") == "1",
		Sort:             q.Get("sort"),
		Page:             queryInt(r, "page", 1),
	}
}

// List handles GET /api/v1/jobs with the full filter set.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.search.Search(r.Context(), parseFilters(r))
	if err != nil {
		slog.Error("job search failed", "error", err)
		WriteInternalError(w, "Search failed")
		return
	}

	summaries := make([]JobSummary, 0, len(result.Jobs))
	for _, job := range result.Jobs {
		summaries = append(summaries, jobSummaryView(job))
	}

	WriteSuccess(w, summaries, &Meta{
		Total:   result.Total,
		Page:    result.Page,
		PerPage: result.PerPage,
		Pages:   result.NumPages,
	})
}

// Get handles GET /api/v1/jobs/{id}, counting the view.
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, ok := requireEntityByID(w, r, "posting", func(id int64) (model.JobPosting, error) {
		return h.queries.GetJob(r.Context(), id)
	})
	if !ok {
		return
	}

	// Unpublished postings are not publicly addressable, and probing
	// their IDs must not move the view counter.
	if job.Status != model.JobStatusOpen || (job.PublishedDate.Valid && job.PublishedDate.Time.After(time.Now())) {
		WriteNotFound(w, "posting not found")
		return
	}

	if err := h.queries.IncrementJobViews(r.Context(), job.ID); err != nil {
		slog.Warn("failed to increment view counter", "job_id", job.ID, "error", err)
	} else {
		job.ViewsCount++
	}

	WriteSuccess(w, jobDetailView(job), nil)
}

// Suggestions handles GET /api/v1/search/suggestions.
func (h *JobHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.search.Suggest(r.Context(), r.URL.Query().Get("q"), int64(queryInt(r, "limit", 10)))
	if err != nil {
		slog.Error("search suggestions failed", "error", err)
		WriteInternalError(w, "Suggestions failed")
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	WriteSuccess(w, suggestions, nil)
}

// Categories handles GET /api/v1/categories.
func (h *JobHandler) Categories(w http.ResponseWriter, r *http.Request) {
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

// SitemapEntryView is one sitemap row.
type SitemapEntryView struct {
	URL       string    `json:"url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sitemap handles GET /api/v1/sitemap.json.
func (h *JobHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	entries, err := h.queries.ListSitemapEntries(r.Context())
	if err != nil {
		slog.Error("sitemap query failed", "error", err)
		WriteInternalError(w, "Sitemap failed")
		return
	}

	views := make([]SitemapEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, SitemapEntryView{
			URL:       "/careers/jobs/" + strconv.FormatInt(e.ID, 10) + "/" + e.Slug,
			UpdatedAt: e.UpdatedAt,
		})
	}
	WriteSuccess(w, views, nil)
}

// HomeView aggregates the careers landing data.
type HomeView struct {
	Featured       []JobSummary             `json:"featured"`
	CategoryCounts []store.CategoryJobCount `json:"category_counts"`
	Stats          store.JobStats           `json:"stats"`
	SalaryBuckets  []string                 `json:"salary_buckets"`
}

// Home handles GET /api/v1/careers.
func (h *JobHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	featured, err := h.stats.FeaturedJobs(ctx, 6)
	if err != nil {
		slog.Error("failed to load featured postings", "error", err)
		WriteInternalError(w, "Failed to load careers home")
		return
	}
	counts, err := h.stats.CategoryCounts(ctx)
	if err != nil {
		slog.Error("failed to load category counts", "error", err)
		WriteInternalError(w, "Failed to load careers home")
		return
	}
	stats, err := h.stats.BoardStats(ctx)
	if err != nil {
		slog.Error("failed to load board stats", "error", err)
		WriteInternalError(w, "Failed to load careers home")
		return
	}

	featuredViews := make([]JobSummary, 0, len(featured))
	for _, job := range featured {
		featuredViews = append(featuredViews, jobSummaryView(job))
	}
	if counts == nil {
		counts = []store.CategoryJobCount{}
	}

	WriteSuccess(w, HomeView{
		Featured:       featuredViews,
		CategoryCounts: counts,
		Stats:          stats,
		SalaryBuckets:  model.SalaryBucketNames(),
	}, nil)
}
