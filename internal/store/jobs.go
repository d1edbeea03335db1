// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/careers-go/internal/model"
)

// JobColumns is the full posting column list, shared with the search
// query builder in the service layer.
const JobColumns = `id, reference_id, title, slug, category_id, job_type, experience_level,
	location, is_remote_allowed, short_description, detailed_description,
	required_skills, preferred_skills, tools_technologies,
	salary_min, salary_max, salary_currency, salary_period, is_salary_negotiable, show_salary,
	status, priority, is_featured, vacancy_count, application_deadline,
	views_count, applications_count, posted_date, published_date, closed_date,
	created_at, updated_at`

func scanJob(row interface{ Scan(...any) error }) (model.JobPosting, error) {
	var p model.JobPosting
	err := row.Scan(
		&p.ID, &p.ReferenceID, &p.Title, &p.Slug, &p.CategoryID, &p.JobType, &p.ExperienceLevel,
		&p.Location, &p.IsRemoteAllowed, &p.ShortDescription, &p.DetailedDescription,
		&p.RequiredSkills, &p.PreferredSkills, &p.ToolsTechnologies,
		&p.SalaryMin, &p.SalaryMax, &p.SalaryCurrency, &p.SalaryPeriod, &p.IsSalaryNegotiable, &p.ShowSalary,
		&p.Status, &p.Priority, &p.IsFeatured, &p.VacancyCount, &p.ApplicationDeadline,
		&p.ViewsCount, &p.ApplicationsCount, &p.PostedDate, &p.PublishedDate, &p.ClosedDate,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// CollectJobs scans and closes a posting result set.
func CollectJobs(rows *sql.Rows) ([]model.JobPosting, error) {
	defer func() { _ = rows.Close() }()

	var jobs []model.JobPosting
	for rows.Next() {
		p, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, p)
	}
	return jobs, rows.Err()
}

// CreateJobParams holds fields for CreateJob.
type CreateJobParams struct {
	ReferenceID         string
	Title               string
	Slug                string
	CategoryID          sql.NullInt64
	JobType             string
	ExperienceLevel     string
	Location            string
	IsRemoteAllowed     bool
	ShortDescription    string
	DetailedDescription string
	RequiredSkills      string
	PreferredSkills     string
	ToolsTechnologies   string
	SalaryMin           sql.NullInt64
	SalaryMax           sql.NullInt64
	SalaryCurrency      string
	SalaryPeriod        string
	IsSalaryNegotiable  bool
	ShowSalary          bool
	Status              string
	Priority            string
	IsFeatured          bool
	VacancyCount        int64
	ApplicationDeadline sql.NullTime
	PostedDate          time.Time
	PublishedDate       sql.NullTime
}

// CreateJob inserts a posting and returns it.
func (q *Queries) CreateJob(ctx context.Context, arg CreateJobParams) (model.JobPosting, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO job_postings (
			reference_id, title, slug, category_id, job_type, experience_level,
			location, is_remote_allowed, short_description, detailed_description,
			required_skills, preferred_skills, tools_technologies,
			salary_min, salary_max, salary_currency, salary_period, is_salary_negotiable, show_salary,
			status, priority, is_featured, vacancy_count, application_deadline,
			posted_date, published_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+JobColumns,
		arg.ReferenceID, arg.Title, arg.Slug, arg.CategoryID, arg.JobType, arg.ExperienceLevel,
		arg.Location, arg.IsRemoteAllowed, arg.ShortDescription, arg.DetailedDescription,
		arg.RequiredSkills, arg.PreferredSkills, arg.ToolsTechnologies,
		arg.SalaryMin, arg.SalaryMax, arg.SalaryCurrency, arg.SalaryPeriod, arg.IsSalaryNegotiable, arg.ShowSalary,
		arg.Status, arg.Priority, arg.IsFeatured, arg.VacancyCount, arg.ApplicationDeadline,
		arg.PostedDate, arg.PublishedDate,
	)
	return scanJob(row)
}

// GetJob returns a posting by ID.
func (q *Queries) GetJob(ctx context.Context, id int64) (model.JobPosting, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+JobColumns+` FROM job_postings WHERE id = ?`, id)
	return scanJob(row)
}

// GetJobBySlug returns a posting by slug.
func (q *Queries) GetJobBySlug(ctx context.Context, slug string) (model.JobPosting, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+JobColumns+` FROM job_postings WHERE slug = ?`, slug)
	return scanJob(row)
}

// GetJobByReference returns a posting by reference ID.
func (q *Queries) GetJobByReference(ctx context.Context, referenceID string) (model.JobPosting, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+JobColumns+` FROM job_postings WHERE reference_id = ?`, referenceID)
	return scanJob(row)
}

// CountJobsBySlug returns the number of postings with the given slug.
func (q *Queries) CountJobsBySlug(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM job_postings WHERE slug = ?`, slug).Scan(&count)
	return count, err
}

// ListFeaturedJobs returns open, published, featured postings, newest first.
// The cutoff is bound as a parameter; comparing against CURRENT_TIMESTAMP
// would be a cross-format string compare, since the driver stores
// time.Time values in the local zone.
func (q *Queries) ListFeaturedJobs(ctx context.Context, limit int64) ([]model.JobPosting, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+JobColumns+` FROM job_postings
		WHERE status = 'open'
		  AND is_featured = 1
		  AND (published_date IS NULL OR published_date <= ?)
		ORDER BY posted_date DESC, id DESC
		LIMIT ?`, time.Now(), limit)
	if err != nil {
		return nil, err
	}
	return CollectJobs(rows)
}

// ListJobsPublishedSince returns open postings published after the cutoff,
// used by alert digest matching.
func (q *Queries) ListJobsPublishedSince(ctx context.Context, since time.Time) ([]model.JobPosting, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+JobColumns+` FROM job_postings
		WHERE status = 'open'
		  AND published_date IS NOT NULL
		  AND published_date > ?
		  AND published_date <= ?
		ORDER BY published_date DESC, id DESC`, since, time.Now())
	if err != nil {
		return nil, err
	}
	return CollectJobs(rows)
}

// UpdateJobStatusParams holds fields for UpdateJobStatus.
type UpdateJobStatusParams struct {
	ID            int64
	Status        string
	PublishedDate sql.NullTime
	ClosedDate    sql.NullTime
	UpdatedAt     time.Time
}

// UpdateJobStatus moves a posting through its lifecycle.
func (q *Queries) UpdateJobStatus(ctx context.Context, arg UpdateJobStatusParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE job_postings
		SET status = ?,
		    published_date = COALESCE(published_date, ?),
		    closed_date = COALESCE(closed_date, ?),
		    updated_at = ?
		WHERE id = ?`,
		arg.Status, arg.PublishedDate, arg.ClosedDate, arg.UpdatedAt, arg.ID,
	)
	return err
}

// IncrementJobViews bumps the view counter atomically.
func (q *Queries) IncrementJobViews(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE job_postings SET views_count = views_count + 1 WHERE id = ?`, id)
	return err
}

// IncrementJobApplications bumps the application counter atomically.
func (q *Queries) IncrementJobApplications(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE job_postings SET applications_count = applications_count + 1 WHERE id = ?`, id)
	return err
}

// JobStats aggregates board-wide posting numbers.
type JobStats struct {
	OpenJobs          int64
	TotalApplications int64
	TotalViews        int64
	FeaturedJobs      int64
}

// GetJobStats returns board-wide aggregates over open, published postings.
func (q *Queries) GetJobStats(ctx context.Context) (JobStats, error) {
	var s JobStats
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(applications_count), 0),
		       COALESCE(SUM(views_count), 0),
		       COALESCE(SUM(is_featured), 0)
		FROM job_postings
		WHERE status = 'open'
		  AND (published_date IS NULL OR published_date <= ?)`, time.Now(),
	).Scan(&s.OpenJobs, &s.TotalApplications, &s.TotalViews, &s.FeaturedJobs)
	return s, err
}

// ListTopJobsByConversion returns open postings with views ordered by
// conversion rate, for the analytics overview.
func (q *Queries) ListTopJobsByConversion(ctx context.Context, limit int64) ([]model.JobPosting, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+JobColumns+` FROM job_postings
		WHERE status = 'open' AND views_count > 0
		ORDER BY CAST(applications_count AS REAL) / views_count DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return CollectJobs(rows)
}

// SearchSuggestionsParams holds fields for SearchSuggestions.
type SearchSuggestionsParams struct {
	Prefix string
	Limit  int64
}

// SearchSuggestions returns distinct titles and locations of open
// postings matching the prefix, for search autocomplete.
func (q *Queries) SearchSuggestions(ctx context.Context, arg SearchSuggestionsParams) ([]string, error) {
	pattern := arg.Prefix + "%"
	rows, err := q.db.QueryContext(ctx, `
		SELECT DISTINCT title AS suggestion FROM job_postings
		WHERE status = 'open' AND title LIKE ? COLLATE NOCASE
		UNION
		SELECT DISTINCT location FROM job_postings
		WHERE status = 'open' AND location != '' AND location LIKE ? COLLATE NOCASE
		ORDER BY suggestion
		LIMIT ?`, pattern, pattern, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var suggestions []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, rows.Err()
}

// SitemapEntry is one posting row for the sitemap feed.
type SitemapEntry struct {
	ID        int64
	Slug      string
	UpdatedAt time.Time
}

// ListSitemapEntries returns open, published postings for the sitemap.
func (q *Queries) ListSitemapEntries(ctx context.Context) ([]SitemapEntry, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, slug, updated_at FROM job_postings
		WHERE status = 'open'
		  AND (published_date IS NULL OR published_date <= ?)
		ORDER BY updated_at DESC`, time.Now())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []SitemapEntry
	for rows.Next() {
		var e SitemapEntry
		if err := rows.Scan(&e.ID, &e.Slug, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
