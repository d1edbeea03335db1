// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/careers-go/internal/model"
)

const applicationColumns = `id, reference_code, job_id, first_name, last_name, email, phone, address,
	experience_years, current_salary, expected_salary, resume_ref, cover_letter,
	status, status_notes, status_changed_at, rating, skills_match, source,
	consent_contact, consent_retention, ip_address, country, user_agent, device_type,
	utm_source, utm_medium, utm_campaign, tracker_access_count, created_at, updated_at`

func scanApplication(row interface{ Scan(...any) error }) (model.Application, error) {
	var a model.Application
	err := row.Scan(
		&a.ID, &a.ReferenceCode, &a.JobID, &a.FirstName, &a.LastName, &a.Email, &a.Phone, &a.Address,
		&a.ExperienceYears, &a.CurrentSalary, &a.ExpectedSalary, &a.ResumeRef, &a.CoverLetter,
		&a.Status, &a.StatusNotes, &a.StatusChangedAt, &a.Rating, &a.SkillsMatch, &a.Source,
		&a.ConsentContact, &a.ConsentRetention, &a.IPAddress, &a.Country, &a.UserAgent, &a.DeviceType,
		&a.UTMSource, &a.UTMMedium, &a.UTMCampaign, &a.TrackerAccessCount, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// CreateApplicationParams holds fields for CreateApplication.
type CreateApplicationParams struct {
	ReferenceCode    string
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
	Status           string
	SkillsMatch      int64
	Source           string
	ConsentContact   bool
	ConsentRetention bool
	IPAddress        string
	Country          string
	UserAgent        string
	DeviceType       string
	UTMSource        string
	UTMMedium        string
	UTMCampaign      string
}

// CreateApplication inserts an application and returns it.
func (q *Queries) CreateApplication(ctx context.Context, arg CreateApplicationParams) (model.Application, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO applications (
			reference_code, job_id, first_name, last_name, email, phone, address,
			experience_years, current_salary, expected_salary, resume_ref, cover_letter,
			status, skills_match, source, consent_contact, consent_retention,
			ip_address, country, user_agent, device_type, utm_source, utm_medium, utm_campaign
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+applicationColumns,
		arg.ReferenceCode, arg.JobID, arg.FirstName, arg.LastName, arg.Email, arg.Phone, arg.Address,
		arg.ExperienceYears, arg.CurrentSalary, arg.ExpectedSalary, arg.ResumeRef, arg.CoverLetter,
		arg.Status, arg.SkillsMatch, arg.Source, arg.ConsentContact, arg.ConsentRetention,
		arg.IPAddress, arg.Country, arg.UserAgent, arg.DeviceType, arg.UTMSource, arg.UTMMedium, arg.UTMCampaign,
	)
	return scanApplication(row)
}

// GetApplication returns an application by ID.
func (q *Queries) GetApplication(ctx context.Context, id int64) (model.Application, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)
	return scanApplication(row)
}

// GetApplicationByReference returns an application by reference code.
func (q *Queries) GetApplicationByReference(ctx context.Context, referenceCode string) (model.Application, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE reference_code = ?`, referenceCode)
	return scanApplication(row)
}

// CountApplicationsByJobAndEmailParams holds fields for the duplicate guard.
type CountApplicationsByJobAndEmailParams struct {
	JobID int64
	Email string
}

// CountApplicationsByJobAndEmail counts applications for the (job,
// email) pair, case-insensitive on email.
func (q *Queries) CountApplicationsByJobAndEmail(ctx context.Context, arg CountApplicationsByJobAndEmailParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE job_id = ? AND lower(email) = lower(?)`,
		arg.JobID, arg.Email).Scan(&count)
	return count, err
}

// UpdateApplicationStatusParams holds fields for UpdateApplicationStatus.
type UpdateApplicationStatusParams struct {
	ID              int64
	Status          string
	StatusNotes     string
	StatusChangedAt time.Time
	UpdatedAt       time.Time
}

// UpdateApplicationStatus stamps a status transition.
func (q *Queries) UpdateApplicationStatus(ctx context.Context, arg UpdateApplicationStatusParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE applications
		SET status = ?, status_notes = ?, status_changed_at = ?, updated_at = ?
		WHERE id = ?`,
		arg.Status, arg.StatusNotes, arg.StatusChangedAt, arg.UpdatedAt, arg.ID,
	)
	return err
}

// UpdateApplicationRatingParams holds fields for UpdateApplicationRating.
type UpdateApplicationRatingParams struct {
	ID        int64
	Rating    int64
	UpdatedAt time.Time
}

// UpdateApplicationRating sets the recruiter rating.
func (q *Queries) UpdateApplicationRating(ctx context.Context, arg UpdateApplicationRatingParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE applications SET rating = ?, updated_at = ? WHERE id = ?`,
		arg.Rating, arg.UpdatedAt, arg.ID,
	)
	return err
}

// IncrementTrackerAccess bumps the tracker access counter atomically.
func (q *Queries) IncrementTrackerAccess(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE applications SET tracker_access_count = tracker_access_count + 1 WHERE id = ?`, id)
	return err
}

// ListApplicationsByJobParams holds fields for ListApplicationsByJob.
type ListApplicationsByJobParams struct {
	JobID  int64
	Limit  int64
	Offset int64
}

// ListApplicationsByJob returns applications for a posting, newest first.
func (q *Queries) ListApplicationsByJob(ctx context.Context, arg ListApplicationsByJobParams) ([]model.Application, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE job_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, arg.JobID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var apps []model.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// StatusCount is one row of CountApplicationsByStatus.
type StatusCount struct {
	Status string
	Count  int64
}

// CountApplicationsByStatus returns the status breakdown for analytics.
func (q *Queries) CountApplicationsByStatus(ctx context.Context) ([]StatusCount, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM applications GROUP BY status ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var counts []StatusCount
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
