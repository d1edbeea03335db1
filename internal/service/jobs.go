// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/olegiv/careers-go/internal/model"
	"github.com/olegiv/careers-go/internal/store"
	"github.com/olegiv/careers-go/internal/util"
)

// JobService manages posting creation and lifecycle.
type JobService struct {
	db      *sql.DB
	queries *store.Queries
}

// NewJobService creates a new job service.
func NewJobService(db *sql.DB) *JobService {
	return &JobService{db: db, queries: store.New(db)}
}

// CreateJobParams is validated posting data from the admin API.
type CreateJobParams struct {
	Title               string
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
	Priority            string
	IsFeatured          bool
	VacancyCount        int64
	ApplicationDeadline sql.NullTime
}

// Create inserts a draft posting with a generated reference ID and a
// unique slug derived from the title.
func (s *JobService) Create(ctx context.Context, p CreateJobParams) (model.JobPosting, error) {
	slug, err := s.uniqueSlug(ctx, p.Title)
	if err != nil {
		return model.JobPosting{}, err
	}

	jobType := p.JobType
	if !model.IsValidJobType(jobType) {
		jobType = model.JobTypeFullTime
	}
	level := p.ExperienceLevel
	if !model.IsValidExperienceLevel(level) {
		level = model.ExperienceMid
	}
	priority := p.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}
	currency := p.SalaryCurrency
	if currency == "" {
		currency = "INR"
	}
	period := p.SalaryPeriod
	if period == "" {
		period = model.SalaryPeriodYearly
	}
	vacancies := p.VacancyCount
	if vacancies <= 0 {
		vacancies = 1
	}

	return s.queries.CreateJob(ctx, store.CreateJobParams{
		ReferenceID:         util.NewJobReference(),
		Title:               p.Title,
		Slug:                slug,
		CategoryID:          p.CategoryID,
		JobType:             jobType,
		ExperienceLevel:     level,
		Location:            p.Location,
		IsRemoteAllowed:     p.IsRemoteAllowed,
		ShortDescription:    p.ShortDescription,
		DetailedDescription: p.DetailedDescription,
		RequiredSkills:      p.RequiredSkills,
		PreferredSkills:     p.PreferredSkills,
		ToolsTechnologies:   p.ToolsTechnologies,
		SalaryMin:           p.SalaryMin,
		SalaryMax:           p.SalaryMax,
		SalaryCurrency:      currency,
		SalaryPeriod:        period,
		IsSalaryNegotiable:  p.IsSalaryNegotiable,
		ShowSalary:          p.ShowSalary,
		Status:              model.JobStatusDraft,
		Priority:            priority,
		IsFeatured:          p.IsFeatured,
		VacancyCount:        vacancies,
		ApplicationDeadline: p.ApplicationDeadline,
		PostedDate:          time.Now(),
	})
}

// Publish opens a posting, stamping the publish timestamp on the first
// call.
func (s *JobService) Publish(ctx context.Context, id int64) error {
	now := time.Now()
	return s.queries.UpdateJobStatus(ctx, store.UpdateJobStatusParams{
		ID:            id,
		Status:        model.JobStatusOpen,
		PublishedDate: sql.NullTime{Time: now, Valid: true},
		UpdatedAt:     now,
	})
}

// Close closes a posting, stamping the close timestamp.
func (s *JobService) Close(ctx context.Context, id int64) error {
	now := time.Now()
	return s.queries.UpdateJobStatus(ctx, store.UpdateJobStatusParams{
		ID:         id,
		Status:     model.JobStatusClosed,
		ClosedDate: sql.NullTime{Time: now, Valid: true},
		UpdatedAt:  now,
	})
}

// ViewJob loads a posting and bumps its view counter.
func (s *JobService) ViewJob(ctx context.Context, id int64) (model.JobPosting, error) {
	job, err := s.queries.GetJob(ctx, id)
	if err != nil {
		return model.JobPosting{}, err
	}
	if err := s.queries.IncrementJobViews(ctx, job.ID); err != nil {
		return model.JobPosting{}, fmt.Errorf("incrementing views: %w", err)
	}
	job.ViewsCount++
	return job, nil
}

// uniqueSlug slugifies the title, appending a numeric suffix on
// collision.
func (s *JobService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := util.Slugify(title)
	if base == "" {
		base = "job"
	}

	slug := base
	for i := 2; ; i++ {
		count, err := s.queries.CountJobsBySlug(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("checking slug: %w", err)
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
