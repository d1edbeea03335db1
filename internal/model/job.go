// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types and enums shared across the
// careers service: job postings, applications, the event log, alert
// subscriptions and contact submissions.
package model

import (
	"database/sql"
	"time"
)

// Job posting statuses.
const (
	JobStatusDraft    = "draft"
	JobStatusReview   = "review"
	JobStatusOpen     = "open"
	JobStatusPaused   = "paused"
	JobStatusClosed   = "closed"
	JobStatusArchived = "archived"
)

// Employment types.
const (
	JobTypeFullTime   = "full_time"
	JobTypePartTime   = "part_time"
	JobTypeContract   = "contract"
	JobTypeInternship = "internship"
	JobTypeRemote     = "remote"
	JobTypeHybrid     = "hybrid"
	JobTypeFreelance  = "freelance"
)

// Experience levels.
const (
	ExperienceIntern    = "intern"
	ExperienceEntry     = "entry"
	ExperienceMid       = "mid"
	ExperienceSenior    = "senior"
	ExperienceLead      = "lead"
	ExperienceExecutive = "executive"
)

// Posting priorities.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Salary periods.
const (
	SalaryPeriodYearly  = "yearly"
	SalaryPeriodMonthly = "monthly"
	SalaryPeriodHourly  = "hourly"
)

var jobStatuses = map[string]bool{
	JobStatusDraft:    true,
	JobStatusReview:   true,
	JobStatusOpen:     true,
	JobStatusPaused:   true,
	JobStatusClosed:   true,
	JobStatusArchived: true,
}

var jobTypes = map[string]bool{
	JobTypeFullTime:   true,
	JobTypePartTime:   true,
	JobTypeContract:   true,
	JobTypeInternship: true,
	JobTypeRemote:     true,
	JobTypeHybrid:     true,
	JobTypeFreelance:  true,
}

var experienceLevels = map[string]bool{
	ExperienceIntern:    true,
	ExperienceEntry:     true,
	ExperienceMid:       true,
	ExperienceSenior:    true,
	ExperienceLead:      true,
	ExperienceExecutive: true,
}

// IsValidJobStatus reports whether s is a known posting status.
func IsValidJobStatus(s string) bool { return jobStatuses[s] }

// IsValidJobType reports whether s is a known employment type.
func IsValidJobType(s string) bool { return jobTypes[s] }

// IsValidExperienceLevel reports whether s is a known experience level.
func IsValidExperienceLevel(s string) bool { return experienceLevels[s] }

// JobCategory groups postings. Deletion is restricted while postings
// reference the category.
type JobCategory struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	IsActive    bool
	SortOrder   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// JobPosting is a single job opening.
type JobPosting struct {
	ID                  int64
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
	ViewsCount          int64
	ApplicationsCount   int64
	PostedDate          time.Time
	PublishedDate       sql.NullTime
	ClosedDate          sql.NullTime
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsActive reports whether the posting accepts applications at the
// given instant: status open, deadline absent or in the future, and at
// least one vacancy remaining.
func (p *JobPosting) IsActive(now time.Time) bool {
	if p.Status != JobStatusOpen {
		return false
	}
	if p.ApplicationDeadline.Valid && p.ApplicationDeadline.Time.Before(now) {
		return false
	}
	return p.VacancyCount > 0
}

// ConversionRate returns applications/views as a percentage. Zero views
// yields zero rather than a division fault.
func (p *JobPosting) ConversionRate() float64 {
	return ConversionRate(p.ApplicationsCount, p.ViewsCount)
}

// ConversionRate computes applications/views*100, 0 when views is 0.
func ConversionRate(applications, views int64) float64 {
	if views <= 0 {
		return 0
	}
	return float64(applications) / float64(views) * 100
}

// SalaryBucket maps a named salary bracket to min/max constraints on
// the posting salary range. Zero-valued bounds impose no constraint.
type SalaryBucket struct {
	// MaxAtMost constrains salary_max <= MaxAtMost when > 0.
	MaxAtMost int64
	// MinAtLeast constrains salary_min >= MinAtLeast when > 0.
	MinAtLeast int64
}

// salaryBuckets is the fixed set of filterable salary brackets.
var salaryBuckets = map[string]SalaryBucket{
	"0-300000":        {MaxAtMost: 300000},
	"300000-600000":   {MinAtLeast: 300000, MaxAtMost: 600000},
	"600000-1200000":  {MinAtLeast: 600000, MaxAtMost: 1200000},
	"1200000-2400000": {MinAtLeast: 1200000, MaxAtMost: 2400000},
	"2400000+":        {MinAtLeast: 2400000},
}

// LookupSalaryBucket resolves a bracket name. Unknown names return
// ok=false and impose no constraint on the search.
func LookupSalaryBucket(name string) (SalaryBucket, bool) {
	b, ok := salaryBuckets[name]
	return b, ok
}

// SalaryBucketNames returns the known bracket names for UI listings.
func SalaryBucketNames() []string {
	return []string{
		"0-300000",
		"300000-600000",
		"600000-1200000",
		"1200000-2400000",
		"2400000+",
	}
}

// SavedJob bookmarks a posting for an email address.
type SavedJob struct {
	ID        int64
	JobID     int64
	Email     string
	Note      string
	CreatedAt time.Time
}
