// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Alert delivery frequencies.
const (
	FrequencyImmediate = "immediate"
	FrequencyDaily     = "daily"
	FrequencyWeekly    = "weekly"
	FrequencyBiweekly  = "biweekly"
)

var alertFrequencies = map[string]bool{
	FrequencyImmediate: true,
	FrequencyDaily:     true,
	FrequencyWeekly:    true,
	FrequencyBiweekly:  true,
}

// IsValidAlertFrequency reports whether s is a known frequency.
func IsValidAlertFrequency(s string) bool { return alertFrequencies[s] }

// AlertSubscription stores a saved search profile for email digests.
// Confirmation is a one-time token check; the confirmed flag never
// flips back.
type AlertSubscription struct {
	ID                int64
	Email             string
	ConfirmationToken string
	IsConfirmed       bool
	IsActive          bool
	Frequency         string
	Keywords          string
	CategoryIDs       string // comma-separated posting category IDs
	JobTypes          string // comma-separated employment types
	ExperienceLevels  string // comma-separated experience levels
	Locations         string // comma-separated location substrings
	SalaryMin         sql.NullInt64
	SalaryMax         sql.NullInt64
	LastSentAt        sql.NullTime
	ConfirmedAt       sql.NullTime
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
