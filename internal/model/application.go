// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Application statuses, ordered along the conventional hiring path.
const (
	AppStatusApplied         = "applied"
	AppStatusReviewed        = "reviewed"
	AppStatusShortlisted     = "shortlisted"
	AppStatusPhoneScreen     = "phone_screen"
	AppStatusAssessment      = "assessment"
	AppStatusInterview1      = "interview_1"
	AppStatusInterview2      = "interview_2"
	AppStatusInterview3      = "interview_3"
	AppStatusBackgroundCheck = "background_check"
	AppStatusOfferPending    = "offer_pending"
	AppStatusOfferExtended   = "offer_extended"
	AppStatusAccepted        = "accepted"

	// Side branches reachable from any state.
	AppStatusRejected  = "rejected"
	AppStatusWithdrawn = "withdrawn"
	AppStatusOnHold    = "on_hold"
)

// ApplicationStatusPath is the conventional forward progression. The
// lifecycle manager logs transitions but does not hard-enforce this
// order; recruiters may skip stages.
var ApplicationStatusPath = []string{
	AppStatusApplied,
	AppStatusReviewed,
	AppStatusShortlisted,
	AppStatusPhoneScreen,
	AppStatusAssessment,
	AppStatusInterview1,
	AppStatusInterview2,
	AppStatusInterview3,
	AppStatusBackgroundCheck,
	AppStatusOfferPending,
	AppStatusOfferExtended,
	AppStatusAccepted,
}

var applicationStatuses = map[string]bool{
	AppStatusApplied:         true,
	AppStatusReviewed:        true,
	AppStatusShortlisted:     true,
	AppStatusPhoneScreen:     true,
	AppStatusAssessment:      true,
	AppStatusInterview1:      true,
	AppStatusInterview2:      true,
	AppStatusInterview3:      true,
	AppStatusBackgroundCheck: true,
	AppStatusOfferPending:    true,
	AppStatusOfferExtended:   true,
	AppStatusAccepted:        true,
	AppStatusRejected:        true,
	AppStatusWithdrawn:       true,
	AppStatusOnHold:          true,
}

// terminalStatuses are conventionally final. Terminality is soft:
// further transitions are permitted and logged, not forbidden.
var terminalStatuses = map[string]bool{
	AppStatusAccepted:  true,
	AppStatusRejected:  true,
	AppStatusWithdrawn: true,
}

// IsValidApplicationStatus reports whether s is a known status.
func IsValidApplicationStatus(s string) bool { return applicationStatuses[s] }

// IsTerminalStatus reports whether s is conventionally terminal.
func IsTerminalStatus(s string) bool { return terminalStatuses[s] }

// Source channels for applications.
const (
	SourceWebsite  = "website"
	SourceLinkedIn = "linkedin"
	SourceIndeed   = "indeed"
	SourceReferral = "referral"
	SourceAgency   = "agency"
	SourceOther    = "other"
)

var sourceChannels = map[string]bool{
	SourceWebsite:  true,
	SourceLinkedIn: true,
	SourceIndeed:   true,
	SourceReferral: true,
	SourceAgency:   true,
	SourceOther:    true,
}

// IsValidSourceChannel reports whether s is a known source channel.
func IsValidSourceChannel(s string) bool { return sourceChannels[s] }

// Application is a candidate submission against a posting. Rows are
// never physically deleted; lifecycle is soft (status only).
type Application struct {
	ID                 int64
	ReferenceCode      string
	JobID              int64
	FirstName          string
	LastName           string
	Email              string
	Phone              string
	Address            string
	ExperienceYears    sql.NullInt64
	CurrentSalary      sql.NullInt64
	ExpectedSalary     sql.NullInt64
	ResumeRef          string
	CoverLetter        string
	Status             string
	StatusNotes        string
	StatusChangedAt    sql.NullTime
	Rating             int64
	SkillsMatch        int64
	Source             string
	ConsentContact     bool
	ConsentRetention   bool
	IPAddress          string
	Country            string
	UserAgent          string
	DeviceType         string
	UTMSource          string
	UTMMedium          string
	UTMCampaign        string
	TrackerAccessCount int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// FullName joins the applicant name fields.
func (a *Application) FullName() string {
	if a.FirstName == "" {
		return a.LastName
	}
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}
