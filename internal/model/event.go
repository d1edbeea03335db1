// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Event levels.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event kinds. Application-scoped kinds describe lifecycle actions;
// webhook kinds arrive from external integrations and carry no owning
// application.
const (
	EventKindStatusChange       = "status_change"
	EventKindDocumentUpload     = "document_upload"
	EventKindInterviewScheduled = "interview_scheduled"
	EventKindEmailSent          = "email_sent"
	EventKindNoteAdded          = "note_added"
	EventKindRatingChanged      = "rating_changed"
	EventKindViewed             = "viewed"
	EventKindFeedback           = "feedback"
	EventKindLinkedInWebhook    = "linkedin_webhook"
	EventKindIndeedWebhook      = "indeed_webhook"
	EventKindCalendarWebhook    = "calendar_webhook"
	EventKindSystem             = "system"
)

var eventKinds = map[string]bool{
	EventKindStatusChange:       true,
	EventKindDocumentUpload:     true,
	EventKindInterviewScheduled: true,
	EventKindEmailSent:          true,
	EventKindNoteAdded:          true,
	EventKindRatingChanged:      true,
	EventKindViewed:             true,
	EventKindFeedback:           true,
	EventKindLinkedInWebhook:    true,
	EventKindIndeedWebhook:      true,
	EventKindCalendarWebhook:    true,
	EventKindSystem:             true,
}

// IsValidEventKind reports whether s is a known event kind.
func IsValidEventKind(s string) bool { return eventKinds[s] }

// EventLogEntry is an append-only audit record. Entries are never
// mutated or deleted once written; application-owned entries are
// removed only by cascade with their application.
type EventLogEntry struct {
	ID            int64
	ApplicationID sql.NullInt64
	Kind          string
	Level         string
	Description   string
	Metadata      string // JSON object, "{}" when empty
	Actor         string
	IPAddress     string
	CreatedAt     time.Time
}
