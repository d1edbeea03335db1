// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the business logic of the careers service:
// job search, application lifecycle, intake, alerts and aggregates.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/olegiv/careers-go/internal/model"
	"github.com/olegiv/careers-go/internal/store"
)

// EventService appends to and reads the append-only event log.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new event service.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{queries: store.New(db)}
}

// EventParams describes one entry to append.
type EventParams struct {
	// ApplicationID is nil for system-scoped entries (webhooks,
	// scheduler actions).
	ApplicationID *int64
	Kind          string
	Level         string
	Description   string
	Actor         string
	IPAddress     string
	Metadata      map[string]any
}

// Append writes one event log entry. Metadata is stored as a JSON
// object, "{}" when empty.
func (s *EventService) Append(ctx context.Context, p EventParams) (model.EventLogEntry, error) {
	metadata := "{}"
	if len(p.Metadata) > 0 {
		if data, err := json.Marshal(p.Metadata); err == nil {
			metadata = string(data)
		}
	}

	level := p.Level
	if level == "" {
		level = model.EventLevelInfo
	}

	var appID sql.NullInt64
	if p.ApplicationID != nil {
		appID = sql.NullInt64{Int64: *p.ApplicationID, Valid: true}
	}

	return s.queries.CreateEvent(ctx, store.CreateEventParams{
		ApplicationID: appID,
		Kind:          p.Kind,
		Level:         level,
		Description:   p.Description,
		Metadata:      metadata,
		Actor:         p.Actor,
		IPAddress:     p.IPAddress,
		CreatedAt:     time.Now(),
	})
}

// AppendSystem writes a system-scoped entry with no owning application.
func (s *EventService) AppendSystem(ctx context.Context, kind, description string, metadata map[string]any) (model.EventLogEntry, error) {
	return s.Append(ctx, EventParams{
		Kind:        kind,
		Description: description,
		Metadata:    metadata,
	})
}

// ListByApplication returns an application's entries in creation order.
func (s *EventService) ListByApplication(ctx context.Context, applicationID int64) ([]model.EventLogEntry, error) {
	return s.queries.ListEventsByApplication(ctx, applicationID)
}

// ListRecent returns the newest entries across the log.
func (s *EventService) ListRecent(ctx context.Context, limit, offset int64) ([]model.EventLogEntry, error) {
	return s.queries.ListRecentEvents(ctx, store.ListRecentEventsParams{Limit: limit, Offset: offset})
}

// PruneSystemEvents removes system-scoped entries older than the
// retention window. Application-owned entries are never pruned.
func (s *EventService) PruneSystemEvents(ctx context.Context, retention time.Duration) (int64, error) {
	return s.queries.DeleteOldSystemEvents(ctx, time.Now().Add(-retention))
}
