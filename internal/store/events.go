// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/careers-go/internal/model"
)

const eventColumns = `id, application_id, kind, level, description, metadata, actor, ip_address, created_at`

func scanEvent(row interface{ Scan(...any) error }) (model.EventLogEntry, error) {
	var e model.EventLogEntry
	err := row.Scan(
		&e.ID, &e.ApplicationID, &e.Kind, &e.Level, &e.Description,
		&e.Metadata, &e.Actor, &e.IPAddress, &e.CreatedAt,
	)
	return e, err
}

// CreateEventParams holds fields for CreateEvent.
type CreateEventParams struct {
	ApplicationID sql.NullInt64
	Kind          string
	Level         string
	Description   string
	Metadata      string
	Actor         string
	IPAddress     string
	CreatedAt     time.Time
}

// CreateEvent appends an event log entry. The log is append-only:
// there is no update or single-row delete query.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (model.EventLogEntry, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO event_log (application_id, kind, level, description, metadata, actor, ip_address, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+eventColumns,
		arg.ApplicationID, arg.Kind, arg.Level, arg.Description,
		arg.Metadata, arg.Actor, arg.IPAddress, arg.CreatedAt,
	)
	return scanEvent(row)
}

// ListEventsByApplication returns an application's events in creation order.
func (q *Queries) ListEventsByApplication(ctx context.Context, applicationID int64) ([]model.EventLogEntry, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM event_log
		WHERE application_id = ?
		ORDER BY created_at, id`, applicationID)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

// ListRecentEventsParams holds fields for ListRecentEvents.
type ListRecentEventsParams struct {
	Limit  int64
	Offset int64
}

// ListRecentEvents returns the newest entries across the whole log.
func (q *Queries) ListRecentEvents(ctx context.Context, arg ListRecentEventsParams) ([]model.EventLogEntry, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM event_log
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

// CountEvents returns the total number of log entries.
func (q *Queries) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_log`).Scan(&count)
	return count, err
}

// DeleteOldSystemEvents prunes system-scoped entries (no owning
// application) older than the cutoff. Application-owned entries are
// never pruned; they leave the log only by cascade with their
// application.
func (q *Queries) DeleteOldSystemEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM event_log WHERE application_id IS NULL AND created_at < ?`, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func collectEvents(rows *sql.Rows) ([]model.EventLogEntry, error) {
	defer func() { _ = rows.Close() }()

	var events []model.EventLogEntry
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
