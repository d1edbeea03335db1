// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/olegiv/careers-go/internal/model"
)

const savedJobColumns = `id, job_id, email, note, created_at`

// CreateSavedJobParams holds fields for CreateSavedJob.
type CreateSavedJobParams struct {
	JobID int64
	Email string
	Note  string
}

// CreateSavedJob bookmarks a posting for an email address.
func (q *Queries) CreateSavedJob(ctx context.Context, arg CreateSavedJobParams) (model.SavedJob, error) {
	var s model.SavedJob
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO saved_jobs (job_id, email, note)
		VALUES (?, ?, ?)
		RETURNING `+savedJobColumns,
		arg.JobID, arg.Email, arg.Note,
	).Scan(&s.ID, &s.JobID, &s.Email, &s.Note, &s.CreatedAt)
	return s, err
}

// ListSavedJobsByEmail returns bookmarks for an email address,
// newest first.
func (q *Queries) ListSavedJobsByEmail(ctx context.Context, email string) ([]model.SavedJob, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+savedJobColumns+` FROM saved_jobs
		WHERE lower(email) = lower(?)
		ORDER BY created_at DESC, id DESC`, email)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var saved []model.SavedJob
	for rows.Next() {
		var s model.SavedJob
		if err := rows.Scan(&s.ID, &s.JobID, &s.Email, &s.Note, &s.CreatedAt); err != nil {
			return nil, err
		}
		saved = append(saved, s)
	}
	return saved, rows.Err()
}

// DeleteSavedJobParams holds fields for DeleteSavedJob.
type DeleteSavedJobParams struct {
	JobID int64
	Email string
}

// DeleteSavedJob removes a bookmark.
func (q *Queries) DeleteSavedJob(ctx context.Context, arg DeleteSavedJobParams) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM saved_jobs WHERE job_id = ? AND lower(email) = lower(?)`,
		arg.JobID, arg.Email)
	return err
}
