// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/careers-go/internal/model"
)

const alertColumns = `id, email, confirmation_token, is_confirmed, is_active, frequency,
	keywords, category_ids, job_types, experience_levels, locations,
	salary_min, salary_max, last_sent_at, confirmed_at, created_at, updated_at`

func scanAlert(row interface{ Scan(...any) error }) (model.AlertSubscription, error) {
	var a model.AlertSubscription
	err := row.Scan(
		&a.ID, &a.Email, &a.ConfirmationToken, &a.IsConfirmed, &a.IsActive, &a.Frequency,
		&a.Keywords, &a.CategoryIDs, &a.JobTypes, &a.ExperienceLevels, &a.Locations,
		&a.SalaryMin, &a.SalaryMax, &a.LastSentAt, &a.ConfirmedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// CreateAlertParams holds fields for CreateAlert.
type CreateAlertParams struct {
	Email             string
	ConfirmationToken string
	Frequency         string
	Keywords          string
	CategoryIDs       string
	JobTypes          string
	ExperienceLevels  string
	Locations         string
	SalaryMin         sql.NullInt64
	SalaryMax         sql.NullInt64
}

// CreateAlert inserts a subscription and returns it.
func (q *Queries) CreateAlert(ctx context.Context, arg CreateAlertParams) (model.AlertSubscription, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO alert_subscriptions (
			email, confirmation_token, frequency, keywords, category_ids,
			job_types, experience_levels, locations, salary_min, salary_max
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+alertColumns,
		arg.Email, arg.ConfirmationToken, arg.Frequency, arg.Keywords, arg.CategoryIDs,
		arg.JobTypes, arg.ExperienceLevels, arg.Locations, arg.SalaryMin, arg.SalaryMax,
	)
	return scanAlert(row)
}

// GetAlertByToken returns a subscription by its confirmation token.
func (q *Queries) GetAlertByToken(ctx context.Context, token string) (model.AlertSubscription, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+alertColumns+` FROM alert_subscriptions WHERE confirmation_token = ?`, token)
	return scanAlert(row)
}

// GetAlertByEmail returns a subscription by email, case-insensitive.
func (q *Queries) GetAlertByEmail(ctx context.Context, email string) (model.AlertSubscription, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+alertColumns+` FROM alert_subscriptions WHERE lower(email) = lower(?)`, email)
	return scanAlert(row)
}

// ConfirmAlertParams holds fields for ConfirmAlert.
type ConfirmAlertParams struct {
	ID          int64
	ConfirmedAt time.Time
}

// ConfirmAlert flips is_confirmed on. The flag never flips back; the
// WHERE guard makes a repeat confirm a zero-row no-op.
func (q *Queries) ConfirmAlert(ctx context.Context, arg ConfirmAlertParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE alert_subscriptions
		SET is_confirmed = 1, confirmed_at = ?, updated_at = ?
		WHERE id = ? AND is_confirmed = 0`,
		arg.ConfirmedAt, arg.ConfirmedAt, arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListConfirmedAlertsByFrequency returns active, confirmed
// subscriptions with the given delivery frequency.
func (q *Queries) ListConfirmedAlertsByFrequency(ctx context.Context, frequency string) ([]model.AlertSubscription, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+alertColumns+` FROM alert_subscriptions
		WHERE is_confirmed = 1 AND is_active = 1 AND frequency = ?
		ORDER BY id`, frequency)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var alerts []model.AlertSubscription
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// TouchAlertSent records a successful digest delivery.
func (q *Queries) TouchAlertSent(ctx context.Context, id int64, sentAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE alert_subscriptions SET last_sent_at = ?, updated_at = ? WHERE id = ?`,
		sentAt, sentAt, id)
	return err
}

// DeactivateAlert turns a subscription off without deleting it.
func (q *Queries) DeactivateAlert(ctx context.Context, id int64, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE alert_subscriptions SET is_active = 0, updated_at = ? WHERE id = ?`,
		updatedAt, id)
	return err
}
