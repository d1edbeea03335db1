// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/olegiv/careers-go/internal/model"
)

const contactColumns = `id, first_name, last_name, email, phone, property_type, description, ip_address, created_at`

func scanContact(row interface{ Scan(...any) error }) (model.ContactSubmission, error) {
	var c model.ContactSubmission
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.PropertyType, &c.Description, &c.IPAddress, &c.CreatedAt,
	)
	return c, err
}

// CreateContactParams holds fields for CreateContact.
type CreateContactParams struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PropertyType string
	Description  string
	IPAddress    string
}

// CreateContact stores an inbound contact-form submission.
func (q *Queries) CreateContact(ctx context.Context, arg CreateContactParams) (model.ContactSubmission, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO contact_submissions (first_name, last_name, email, phone, property_type, description, ip_address)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+contactColumns,
		arg.FirstName, arg.LastName, arg.Email, arg.Phone,
		arg.PropertyType, arg.Description, arg.IPAddress,
	)
	return scanContact(row)
}

// ListContactsParams holds fields for ListContacts.
type ListContactsParams struct {
	Limit  int64
	Offset int64
}

// ListContacts returns submissions, newest first.
func (q *Queries) ListContacts(ctx context.Context, arg ListContactsParams) ([]model.ContactSubmission, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+contactColumns+` FROM contact_submissions
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var contacts []model.ContactSubmission
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// CountContacts returns the total number of submissions.
func (q *Queries) CountContacts(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_submissions`).Scan(&count)
	return count, err
}
