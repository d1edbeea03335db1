// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/careers-go/internal/model"
)

const categoryColumns = `id, name, slug, description, is_active, sort_order, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (model.JobCategory, error) {
	var c model.JobCategory
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// CreateCategoryParams holds fields for CreateCategory.
type CreateCategoryParams struct {
	Name        string
	Slug        string
	Description string
	IsActive    bool
	SortOrder   int64
}

// CreateCategory inserts a job category and returns it.
func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (model.JobCategory, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO job_categories (name, slug, description, is_active, sort_order)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+categoryColumns,
		arg.Name, arg.Slug, arg.Description, arg.IsActive, arg.SortOrder,
	)
	return scanCategory(row)
}

// GetCategory returns a category by ID.
func (q *Queries) GetCategory(ctx context.Context, id int64) (model.JobCategory, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM job_categories WHERE id = ?`, id)
	return scanCategory(row)
}

// GetCategoryBySlug returns a category by slug.
func (q *Queries) GetCategoryBySlug(ctx context.Context, slug string) (model.JobCategory, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM job_categories WHERE slug = ?`, slug)
	return scanCategory(row)
}

// ListActiveCategories returns active categories in sort order.
func (q *Queries) ListActiveCategories(ctx context.Context) ([]model.JobCategory, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM job_categories
		 WHERE is_active = 1 ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var categories []model.JobCategory
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategoryParams holds fields for UpdateCategory.
type UpdateCategoryParams struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	IsActive    bool
	SortOrder   int64
	UpdatedAt   time.Time
}

// UpdateCategory updates a category.
func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE job_categories
		SET name = ?, slug = ?, description = ?, is_active = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`,
		arg.Name, arg.Slug, arg.Description, arg.IsActive, arg.SortOrder, arg.UpdatedAt, arg.ID,
	)
	return err
}

// DeleteCategory removes a category. Fails with a foreign key error
// while postings still reference it.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM job_categories WHERE id = ?`, id)
	return err
}

// CategoryJobCount is one row of CountOpenJobsByCategory.
type CategoryJobCount struct {
	CategoryID   int64
	CategoryName string
	CategorySlug string
	JobCount     int64
}

// CountOpenJobsByCategory returns open-posting counts per active category.
func (q *Queries) CountOpenJobsByCategory(ctx context.Context) ([]CategoryJobCount, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug, COUNT(p.id)
		FROM job_categories c
		LEFT JOIN job_postings p
		  ON p.category_id = c.id
		 AND p.status = 'open'
		 AND (p.published_date IS NULL OR p.published_date <= ?)
		WHERE c.is_active = 1
		GROUP BY c.id, c.name, c.slug
		ORDER BY c.sort_order, c.name`, time.Now())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var counts []CategoryJobCount
	for rows.Next() {
		var c CategoryJobCount
		if err := rows.Scan(&c.CategoryID, &c.CategoryName, &c.CategorySlug, &c.JobCount); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
