// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import "net/http"

// Pagination carries validated list paging parameters.
type Pagination struct {
	Page    int
	PerPage int
}

// Offset returns the SQL offset for the page.
func (p Pagination) Offset() int64 {
	return int64((p.Page - 1) * p.PerPage)
}

// Limit returns the SQL limit for the page.
func (p Pagination) Limit() int64 {
	return int64(p.PerPage)
}

// Meta builds response metadata for a total row count.
func (p Pagination) Meta(total int64) *Meta {
	pages := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	return &Meta{Total: total, Page: p.Page, PerPage: p.PerPage, Pages: pages}
}

// ParsePagination reads page/per_page query parameters, clamping
// per_page to [1, maxPerPage].
func ParsePagination(r *http.Request, defaultPerPage, maxPerPage int) Pagination {
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	perPage := queryInt(r, "per_page", defaultPerPage)
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return Pagination{Page: page, PerPage: perPage}
}
