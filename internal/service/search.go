// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/olegiv/careers-go/internal/model"
	"github.com/olegiv/careers-go/internal/store"
)

// SearchPageSize is the fixed page size for job listings.
const SearchPageSize = 12

// Sort keys for job search.
const (
	SortNewest     = "newest"
	SortSalaryHigh = "salary_high"
	SortSalaryLow  = "salary_low"
	SortDeadline   = "deadline"
	SortRelevance  = "relevance"
)

// Filters is a user-supplied job search filter set. Zero values impose
// no constraint; invalid values degrade to no constraint rather than
// failing the search.
type Filters struct {
	Keyword          string
	Location         string
	JobTypes         []string
	ExperienceLevels []string
	CategoryIDs      []int64
	SalaryBucket     string
	PostedWithinDays int
	RemoteOnly       bool
	FeaturedOnly     bool
	Sort             string
	Page             int
}

// SearchResult is one page of postings.
type SearchResult struct {
	Jobs     []model.JobPosting
	Total    int64
	Page     int
	PerPage  int
	NumPages int
}

// SearchService translates filter sets into queries against the job
// posting store.
type SearchService struct {
	db      *sql.DB
	queries *store.Queries
}

// NewSearchService creates a new search service.
func NewSearchService(db *sql.DB) *SearchService {
	return &SearchService{db: db, queries: store.New(db)}
}

// keywordFields are the columns the free-text keyword matches against.
var keywordFields = []string{
	"title",
	"short_description",
	"detailed_description",
	"required_skills",
	"tools_technologies",
}

// buildPredicates returns the WHERE clauses and arguments for a filter
// set, always including the base visibility predicate.
func (s *SearchService) buildPredicates(f Filters, now time.Time) (clauses []string, args []any) {
	// Base visibility: open and published (a missing publish timestamp
	// counts as published).
	clauses = append(clauses,
		"status = 'open'",
		"(published_date IS NULL OR published_date <= ?)",
	)
	args = append(args, now)

	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		pattern := "%" + kw + "%"
		var ors []string
		for _, field := range keywordFields {
			ors = append(ors, field+" LIKE ? COLLATE NOCASE")
			args = append(args, pattern)
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}

	if loc := strings.TrimSpace(f.Location); loc != "" {
		// A location query mentioning "remote" means the remote flag,
		// not a city-name match.
		if strings.Contains(strings.ToLower(loc), "remote") {
			clauses = append(clauses, "is_remote_allowed = 1")
		} else {
			clauses = append(clauses, "location LIKE ? COLLATE NOCASE")
			args = append(args, "%"+loc+"%")
		}
	}

	if valid := validValues(f.JobTypes, model.IsValidJobType); len(valid) > 0 {
		clauses = append(clauses, inClause("job_type", len(valid)))
		for _, v := range valid {
			args = append(args, v)
		}
	}

	if valid := validValues(f.ExperienceLevels, model.IsValidExperienceLevel); len(valid) > 0 {
		clauses = append(clauses, inClause("experience_level", len(valid)))
		for _, v := range valid {
			args = append(args, v)
		}
	}

	if len(f.CategoryIDs) > 0 {
		clauses = append(clauses, inClause("category_id", len(f.CategoryIDs)))
		for _, id := range f.CategoryIDs {
			args = append(args, id)
		}
	}

	// Unknown bucket names impose no constraint.
	if bucket, ok := model.LookupSalaryBucket(f.SalaryBucket); ok {
		if bucket.MinAtLeast > 0 {
			clauses = append(clauses, "salary_min IS NOT NULL AND salary_min >= ?")
			args = append(args, bucket.MinAtLeast)
		}
		if bucket.MaxAtMost > 0 {
			clauses = append(clauses, "salary_max IS NOT NULL AND salary_max <= ?")
			args = append(args, bucket.MaxAtMost)
		}
	}

	if f.PostedWithinDays > 0 {
		cutoff := now.AddDate(0, 0, -f.PostedWithinDays)
		clauses = append(clauses, "posted_date >= ?")
		args = append(args, cutoff)
	}

	if f.RemoteOnly {
		clauses = append(clauses, "is_remote_allowed = 1")
	}
	if f.FeaturedOnly {
		clauses = append(clauses, "is_featured = 1")
	}

	return clauses, args
}

// orderClause resolves the sort key. All orderings carry a trailing id
// tie-break so pagination stays stable across pages.
func (s *SearchService) orderClause(f Filters) (string, []any) {
	switch f.Sort {
	case SortSalaryHigh:
		return "ORDER BY salary_max DESC, salary_min DESC, id DESC", nil
	case SortSalaryLow:
		return "ORDER BY salary_min ASC, salary_max ASC, id DESC", nil
	case SortDeadline:
		return "ORDER BY application_deadline ASC, id DESC", nil
	case SortRelevance:
		kw := strings.TrimSpace(f.Keyword)
		if kw == "" {
			return "ORDER BY posted_date DESC, id DESC", nil
		}
		// Relevance is the number of matched fields, recency breaks ties.
		pattern := "%" + kw + "%"
		var terms []string
		var args []any
		for _, field := range keywordFields {
			terms = append(terms, "("+field+" LIKE ? COLLATE NOCASE)")
			args = append(args, pattern)
		}
		return "ORDER BY (" + strings.Join(terms, " + ") + ") DESC, posted_date DESC, id DESC", args
	default:
		return "ORDER BY posted_date DESC, id DESC", nil
	}
}

// Search runs a filtered, ordered, paginated posting query.
func (s *SearchService) Search(ctx context.Context, f Filters) (SearchResult, error) {
	now := time.Now()
	clauses, args := s.buildPredicates(f, now)
	where := "WHERE " + strings.Join(clauses, " AND ")

	var total int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM job_postings "+where, args...).Scan(&total)
	if err != nil {
		return SearchResult{}, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	numPages := int((total + SearchPageSize - 1) / SearchPageSize)

	result := SearchResult{
		Page:     page,
		PerPage:  SearchPageSize,
		Total:    total,
		NumPages: numPages,
	}
	if total == 0 {
		return result, nil
	}

	order, orderArgs := s.orderClause(f)
	query := "SELECT " + store.JobColumns + " FROM job_postings " + where + " " + order + " LIMIT ? OFFSET ?"

	queryArgs := append(append(args, orderArgs...), SearchPageSize, (page-1)*SearchPageSize)
	rows, err := s.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return SearchResult{}, err
	}

	jobs, err := store.CollectJobs(rows)
	if err != nil {
		return SearchResult{}, err
	}
	result.Jobs = jobs
	return result, nil
}

// Suggest returns autocomplete suggestions for a search prefix.
func (s *SearchService) Suggest(ctx context.Context, prefix string, limit int64) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, nil
	}
	if limit <= 0 || limit > 20 {
		limit = 10
	}
	return s.queries.SearchSuggestions(ctx, store.SearchSuggestionsParams{
		Prefix: prefix,
		Limit:  limit,
	})
}

// validValues keeps only values the validator accepts.
func validValues(values []string, valid func(string) bool) []string {
	var out []string
	for _, v := range values {
		if valid(v) {
			out = append(out, v)
		}
	}
	return out
}

// inClause builds "col IN (?, ?, ...)" with n placeholders.
func inClause(col string, n int) string {
	return col + " IN (?" + strings.Repeat(", ?", n-1) + ")"
}
