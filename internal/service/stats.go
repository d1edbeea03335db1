// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/olegiv/careers-go/internal/cache"
	"github.com/olegiv/careers-go/internal/model"
	"github.com/olegiv/careers-go/internal/store"
)

// Cache expirations for aggregate views. Short by design: the store is
// the source of truth and stale entries are always recomputable.
const (
	featuredTTL = 10 * time.Minute
	countsTTL   = 15 * time.Minute
	statsTTL    = 5 * time.Minute
)

// StatsService serves read-heavy aggregate views through the advisory
// cache.
type StatsService struct {
	queries *store.Queries
	cache   cache.Cacher
}

// NewStatsService creates a new stats service.
func NewStatsService(db *sql.DB, c cache.Cacher) *StatsService {
	return &StatsService{queries: store.New(db), cache: c}
}

// FeaturedJobs returns featured open postings, cached.
func (s *StatsService) FeaturedJobs(ctx context.Context, limit int64) ([]model.JobPosting, error) {
	if jobs, ok := cache.GetJSON[[]model.JobPosting](ctx, s.cache, cache.KeyFeaturedJobs); ok {
		return jobs, nil
	}

	jobs, err := s.queries.ListFeaturedJobs(ctx, limit)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, s.cache, cache.KeyFeaturedJobs, jobs, featuredTTL); err != nil {
		slog.Warn("failed to cache featured postings", "error", err)
	}
	return jobs, nil
}

// CategoryCounts returns open-posting counts per category, cached.
func (s *StatsService) CategoryCounts(ctx context.Context) ([]store.CategoryJobCount, error) {
	if counts, ok := cache.GetJSON[[]store.CategoryJobCount](ctx, s.cache, cache.KeyCategoryCounts); ok {
		return counts, nil
	}

	counts, err := s.queries.CountOpenJobsByCategory(ctx)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, s.cache, cache.KeyCategoryCounts, counts, countsTTL); err != nil {
		slog.Warn("failed to cache category counts", "error", err)
	}
	return counts, nil
}

// BoardStats returns board-wide aggregates, cached.
func (s *StatsService) BoardStats(ctx context.Context) (store.JobStats, error) {
	if stats, ok := cache.GetJSON[store.JobStats](ctx, s.cache, cache.KeyBoardStats); ok {
		return stats, nil
	}

	stats, err := s.queries.GetJobStats(ctx)
	if err != nil {
		return store.JobStats{}, err
	}
	if err := cache.SetJSON(ctx, s.cache, cache.KeyBoardStats, stats, statsTTL); err != nil {
		slog.Warn("failed to cache board stats", "error", err)
	}
	return stats, nil
}

// Warm refreshes the aggregate cache entries from the store.
func (s *StatsService) Warm(ctx context.Context) {
	for _, key := range []string{cache.KeyFeaturedJobs, cache.KeyCategoryCounts, cache.KeyBoardStats} {
		if err := s.cache.Delete(ctx, key); err != nil {
			slog.Warn("failed to evict cache entry", "key", key, "error", err)
		}
	}
	if _, err := s.FeaturedJobs(ctx, 6); err != nil {
		slog.Warn("failed to warm featured postings", "error", err)
	}
	if _, err := s.CategoryCounts(ctx); err != nil {
		slog.Warn("failed to warm category counts", "error", err)
	}
	if _, err := s.BoardStats(ctx); err != nil {
		slog.Warn("failed to warm board stats", "error", err)
	}
}
