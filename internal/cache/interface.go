// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides an advisory read-through cache for aggregate
// views (featured postings, category counts, board stats). Entries are
// always recomputable from the store; the cache is never a source of
// truth.
package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors.
var (
	// ErrCacheMiss is returned when a key is not found or expired.
	ErrCacheMiss = errors.New("cache: key not found")
	// ErrCacheClosed is returned after Close.
	ErrCacheClosed = errors.New("cache: closed")
)

// Cacher is the cache backend interface. Values are raw bytes; callers
// handle serialization.
type Cacher interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) (bool, error)
	Close() error
}

// CacheStats holds backend statistics.
type CacheStats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Sets    int64   `json:"sets"`
	Items   int     `json:"items"`
	HitRate float64 `json:"hit_rate"`
	Size    int64   `json:"size"`
}

// StatsProvider is implemented by backends that track statistics.
type StatsProvider interface {
	Stats() CacheStats
	ResetStats()
}
