// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache keys for aggregate views.
const (
	KeyFeaturedJobs   = "jobs:featured"
	KeyCategoryCounts = "jobs:category_counts"
	KeyBoardStats     = "jobs:stats"
)

// GetJSON fetches and unmarshals a cached value. The second return is
// false on miss or any decode failure; a corrupt entry counts as a
// miss so callers recompute from the store.
func GetJSON[T any](ctx context.Context, c Cacher, key string) (T, bool) {
	var zero T
	data, err := c.Get(ctx, key)
	if err != nil {
		return zero, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, false
	}
	return v, true
}

// SetJSON marshals and stores a value.
func SetJSON[T any](ctx context.Context, c Cacher, key string, v T, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
