// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"fmt"
	"time"
)

// Options selects and configures a cache backend.
type Options struct {
	// Type is "memory" or "redis".
	Type string
	// RedisURL is required when Type is "redis".
	RedisURL string
	// Prefix namespaces keys on shared backends.
	Prefix string
	// DefaultTTL is used when Set is called with ttl 0.
	DefaultTTL time.Duration
	// MaxSize bounds the memory backend entry count (0 = unlimited).
	MaxSize int
	// CleanupInterval is the memory backend sweep interval.
	CleanupInterval time.Duration
}

// New creates a Cacher for the configured backend type.
func New(opts Options) (Cacher, error) {
	switch opts.Type {
	case "", "memory":
		return NewMemoryCache(MemoryCacheOptions{
			DefaultTTL:      opts.DefaultTTL,
			MaxSize:         opts.MaxSize,
			CleanupInterval: opts.CleanupInterval,
		}), nil
	case "redis":
		return NewRedisCache(RedisCacheOptions{
			URL:        opts.RedisURL,
			Prefix:     opts.Prefix,
			DefaultTTL: opts.DefaultTTL,
		})
	default:
		return nil, fmt.Errorf("unknown cache type %q", opts.Type)
	}
}
