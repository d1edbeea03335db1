// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all service configuration.
type Config struct {
	// Environment is "development" or "production".
	Environment string `env:"CAREERS_ENV" envDefault:"development"`

	// HTTPAddr is the listen address for the HTTP server.
	HTTPAddr string `env:"CAREERS_HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the public URL of the service, used in email links.
	BaseURL string `env:"CAREERS_BASE_URL" envDefault:"http://localhost:8080"`

	// DBPath is the SQLite database file path.
	DBPath string `env:"CAREERS_DB_PATH" envDefault:"./data/careers.db"`

	// AdminToken authorizes the admin API routes. Required.
	AdminToken string `env:"CAREERS_ADMIN_TOKEN,required"`

	// Cache settings.
	CacheType            string        `env:"CAREERS_CACHE_TYPE" envDefault:"memory"`
	CacheRedisURL        string        `env:"CAREERS_CACHE_REDIS_URL"`
	CachePrefix          string        `env:"CAREERS_CACHE_PREFIX" envDefault:"careers:"`
	CacheDefaultTTL      time.Duration `env:"CAREERS_CACHE_TTL" envDefault:"15m"`
	CacheMaxSize         int           `env:"CAREERS_CACHE_MAX_SIZE" envDefault:"10000"`
	CacheCleanupInterval time.Duration `env:"CAREERS_CACHE_CLEANUP_INTERVAL" envDefault:"1m"`

	// SMTP settings for the notification mailer. Delivery is disabled
	// when SMTPHost is empty.
	SMTPHost     string `env:"CAREERS_SMTP_HOST"`
	SMTPPort     int    `env:"CAREERS_SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"CAREERS_SMTP_USERNAME"`
	SMTPPassword string `env:"CAREERS_SMTP_PASSWORD"`
	SMTPFrom     string `env:"CAREERS_SMTP_FROM" envDefault:"careers@localhost"`
	AdminEmail   string `env:"CAREERS_ADMIN_EMAIL" envDefault:"admin@localhost"`

	// Webhook shared secrets. Signature verification is skipped for a
	// provider whose secret is empty.
	LinkedInWebhookSecret string `env:"CAREERS_WEBHOOK_LINKEDIN_SECRET"`
	IndeedWebhookSecret   string `env:"CAREERS_WEBHOOK_INDEED_SECRET"`
	CalendarWebhookSecret string `env:"CAREERS_WEBHOOK_CALENDAR_SECRET"`

	// GeoIPDBPath points to a MaxMind GeoLite2-Country database.
	// Lookups are disabled when empty.
	GeoIPDBPath string `env:"CAREERS_GEOIP_DB"`

	// SubmitRateLimit is requests per minute per IP for submission
	// endpoints (applications, contact form, alerts).
	SubmitRateLimit int `env:"CAREERS_SUBMIT_RATE_LIMIT" envDefault:"10"`

	// EventRetention is how long system-scoped event log entries are
	// kept before the nightly prune.
	EventRetention time.Duration `env:"CAREERS_EVENT_RETENTION" envDefault:"2160h"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.CacheType != "memory" && cfg.CacheType != "redis" {
		return nil, fmt.Errorf("invalid cache type %q (want memory or redis)", cfg.CacheType)
	}
	if cfg.CacheType == "redis" && cfg.CacheRedisURL == "" {
		return nil, fmt.Errorf("CAREERS_CACHE_REDIS_URL is required when cache type is redis")
	}
	if len(cfg.AdminToken) < 16 {
		return nil, fmt.Errorf("CAREERS_ADMIN_TOKEN must be at least 16 characters")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// MailEnabled reports whether SMTP delivery is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}
