// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the recurring background jobs: alert digests,
// event log pruning, GeoIP database reloads and aggregate cache warmup.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/careers-go/internal/geoip"
	"github.com/olegiv/careers-go/internal/model"
	"github.com/olegiv/careers-go/internal/service"
)

// Scheduler owns the cron runner and its job dependencies.
type Scheduler struct {
	cron           *cron.Cron
	alerts         *service.AlertService
	events         *service.EventService
	stats          *service.StatsService
	geo            *geoip.Lookup
	eventRetention time.Duration
	logger         *slog.Logger
}

// New creates a scheduler instance.
func New(alerts *service.AlertService, events *service.EventService, stats *service.StatsService, geo *geoip.Lookup, eventRetention time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:           cron.New(),
		alerts:         alerts,
		events:         events,
		stats:          stats,
		geo:            geo,
		eventRetention: eventRetention,
		logger:         logger,
	}
}

// Start registers all jobs and starts the cron runner.
func (s *Scheduler) Start() error {
	jobs := []struct {
		spec string
		name string
		fn   func()
	}{
		{"0 * * * *", "immediate digests", func() { s.sendDigests(model.FrequencyImmediate) }},
		{"0 8 * * *", "daily digests", func() { s.sendDigests(model.FrequencyDaily) }},
		{"0 8 * * 1", "weekly digests", func() { s.sendDigests(model.FrequencyWeekly) }},
		{"30 8 * * 1", "biweekly digests", func() { s.sendDigests(model.FrequencyBiweekly) }},
		{"0 3 * * *", "event log prune", s.pruneEvents},
		{"0 4 * * *", "geoip reload", s.reloadGeoIP},
		{"*/15 * * * *", "cache warmup", s.warmCache},
	}

	for _, job := range jobs {
		if _, err := s.cron.AddFunc(job.spec, job.fn); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) sendDigests(frequency string) {
	sent, err := s.alerts.SendDigests(context.Background(), frequency)
	if err != nil {
		s.logger.Error("failed to send alert digests", "frequency", frequency, "error", err)
		return
	}
	if sent > 0 {
		s.logger.Info("sent alert digests", "frequency", frequency, "count", sent)
	}
}

func (s *Scheduler) pruneEvents() {
	pruned, err := s.events.PruneSystemEvents(context.Background(), s.eventRetention)
	if err != nil {
		s.logger.Error("failed to prune system events", "error", err)
		return
	}
	if pruned > 0 {
		s.logger.Info("pruned system events", "count", pruned)
	}
}

func (s *Scheduler) reloadGeoIP() {
	if err := s.geo.Reload(); err != nil {
		s.logger.Warn("failed to reload GeoIP database", "error", err)
	}
}

func (s *Scheduler) warmCache() {
	s.stats.Warm(context.Background())
}
