// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command careers runs the careers and contact-form service: the
// public job board API, applicant intake, alert digests and the
// token-protected management API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/careers-go/internal/cache"
	"github.com/olegiv/careers-go/internal/config"
	"github.com/olegiv/careers-go/internal/geoip"
	"github.com/olegiv/careers-go/internal/handler"
	"github.com/olegiv/careers-go/internal/logging"
	"github.com/olegiv/careers-go/internal/mailer"
	"github.com/olegiv/careers-go/internal/scheduler"
	"github.com/olegiv/careers-go/internal/service"
	"github.com/olegiv/careers-go/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional; production sets real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := store.Migrate(db); err != nil {
		return err
	}

	logLevel := slog.LevelDebug
	if cfg.IsProduction() {
		logLevel = slog.LevelInfo
	}
	inner := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logging.NewEventLogHandler(inner, db))
	slog.SetDefault(logger)

	c, err := cache.New(cache.Options{
		Type:            cfg.CacheType,
		RedisURL:        cfg.CacheRedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheDefaultTTL,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: cfg.CacheCleanupInterval,
	})
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	geo := geoip.NewLookup()
	if cfg.GeoIPDBPath != "" {
		if err := geo.Init(cfg.GeoIPDBPath); err != nil {
			logger.Warn("GeoIP lookups disabled", "error", err)
		}
	}
	defer func() { _ = geo.Close() }()

	mail := mailer.New(mailer.Options{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if !cfg.MailEnabled() {
		logger.Info("SMTP not configured, email delivery disabled")
	}

	stats := service.NewStatsService(db, c)
	alerts := service.NewAlertService(db, mail, cfg.BaseURL)
	events := service.NewEventService(db)

	sched := scheduler.New(alerts, events, stats, geo, cfg.EventRetention, logger)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewRouter(cfg, db, c, mail, geo, stats),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.HTTPAddr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
