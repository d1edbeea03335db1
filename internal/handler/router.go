// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/careers-go/internal/cache"
	"github.com/olegiv/careers-go/internal/config"
	"github.com/olegiv/careers-go/internal/geoip"
	"github.com/olegiv/careers-go/internal/mailer"
	"github.com/olegiv/careers-go/internal/service"
	"github.com/olegiv/careers-go/internal/webhook"
)

// NewRouter wires the full HTTP surface.
func NewRouter(cfg *config.Config, db *sql.DB, c cache.Cacher, mail *mailer.Mailer, geo *geoip.Lookup, stats *service.StatsService) http.Handler {
	jobs := NewJobHandler(db, stats)
	applications := NewApplicationHandler(db, mail, geo, cfg.BaseURL, cfg.AdminEmail)
	alerts := NewAlertHandler(db, mail, cfg.BaseURL)
	savedJobs := NewSavedJobHandler(db)
	contact := NewContactHandler(db, mail, cfg.AdminEmail)
	webhooks := NewWebhookHandler(db, cfg.LinkedInWebhookSecret, cfg.IndeedWebhookSecret, cfg.CalendarWebhookSecret)
	admin := NewAdminHandler(db, mail, geo, stats, c, cfg.BaseURL, cfg.AdminEmail)

	submitLimit := RateLimit(cfg.SubmitRateLimit)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, map[string]any{"status": "ok"}, nil)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/careers", jobs.Home)
		r.Get("/jobs", jobs.List)
		r.Get("/jobs/{id}", jobs.Get)
		r.Get("/categories", jobs.Categories)
		r.Get("/search/suggestions", jobs.Suggestions)
		r.Get("/sitemap.json", jobs.Sitemap)

		r.With(submitLimit).Post("/applications", applications.Apply)
		r.With(submitLimit).Post("/applications/quick", applications.QuickApply)
		r.Get("/applications/track/{code}", applications.Track)
		r.With(submitLimit).Post("/applications/track/{code}/feedback", applications.Feedback)

		r.With(submitLimit).Post("/alerts", alerts.Subscribe)
		r.Get("/alerts/confirm/{token}", alerts.Confirm)
		r.Post("/alerts/unsubscribe/{token}", alerts.Unsubscribe)

		r.With(submitLimit).Post("/saved-jobs", savedJobs.Create)
		r.Get("/saved-jobs", savedJobs.List)
		r.Delete("/saved-jobs/{id}", savedJobs.Delete)

		r.With(submitLimit).Post("/contact", contact.Submit)

		r.Route("/webhooks", func(r chi.Router) {
			for path, provider := range map[string]webhook.Provider{
				"/linkedin": webhook.LinkedIn,
				"/indeed":   webhook.Indeed,
				"/calendar": webhook.Calendar,
			} {
				r.Get(path, webhooks.Verify(provider))
				r.Post(path, webhooks.Receive(provider))
			}
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuth(cfg.AdminToken))

			r.Get("/overview", admin.Overview)
			r.Get("/events", admin.RecentEvents)
			r.Get("/contacts", admin.ListContacts)
			r.Get("/cache", admin.CacheStats)

			r.Post("/jobs", admin.CreateJob)
			r.Post("/jobs/{id}/publish", admin.PublishJob)
			r.Post("/jobs/{id}/close", admin.CloseJob)
			r.Get("/jobs/{id}/applications", admin.ListApplications)

			r.Put("/applications/{id}/status", admin.UpdateApplicationStatus)
			r.Put("/applications/{id}/rating", admin.RateApplication)
			r.Get("/applications/{id}/events", admin.ApplicationEvents)

			r.Get("/categories", admin.ListCategories)
			r.Post("/categories", admin.CreateCategory)
			r.Put("/categories/{id}", admin.UpdateCategory)
			r.Delete("/categories/{id}", admin.DeleteCategory)
		})
	})

	return r
}
