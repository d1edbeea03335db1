// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/careers-go/internal/mailer"
	"github.com/olegiv/careers-go/internal/service"
	"github.com/olegiv/careers-go/internal/util"
)

// AlertHandler serves the job alert subscription endpoints.
type AlertHandler struct {
	alerts *service.AlertService
}

// NewAlertHandler creates a new alert handler.
func NewAlertHandler(db *sql.DB, mail *mailer.Mailer, baseURL string) *AlertHandler {
	return &AlertHandler{alerts: service.NewAlertService(db, mail, baseURL)}
}

// SubscribeRequest is the alert subscription body.
type SubscribeRequest struct {
	Email            string   `json:"email"`
	Frequency        string   `json:"frequency"`
	Keywords         string   `json:"keywords"`
	CategoryIDs      []int64  `json:"category_ids"`
	JobTypes         []string `json:"job_types"`
	ExperienceLevels []string `json:"experience_levels"`
	Locations        []string `json:"locations"`
	SalaryMin        *int64   `json:"salary_min"`
	SalaryMax        *int64   `json:"salary_max"`
}

// Subscribe handles POST /api/v1/alerts.
func (h *AlertHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !emailRegex.MatchString(strings.TrimSpace(req.Email)) {
		WriteValidationError(w, map[string]string{"email": "a valid email address is required"})
		return
	}

	sub, err := h.alerts.Subscribe(r.Context(), service.SubscribeParams{
		Email:            req.Email,
		Frequency:        req.Frequency,
		Keywords:         req.Keywords,
		CategoryIDs:      req.CategoryIDs,
		JobTypes:         req.JobTypes,
		ExperienceLevels: req.ExperienceLevels,
		Locations:        req.Locations,
		SalaryMin:        util.NullInt64FromPtr(req.SalaryMin),
		SalaryMax:        util.NullInt64FromPtr(req.SalaryMax),
	})
	if err != nil {
		if errors.Is(err, service.ErrAlreadySubscribed) {
			WriteError(w, http.StatusConflict, "already_subscribed", err.Error(), nil)
			return
		}
		slog.Error("alert subscription failed", "error", err)
		WriteInternalError(w, "Failed to create subscription")
		return
	}

	WriteCreated(w, map[string]any{
		"email":     sub.Email,
		"frequency": sub.Frequency,
		"confirmed": sub.IsConfirmed,
	})
}

// Confirm handles GET /api/v1/alerts/confirm/{token}. Re-confirming an
// already confirmed subscription responds identically.
func (h *AlertHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	sub, _, err := h.alerts.Confirm(r.Context(), token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "subscription not found")
		} else {
			slog.Error("alert confirmation failed", "error", err)
			WriteInternalError(w, "Failed to confirm subscription")
		}
		return
	}

	WriteSuccess(w, map[string]any{
		"email":     sub.Email,
		"frequency": sub.Frequency,
		"confirmed": true,
	}, nil)
}

// Unsubscribe handles POST /api/v1/alerts/unsubscribe/{token}.
func (h *AlertHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.alerts.Unsubscribe(r.Context(), token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "subscription not found")
		} else {
			slog.Error("alert unsubscribe failed", "error", err)
			WriteInternalError(w, "Failed to unsubscribe")
		}
		return
	}

	WriteSuccess(w, map[string]any{"unsubscribed": true}, nil)
}
