// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/careers-go/internal/model"
	"github.com/olegiv/careers-go/internal/store"
)

// SavedJobHandler serves posting bookmarks keyed by email address.
type SavedJobHandler struct {
	queries *store.Queries
}

// NewSavedJobHandler creates a new saved-job handler.
func NewSavedJobHandler(db *sql.DB) *SavedJobHandler {
	return &SavedJobHandler{queries: store.New(db)}
}

// SaveJobRequest is the bookmark body.
type SaveJobRequest struct {
	JobID int64  `json:"job_id"`
	Email string `json:"email"`
	Note  string `json:"note"`
}

// Create handles POST /api/v1/saved-jobs. Saving an already saved
// posting responds with the existing bookmark semantics: 409.
func (h *SavedJobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SaveJobRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	errs := make(map[string]string)
	if req.JobID <= 0 {
		errs["job_id"] = "job_id is required"
	}
	if !emailRegex.MatchString(strings.TrimSpace(req.Email)) {
		errs["email"] = "a valid email address is required"
	}
	if len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	saved, err := h.queries.CreateSavedJob(r.Context(), store.CreateSavedJobParams{
		JobID: req.JobID,
		Email: strings.TrimSpace(req.Email),
		Note:  req.Note,
	})
	if err != nil {
		switch {
		case store.IsUniqueViolation(err):
			WriteError(w, http.StatusConflict, "already_saved", "This posting is already saved for this email", nil)
		case store.IsForeignKeyViolation(err):
			WriteNotFound(w, "posting not found")
		default:
			slog.Error("saving posting failed", "error", err)
			WriteInternalError(w, "Failed to save posting")
		}
		return
	}

	WriteCreated(w, saved)
}

// List handles GET /api/v1/saved-jobs?email=...
func (h *SavedJobHandler) List(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if !emailRegex.MatchString(email) {
		WriteBadRequest(w, "A valid email query parameter is required", nil)
		return
	}

	saved, err := h.queries.ListSavedJobsByEmail(r.Context(), email)
	if err != nil {
		slog.Error("listing saved postings failed", "error", err)
		WriteInternalError(w, "Failed to list saved postings")
		return
	}
	if saved == nil {
		saved = []model.SavedJob{}
	}
	WriteSuccess(w, saved, nil)
}

// Delete handles DELETE /api/v1/saved-jobs/{id}?email=... where {id} is
// the posting ID.
func (h *SavedJobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	jobID, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid posting ID", nil)
		return
	}
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		WriteBadRequest(w, "An email query parameter is required", nil)
		return
	}

	if err := h.queries.DeleteSavedJob(r.Context(), store.DeleteSavedJobParams{
		JobID: jobID,
		Email: email,
	}); err != nil {
		slog.Error("deleting saved posting failed", "error", err)
		WriteInternalError(w, "Failed to delete saved posting")
		return
	}
	WriteSuccess(w, map[string]any{"deleted": true}, nil)
}
