// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/careers-go/internal/mailer"
	"github.com/olegiv/careers-go/internal/model"
	"github.com/olegiv/careers-go/internal/store"
)

var contactPolicy = bluemonday.StrictPolicy()

// ContactHandler serves the marketing-site contact form.
type ContactHandler struct {
	queries    *store.Queries
	mail       *mailer.Mailer
	adminEmail string
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(db *sql.DB, mail *mailer.Mailer, adminEmail string) *ContactHandler {
	return &ContactHandler{
		queries:    store.New(db),
		mail:       mail,
		adminEmail: adminEmail,
	}
}

// ContactRequest is the contact form body.
type ContactRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PropertyType string `json:"property_type"`
	Description  string `json:"description"`
}

func (req *ContactRequest) validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(req.FirstName) == "" {
		errs["first_name"] = "first name is required"
	}
	if strings.TrimSpace(req.LastName) == "" {
		errs["last_name"] = "last name is required"
	}
	if !emailRegex.MatchString(strings.TrimSpace(req.Email)) {
		errs["email"] = "a valid email address is required"
	}
	if !model.IsValidPropertyType(req.PropertyType) {
		errs["property_type"] = "unknown property type"
	}
	if strings.TrimSpace(req.Description) == "" {
		errs["description"] = "a description is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Submit handles POST /api/v1/contact.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); errs != nil {
		WriteValidationError(w, errs)
		return
	}

	sub, err := h.queries.CreateContact(r.Context(), store.CreateContactParams{
		FirstName:    contactPolicy.Sanitize(req.FirstName),
		LastName:     contactPolicy.Sanitize(req.LastName),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		PropertyType: req.PropertyType,
		Description:  contactPolicy.Sanitize(req.Description),
		IPAddress:    clientIP(r),
	})
	if err != nil {
		slog.Error("contact submission failed", "error", err)
		WriteInternalError(w, "Failed to submit inquiry")
		return
	}

	h.sendBestEffort(mailer.ContactAdmin(sub, h.adminEmail), "contact admin")
	h.sendBestEffort(mailer.ContactAck(sub), "contact acknowledgement")

	WriteCreated(w, map[string]any{
		"id":         sub.ID,
		"created_at": sub.CreatedAt,
	})
}

func (h *ContactHandler) sendBestEffort(msg mailer.Message, label string) {
	err := h.mail.Send(msg)
	if err != nil && !errors.Is(err, mailer.ErrDisabled) {
		slog.Warn("failed to send "+label+" email", "error", err)
	}
}
