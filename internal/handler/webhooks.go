// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/olegiv/careers-go/internal/service"
	"github.com/olegiv/careers-go/internal/webhook"
)

// maxWebhookBody caps inbound webhook payloads at 256 KiB.
const maxWebhookBody = 256 << 10

// WebhookHandler receives deliveries from the external job-board and
// calendar integrations.
type WebhookHandler struct {
	events  *service.EventService
	secrets map[string]string // provider name -> shared secret, empty disables verification
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(db *sql.DB, linkedInSecret, indeedSecret, calendarSecret string) *WebhookHandler {
	return &WebhookHandler{
		events: service.NewEventService(db),
		secrets: map[string]string{
			webhook.LinkedIn.Name: linkedInSecret,
			webhook.Indeed.Name:   indeedSecret,
			webhook.Calendar.Name: calendarSecret,
		},
	}
}

// Verify handles the GET challenge handshake: the token is echoed back
// verbatim as plain text.
func (h *WebhookHandler) Verify(provider webhook.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		challenge, ok := webhook.Challenge(r)
		if !ok {
			WriteBadRequest(w, "Missing challenge parameter", nil)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
	}
}

// Receive handles a POST delivery: verify the signature when a secret
// is configured, parse the JSON payload, persist a system event.
func (h *WebhookHandler) Receive(provider webhook.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			WriteBadRequest(w, "Failed to read payload", nil)
			return
		}

		if secret := h.secrets[provider.Name]; secret != "" {
			if !webhook.VerifySignature(secret, body, r.Header.Get(provider.SignatureHeader)) {
				slog.Warn("webhook signature mismatch", "provider", provider.Name, "ip", clientIP(r))
				WriteForbidden(w, "Invalid signature")
				return
			}
		}

		var value any
		if err := json.Unmarshal(body, &value); err != nil {
			WriteBadRequest(w, "Invalid JSON payload", nil)
			return
		}

		// Providers normally send objects, but any valid JSON value is
		// recorded; non-objects are wrapped so the metadata stays a map.
		payload, ok := value.(map[string]any)
		if !ok {
			payload = map[string]any{"raw": value}
		}

		eventType, _ := payload["event"].(string)
		if _, err := h.events.Append(r.Context(), service.EventParams{
			Kind:        provider.EventKind,
			Description: provider.Name + " webhook received",
			IPAddress:   clientIP(r),
			Metadata: map[string]any{
				"provider": provider.Name,
				"event":    eventType,
				"payload":  payload,
			},
		}); err != nil {
			slog.Error("failed to persist webhook event", "provider", provider.Name, "error", err)
			WriteInternalError(w, "Failed to record delivery")
			return
		}

		WriteSuccess(w, map[string]any{"received": true}, nil)
	}
}
