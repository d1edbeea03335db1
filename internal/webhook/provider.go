// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"net/http"

	"github.com/olegiv/careers-go/internal/model"
)

// Provider describes one inbound webhook integration: where its
// signature lives and which event-log kind its deliveries produce.
type Provider struct {
	Name            string
	SignatureHeader string
	EventKind       string
}

// Known providers.
var (
	LinkedIn = Provider{
		Name:            "linkedin",
		SignatureHeader: "X-LI-Signature",
		EventKind:       model.EventKindLinkedInWebhook,
	}
	Indeed = Provider{
		Name:            "indeed",
		SignatureHeader: "X-Hub-Signature",
		EventKind:       model.EventKindIndeedWebhook,
	}
	Calendar = Provider{
		Name:            "calendar",
		SignatureHeader: "X-Signature",
		EventKind:       model.EventKindCalendarWebhook,
	}
)

// Challenge extracts the verification handshake token from a GET
// request. Providers send it as either "challenge" or "hub.challenge";
// the handler must echo it back verbatim.
func Challenge(r *http.Request) (string, bool) {
	q := r.URL.Query()
	if v := q.Get("challenge"); v != "" {
		return v, true
	}
	if v := q.Get("hub.challenge"); v != "" {
		return v, true
	}
	return "", false
}
