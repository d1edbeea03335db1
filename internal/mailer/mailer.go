// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mailer delivers notification emails over SMTP. Delivery is
// always best-effort from the caller's point of view: Send reports
// failure as an error and callers log it without failing their primary
// operation.
package mailer

import (
	"errors"
	"fmt"
	"html"
	"mime"
	"net/smtp"
	"regexp"
	"strings"
)

// ErrDisabled is returned by Send when no SMTP host is configured.
var ErrDisabled = errors.New("mailer: delivery disabled")

// Message is one outbound email. TextBody is derived from HTMLBody
// when empty.
type Message struct {
	Subject  string
	HTMLBody string
	TextBody string
	To       []string
	ReplyTo  string
}

// Options configures the SMTP mailer.
type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends messages through a single SMTP endpoint.
type Mailer struct {
	opts    Options
	enabled bool
}

// New creates a mailer. An empty host disables delivery.
func New(opts Options) *Mailer {
	return &Mailer{
		opts:    opts,
		enabled: opts.Host != "",
	}
}

// Enabled reports whether delivery is configured.
func (m *Mailer) Enabled() bool { return m.enabled }

// Send delivers a message. Returns ErrDisabled when no SMTP host is
// configured so callers can distinguish "off" from "failed".
func (m *Mailer) Send(msg Message) error {
	if !m.enabled {
		return ErrDisabled
	}
	if len(msg.To) == 0 {
		return errors.New("mailer: no recipients")
	}

	if msg.TextBody == "" {
		msg.TextBody = StripTags(msg.HTMLBody)
	}

	addr := fmt.Sprintf("%s:%d", m.opts.Host, m.opts.Port)
	var auth smtp.Auth
	if m.opts.Username != "" {
		auth = smtp.PlainAuth("", m.opts.Username, m.opts.Password, m.opts.Host)
	}

	body := m.buildMIME(msg)
	if err := smtp.SendMail(addr, auth, m.opts.From, msg.To, body); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}

// buildMIME assembles a multipart/alternative message with plaintext
// and HTML parts.
func (m *Mailer) buildMIME(msg Message) []byte {
	const boundary = "mime-boundary-careers"

	var sb strings.Builder
	sb.WriteString("From: " + m.opts.From + "\r\n")
	sb.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	if msg.ReplyTo != "" {
		sb.WriteString("Reply-To: " + msg.ReplyTo + "\r\n")
	}
	sb.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: multipart/alternative; boundary=" + boundary + "\r\n")
	sb.WriteString("\r\n")

	sb.WriteString("--" + boundary + "\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(msg.TextBody)
	sb.WriteString("\r\n\r\n")

	sb.WriteString("--" + boundary + "\r\n")
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(msg.HTMLBody)
	sb.WriteString("\r\n\r\n")

	sb.WriteString("--" + boundary + "--\r\n")
	return []byte(sb.String())
}

var tagRegex = regexp.MustCompile(`<[^>]*>`)

// StripTags removes HTML tags and normalizes whitespace, producing the
// plaintext fallback body.
func StripTags(s string) string {
	s = tagRegex.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
