// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mailer

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/olegiv/careers-go/internal/model"
)

var markdown = goldmark.New()

// renderMarkdown converts Markdown job copy to HTML for email bodies.
// Falls back to the escaped source text on render failure.
func renderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return html.EscapeString(src)
	}
	return buf.String()
}

// ApplicationConfirmation builds the candidate confirmation email.
func ApplicationConfirmation(app model.Application, job model.JobPosting, baseURL string) Message {
	trackURL := fmt.Sprintf("%s/careers/application/track/%s", baseURL, app.ReferenceCode)
	htmlBody := fmt.Sprintf(`
<div style="font-family:Arial,sans-serif;max-width:600px;margin:auto;">
  <h2 style="color:#0f172a;">Hello %s,</h2>
  <p>We received your application for <strong>%s</strong>.</p>
  <p>Your reference code is <strong>%s</strong>. Keep it to track your
  application status:</p>
  <p><a href="%s">%s</a></p>
  <p style="color:#94a3b8;font-size:13px;">If this wasn't you, please ignore this email.</p>
</div>`,
		html.EscapeString(app.FirstName),
		html.EscapeString(job.Title),
		app.ReferenceCode,
		trackURL, trackURL,
	)
	return Message{
		Subject:  fmt.Sprintf("Application received: %s", job.Title),
		HTMLBody: htmlBody,
		To:       []string{app.Email},
	}
}

// AdminNewApplication builds the recruiter notification email.
func AdminNewApplication(app model.Application, job model.JobPosting, adminEmail string) Message {
	htmlBody := fmt.Sprintf(`
<div style="font-family:Arial,sans-serif;max-width:600px;margin:auto;">
  <h2 style="color:#0f172a;">New application: %s</h2>
  <p><strong>%s</strong> &lt;%s&gt; applied for <strong>%s</strong> (%s).</p>
  <p>Skills match: %d%% · Source: %s</p>
</div>`,
		app.ReferenceCode,
		html.EscapeString(app.FullName()),
		html.EscapeString(app.Email),
		html.EscapeString(job.Title),
		job.ReferenceID,
		app.SkillsMatch,
		html.EscapeString(app.Source),
	)
	return Message{
		Subject:  fmt.Sprintf("New application for %s", job.Title),
		HTMLBody: htmlBody,
		To:       []string{adminEmail},
		ReplyTo:  app.Email,
	}
}

// StatusUpdate builds the candidate status-change email.
func StatusUpdate(app model.Application, job model.JobPosting, oldStatus, newStatus string) Message {
	htmlBody := fmt.Sprintf(`
<div style="font-family:Arial,sans-serif;max-width:600px;margin:auto;">
  <h2 style="color:#0f172a;">Hello %s,</h2>
  <p>Your application <strong>%s</strong> for <strong>%s</strong> moved from
  <strong>%s</strong> to <strong>%s</strong>.</p>
</div>`,
		html.EscapeString(app.FirstName),
		app.ReferenceCode,
		html.EscapeString(job.Title),
		html.EscapeString(oldStatus),
		html.EscapeString(newStatus),
	)
	return Message{
		Subject:  fmt.Sprintf("Application update: %s", job.Title),
		HTMLBody: htmlBody,
		To:       []string{app.Email},
	}
}

// AlertDigest builds a job-alert digest email for the matched postings.
func AlertDigest(sub model.AlertSubscription, jobs []model.JobPosting, baseURL string) Message {
	var items strings.Builder
	for _, job := range jobs {
		jobURL := fmt.Sprintf("%s/careers/jobs/%d/%s", baseURL, job.ID, job.Slug)
		items.WriteString(fmt.Sprintf(`
  <div style="border:1px solid #e2e8f0;border-radius:8px;padding:15px;margin-bottom:10px;">
    <h3 style="margin:0;"><a href="%s">%s</a></h3>
    <p style="color:#64748b;margin:5px 0;">%s · %s · %s</p>
    <div>%s</div>
  </div>`,
			jobURL,
			html.EscapeString(job.Title),
			html.EscapeString(job.Location),
			html.EscapeString(job.JobType),
			html.EscapeString(job.ExperienceLevel),
			renderMarkdown(job.ShortDescription),
		))
	}

	htmlBody := fmt.Sprintf(`
<div style="font-family:Arial,sans-serif;max-width:600px;margin:auto;">
  <h2 style="color:#0f172a;">New openings matching your alert</h2>
  %s
</div>`, items.String())

	return Message{
		Subject:  fmt.Sprintf("%d new job(s) matching your alert", len(jobs)),
		HTMLBody: htmlBody,
		To:       []string{sub.Email},
	}
}

// AlertConfirmation builds the subscription confirmation email.
func AlertConfirmation(sub model.AlertSubscription, baseURL string) Message {
	confirmURL := fmt.Sprintf("%s/careers/alerts/confirm/%s", baseURL, sub.ConfirmationToken)
	htmlBody := fmt.Sprintf(`
<div style="font-family:Arial,sans-serif;max-width:600px;margin:auto;">
  <h2 style="color:#0f172a;">Confirm your job alert</h2>
  <p>Click below to start receiving %s job alerts:</p>
  <p><a href="%s">%s</a></p>
</div>`,
		html.EscapeString(sub.Frequency),
		confirmURL, confirmURL,
	)
	return Message{
		Subject:  "Confirm your job alert subscription",
		HTMLBody: htmlBody,
		To:       []string{sub.Email},
	}
}

// ContactAdmin builds the admin notification for a contact inquiry.
func ContactAdmin(sub model.ContactSubmission, adminEmail string) Message {
	htmlBody := fmt.Sprintf(`
<div style="font-family:Arial,sans-serif;max-width:600px;margin:auto;">
  <h2 style="color:#0f172a;">New property inquiry: %s %s</h2>
  <p><strong>Property type:</strong> %s</p>
  <p><strong>Phone:</strong> %s · <strong>Email:</strong> %s</p>
  <div style="background:#f8fafc;padding:15px;border-radius:8px;">%s</div>
</div>`,
		html.EscapeString(sub.FirstName),
		html.EscapeString(sub.LastName),
		html.EscapeString(sub.PropertyType),
		html.EscapeString(sub.Phone),
		html.EscapeString(sub.Email),
		html.EscapeString(sub.Description),
	)
	return Message{
		Subject:  fmt.Sprintf("New lead: %s", sub.FirstName),
		HTMLBody: htmlBody,
		To:       []string{adminEmail},
		ReplyTo:  sub.Email,
	}
}

// ContactAck builds the acknowledgement sent back to the inquirer.
func ContactAck(sub model.ContactSubmission) Message {
	htmlBody := fmt.Sprintf(`
<div style="font-family:Arial,sans-serif;max-width:600px;margin:auto;text-align:center;">
  <h2 style="color:#0f172a;">Hello %s,</h2>
  <p>We received your valuation request for <strong>%s</strong>.
  Our expert will contact you shortly at <strong>%s</strong>.</p>
  <p style="color:#94a3b8;font-size:13px;">If this wasn't you, please ignore this email.</p>
</div>`,
		html.EscapeString(sub.FirstName),
		html.EscapeString(sub.PropertyType),
		html.EscapeString(sub.Phone),
	)
	return Message{
		Subject:  fmt.Sprintf("Valuation confirmed: %s", sub.FirstName),
		HTMLBody: htmlBody,
		To:       []string{sub.Email},
	}
}
