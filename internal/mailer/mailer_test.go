package mailer

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/careers-go/internal/model"
)

func TestSendDisabled(t *testing.T) {
	m := New(Options{})
	assert.False(t, m.Enabled())

	err := m.Send(Message{Subject: "x", To: []string{"a@b.example"}})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestStripTags(t *testing.T) {
	got := StripTags("<p>Hello <strong>there</strong>,<br>line two &amp; more</p>")
	assert.Equal(t, "Hello there , line two & more", got)

	assert.Equal(t, "", StripTags(""))
	assert.Equal(t, "plain text", StripTags("plain text"))
}

func TestApplicationConfirmationContent(t *testing.T) {
	app := model.Application{
		ReferenceCode: "APP-0E47C1D3",
		FirstName:     "Priya",
		LastName:      "Sharma",
		Email:         "priya@example.com",
	}
	job := model.JobPosting{ID: 7, Title: "Senior Go Engineer", Slug: "senior-go-engineer"}

	msg := ApplicationConfirmation(app, job, "https://careers.example.com")

	require.Equal(t, []string{"priya@example.com"}, msg.To)
	assert.Contains(t, msg.Subject, "Senior Go Engineer")
	assert.Contains(t, msg.HTMLBody, "APP-0E47C1D3")
	assert.Contains(t, msg.HTMLBody, "https://careers.example.com/careers/application/track/APP-0E47C1D3")
}

func TestAdminNewApplicationReplyTo(t *testing.T) {
	app := model.Application{
		ReferenceCode: "APP-AAAA1111",
		FirstName:     "Ravi",
		Email:         "ravi@example.com",
	}
	job := model.JobPosting{Title: "Backend Developer"}

	msg := AdminNewApplication(app, job, "hr@example.com")

	assert.Equal(t, []string{"hr@example.com"}, msg.To)
	assert.Equal(t, "ravi@example.com", msg.ReplyTo)
}

func TestTemplatesEscapeUserInput(t *testing.T) {
	app := model.Application{
		ReferenceCode: "APP-BBBB2222",
		FirstName:     "<script>alert(1)</script>",
		Email:         "x@example.com",
	}
	job := model.JobPosting{Title: "QA Engineer"}

	msg := ApplicationConfirmation(app, job, "https://careers.example.com")
	assert.NotContains(t, msg.HTMLBody, "<script>")
}

func TestAlertDigestListsJobs(t *testing.T) {
	sub := model.AlertSubscription{
		Email:             "digest@example.com",
		ConfirmationToken: "tok-1",
		Frequency:         model.FrequencyWeekly,
	}
	jobs := []model.JobPosting{
		{ID: 1, Title: "Go Engineer", Slug: "go-engineer", ShortDescription: "Build **services**.",
			PublishedDate: sql.NullTime{Time: time.Now(), Valid: true}},
		{ID: 2, Title: "SRE", Slug: "sre"},
	}

	msg := AlertDigest(sub, jobs, "https://careers.example.com")

	assert.Equal(t, []string{"digest@example.com"}, msg.To)
	assert.Contains(t, msg.HTMLBody, "Go Engineer")
	assert.Contains(t, msg.HTMLBody, "https://careers.example.com/careers/jobs/1/go-engineer")
	assert.Contains(t, msg.HTMLBody, "https://careers.example.com/careers/jobs/2/sre")
	// Markdown in the short description renders to HTML.
	assert.Contains(t, msg.HTMLBody, "<strong>services</strong>")
}
