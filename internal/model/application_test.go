package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplicationStatusValidity(t *testing.T) {
	for _, status := range ApplicationStatusPath {
		assert.True(t, IsValidApplicationStatus(status), status)
	}
	for _, status := range []string{AppStatusRejected, AppStatusWithdrawn, AppStatusOnHold} {
		assert.True(t, IsValidApplicationStatus(status), status)
	}
	assert.False(t, IsValidApplicationStatus("hired"))
	assert.False(t, IsValidApplicationStatus(""))
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, IsTerminalStatus(AppStatusAccepted))
	assert.True(t, IsTerminalStatus(AppStatusRejected))
	assert.True(t, IsTerminalStatus(AppStatusWithdrawn))

	// On hold is a parking state, not terminal.
	assert.False(t, IsTerminalStatus(AppStatusOnHold))
	assert.False(t, IsTerminalStatus(AppStatusApplied))
	assert.False(t, IsTerminalStatus(AppStatusOfferExtended))
}

func TestStatusPathEndsAtAccepted(t *testing.T) {
	assert.Equal(t, AppStatusApplied, ApplicationStatusPath[0])
	assert.Equal(t, AppStatusAccepted, ApplicationStatusPath[len(ApplicationStatusPath)-1])
}

func TestFullName(t *testing.T) {
	a := Application{FirstName: "Priya", LastName: "Sharma"}
	assert.Equal(t, "Priya Sharma", a.FullName())

	a = Application{FirstName: "Priya"}
	assert.Equal(t, "Priya", a.FullName())

	a = Application{LastName: "Sharma"}
	assert.Equal(t, "Sharma", a.FullName())
}

func TestSourceChannels(t *testing.T) {
	assert.True(t, IsValidSourceChannel(SourceWebsite))
	assert.True(t, IsValidSourceChannel(SourceLinkedIn))
	assert.False(t, IsValidSourceChannel("twitter"))
}
