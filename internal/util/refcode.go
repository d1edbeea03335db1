// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"

	"github.com/google/uuid"
)

// Reference code prefixes.
const (
	JobReferencePrefix         = "JA-"
	ApplicationReferencePrefix = "APP-"
)

// newReferenceSuffix returns 8 uppercase hex characters from a random UUID.
func newReferenceSuffix() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:8])
}

// NewJobReference generates a posting reference ID, e.g. "JA-1B9F02AC".
func NewJobReference() string {
	return JobReferencePrefix + newReferenceSuffix()
}

// NewApplicationReference generates an application reference code,
// e.g. "APP-0E47C1D3".
func NewApplicationReference() string {
	return ApplicationReferencePrefix + newReferenceSuffix()
}

// NewConfirmationToken generates an alert confirmation token.
func NewConfirmationToken() string {
	return uuid.NewString()
}
