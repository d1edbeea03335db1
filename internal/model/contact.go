// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Property types accepted by the contact form.
const (
	PropertyResidential = "residential"
	PropertyCommercial  = "commercial"
	PropertyIndustrial  = "industrial"
	PropertyLand        = "land"
	PropertyOther       = "other"
)

var propertyTypes = map[string]bool{
	PropertyResidential: true,
	PropertyCommercial:  true,
	PropertyIndustrial:  true,
	PropertyLand:        true,
	PropertyOther:       true,
}

// IsValidPropertyType reports whether s is a known property type.
func IsValidPropertyType(s string) bool { return propertyTypes[s] }

// ContactSubmission is an inbound marketing-site inquiry.
type ContactSubmission struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PropertyType string
	Description  string
	IPAddress    string
	CreatedAt    time.Time
}
