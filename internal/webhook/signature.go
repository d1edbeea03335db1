// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package webhook implements the inbound webhook contract shared by
// the external job-board and calendar integrations: HMAC-SHA256
// payload signatures and the GET challenge handshake.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// GenerateSignature computes the hex-encoded HMAC-SHA256 of payload
// under the shared secret.
func GenerateSignature(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a signature header against the payload.
// Providers send either a bare hex digest or an "algo=digest" pair;
// only the part after the last '=' is compared, in constant time.
func VerifySignature(secret string, payload []byte, header string) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if idx := strings.LastIndex(header, "="); idx >= 0 {
		header = header[idx+1:]
	}

	expected := GenerateSignature(secret, payload)
	return hmac.Equal([]byte(expected), []byte(header))
}
