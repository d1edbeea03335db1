package webhook

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignature(t *testing.T) {
	secret := "shared-secret"
	payload := []byte(`{"event":"job.application"}`)
	sig := GenerateSignature(secret, payload)

	t.Run("bare hex digest", func(t *testing.T) {
		assert.True(t, VerifySignature(secret, payload, sig))
	})

	t.Run("algo prefixed", func(t *testing.T) {
		assert.True(t, VerifySignature(secret, payload, "sha256="+sig))
	})

	t.Run("wrong secret", func(t *testing.T) {
		assert.False(t, VerifySignature("other-secret", payload, sig))
	})

	t.Run("tampered payload", func(t *testing.T) {
		assert.False(t, VerifySignature(secret, []byte(`{"event":"evil"}`), sig))
	})

	t.Run("empty header", func(t *testing.T) {
		assert.False(t, VerifySignature(secret, payload, ""))
		assert.False(t, VerifySignature(secret, payload, "   "))
	})

	t.Run("only part after last equals is compared", func(t *testing.T) {
		assert.True(t, VerifySignature(secret, payload, "a=b="+sig))
	})
}

func TestChallenge(t *testing.T) {
	r := httptest.NewRequest("GET", "/webhooks/linkedin?challenge=abc123", nil)
	got, ok := Challenge(r)
	require.True(t, ok)
	assert.Equal(t, "abc123", got)

	r = httptest.NewRequest("GET", "/webhooks/indeed?hub.challenge=xyz", nil)
	got, ok = Challenge(r)
	require.True(t, ok)
	assert.Equal(t, "xyz", got)

	r = httptest.NewRequest("GET", "/webhooks/indeed", nil)
	_, ok = Challenge(r)
	assert.False(t, ok)
}

func TestProviderTable(t *testing.T) {
	assert.Equal(t, "X-LI-Signature", LinkedIn.SignatureHeader)
	assert.Equal(t, "X-Hub-Signature", Indeed.SignatureHeader)
	assert.Equal(t, "X-Signature", Calendar.SignatureHeader)
}
