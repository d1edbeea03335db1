package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Senior Go Engineer", "senior-go-engineer"},
		{"C++ / Systems  Developer!", "c-systems-developer"},
		{"  Données & Café  ", "donnees-cafe"},
		{"---", ""},
		{"already-a-slug", "already-a-slug"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("senior-go-engineer"))
	assert.False(t, IsValidSlug("Senior Engineer"))
	assert.False(t, IsValidSlug(""))
}

func TestReferenceFormats(t *testing.T) {
	job := NewJobReference()
	require.True(t, strings.HasPrefix(job, JobReferencePrefix))
	suffix := strings.TrimPrefix(job, JobReferencePrefix)
	assert.Len(t, suffix, 8)
	assert.Equal(t, strings.ToUpper(suffix), suffix)
	for _, c := range suffix {
		assert.Contains(t, "0123456789ABCDEF", string(c))
	}

	app := NewApplicationReference()
	assert.True(t, strings.HasPrefix(app, ApplicationReferencePrefix))
	assert.Len(t, strings.TrimPrefix(app, ApplicationReferencePrefix), 8)
}

func TestReferenceUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		ref := NewApplicationReference()
		assert.False(t, seen[ref], ref)
		seen[ref] = true
	}
}

func TestNullInt64FromPtr(t *testing.T) {
	v := int64(42)
	n := NullInt64FromPtr(&v)
	require.True(t, n.Valid)
	assert.EqualValues(t, 42, n.Int64)

	assert.False(t, NullInt64FromPtr(nil).Valid)
}
