package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVs(t *testing.T) {
	if !redactionOn() {
		t.Skip("redaction disabled via LOG_REDACTION_ENABLED")
	}

	out := sanitizeKVs([]interface{}{
		"survey_id", "s-1",
		"alert_email", "owner@example.com",
		"session_hash", "abc",
		"free_text", "my dentist was late",
		"dangling",
	})

	assert.Equal(t, "survey_id", out[0])
	assert.Equal(t, "s-1", out[1])
	assert.Equal(t, "[REDACTED]", out[3])
	assert.Contains(t, out[5], "hash:")
	assert.NotEqual(t, "abc", out[5])
	assert.Equal(t, "[REDACTED]", out[7])
	assert.Equal(t, "dangling", out[8])
}

func TestHashValueIsStable(t *testing.T) {
	assert.Equal(t, hashValue("abc"), hashValue("abc"))
	assert.Equal(t, "", hashValue(""))
	assert.Len(t, hashValue("abc"), len("hash:")+12)
}
