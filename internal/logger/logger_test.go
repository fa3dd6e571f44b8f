package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnonymize(t *testing.T) {
	in := "user_id=0190c6b2-7a1e-7c3d-9b2f-1a2b3c4d5e6f mail bob@example.com token eyJhbGciOiJIUzI1NiJ9.x.y"
	out := Anonymize(in)

	assert.NotContains(t, out, "bob@example.com")
	assert.NotContains(t, out, "eyJhbGci")
	assert.NotContains(t, out, "0190c6b2")
	assert.Contains(t, out, "user_id=[USER_ID]")
	assert.Contains(t, out, "[REDACTED_EMAIL]")
	assert.Contains(t, out, "[REDACTED_TOKEN]")
}

func TestLogger_WritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)

	l.Warn("media", "avatar lookup failed for alice@example.com", errors.New("permission denied"))

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, WarnLevel, entry.Level)
	assert.Equal(t, "media", entry.Module)
	assert.Equal(t, "avatar lookup failed for [REDACTED_EMAIL]", entry.Message)
	assert.Equal(t, "permission denied", entry.Error)
}

func TestAnonymize_Password(t *testing.T) {
	out := Anonymize("login failed password=hunter2 for user")
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "password=[REDACTED]")
}

func TestLogger_MinimumLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)
	l.SetLevel(ParseLevel("warn"))

	l.Debug("feed", "page built")
	l.Info("feed", "page served")
	assert.Zero(t, buf.Len())

	l.Error("feed", "page failed", errors.New("boom"))
	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, ErrorLevel, entry.Level)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, InfoLevel, ParseLevel(" info "))
	assert.Equal(t, ErrorLevel, ParseLevel("ERROR"))
	assert.Equal(t, DebugLevel, ParseLevel(""))
	assert.Equal(t, DebugLevel, ParseLevel("verbose"))
}
