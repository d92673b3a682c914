package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: "warn", Writer: &buf})
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown", "code", 7)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "code=7")
}

func TestNewDebugOverride(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: "error", Debug: true, Writer: &buf})
	require.NoError(t, err)

	l.Debug("details")
	assert.Contains(t, buf.String(), "details")
	assert.Equal(t, slog.LevelDebug, l.Level.Level())
}

func TestNewFansOutToFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "qk.log")

	l, err := New(Options{Writer: &buf, File: path})
	require.NoError(t, err)
	l.Info("opened url", "kind", "ssh")
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	assert.Contains(t, buf.String(), "opened url")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &record))
	assert.Equal(t, "opened url", record["msg"])
	assert.Equal(t, "ssh", record["kind"])
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}
