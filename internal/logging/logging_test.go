// ABOUTME: Tests for logger construction and the colorized text handler
// ABOUTME: Disables color so output can be matched as plain text

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/insight-chat/internal/config"
)

func noColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNew_TextHandler(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	logger := New(config.LoggingConfig{Level: "info"}, &buf)

	logger.With("component", "dispatch").Info("agent replied", "conversation_id", "c-1")
	logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "INF agent replied component=dispatch conversation_id=c-1")
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestNew_TextHandlerLevels(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	logger := New(config.LoggingConfig{Level: "debug"}, &buf)

	logger.Debug("d")
	logger.Warn("w")
	logger.Error("e")

	out := buf.String()
	assert.Contains(t, out, "DBG d")
	assert.Contains(t, out, "WRN w")
	assert.Contains(t, out, "ERR e")
}

func TestNew_TextHandlerGroups(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	logger := New(config.LoggingConfig{}, &buf)

	logger.WithGroup("kb").Info("uploaded", "file_name", "a.txt", slog.Group("size", "bytes", 3))

	assert.Contains(t, buf.String(), "kb.file_name=a.txt kb.size.bytes=3")
}

func TestNew_JSONHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("skipped")
	logger.Warn("slow reply", "session_id", "sess-1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "slow reply", rec["msg"])
	assert.Equal(t, "sess-1", rec["session_id"])
}

func TestColorHandler_ConcurrentWritesDoNotInterleave(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	logger := New(config.LoggingConfig{}, &buf)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.With("worker", i).Info("tick")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 20)
	for _, l := range lines {
		assert.Contains(t, l, "INF tick worker=")
	}
}
