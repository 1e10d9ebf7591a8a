// ABOUTME: Tests for the cobra command tree and config flag overrides
// ABOUTME: Runs docs and version commands against a temp config and SQLite store

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(t *testing.T) {
	t.Cleanup(func() {
		configPath, agentID, endpoint, logLevel = "", "", "", ""
	})
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "agent:\n  endpoint: \"http://127.0.0.1:1/agent/chat\"\n  agent_id: \"a\"\n" +
		"knowledge:\n  local_path: \"" + filepath.Join(dir, "kb.db") + "\"\n" +
		"logging:\n  level: \"error\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	resetFlags(t)
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "insight-chat dev\n", out)
}

func TestDocsCommands(t *testing.T) {
	resetFlags(t)
	cfgPath := writeTestConfig(t)
	doc := filepath.Join(t.TempDir(), "playbook.txt")
	require.NoError(t, os.WriteFile(doc, []byte("growth playbook"), 0644))

	out, err := execute(t, "--config", cfgPath, "docs", "upload", doc)
	require.NoError(t, err)
	assert.Equal(t, "playbook.txt: uploaded\n", out)

	out, err = execute(t, "--config", cfgPath, "docs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "playbook.txt")

	out, err = execute(t, "--config", cfgPath, "docs", "delete", "playbook.txt")
	require.NoError(t, err)
	assert.Equal(t, "deleted 1 document(s)\n", out)

	out, err = execute(t, "--config", cfgPath, "docs", "list")
	require.NoError(t, err)
	assert.Equal(t, "No documents uploaded yet.\n", out)
}

func TestDocsUploadRejectsType(t *testing.T) {
	resetFlags(t)
	cfgPath := writeTestConfig(t)
	img := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, os.WriteFile(img, []byte("png"), 0644))

	_, err := execute(t, "--config", cfgPath, "docs", "upload", img)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	resetFlags(t)
	configPath = writeTestConfig(t)
	agentID = "override-agent"
	endpoint = "https://agent.example.com/chat"
	logLevel = "debug"

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "override-agent", cfg.Agent.AgentID)
	assert.Equal(t, "https://agent.example.com/chat", cfg.Agent.Endpoint)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_InvalidOverride(t *testing.T) {
	resetFlags(t)
	configPath = writeTestConfig(t)
	endpoint = "not-a-url"

	_, err := loadConfig()
	require.Error(t, err)
}
