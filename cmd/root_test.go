package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtzll/ytrag/internal"
)

func TestRootSelectorUsageErrors(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "out")
	config = &internal.Config{
		OutputDir:         outputDir,
		MaxVideos:         5,
		TranscriptBackend: internal.BackendInnertube,
	}

	var stderr bytes.Buffer
	rootCmd.SetErr(&stderr)
	rootCmd.SetOut(&stderr)
	t.Cleanup(func() {
		rootCmd.SetErr(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	// Flag values persist on rootCmd between executions, so the
	// no-selector case has to run first
	rootCmd.SetArgs([]string{})
	err := rootCmd.ExecuteContext(context.Background())
	require.ErrorIs(t, err, internal.ErrNoSelector)
	assert.Contains(t, stderr.String(), "Example usage:")
	assert.NoDirExists(t, outputDir)

	stderr.Reset()
	rootCmd.SetArgs([]string{"--search", "go", "--video", "abc123"})
	err = rootCmd.ExecuteContext(context.Background())
	require.ErrorIs(t, err, internal.ErrConflictingSelectors)
	assert.NotContains(t, stderr.String(), "Example usage:")
	assert.NoDirExists(t, outputDir)
}

func TestConfigFileFromArgs(t *testing.T) {
	assert.Equal(t, "a.toml", configFileFromArgs([]string{"--search", "x", "--config", "a.toml"}))
	assert.Equal(t, "b.toml", configFileFromArgs([]string{"--config=b.toml"}))
	assert.Equal(t, "", configFileFromArgs([]string{"--search", "x"}))
	assert.Equal(t, "", configFileFromArgs([]string{"--config"}))
}

func TestSetupClaudeDesktop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claude_desktop_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "globalShortcut": "Ctrl+Space",
  "mcpServers": {"other": {"command": "/bin/other", "args": ["serve"]}}
}`), 0644))

	require.NoError(t, setupClaudeDesktop(path, "/usr/local/bin/ytrag"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `"Ctrl+Space"`, string(raw["globalShortcut"]))

	var desktop ClaudeDesktopConfig
	require.NoError(t, json.Unmarshal(data, &desktop))
	require.Contains(t, desktop.MCPServers, "other")
	require.Contains(t, desktop.MCPServers, "ytrag")
	assert.Equal(t, "/usr/local/bin/ytrag", desktop.MCPServers["ytrag"].Command)
	assert.Equal(t, []string{"mcp"}, desktop.MCPServers["ytrag"].Args)
}

func TestSetupClaudeDesktop_MissingConfig(t *testing.T) {
	err := setupClaudeDesktop(filepath.Join(t.TempDir(), "missing.json"), "/bin/ytrag")
	assert.Error(t, err)
}

func TestResolveDocumentPath(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "Go_ the good parts.md")
	require.NoError(t, os.WriteFile(doc, []byte("# Go"), 0644))

	for _, arg := range []string{doc, "Go_ the good parts.md", "Go_ the good parts", "Go: the good parts"} {
		got, err := resolveDocumentPath(dir, arg)
		require.NoError(t, err, arg)
		assert.Equal(t, doc, got)
	}

	_, err := resolveDocumentPath(dir, "nothing here")
	assert.Error(t, err)
}
