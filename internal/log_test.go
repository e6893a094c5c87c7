package internal

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := WithComponent(NewLogger(LogConfig{Level: "info", Output: &buf}), "writer")

	logger.Debug().Msg("hidden")
	logger.Info().Str("video_id", "abc123").Msg("saved")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "saved", entry["message"])
	assert.Equal(t, "writer", entry["component"])
	assert.Equal(t, AppName, entry["service"])
	assert.Equal(t, "abc123", entry["video_id"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewLogger_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "loud", Output: &buf})

	logger.Debug().Msg("debug")
	logger.Info().Msg("info")
	assert.NotContains(t, buf.String(), `"debug"`)
	assert.Contains(t, buf.String(), `"info"`)
}

func TestMCPLogger(t *testing.T) {
	dir := t.TempDir()

	_, closeLog := MCPLogger(&Config{CacheDir: dir})
	require.NoError(t, closeLog())
	assert.False(t, FileExists(filepath.Join(dir, "mcp.log")))

	logger, closeLog := MCPLogger(&Config{CacheDir: dir, MCPLogEnabled: true, LogLevel: "info"})
	retrieverLogger := WithComponent(logger, "retriever")
	retrieverLogger.Info().Msg("tool called")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(filepath.Join(dir, "mcp.log"))
	require.NoError(t, err)
	line := string(data)
	assert.Contains(t, line, "tool called")
	assert.Contains(t, line, `"transport":"mcp"`)
	assert.Equal(t, 1, strings.Count(line, `"component"`))
	assert.Contains(t, line, `"component":"retriever"`)
}
