package internal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunManifest(t *testing.T) {
	videos := []VideoDescriptor{
		{ID: "b", Title: "B", HasTranscript: true},
		{ID: "a", Title: "A"},
	}
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	m := NewRunManifest(videos, at)
	assert.Equal(t, "2024-05-01T10:00:00Z", m.FetchedAt)
	assert.Equal(t, 2, m.VideoCount)
	require.Len(t, m.Videos, 2)
	assert.Equal(t, "b", m.Videos[0].ID)
	assert.Equal(t, "a", m.Videos[1].ID)

	// The manifest keeps its own copy
	videos[0].Title = "changed"
	assert.Equal(t, "B", m.Videos[0].Title)
}

func TestNewRunManifest_Empty(t *testing.T) {
	m := NewRunManifest(nil, time.Now())
	assert.Equal(t, 0, m.VideoCount)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"videos":[]`)
}

func TestWriteManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	videos := []VideoDescriptor{testVideo()}
	videos[0].HasTranscript = true

	path, err := WriteManifest(dir, NewRunManifest(videos, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ManifestFilename), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "2024-05-01T10:00:00Z", raw["fetched_at"])
	assert.EqualValues(t, 1, raw["video_count"])

	entries := raw["videos"].([]any)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	for _, key := range []string{"id", "title", "channel", "description", "published", "url", "has_transcript"} {
		assert.Contains(t, entry, key)
	}
	assert.Equal(t, true, entry["has_transcript"])

	loaded, err := LoadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.VideoCount)
	assert.Equal(t, videos[0], loaded.Videos[0])
}

func TestLoadManifest_Missing(t *testing.T) {
	_, err := LoadManifest(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
