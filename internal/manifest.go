package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
)

// ManifestFilename is reserved inside every output directory. Documents always
// end in DocumentExt, so a sanitized title can never produce this name.
const ManifestFilename = "_metadata.json"

// RunManifest is the per-run summary written next to the documents
type RunManifest struct {
	FetchedAt  string            `json:"fetched_at"`
	VideoCount int               `json:"video_count"`
	Videos     []VideoDescriptor `json:"videos"`
}

// NewRunManifest builds the manifest for the located videos, keeping their order
func NewRunManifest(videos []VideoDescriptor, fetchedAt time.Time) RunManifest {
	list := make([]VideoDescriptor, len(videos))
	copy(list, videos)
	return RunManifest{
		FetchedAt:  fetchedAt.Format(time.RFC3339),
		VideoCount: len(list),
		Videos:     list,
	}
}

// ManifestPath returns the manifest location for an output directory
func ManifestPath(outputDir string) string {
	return filepath.Join(outputDir, ManifestFilename)
}

// WriteManifest atomically writes the manifest into outputDir and returns its path
func WriteManifest(outputDir string, manifest RunManifest) (string, error) {
	if err := EnsureDirs(outputDir); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling manifest: %w", err)
	}

	path := ManifestPath(outputDir)
	if err := renameio.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("saving manifest: %w", err)
	}
	return path, nil
}

// LoadManifest reads the manifest of the last run in outputDir
func LoadManifest(outputDir string) (*RunManifest, error) {
	path := ManifestPath(outputDir)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var manifest RunManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &manifest, nil
}
