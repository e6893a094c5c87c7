package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// YTDLPSource fetches captions by running yt-dlp
type YTDLPSource struct {
	cacheDir string
	language string
	ui       UIManager
}

// NewYTDLPSource creates a yt-dlp backed caption source. Subtitle files are
// downloaded into cacheDir and removed once parsed.
func NewYTDLPSource(cacheDir, language string, ui UIManager) *YTDLPSource {
	return &YTDLPSource{
		cacheDir: cacheDir,
		language: language,
		ui:       ui,
	}
}

// InstallYTDLP makes sure a yt-dlp binary is available, downloading one if needed
func InstallYTDLP(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("installing yt-dlp: %w", err)
	}
	return nil
}

// captionInfo is the subset of yt-dlp's JSON output describing caption tracks
type captionInfo struct {
	Subtitles         map[string]json.RawMessage `json:"subtitles"`
	AutomaticCaptions map[string]json.RawMessage `json:"automatic_captions"`
}

// languages returns every caption language, manual tracks first
func (ci captionInfo) languages() []string {
	manual := sortedKeys(ci.Subtitles)
	auto := sortedKeys(ci.AutomaticCaptions)
	return append(manual, auto...)
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		// yt-dlp lists live chat replays as a subtitle track
		if k == "live_chat" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Segments implements TranscriptSource
func (s *YTDLPSource) Segments(ctx context.Context, videoID string) ([]string, error) {
	videoURL := VideoURL(videoID)

	s.ui.Verbose("Checking caption tracks for %s...\n", videoID)

	dl := ytdlp.New().
		DumpSingleJSON(). // Get all info in JSON format
		NoPlaylist().     // Don't process playlists
		SkipDownload()    // Don't download the actual video

	result, err := dl.Run(ctx, videoURL)
	if err != nil {
		if result != nil {
			s.ui.Verbose("Stderr: %s\n", result.Stderr)
		}
		return nil, fmt.Errorf("extracting video metadata: %w", err)
	}

	var info captionInfo
	if err := json.Unmarshal([]byte(result.Stdout), &info); err != nil {
		return nil, fmt.Errorf("parsing video metadata: %w", err)
	}

	lang, err := info.pick(s.language)
	if err != nil {
		return nil, err
	}

	path, err := s.downloadSubtitles(ctx, videoURL, videoID, lang)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			s.ui.Verbose("Warning: failed to remove subtitle file %s: %v\n", path, err)
		}
	}()

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading SRT file: %w", err)
	}
	return parseSRT(string(content)), nil
}

// pick classifies the available captions for the wanted language
func (ci captionInfo) pick(language string) (string, error) {
	available := ci.languages()
	if len(available) == 0 {
		return "", ErrTranscriptsDisabled
	}
	lang, ok := selectCaptionLanguage(available, language)
	if !ok {
		return "", fmt.Errorf("%w for language %q (available: %s)", ErrNoTranscript, language, strings.Join(available, ", "))
	}
	return lang, nil
}

// downloadSubtitles fetches one caption track as SRT and returns the file path
func (s *YTDLPSource) downloadSubtitles(ctx context.Context, videoURL, videoID, lang string) (string, error) {
	if err := EnsureDirs(s.cacheDir); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}

	outputPath := filepath.Join(s.cacheDir, "%(id)s")

	dl := ytdlp.New().
		WriteSubs().        // Enable subtitle writing
		WriteAutoSubs().    // Enable auto-generated subtitle writing
		SubLangs(lang).     // Only the selected track
		ConvertSubs("srt"). // Convert subtitles to SRT format
		SkipDownload().     // Skip downloading the video
		Output(outputPath)

	result, err := dl.Run(ctx, videoURL)
	if err != nil {
		if result != nil {
			s.ui.Verbose("Stderr: %s\n", result.Stderr)
		}
		return "", fmt.Errorf("downloading subtitles: %w", err)
	}

	pattern := filepath.Join(s.cacheDir, videoID+"*.srt")
	files, err := filepath.Glob(pattern)
	if err != nil || len(files) == 0 {
		return "", fmt.Errorf("%w: no subtitle file matched %s", ErrNoTranscript, pattern)
	}

	s.ui.Verbose("Found %d subtitle file(s): %v\n", len(files), files)
	return files[0], nil
}

// parseSRT extracts one segment per SRT cue, joining multi-line cues with a space
func parseSRT(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var segments []string
	for block := range strings.SplitSeq(content, "\n\n") {
		blockLines := strings.Split(strings.Trim(block, "\n"), "\n")
		if len(blockLines) < 3 {
			continue
		}

		// Skip sequence number and timestamp
		var text []string
		for _, line := range blockLines[2:] {
			if line = strings.TrimSpace(line); line != "" {
				text = append(text, line)
			}
		}
		if len(text) > 0 {
			segments = append(segments, strings.Join(text, " "))
		}
	}

	return segments
}
