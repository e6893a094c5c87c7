package internal

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractVideoID normalizes a YouTube video ID or URL into a bare video ID.
// Input that isn't a recognizable YouTube URL is returned trimmed, as-is.
func ExtractVideoID(arg string) string {
	arg = strings.TrimSpace(arg)
	if !strings.HasPrefix(arg, "http://") && !strings.HasPrefix(arg, "https://") {
		return arg
	}

	id, err := getVideoID(arg)
	if err != nil {
		return arg
	}
	return id
}

// getVideoID extracts the video ID from watch, short, embed and youtu.be URLs
func getVideoID(youtubeURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(youtubeURL))
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}

	switch u.Host {
	case "www.youtube.com", "youtube.com", "m.youtube.com", "music.youtube.com", "youtu.be":
	default:
		return "", fmt.Errorf("not a YouTube URL: %s", youtubeURL)
	}

	if v := u.Query().Get("v"); v != "" {
		return v, nil
	}

	if strings.Contains(u.Path, "/playlist") {
		return "", fmt.Errorf("this is a playlist URL, not a video URL: %s", youtubeURL)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if last := parts[len(parts)-1]; last != "" {
		return last, nil
	}

	return "", fmt.Errorf("could not extract video ID from URL: %s", youtubeURL)
}

// IsValidYouTubeID checks if a string looks like a valid YouTube video ID
func IsValidYouTubeID(id string) bool {
	return videoIDPattern.MatchString(id)
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// EnsureDirs creates directories if needed
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// CleanupSubtitleCache removes leftover subtitle downloads from the cache directory
func CleanupSubtitleCache(cacheDir string) error {
	files, err := filepath.Glob(filepath.Join(cacheDir, "*.srt"))
	if err != nil {
		return fmt.Errorf("listing cache directory: %w", err)
	}

	for _, file := range files {
		if err := os.Remove(file); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove cached subtitle %s: %v\n", file, err)
		}
	}
	return nil
}

// getTerminalWidth gets terminal width with fallback
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}

	if width > 10 {
		return width - 4
	}

	return width
}

// RenderMarkdown renders markdown content with glamour
func RenderMarkdown(content string) (string, error) {
	width := getTerminalWidth()
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.EnvColorProfile()),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	renderedContent, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return renderedContent, nil
}

// IsLikelyFilePath uses heuristics to determine if a string is likely a file path
func IsLikelyFilePath(s string) bool {
	if strings.Contains(s, "/") || strings.Contains(s, "\\") {
		return true
	}

	if strings.HasSuffix(s, ".tmpl") || strings.HasSuffix(s, ".md") ||
		strings.HasSuffix(s, ".txt") || strings.HasSuffix(s, ".template") {
		return true
	}

	// Templates contain actions; paths don't
	if strings.Contains(s, "{{") {
		return false
	}

	return !strings.Contains(s, " ") && !strings.Contains(s, "\n")
}
