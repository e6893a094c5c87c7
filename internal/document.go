package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
)

const (
	// MaxFilenameRunes bounds the sanitized title before the extension
	MaxFilenameRunes = 80
	// DocumentExt is appended to every sanitized title
	DocumentExt = ".md"
)

// DocumentData for template injection
type DocumentData struct {
	VideoID     string
	Title       string
	Channel     string
	URL         string
	Published   string
	Description string
	Transcript  string
}

// DocumentTemplate renders transcript documents
type DocumentTemplate struct {
	tmpl *template.Template
}

// DocumentTemplateFilename is the template looked up in the config directory
const DocumentTemplateFilename = "document.tmpl"

// NewDocumentTemplate parses the document template. An empty setting selects
// document.tmpl in configDir when present and the built-in layout otherwise.
// A non-empty setting is read as a file when it looks like an existing path
// and used as an inline template string when it doesn't.
func NewDocumentTemplate(setting, configDir string) (*DocumentTemplate, error) {
	var content string

	userTemplate := ""
	if configDir != "" {
		userTemplate = filepath.Join(configDir, DocumentTemplateFilename)
	}

	switch {
	case setting == "" && userTemplate != "" && FileExists(userTemplate):
		data, err := os.ReadFile(userTemplate)
		if err != nil {
			return nil, fmt.Errorf("reading document template: %w", err)
		}
		content = string(data)
	case setting == "":
		data, err := defaultFS.ReadFile(DocumentTemplateFilename)
		if err != nil {
			return nil, fmt.Errorf("reading default document template: %w", err)
		}
		content = string(data)
	case IsLikelyFilePath(setting) && FileExists(setting):
		data, err := os.ReadFile(setting)
		if err != nil {
			return nil, fmt.Errorf("reading document template: %w", err)
		}
		content = string(data)
	default:
		content = setting
	}

	tmpl, err := template.New("document").Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parsing document template: %w", err)
	}
	return &DocumentTemplate{tmpl: tmpl}, nil
}

// Render builds the document body for one video
func (dt *DocumentTemplate) Render(video VideoDescriptor, transcript string) (string, error) {
	data := DocumentData{
		VideoID:     video.ID,
		Title:       video.Title,
		Channel:     video.Channel,
		URL:         video.URL,
		Published:   video.Published,
		Description: video.Description,
		Transcript:  transcript,
	}

	var sb strings.Builder
	if err := dt.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("executing document template: %w", err)
	}
	return sb.String(), nil
}

// SanitizeTitle keeps letters, numbers, spaces, hyphens and underscores,
// replaces every other rune with an underscore and truncates the result
// to MaxFilenameRunes runes.
func SanitizeTitle(title string) string {
	runes := make([]rune, 0, len(title))
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '-' || r == '_' {
			runes = append(runes, r)
		} else {
			runes = append(runes, '_')
		}
		if len(runes) == MaxFilenameRunes {
			break
		}
	}
	return string(runes)
}

// DocumentFilename derives the document filename for a video title
func DocumentFilename(title string) string {
	return SanitizeTitle(title) + DocumentExt
}

// VideoFilename derives the document filename for a video. A title that
// sanitizes to nothing falls back to the video ID, so no hidden ".md" file is written.
func VideoFilename(video VideoDescriptor) string {
	if SanitizeTitle(video.Title) == "" {
		return DocumentFilename(video.ID)
	}
	return DocumentFilename(video.Title)
}

// disambiguatedFilename appends the video ID, shortening the title part so the
// stem still fits in MaxFilenameRunes runes
func disambiguatedFilename(video VideoDescriptor) string {
	suffix := []rune("_" + SanitizeTitle(video.ID))
	stem := []rune(SanitizeTitle(video.Title))
	if keep := MaxFilenameRunes - len(suffix); len(stem) > keep {
		if keep < 0 {
			keep = 0
		}
		stem = stem[:keep]
	}
	name := append(stem, suffix...)
	if len(name) > MaxFilenameRunes {
		name = name[len(name)-MaxFilenameRunes:]
	}
	return string(name) + DocumentExt
}

// DocumentWriter writes transcript documents into one output directory.
// Two titles that sanitize to the same name overwrite each other unless
// dedupe is enabled, in which case later videos get their ID appended.
type DocumentWriter struct {
	outputDir string
	template  *DocumentTemplate
	dedupe    bool
	logger    zerolog.Logger

	// filename -> video ID, for the current run
	written map[string]string
}

// NewDocumentWriter creates a writer for outputDir
func NewDocumentWriter(outputDir string, tmpl *DocumentTemplate, dedupe bool, logger zerolog.Logger) *DocumentWriter {
	return &DocumentWriter{
		outputDir: outputDir,
		template:  tmpl,
		dedupe:    dedupe,
		logger:    logger,
		written:   make(map[string]string),
	}
}

// OutputDir returns the directory documents are written to
func (w *DocumentWriter) OutputDir() string {
	return w.outputDir
}

// filenameFor picks the filename for a video in this run
func (w *DocumentWriter) filenameFor(video VideoDescriptor) string {
	name := VideoFilename(video)
	owner, taken := w.written[name]
	if !taken || owner == video.ID {
		return name
	}

	if !w.dedupe {
		w.logger.Warn().
			Str("video_id", video.ID).
			Str("previous_video_id", owner).
			Str("file", name).
			Msg("document filename collision, overwriting")
		return name
	}
	return disambiguatedFilename(video)
}

// Write renders and atomically writes one document, creating the output
// directory if needed. It returns the path of the written file.
func (w *DocumentWriter) Write(video VideoDescriptor, transcript string) (string, error) {
	content, err := w.template.Render(video, transcript)
	if err != nil {
		return "", err
	}

	if err := EnsureDirs(w.outputDir); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	name := w.filenameFor(video)
	path := filepath.Join(w.outputDir, name)

	if err := renameio.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing document %s: %w", name, err)
	}

	w.written[name] = video.ID
	return path, nil
}
