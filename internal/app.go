package internal

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// App holds the application state and dependencies
type App struct {
	locator   VideoLocator
	source    TranscriptSource
	retriever *Retriever
	template  *DocumentTemplate
	config    *Config
	ui        UIManager
	logger    zerolog.Logger
	now       func() time.Time

	// built on first use when no locator was injected; written only by locatorOnce
	lazyLocator VideoLocator
	locatorOnce sync.Once
	locatorErr  error
}

// NewApp initializes the application. The Data API client is created lazily
// on the first lookup, so commands that never locate videos don't need a key.
func NewApp(config *Config, options ...AppOption) (*App, error) {
	tmpl, err := NewDocumentTemplate(config.DocumentTemplate, config.ConfigDir)
	if err != nil {
		return nil, err
	}

	ui := NewUIManager(config.Verbose, config.Quiet)
	logger := LoggerForConfig(config)

	app := &App{
		template: tmpl,
		config:   config,
		ui:       ui,
		logger:   logger,
		now:      time.Now,
	}

	for _, option := range options {
		option(app)
	}

	if app.source == nil {
		source, err := newTranscriptSource(config, app.ui)
		if err != nil {
			return nil, err
		}
		app.source = source
	}
	app.retriever = NewRetriever(app.source, config.RequestTimeout, WithComponent(app.logger, "retriever"))

	return app, nil
}

// AppOption customizes App creation
type AppOption func(*App)

// WithLocator sets a custom video locator
func WithLocator(locator VideoLocator) AppOption {
	return func(a *App) {
		a.locator = locator
	}
}

// WithTranscriptSource sets a custom transcript source
func WithTranscriptSource(source TranscriptSource) AppOption {
	return func(a *App) {
		a.source = source
	}
}

// WithUI sets a custom UI manager
func WithUI(ui UIManager) AppOption {
	return func(a *App) {
		a.ui = ui
	}
}

// WithLogger sets the structured logger
func WithLogger(logger zerolog.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// WithClock sets the clock used for manifest timestamps
func WithClock(now func() time.Time) AppOption {
	return func(a *App) {
		a.now = now
	}
}

// newTranscriptSource builds the configured caption backend
func newTranscriptSource(config *Config, ui UIManager) (TranscriptSource, error) {
	if err := ValidateBackend(config.TranscriptBackend); err != nil {
		return nil, err
	}
	if config.TranscriptBackend == BackendYTDLP {
		return NewYTDLPSource(config.CacheDir, config.Language, ui), nil
	}
	return NewInnertubeSource(&http.Client{Timeout: config.RequestTimeout}, config.Language), nil
}

// ensureLocator returns the injected locator or the Data API client,
// creating the client once. Safe for concurrent use.
func (app *App) ensureLocator(ctx context.Context) (VideoLocator, error) {
	if app.locator != nil {
		return app.locator, nil
	}

	app.locatorOnce.Do(func() {
		yt, err := NewYouTube(ctx, app.config.YouTubeAPIKey, app.config.RequestTimeout)
		if err != nil {
			app.locatorErr = err
			return
		}
		app.lazyLocator = yt
	})
	if app.locatorErr != nil {
		return nil, app.locatorErr
	}
	return app.lazyLocator, nil
}

// Locate resolves a selector into descriptors
func (app *App) Locate(ctx context.Context, sel Selector, maxVideos int) ([]VideoDescriptor, error) {
	locator, err := app.ensureLocator(ctx)
	if err != nil {
		return nil, err
	}
	return locator.Locate(ctx, sel, maxVideos)
}

// Describe returns the descriptor of a single video
func (app *App) Describe(ctx context.Context, videoID string) (*VideoDescriptor, error) {
	videos, err := app.Locate(ctx, Selector{Mode: SelectorVideo, Value: videoID}, 1)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("video %s not found", videoID)
	}
	return &videos[0], nil
}

// GetTranscript returns the flattened transcript of one video, or an error
// wrapping ErrTranscriptsDisabled / ErrNoTranscript when it has none
func (app *App) GetTranscript(ctx context.Context, videoID string) (string, error) {
	result := app.retriever.Retrieve(ctx, videoID)
	if err := result.AsError(videoID); err != nil {
		return "", err
	}
	return result.Text, nil
}

// Run performs the complete workflow: locate -> retrieve and write each
// transcript -> write the manifest. Only locator and manifest failures are
// returned; a video without a transcript is skipped and kept in the manifest.
func (app *App) Run(ctx context.Context, sel Selector, maxVideos int, outputDir string) (*RunReport, error) {
	logger := WithComponent(app.logger, "run")

	app.ui.Println(sel.Describe())

	videos, err := app.Locate(ctx, sel, maxVideos)
	if err != nil {
		return nil, err
	}

	app.ui.Printf("Found %d videos\n", len(videos))
	logger.Debug().Str("selector", sel.String()).Int("videos", len(videos)).Msg("located videos")

	writer := NewDocumentWriter(outputDir, app.template, app.config.DedupeFilenames, WithComponent(app.logger, "writer"))
	report := &RunReport{
		Located:   len(videos),
		OutputDir: outputDir,
	}

	bar := app.ui.NewProgressBar(len(videos), "Fetching transcripts")
	for i := range videos {
		if err := ctx.Err(); err != nil {
			bar.Finish()
			return nil, err
		}

		video := &videos[i]
		bar.Set(i)
		bar.Describe(video.Title)
		app.ui.Verbose("\nProcessing: %s\n", video.Title)

		path, ok := app.processVideo(ctx, writer, *video)
		video.HasTranscript = ok
		if ok {
			report.Saved++
			report.Documents = append(report.Documents, path)
			app.ui.Verbose("  Saved: %s\n", path)
		}
	}
	bar.Finish()

	manifestPath, err := WriteManifest(outputDir, NewRunManifest(videos, app.now()))
	if err != nil {
		return nil, err
	}
	app.ui.Printf("Metadata saved: %s\n", manifestPath)

	report.ManifestPath = manifestPath
	report.Videos = videos

	app.ui.Printf("\nDone! %s transcripts saved to %s\n", report.Tally(), outputDir)
	logger.Info().Int("saved", report.Saved).Int("located", report.Located).Str("output_dir", outputDir).Msg("run complete")

	return report, nil
}

// processVideo retrieves and writes one document, reporting whether it was saved
func (app *App) processVideo(ctx context.Context, writer *DocumentWriter, video VideoDescriptor) (string, bool) {
	result := app.retriever.Retrieve(ctx, video.ID)
	if !result.OK() {
		app.ui.Verbose("  Skipped (%s)\n", result.Status)
		return "", false
	}

	path, err := writer.Write(video, result.Text)
	if err != nil {
		app.logger.Warn().Err(err).Str("video_id", video.ID).Msg("error writing document")
		return "", false
	}
	return path, true
}
