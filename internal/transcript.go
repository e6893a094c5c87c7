package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrTranscriptsDisabled means the owner turned captions off for the video
	ErrTranscriptsDisabled = errors.New("transcripts disabled")
	// ErrNoTranscript means captions are enabled but no track matches
	ErrNoTranscript = errors.New("no transcript found")
)

// TranscriptSource fetches the ordered caption segment texts of a video.
// Implementations report absence with ErrTranscriptsDisabled or ErrNoTranscript.
type TranscriptSource interface {
	Segments(ctx context.Context, videoID string) ([]string, error)
}

// TranscriptStatus tags the outcome of a retrieval
type TranscriptStatus int

const (
	TranscriptOK TranscriptStatus = iota
	TranscriptDisabled
	TranscriptNotFound
	TranscriptFailed
)

// String returns a human-readable representation of the status
func (s TranscriptStatus) String() string {
	switch s {
	case TranscriptOK:
		return "ok"
	case TranscriptDisabled:
		return "disabled"
	case TranscriptNotFound:
		return "not_found"
	case TranscriptFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TranscriptResult is the outcome of one retrieval. Text is set only for
// TranscriptOK and Err only for TranscriptFailed.
type TranscriptResult struct {
	Status TranscriptStatus
	Text   string
	Err    error
}

// OK reports whether a transcript was retrieved
func (r TranscriptResult) OK() bool {
	return r.Status == TranscriptOK
}

// AsError converts an absent or failed result into an error for callers
// that need one transcript or nothing
func (r TranscriptResult) AsError(videoID string) error {
	switch r.Status {
	case TranscriptOK:
		return nil
	case TranscriptDisabled:
		return fmt.Errorf("video %s: %w", videoID, ErrTranscriptsDisabled)
	case TranscriptNotFound:
		return fmt.Errorf("video %s: %w", videoID, ErrNoTranscript)
	default:
		return fmt.Errorf("getting transcript for %s: %w", videoID, r.Err)
	}
}

// FlattenSegments joins caption segments with single spaces, keeping their order
func FlattenSegments(segments []string) string {
	return strings.Join(segments, " ")
}

// Retriever turns a TranscriptSource into tagged results
type Retriever struct {
	source  TranscriptSource
	timeout time.Duration
	logger  zerolog.Logger
}

// NewRetriever creates a retriever. A zero timeout leaves calls unbounded.
func NewRetriever(source TranscriptSource, timeout time.Duration, logger zerolog.Logger) *Retriever {
	return &Retriever{
		source:  source,
		timeout: timeout,
		logger:  logger,
	}
}

// Retrieve fetches and flattens the transcript of one video. It never returns
// an error: absence and failures are reported through the result status.
func (r *Retriever) Retrieve(ctx context.Context, videoID string) TranscriptResult {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	segments, err := r.source.Segments(ctx, videoID)
	switch {
	case errors.Is(err, ErrTranscriptsDisabled):
		r.logger.Info().Str("video_id", videoID).Msg("transcripts disabled")
		return TranscriptResult{Status: TranscriptDisabled}
	case errors.Is(err, ErrNoTranscript):
		r.logger.Info().Str("video_id", videoID).Msg("no transcript found")
		return TranscriptResult{Status: TranscriptNotFound}
	case err != nil:
		r.logger.Warn().Err(err).Str("video_id", videoID).Msg("error getting transcript")
		return TranscriptResult{Status: TranscriptFailed, Err: err}
	}

	text := FlattenSegments(segments)
	if strings.TrimSpace(text) == "" {
		r.logger.Info().Str("video_id", videoID).Int("segments", len(segments)).Msg("empty transcript")
		return TranscriptResult{Status: TranscriptNotFound}
	}

	r.logger.Debug().Str("video_id", videoID).Int("segments", len(segments)).Msg("transcript retrieved")
	return TranscriptResult{Status: TranscriptOK, Text: text}
}
