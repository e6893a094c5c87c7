package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	ytclient "github.com/kkdai/youtube/v2"
)

// InnertubeSource fetches captions in-process through YouTube's player and
// transcript endpoints. It needs no credentials.
type InnertubeSource struct {
	client   *ytclient.Client
	language string
}

// NewInnertubeSource creates a caption source for the given language.
// A nil httpClient uses http.DefaultClient.
func NewInnertubeSource(httpClient *http.Client, language string) *InnertubeSource {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &InnertubeSource{
		client:   &ytclient.Client{HTTPClient: httpClient},
		language: language,
	}
}

// Segments implements TranscriptSource
func (s *InnertubeSource) Segments(ctx context.Context, videoID string) ([]string, error) {
	video, err := s.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("fetching video %s: %w", videoID, err)
	}

	codes := make([]string, 0, len(video.CaptionTracks))
	for _, track := range video.CaptionTracks {
		codes = append(codes, track.LanguageCode)
	}
	if len(codes) == 0 {
		return nil, ErrTranscriptsDisabled
	}

	lang, ok := selectCaptionLanguage(codes, s.language)
	if !ok {
		return nil, fmt.Errorf("%w for language %q (available: %s)", ErrNoTranscript, s.language, strings.Join(codes, ", "))
	}

	transcript, err := s.client.GetTranscriptCtx(ctx, video, lang)
	if err != nil {
		if errors.Is(err, ytclient.ErrTranscriptDisabled) {
			return nil, ErrTranscriptsDisabled
		}
		return nil, fmt.Errorf("fetching transcript: %w", err)
	}

	segments := make([]string, 0, len(transcript))
	for _, segment := range transcript {
		segments = append(segments, segment.Text)
	}
	return segments, nil
}

// selectCaptionLanguage picks the caption language matching want: an exact
// match wins, otherwise the first regional variant ("en-US" for "en").
func selectCaptionLanguage(available []string, want string) (string, bool) {
	want = strings.ToLower(strings.TrimSpace(want))
	if want == "" {
		want = "en"
	}

	for _, code := range available {
		if strings.ToLower(code) == want {
			return code, true
		}
	}
	for _, code := range available {
		if strings.HasPrefix(strings.ToLower(code), want+"-") {
			return code, true
		}
	}
	return "", false
}
