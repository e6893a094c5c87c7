package internal

import (
	"context"
	"fmt"
	"sort"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// maxPageSize is the largest maxResults the Data API accepts
const maxPageSize = 50

// VideoLocator resolves a selector into video descriptors
type VideoLocator interface {
	Locate(ctx context.Context, sel Selector, maxVideos int) ([]VideoDescriptor, error)
}

// LocatorError reports a failed remote lookup. It is fatal to a run.
type LocatorError struct {
	Mode SelectorMode
	Err  error
}

func (e *LocatorError) Error() string {
	return fmt.Sprintf("locating videos (%s): %v", e.Mode, e.Err)
}

func (e *LocatorError) Unwrap() error {
	return e.Err
}

// YouTube locates videos through the YouTube Data API v3
type YouTube struct {
	service *youtube.Service
	timeout time.Duration
}

// NewYouTube creates a Data API client authenticated with apiKey. Extra
// options (such as option.WithEndpoint) are appended after the key.
func NewYouTube(ctx context.Context, apiKey string, timeout time.Duration, opts ...option.ClientOption) (*YouTube, error) {
	if err := ValidateYouTubeAPIKey(apiKey); err != nil {
		return nil, err
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating YouTube client: %w", err)
	}

	return &YouTube{service: service, timeout: timeout}, nil
}

// Locate implements VideoLocator. Results keep the order the API returned
// them in, except channel results which are sorted newest first.
func (yt *YouTube) Locate(ctx context.Context, sel Selector, maxVideos int) ([]VideoDescriptor, error) {
	var (
		videos []VideoDescriptor
		err    error
	)

	switch sel.Mode {
	case SelectorSearch, SelectorCreator:
		videos, err = yt.Search(ctx, sel.Value, maxVideos)
	case SelectorChannel:
		videos, err = yt.ChannelVideos(ctx, sel.Value, maxVideos)
	case SelectorVideo:
		videos, err = yt.Video(ctx, sel.Value)
	default:
		return nil, ErrNoSelector
	}

	if err != nil {
		return nil, &LocatorError{Mode: sel.Mode, Err: err}
	}
	return videos, nil
}

// Search returns videos matching query ranked by relevance, restricted to
// videos with closed captions
func (yt *YouTube) Search(ctx context.Context, query string, maxVideos int) ([]VideoDescriptor, error) {
	return yt.searchPages(ctx, maxVideos, func(call *youtube.SearchListCall) *youtube.SearchListCall {
		return call.Q(query).
			Order("relevance").
			VideoCaption("closedCaption")
	})
}

// ChannelVideos returns the most recent videos of a channel, newest first
func (yt *YouTube) ChannelVideos(ctx context.Context, channelID string, maxVideos int) ([]VideoDescriptor, error) {
	videos, err := yt.searchPages(ctx, maxVideos, func(call *youtube.SearchListCall) *youtube.SearchListCall {
		return call.ChannelId(channelID).
			Order("date")
	})
	if err != nil {
		return nil, err
	}
	SortByPublishedDesc(videos)
	return videos, nil
}

// Video resolves a single video ID. An unknown ID yields no descriptors.
func (yt *YouTube) Video(ctx context.Context, videoID string) ([]VideoDescriptor, error) {
	ctx, cancel := yt.withTimeout(ctx)
	defer cancel()

	resp, err := yt.service.Videos.List([]string{"snippet"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("fetching video %s: %w", videoID, err)
	}

	for _, item := range resp.Items {
		if item.Snippet == nil {
			continue
		}
		return []VideoDescriptor{{
			ID:          videoID,
			Title:       item.Snippet.Title,
			Channel:     item.Snippet.ChannelTitle,
			Description: item.Snippet.Description,
			Published:   item.Snippet.PublishedAt,
			URL:         VideoURL(videoID),
		}}, nil
	}
	return nil, nil
}

// searchPages runs search.list for videos, following page tokens until
// maxVideos descriptors are collected or the results run out
func (yt *YouTube) searchPages(ctx context.Context, maxVideos int, configure func(*youtube.SearchListCall) *youtube.SearchListCall) ([]VideoDescriptor, error) {
	if maxVideos <= 0 {
		return nil, nil
	}

	videos := make([]VideoDescriptor, 0, maxVideos)
	pageToken := ""

	for len(videos) < maxVideos {
		pageSize := min(maxVideos-len(videos), maxPageSize)

		call := yt.service.Search.List([]string{"snippet"}).
			Type("video").
			MaxResults(int64(pageSize))
		call = configure(call)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := yt.doSearch(ctx, call)
		if err != nil {
			return nil, err
		}

		for _, item := range resp.Items {
			if len(videos) == maxVideos {
				break
			}
			if video, ok := descriptorFromSearchResult(item); ok {
				videos = append(videos, video)
			}
		}

		if resp.NextPageToken == "" || len(resp.Items) == 0 {
			break
		}
		pageToken = resp.NextPageToken
	}

	return videos, nil
}

func (yt *YouTube) doSearch(ctx context.Context, call *youtube.SearchListCall) (*youtube.SearchListResponse, error) {
	ctx, cancel := yt.withTimeout(ctx)
	defer cancel()

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("searching videos: %w", err)
	}
	return resp, nil
}

func (yt *YouTube) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if yt.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, yt.timeout)
}

// descriptorFromSearchResult converts a search hit, skipping non-video results
func descriptorFromSearchResult(item *youtube.SearchResult) (VideoDescriptor, bool) {
	if item == nil || item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
		return VideoDescriptor{}, false
	}
	return VideoDescriptor{
		ID:          item.Id.VideoId,
		Title:       item.Snippet.Title,
		Channel:     item.Snippet.ChannelTitle,
		Description: item.Snippet.Description,
		Published:   item.Snippet.PublishedAt,
		URL:         VideoURL(item.Id.VideoId),
	}, true
}

// SortByPublishedDesc orders videos newest first. Unparseable timestamps sort
// last; ties keep their original order.
func SortByPublishedDesc(videos []VideoDescriptor) {
	parsed := make(map[string]time.Time, len(videos))
	for _, v := range videos {
		if t, err := time.Parse(time.RFC3339, v.Published); err == nil {
			parsed[v.Published] = t
		}
	}

	sort.SliceStable(videos, func(i, j int) bool {
		ti, okI := parsed[videos[i].Published]
		tj, okJ := parsed[videos[j].Published]
		switch {
		case okI && okJ:
			return ti.After(tj)
		case okI:
			return true
		default:
			return false
		}
	})
}
