package internal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// dataAPI is a minimal stand-in for the YouTube Data API v3
type dataAPI struct {
	mu       sync.Mutex
	requests []url.Values
	search   func(q url.Values) (int, any)
	videos   func(q url.Values) (int, any)
}

func (d *dataAPI) handler() http.Handler {
	mux := http.NewServeMux()
	serve := func(fn *func(url.Values) (int, any)) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			d.mu.Lock()
			d.requests = append(d.requests, q)
			d.mu.Unlock()

			status, body := (*fn)(q)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(body)
		}
	}
	mux.HandleFunc("/youtube/v3/search", serve(&d.search))
	mux.HandleFunc("/youtube/v3/videos", serve(&d.videos))
	return mux
}

func searchItem(id, title, published string) map[string]any {
	return map[string]any{
		"id": map[string]any{"kind": "youtube#video", "videoId": id},
		"snippet": map[string]any{
			"title":        title,
			"channelTitle": "Channel",
			"description":  "about " + title,
			"publishedAt":  published,
		},
	}
}

func newTestYouTube(t *testing.T, api *dataAPI) *YouTube {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	yt, err := NewYouTube(context.Background(), "test-key", 5*time.Second,
		option.WithEndpoint(srv.URL+"/"),
	)
	require.NoError(t, err)
	return yt
}

func TestNewYouTube_RequiresKey(t *testing.T) {
	_, err := NewYouTube(context.Background(), "  ", time.Second)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestYouTube_Search(t *testing.T) {
	api := &dataAPI{
		search: func(q url.Values) (int, any) {
			return http.StatusOK, map[string]any{
				"items": []any{
					searchItem("b", "Second", "2024-01-01T00:00:00Z"),
					map[string]any{"id": map[string]any{"kind": "youtube#channel", "channelId": "UC1"}, "snippet": map[string]any{"title": "A channel"}},
					searchItem("a", "First", "2024-02-01T00:00:00Z"),
				},
			}
		},
	}
	yt := newTestYouTube(t, api)

	videos, err := yt.Locate(context.Background(), Selector{Mode: SelectorSearch, Value: "AI coding"}, 5)
	require.NoError(t, err)

	require.Len(t, videos, 2)
	assert.Equal(t, "b", videos[0].ID)
	assert.Equal(t, "a", videos[1].ID)
	assert.Equal(t, VideoDescriptor{
		ID:          "b",
		Title:       "Second",
		Channel:     "Channel",
		Description: "about Second",
		Published:   "2024-01-01T00:00:00Z",
		URL:         "https://youtube.com/watch?v=b",
	}, videos[0])

	require.Len(t, api.requests, 1)
	q := api.requests[0]
	assert.Equal(t, "AI coding", q.Get("q"))
	assert.Equal(t, "video", q.Get("type"))
	assert.Equal(t, "relevance", q.Get("order"))
	assert.Equal(t, "closedCaption", q.Get("videoCaption"))
	assert.Equal(t, "5", q.Get("maxResults"))
	assert.Equal(t, "snippet", q.Get("part"))
	assert.Equal(t, "test-key", q.Get("key"))
}

func TestYouTube_CreatorUsesSearch(t *testing.T) {
	api := &dataAPI{
		search: func(q url.Values) (int, any) {
			return http.StatusOK, map[string]any{"items": []any{searchItem("a", "A", "")}}
		},
	}
	yt := newTestYouTube(t, api)

	videos, err := yt.Locate(context.Background(), Selector{Mode: SelectorCreator, Value: "Ryan Carson"}, 3)
	require.NoError(t, err)
	assert.Len(t, videos, 1)
	assert.Equal(t, "Ryan Carson", api.requests[0].Get("q"))
	assert.Equal(t, "closedCaption", api.requests[0].Get("videoCaption"))
}

func TestYouTube_ChannelNewestFirst(t *testing.T) {
	api := &dataAPI{
		search: func(q url.Values) (int, any) {
			return http.StatusOK, map[string]any{
				"items": []any{
					searchItem("old", "Old", "2023-01-01T00:00:00Z"),
					searchItem("new", "New", "2024-06-01T00:00:00Z"),
					searchItem("mid", "Mid", "2024-01-01T00:00:00Z"),
				},
			}
		},
	}
	yt := newTestYouTube(t, api)

	videos, err := yt.Locate(context.Background(), Selector{Mode: SelectorChannel, Value: "UC123"}, 10)
	require.NoError(t, err)

	ids := []string{videos[0].ID, videos[1].ID, videos[2].ID}
	assert.Equal(t, []string{"new", "mid", "old"}, ids)
	assert.Equal(t, "UC123", api.requests[0].Get("channelId"))
	assert.Equal(t, "date", api.requests[0].Get("order"))
	assert.Empty(t, api.requests[0].Get("videoCaption"))
}

func TestYouTube_Pagination(t *testing.T) {
	api := &dataAPI{
		search: func(q url.Values) (int, any) {
			if q.Get("pageToken") == "" {
				return http.StatusOK, map[string]any{
					"nextPageToken": "p2",
					"items":         []any{searchItem("1", "One", ""), searchItem("2", "Two", "")},
				}
			}
			return http.StatusOK, map[string]any{
				"nextPageToken": "p3",
				"items":         []any{searchItem("3", "Three", ""), searchItem("4", "Four", "")},
			}
		},
	}
	yt := newTestYouTube(t, api)

	videos, err := yt.Search(context.Background(), "go", 3)
	require.NoError(t, err)

	require.Len(t, videos, 3)
	assert.Equal(t, "3", videos[2].ID)
	require.Len(t, api.requests, 2)
	assert.Equal(t, "p2", api.requests[1].Get("pageToken"))
}

func TestYouTube_SearchNonPositiveMax(t *testing.T) {
	api := &dataAPI{}
	yt := newTestYouTube(t, api)

	videos, err := yt.Search(context.Background(), "go", 0)
	require.NoError(t, err)
	assert.Empty(t, videos)
	assert.Empty(t, api.requests)
}

func TestYouTube_Video(t *testing.T) {
	api := &dataAPI{
		videos: func(q url.Values) (int, any) {
			if q.Get("id") != "abc123" {
				return http.StatusOK, map[string]any{"items": []any{}}
			}
			return http.StatusOK, map[string]any{
				"items": []any{map[string]any{
					"id": "abc123",
					"snippet": map[string]any{
						"title":        "Test Video",
						"channelTitle": "Test Channel",
						"publishedAt":  "2024-05-01T10:00:00Z",
					},
				}},
			}
		},
	}
	yt := newTestYouTube(t, api)

	videos, err := yt.Locate(context.Background(), Selector{Mode: SelectorVideo, Value: "abc123"}, 1)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "Test Video", videos[0].Title)
	assert.Equal(t, "Test Channel", videos[0].Channel)
	assert.Equal(t, "", videos[0].Description)
	assert.Equal(t, "https://youtube.com/watch?v=abc123", videos[0].URL)

	videos, err = yt.Locate(context.Background(), Selector{Mode: SelectorVideo, Value: "unknown"}, 1)
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestYouTube_ErrorIsLocatorError(t *testing.T) {
	api := &dataAPI{
		search: func(q url.Values) (int, any) {
			return http.StatusForbidden, map[string]any{
				"error": map[string]any{"code": 403, "message": "quota exceeded"},
			}
		},
	}
	yt := newTestYouTube(t, api)

	_, err := yt.Locate(context.Background(), Selector{Mode: SelectorSearch, Value: "go"}, 5)
	require.Error(t, err)

	var locErr *LocatorError
	require.True(t, errors.As(err, &locErr))
	assert.Equal(t, SelectorSearch, locErr.Mode)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestSortByPublishedDesc(t *testing.T) {
	videos := []VideoDescriptor{
		{ID: "bad", Published: "yesterday"},
		{ID: "old", Published: "2020-01-01T00:00:00Z"},
		{ID: "new", Published: "2024-01-01T00:00:00Z"},
	}
	SortByPublishedDesc(videos)
	assert.Equal(t, "new", videos[0].ID)
	assert.Equal(t, "old", videos[1].ID)
	assert.Equal(t, "bad", videos[2].ID)
}
