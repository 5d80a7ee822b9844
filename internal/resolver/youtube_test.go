package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/corvid-chat/corvid/internal/apperrors"
)

const videoListResponse = `{
  "kind": "youtube#videoListResponse",
  "items": [{
    "kind": "youtube#video",
    "id": "dQw4w9WgXcQ",
    "snippet": {
      "title": "Test Track",
      "thumbnails": {
        "default": {"url": "https://i.ytimg.com/default.jpg"},
        "high": {"url": "https://i.ytimg.com/high.jpg"}
      }
    },
    "contentDetails": {"duration": "PT4M13S"}
  }]
}`

func newTestYouTubeResolver(t *testing.T, handler http.HandlerFunc) *YouTubeResolver {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	r, err := NewYouTubeResolver(context.Background(), "test-key", time.Second,
		option.WithEndpoint(server.URL+"/"),
	)
	require.NoError(t, err)
	return r
}

func TestYouTubeResolver_Resolve(t *testing.T) {
	var gotID, gotKey string
	var gotParts []string
	r := newTestYouTubeResolver(t, func(w http.ResponseWriter, req *http.Request) {
		gotID = req.URL.Query().Get("id")
		gotKey = req.URL.Query().Get("key")
		gotParts = req.URL.Query()["part"]
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(videoListResponse))
	})

	info, err := r.Resolve(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")

	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", gotID)
	// The client sends each requested part as its own query value.
	assert.Equal(t, []string{"snippet", "contentDetails"}, gotParts)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "dQw4w9WgXcQ", info.ID)
	assert.Equal(t, "Test Track", info.Title)
	assert.Equal(t, "https://i.ytimg.com/high.jpg", info.Thumbnail)
	require.NotNil(t, info.DurationSeconds)
	assert.Equal(t, 253, *info.DurationSeconds)
}

func TestYouTubeResolver_VideoNotFound(t *testing.T) {
	r := newTestYouTubeResolver(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"kind":"youtube#videoListResponse","items":[]}`))
	})

	_, err := r.Resolve(context.Background(), "https://youtu.be/aaaaaaaaaaa")

	assert.True(t, apperrors.IsInvalidSource(err))
	assert.ErrorIs(t, err, ErrVideoNotFound)
}

func TestYouTubeResolver_APIError(t *testing.T) {
	r := newTestYouTubeResolver(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quota exceeded"}}`))
	})

	_, err := r.Resolve(context.Background(), "https://youtu.be/aaaaaaaaaaa")

	require.Error(t, err)
	assert.False(t, apperrors.IsInvalidSource(err))
}

func TestYouTubeResolver_RejectsUnknownLink(t *testing.T) {
	called := false
	r := newTestYouTubeResolver(t, func(http.ResponseWriter, *http.Request) { called = true })

	_, err := r.Resolve(context.Background(), "https://example.com/song.mp3")

	assert.True(t, apperrors.IsInvalidSource(err))
	assert.False(t, called)
}

func TestNewYouTubeResolver_RequiresKey(t *testing.T) {
	_, err := NewYouTubeResolver(context.Background(), "", time.Second)
	assert.Error(t, err)
}
