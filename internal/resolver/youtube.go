package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/corvid-chat/corvid/internal/apperrors"
	"github.com/corvid-chat/corvid/internal/musicbot"
)

// ErrVideoNotFound is returned when the API has no video for the id.
var ErrVideoNotFound = errors.New("video not found")

// DefaultTimeout bounds a single metadata lookup.
const DefaultTimeout = 10 * time.Second

var videoParts = []string{"snippet", "contentDetails"}

// YouTubeResolver looks tracks up through the YouTube Data API v3.
type YouTubeResolver struct {
	service *youtube.Service
	timeout time.Duration
}

// NewYouTubeResolver creates a resolver authenticated with apiKey. Extra client
// options are appended, which lets tests point it at a local endpoint.
func NewYouTubeResolver(ctx context.Context, apiKey string, timeout time.Duration, opts ...option.ClientOption) (*YouTubeResolver, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &YouTubeResolver{service: service, timeout: timeout}, nil
}

// Resolve fetches title, thumbnail and duration for the video behind sourceURL.
func (r *YouTubeResolver) Resolve(ctx context.Context, sourceURL string) (*musicbot.TrackInfo, error) {
	videoID, err := ExtractVideoID(sourceURL)
	if err != nil {
		return nil, &apperrors.InvalidSourceError{URL: sourceURL, Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	response, err := r.service.Videos.List(videoParts).Id(videoID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video from YouTube API: %w", err)
	}
	if len(response.Items) == 0 {
		return nil, &apperrors.InvalidSourceError{URL: sourceURL, Cause: ErrVideoNotFound}
	}

	return mapVideoToTrack(response.Items[0]), nil
}

func mapVideoToTrack(video *youtube.Video) *musicbot.TrackInfo {
	info := &musicbot.TrackInfo{ID: video.Id}

	if video.Snippet != nil {
		info.Title = video.Snippet.Title
		info.Thumbnail = bestThumbnail(video.Snippet.Thumbnails)
	}

	if video.ContentDetails != nil && video.ContentDetails.Duration != "" {
		if seconds, err := ParseVideoDuration(video.ContentDetails.Duration); err == nil {
			info.DurationSeconds = &seconds
		}
	}

	return info
}

func bestThumbnail(thumbs *youtube.ThumbnailDetails) string {
	if thumbs == nil {
		return ""
	}
	for _, t := range []*youtube.Thumbnail{thumbs.High, thumbs.Medium, thumbs.Default} {
		if t != nil && t.Url != "" {
			return t.Url
		}
	}
	return ""
}
