package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/corvid-chat/corvid/internal/apperrors"
	"github.com/corvid-chat/corvid/internal/musicbot"
)

// DefaultOEmbedURL is YouTube's public oEmbed endpoint.
const DefaultOEmbedURL = "https://www.youtube.com/oembed"

var (
	// ErrUnresolvable is returned when the oEmbed endpoint does not know the URL.
	ErrUnresolvable = errors.New("url not resolvable")

	// ErrInvalidOEmbedResponse is returned for an unexpected endpoint response.
	ErrInvalidOEmbedResponse = errors.New("invalid oembed response")
)

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// OEmbedResolver resolves titles and thumbnails without an API key.
// oEmbed carries no duration, so DurationSeconds is always nil.
type OEmbedResolver struct {
	client   HTTPClient
	endpoint string
	timeout  time.Duration
}

// NewOEmbedResolver creates a resolver. A nil client uses http.Client and an
// empty endpoint uses DefaultOEmbedURL.
func NewOEmbedResolver(client HTTPClient, endpoint string, timeout time.Duration) *OEmbedResolver {
	if client == nil {
		client = &http.Client{}
	}
	if endpoint == "" {
		endpoint = DefaultOEmbedURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OEmbedResolver{client: client, endpoint: endpoint, timeout: timeout}
}

// Resolve queries the oEmbed endpoint for sourceURL.
func (r *OEmbedResolver) Resolve(ctx context.Context, sourceURL string) (*musicbot.TrackInfo, error) {
	videoID, err := ExtractVideoID(sourceURL)
	if err != nil {
		return nil, &apperrors.InvalidSourceError{URL: sourceURL, Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := url.Values{}
	query.Set("url", "https://www.youtube.com/watch?v="+videoID)
	query.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return nil, &apperrors.InvalidSourceError{
			URL:   sourceURL,
			Cause: fmt.Errorf("%w: status %d", ErrUnresolvable, resp.StatusCode),
		}
	default:
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrInvalidOEmbedResponse, resp.StatusCode)
	}

	var payload oembedResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOEmbedResponse, err)
	}
	if payload.Title == "" {
		return nil, fmt.Errorf("%w: missing title", ErrInvalidOEmbedResponse)
	}

	return &musicbot.TrackInfo{
		ID:        videoID,
		Title:     payload.Title,
		Thumbnail: payload.ThumbnailURL,
	}, nil
}
