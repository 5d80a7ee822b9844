package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/corvid-chat/corvid/internal/apperrors"
	"github.com/corvid-chat/corvid/internal/musicbot"
)

const (
	trackKeyPrefix = "corvid:track:"

	// DefaultCacheTTL is how long resolved metadata is kept.
	DefaultCacheTTL = 24 * time.Hour
)

// CacheStore is the part of a Redis client the cache uses.
type CacheStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type cachedTrack struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Duration  *int   `json:"duration,omitempty"`
}

// CachedResolver keeps resolved track metadata in Redis, keyed by video id.
// Redis failures are logged and the wrapped resolver is used directly.
type CachedResolver struct {
	store  CacheStore
	next   musicbot.Resolver
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedResolver wraps next with a Redis cache.
func NewCachedResolver(store CacheStore, next musicbot.Resolver, ttl time.Duration, logger *zap.Logger) *CachedResolver {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedResolver{store: store, next: next, ttl: ttl, logger: logger}
}

// NewRedisClient parses a redis:// or rediss:// URL and returns a client.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

// Resolve returns cached metadata when present and otherwise resolves and stores it.
func (c *CachedResolver) Resolve(ctx context.Context, sourceURL string) (*musicbot.TrackInfo, error) {
	videoID, err := ExtractVideoID(sourceURL)
	if err != nil {
		return nil, &apperrors.InvalidSourceError{URL: sourceURL, Cause: err}
	}
	key := trackKeyPrefix + videoID

	raw, err := c.store.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached cachedTrack
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return &musicbot.TrackInfo{
				ID:              cached.ID,
				Title:           cached.Title,
				Thumbnail:       cached.Thumbnail,
				DurationSeconds: cached.Duration,
			}, nil
		}
		c.logger.Warn("discarding unreadable cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("track cache lookup failed", zap.String("key", key), zap.Error(err))
	}

	info, err := c.next.Resolve(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(cachedTrack{
		ID:        info.ID,
		Title:     info.Title,
		Thumbnail: info.Thumbnail,
		Duration:  info.DurationSeconds,
	})
	if err == nil {
		err = c.store.Set(ctx, key, body, c.ttl).Err()
	}
	if err != nil {
		c.logger.Warn("track cache store failed", zap.String("key", key), zap.Error(err))
	}
	return info, nil
}
