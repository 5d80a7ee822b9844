// Package musicbot implements per-channel music queues and the chat command
// grammar that drives them.
package musicbot

import (
	"context"
	"strings"
	"sync"

	"github.com/corvid-chat/corvid/internal/apperrors"
	"github.com/corvid-chat/corvid/internal/models"
)

// TrackInfo is the metadata a Resolver returns for a source URL.
type TrackInfo struct {
	ID              string
	Title           string
	Thumbnail       string
	DurationSeconds *int
}

// Resolver turns a source URL into track metadata. Implementations own their
// timeout and should honour ctx cancellation.
type Resolver interface {
	Resolve(ctx context.Context, sourceURL string) (*TrackInfo, error)
}

// Queue holds one FIFO of tracks per channel. Index 0 is now playing.
// Channel queues are created on first access and never removed.
type Queue struct {
	mu       sync.Mutex
	queues   map[string][]models.QueuedTrack
	resolver Resolver
}

// NewQueue creates an empty queue set backed by resolver.
func NewQueue(resolver Resolver) *Queue {
	return &Queue{
		queues:   make(map[string][]models.QueuedTrack),
		resolver: resolver,
	}
}

// GetQueue returns a snapshot of the channel's queue.
func (q *Queue) GetQueue(channelID string) []models.QueuedTrack {
	q.mu.Lock()
	defer q.mu.Unlock()

	tracks := q.queueLocked(channelID)
	out := make([]models.QueuedTrack, len(tracks))
	copy(out, tracks)
	return out
}

// Enqueue resolves sourceURL and appends the track. The resolver runs without
// the lock held; a failed resolution leaves the queue untouched.
func (q *Queue) Enqueue(ctx context.Context, channelID, sourceURL, requestedBy string) (*models.QueuedTrack, error) {
	sourceURL = strings.TrimSpace(sourceURL)
	if sourceURL == "" {
		return nil, apperrors.NewValidation("url", "source URL is required")
	}

	info, err := q.resolver.Resolve(ctx, sourceURL)
	if err != nil {
		if apperrors.IsInvalidSource(err) {
			return nil, err
		}
		return nil, &apperrors.InvalidSourceError{URL: sourceURL, Cause: err}
	}
	if info == nil {
		return nil, &apperrors.InvalidSourceError{URL: sourceURL}
	}

	track := models.QueuedTrack{
		ID:          info.ID,
		URL:         sourceURL,
		Title:       info.Title,
		Thumbnail:   info.Thumbnail,
		Duration:    info.DurationSeconds,
		RequestedBy: requestedBy,
	}

	q.mu.Lock()
	q.queues[channelID] = append(q.queueLocked(channelID), track)
	q.mu.Unlock()

	return &track, nil
}

// CurrentTrack returns the head of the queue, or nil when it is empty.
func (q *Queue) CurrentTrack(channelID string) *models.QueuedTrack {
	q.mu.Lock()
	defer q.mu.Unlock()
	return headOf(q.queueLocked(channelID))
}

// Skip drops the current track and returns the new head, or nil when nothing is left.
func (q *Queue) Skip(channelID string) *models.QueuedTrack {
	_, next := q.skip(channelID)
	return next
}

func (q *Queue) skip(channelID string) (skipped, next *models.QueuedTrack) {
	q.mu.Lock()
	defer q.mu.Unlock()

	tracks := q.queueLocked(channelID)
	if len(tracks) == 0 {
		return nil, nil
	}
	skipped = headOf(tracks)
	tracks = tracks[1:]
	q.queues[channelID] = tracks
	return skipped, headOf(tracks)
}

// Clear empties the channel's queue.
func (q *Queue) Clear(channelID string) {
	q.clear(channelID)
}

func (q *Queue) clear(channelID string) []models.QueuedTrack {
	q.mu.Lock()
	defer q.mu.Unlock()
	removed := q.queueLocked(channelID)
	q.queues[channelID] = []models.QueuedTrack{}
	return removed
}

// prepend puts tracks back at the head, ahead of anything queued since.
func (q *Queue) prepend(channelID string, tracks ...models.QueuedTrack) {
	if len(tracks) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	current := q.queueLocked(channelID)
	restored := make([]models.QueuedTrack, 0, len(tracks)+len(current))
	restored = append(restored, tracks...)
	q.queues[channelID] = append(restored, current...)
}

// removeLast drops the most recent entry equal to track.
func (q *Queue) removeLast(channelID string, track models.QueuedTrack) {
	q.mu.Lock()
	defer q.mu.Unlock()
	tracks := q.queueLocked(channelID)
	for i := len(tracks) - 1; i >= 0; i-- {
		if tracks[i] == track {
			out := make([]models.QueuedTrack, 0, len(tracks)-1)
			out = append(out, tracks[:i]...)
			q.queues[channelID] = append(out, tracks[i+1:]...)
			return
		}
	}
}

// Len returns the number of queued tracks, including the one playing.
func (q *Queue) Len(channelID string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queueLocked(channelID))
}

func (q *Queue) queueLocked(channelID string) []models.QueuedTrack {
	tracks, ok := q.queues[channelID]
	if !ok {
		tracks = []models.QueuedTrack{}
		q.queues[channelID] = tracks
	}
	return tracks
}

func headOf(tracks []models.QueuedTrack) *models.QueuedTrack {
	if len(tracks) == 0 {
		return nil
	}
	head := tracks[0]
	return &head
}
