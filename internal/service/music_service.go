package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/corvid-chat/corvid/internal/models"
	"github.com/corvid-chat/corvid/internal/musicbot"
	"github.com/corvid-chat/corvid/pkg/logger"
)

// QueueState is a channel's queue together with its head.
type QueueState struct {
	ChannelID    string               `json:"channelId"`
	CurrentTrack *models.QueuedTrack  `json:"currentTrack"`
	Queue        []models.QueuedTrack `json:"queue"`
}

// MusicService exposes the channel queues outside of chat commands.
type MusicService struct {
	queue    *musicbot.Queue
	channels ChannelLookup
	events   eventSink
	metrics  Metrics
	log      *zap.Logger
}

// NewMusicService creates a MusicService. When channels is nil any channel id is accepted.
func NewMusicService(queue *musicbot.Queue, channels ChannelLookup, publisher EventPublisher, m Metrics) *MusicService {
	log := logger.Named("music")
	m = metricsOrNop(m)
	return &MusicService{
		queue:    queue,
		channels: channels,
		events:   newEventSink(publisher, m, log),
		metrics:  m,
		log:      log,
	}
}

// Queue returns the queue of channelID.
func (s *MusicService) Queue(_ context.Context, channelID string) (*QueueState, error) {
	if err := s.checkChannel(channelID); err != nil {
		return nil, err
	}
	return s.state(channelID), nil
}

// Add resolves sourceURL and appends it to the queue of channelID.
func (s *MusicService) Add(ctx context.Context, channelID, sourceURL, requestedBy string) (*models.QueuedTrack, error) {
	if err := s.checkChannel(channelID); err != nil {
		return nil, err
	}

	track, err := s.queue.Enqueue(ctx, channelID, sourceURL, requestedBy)
	if err != nil {
		s.log.Info("Track rejected",
			zap.Error(err),
			zap.String("channelId", channelID),
			zap.String("url", sourceURL),
		)
		return nil, err
	}

	s.log.Info("Track queued",
		zap.String("channelId", channelID),
		zap.String("trackId", track.ID),
		zap.String("requestedBy", requestedBy),
	)
	s.changed(ctx, channelID)
	return track, nil
}

// Skip drops the current track and returns the new state.
func (s *MusicService) Skip(ctx context.Context, channelID string) (*QueueState, error) {
	if err := s.checkChannel(channelID); err != nil {
		return nil, err
	}
	s.queue.Skip(channelID)
	s.changed(ctx, channelID)
	return s.state(channelID), nil
}

// Clear empties the queue of channelID.
func (s *MusicService) Clear(ctx context.Context, channelID string) error {
	if err := s.checkChannel(channelID); err != nil {
		return err
	}
	s.queue.Clear(channelID)
	s.changed(ctx, channelID)
	return nil
}

func (s *MusicService) checkChannel(channelID string) error {
	if s.channels == nil {
		return nil
	}
	_, err := s.channels.GetChannel(channelID)
	return err
}

func (s *MusicService) state(channelID string) *QueueState {
	tracks := s.queue.GetQueue(channelID)
	state := &QueueState{ChannelID: channelID, Queue: tracks}
	if len(tracks) > 0 {
		head := tracks[0]
		state.CurrentTrack = &head
	}
	return state
}

func (s *MusicService) changed(ctx context.Context, channelID string) {
	tracks := s.queue.GetQueue(channelID)
	s.metrics.SetQueueLength(channelID, len(tracks))
	s.events.emit(ctx, models.EventQueueUpdated, channelID, tracks)
}
