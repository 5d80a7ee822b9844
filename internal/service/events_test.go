package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/corvid-chat/corvid/internal/models"
)

func TestNopPublisher(t *testing.T) {
	var p EventPublisher = NopPublisher{}

	assert.NoError(t, p.Publish(context.Background(), models.NewChangeEvent(models.EventCatalogReset, "", nil)))
	assert.True(t, p.IsHealthy())
	assert.NoError(t, p.Close())
}

func TestEventSink_Emit(t *testing.T) {
	pub := &recordingPublisher{}
	m := newRecordingMetrics()
	sink := newEventSink(pub, m, zap.NewNop())

	sink.emit(context.Background(), models.EventQueueUpdated, "music-bot-004", []models.QueuedTrack{})

	require.Len(t, pub.events, 1)
	event := pub.events[0]
	assert.Equal(t, models.EventQueueUpdated, event.Type)
	assert.Equal(t, "music-bot-004", event.ChannelID)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.False(t, event.OccurredAt.IsZero())
	assert.Equal(t, 1, m.events)
	assert.Equal(t, 0, m.eventErrors)
}

func TestEventSink_FailureIsCounted(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("nack")}
	m := newRecordingMetrics()
	sink := newEventSink(pub, m, zap.NewNop())

	sink.emit(context.Background(), models.EventChannelDeleted, "x", nil)

	assert.Equal(t, 1, m.eventErrors)
}

func TestEventSink_Defaults(t *testing.T) {
	sink := newEventSink(nil, nil, zap.NewNop())

	assert.NotPanics(t, func() {
		sink.emit(context.Background(), models.EventCatalogReset, "", nil)
	})
}

func TestProcessingError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &ProcessingError{Message: "failed to store message", Cause: cause}

	assert.Equal(t, "failed to store message: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}
