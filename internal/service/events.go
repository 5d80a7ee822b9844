package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/corvid-chat/corvid/internal/models"
)

// EventPublisher pushes change events to subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event *models.ChangeEvent) error
	IsHealthy() bool
	Close() error
}

// Metrics is the subset of the metrics registry the services feed.
type Metrics interface {
	ObserveEvent(eventType string, err error)
	ObserveBotCommand(command, outcome string)
	SetQueueLength(channelID string, length int)
	SetCatalogSize(size int)
}

type nopMetrics struct{}

func (nopMetrics) ObserveEvent(string, error)       {}
func (nopMetrics) ObserveBotCommand(string, string) {}
func (nopMetrics) SetQueueLength(string, int)       {}
func (nopMetrics) SetCatalogSize(int)               {}

func metricsOrNop(m Metrics) Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}

// NopPublisher discards every event. It is used when RabbitMQ is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *models.ChangeEvent) error { return nil }

func (NopPublisher) IsHealthy() bool { return true }

func (NopPublisher) Close() error { return nil }

// eventSink publishes best-effort: a failed push is logged and counted but
// never fails the operation that produced it.
type eventSink struct {
	publisher EventPublisher
	metrics   Metrics
	log       *zap.Logger
}

func newEventSink(publisher EventPublisher, metrics Metrics, log *zap.Logger) eventSink {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return eventSink{publisher: publisher, metrics: metricsOrNop(metrics), log: log}
}

func (s eventSink) emit(ctx context.Context, eventType models.EventType, channelID string, payload any) {
	event := models.NewChangeEvent(eventType, channelID, payload)
	err := s.publisher.Publish(ctx, event)
	s.metrics.ObserveEvent(string(eventType), err)
	if err != nil {
		s.log.Warn("Failed to publish change event",
			zap.Error(err),
			zap.String("eventId", event.ID.String()),
			zap.String("type", string(eventType)),
			zap.String("channelId", channelID),
		)
	}
}
