package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/corvid-chat/corvid/internal/models"
	"github.com/corvid-chat/corvid/internal/musicbot"
)

// MockMessageStore is a mock implementation of MessageStore.
type MockMessageStore struct {
	mock.Mock
}

func (m *MockMessageStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageStore) GetMessage(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageStore) ListMessagesByChannel(ctx context.Context, channelID string, limit int, before *uuid.UUID) ([]models.Message, error) {
	args := m.Called(ctx, channelID, limit, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessageStore) UpdateMessageContent(ctx context.Context, id uuid.UUID, content string) (*models.Message, error) {
	args := m.Called(ctx, id, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageStore) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMessageStore) SaveBotExchange(ctx context.Context, command, reply *models.Message) error {
	args := m.Called(ctx, command, reply)
	return args.Error(0)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.ChangeEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event *models.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) IsHealthy() bool { return p.err == nil }

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []models.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// recordingMetrics keeps the last value of each gauge and counts observations.
type recordingMetrics struct {
	mu          sync.Mutex
	catalogSize int
	queueLength map[string]int
	commands    map[string]int
	eventErrors int
	events      int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		queueLength: make(map[string]int),
		commands:    make(map[string]int),
	}
}

func (m *recordingMetrics) ObserveEvent(_ string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events++
	if err != nil {
		m.eventErrors++
	}
}

func (m *recordingMetrics) ObserveBotCommand(command, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands[command+"/"+outcome]++
}

func (m *recordingMetrics) SetQueueLength(channelID string, length int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueLength[channelID] = length
}

func (m *recordingMetrics) SetCatalogSize(size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalogSize = size
}

// stubResolver titles each track after its URL and rejects the URL "bad".
type stubResolver struct{}

func (stubResolver) Resolve(_ context.Context, sourceURL string) (*musicbot.TrackInfo, error) {
	if sourceURL == "bad" {
		return nil, errStubUnresolvable
	}
	return &musicbot.TrackInfo{ID: "id-" + sourceURL, Title: "Track " + sourceURL}, nil
}

var errStubUnresolvable = errors.New("unresolvable")
