//go:build integration
// +build integration

package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/corvid-chat/corvid/internal/config"
	"github.com/corvid-chat/corvid/internal/models"
	"github.com/corvid-chat/corvid/pkg/logger"
)

var (
	loggerInitOnce sync.Once
	loggerInitErr  error
)

func initTestLogger() error {
	loggerInitOnce.Do(func() {
		loggerInitErr = logger.Init("debug", "")
	})
	return loggerInitErr
}

func setupTestRabbitMQ(t *testing.T) (*config.RabbitMQConfig, func()) {
	if err := initTestLogger(); err != nil {
		t.Fatalf("Failed to initialize test logger: %v", err)
	}

	ctx := context.Background()

	rabbitmqContainer, err := rabbitmq.Run(ctx,
		"rabbitmq:3.13-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start rabbitmq container: %v", err)
	}

	host, err := rabbitmqContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get host: %v", err)
	}

	port, err := rabbitmqContainer.MappedPort(ctx, "5672/tcp")
	if err != nil {
		t.Fatalf("Failed to get port: %v", err)
	}

	cfg := &config.RabbitMQConfig{
		Enabled:    true,
		Host:       host,
		Port:       port.Int(),
		User:       "guest",
		Password:   "guest",
		Exchange:   "test.events",
		Queue:      "test.events.messages",
		BindingKey: "message.*",
	}

	cleanup := func() {
		if err := rabbitmqContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	// Allow some time for RabbitMQ to be fully ready
	time.Sleep(2 * time.Second)

	return cfg, cleanup
}

func TestRabbitPublisher_PublishRoutesByEventType(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	cfg, cleanup := setupTestRabbitMQ(t)
	defer cleanup()

	p, err := NewRabbitPublisher(cfg)
	if err != nil {
		t.Fatalf("NewRabbitPublisher() error = %v", err)
	}
	defer p.Close()

	ctx := context.Background()
	// Not bound to the queue: routed nowhere but still confirmed.
	if err := p.Publish(ctx, models.NewChangeEvent(models.EventChannelCreated, "general-001", nil)); err != nil {
		t.Fatalf("Publish(channel.created) error = %v", err)
	}

	msg := &models.Message{ChannelID: "general-001", AuthorID: "user-1", Content: "hi"}
	event := models.NewChangeEvent(models.EventMessageCreated, "general-001", msg)
	if err := p.Publish(ctx, event); err != nil {
		t.Fatalf("Publish(message.created) error = %v", err)
	}

	conn, err := amqp.Dial(cfg.URL())
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	ch, err := conn.Channel()
	if err != nil {
		t.Fatalf("Channel() error = %v", err)
	}
	defer ch.Close()

	delivery, ok, err := ch.Get(cfg.Queue, true)
	if err != nil || !ok {
		t.Fatalf("Get() = ok %v, err %v; want a message", ok, err)
	}
	if delivery.RoutingKey != "message.created" {
		t.Errorf("RoutingKey = %s, want message.created", delivery.RoutingKey)
	}
	if delivery.MessageId != event.ID.String() {
		t.Errorf("MessageId = %s, want %s", delivery.MessageId, event.ID)
	}

	var got models.ChangeEvent
	if err := json.Unmarshal(delivery.Body, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Type != models.EventMessageCreated || got.ChannelID != "general-001" {
		t.Errorf("event = %+v", got)
	}

	if _, ok, _ := ch.Get(cfg.Queue, true); ok {
		t.Error("queue holds an event its binding key does not match")
	}
}

func TestRabbitPublisher_IsHealthy(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	cfg, cleanup := setupTestRabbitMQ(t)
	defer cleanup()

	p, err := NewRabbitPublisher(cfg)
	if err != nil {
		t.Fatalf("NewRabbitPublisher() error = %v", err)
	}

	if !p.IsHealthy() {
		t.Error("IsHealthy() = false, want true")
	}

	if err := p.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if p.IsHealthy() {
		t.Error("IsHealthy() after Close() = true, want false")
	}
	if err := p.Publish(context.Background(), models.NewChangeEvent(models.EventCatalogReset, "", nil)); err == nil {
		t.Error("Publish() after Close() should fail")
	}
}

func TestRabbitPublisher_ConnectionLost(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	cfg, cleanup := setupTestRabbitMQ(t)
	defer cleanup()

	p, err := NewRabbitPublisher(cfg)
	if err != nil {
		t.Fatalf("NewRabbitPublisher() error = %v", err)
	}
	defer p.Close()

	_ = p.conn.Close()

	if p.IsHealthy() {
		t.Error("IsHealthy() with closed connection = true, want false")
	}
	// Publishing on a dead connection fails without panicking.
	if err := p.Publish(context.Background(), models.NewChangeEvent(models.EventQueueUpdated, "music-bot-004", nil)); err == nil {
		t.Error("Publish() on closed connection should fail")
	}
}
