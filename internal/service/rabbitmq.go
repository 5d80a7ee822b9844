package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/corvid-chat/corvid/internal/config"
	"github.com/corvid-chat/corvid/internal/models"
	"github.com/corvid-chat/corvid/pkg/logger"
)

const confirmTimeout = 5 * time.Second

// RabbitPublisher publishes change events to a topic exchange, using the
// event type as routing key and waiting for a broker confirm on each message.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type RabbitPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	confirms chan amqp.Confirmation
	config   *config.RabbitMQConfig
	log      *zap.Logger
	mu       sync.Mutex
	lastTag  uint64
}

// NewRabbitPublisher connects, declares the exchange and the catch-all queue and
// enables publisher confirms.
func NewRabbitPublisher(cfg *config.RabbitMQConfig) (*RabbitPublisher, error) {
	p := &RabbitPublisher{
		config: cfg,
		log:    logger.Named("rabbitmq"),
	}

	if err := p.connect(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *RabbitPublisher) connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := amqp.Dial(p.config.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	fail := func(format string, err error) error {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf(format, err)
	}

	if err := ch.Confirm(false); err != nil {
		return fail("failed to enable publisher confirms: %w", err)
	}

	if err := ch.ExchangeDeclare(
		p.config.Exchange, // name
		"topic",           // type
		true,              // durable
		false,             // auto-deleted
		false,             // internal
		false,             // no-wait
		nil,               // arguments
	); err != nil {
		return fail("failed to declare exchange: %w", err)
	}

	if p.config.Queue != "" {
		if _, err := ch.QueueDeclare(
			p.config.Queue, // name
			true,           // durable
			false,          // delete when unused
			false,          // exclusive
			false,          // no-wait
			amqp.Table{
				"x-message-ttl": 86400000, // 24 hours
				"x-max-length":  100000,
			},
		); err != nil {
			return fail("failed to declare queue: %w", err)
		}

		if err := ch.QueueBind(
			p.config.Queue,      // queue name
			p.config.BindingKey, // binding key
			p.config.Exchange,   // exchange
			false,
			nil,
		); err != nil {
			return fail("failed to bind queue: %w", err)
		}
	}

	p.conn = conn
	p.channel = ch
	p.confirms = ch.NotifyPublish(make(chan amqp.Confirmation, 16))
	p.lastTag = 0

	p.log.Info("Connected to RabbitMQ",
		zap.String("exchange", p.config.Exchange),
		zap.String("queue", p.config.Queue),
		zap.String("bindingKey", p.config.BindingKey),
	)

	return nil
}

// Publish sends the event and blocks until the broker confirms it.
func (p *RabbitPublisher) Publish(ctx context.Context, event *models.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return errors.New("channel is not initialized")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	routingKey := string(event.Type)
	err = p.channel.PublishWithContext(
		ctx,
		p.config.Exchange, // exchange
		routingKey,        // routing key
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			MessageId:    event.ID.String(),
			Type:         routingKey,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	p.lastTag++
	tag := p.lastTag

	timeout := time.NewTimer(confirmTimeout)
	defer timeout.Stop()

	// Confirms that arrive after an earlier timeout carry older tags.
	for {
		select {
		case confirm, ok := <-p.confirms:
			if !ok {
				return errors.New("confirm channel closed")
			}
			if confirm.DeliveryTag < tag {
				continue
			}
			if !confirm.Ack {
				return errors.New("message was not acknowledged by broker")
			}
			p.log.Debug("Published event to RabbitMQ",
				zap.String("eventId", event.ID.String()),
				zap.String("routingKey", routingKey),
			)
			return nil
		case <-timeout.C:
			return errors.New("timeout waiting for publish confirmation")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close closes the channel and the connection.
func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.channel = nil
	p.conn = nil

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("errors closing publisher: %w", err)
	}

	p.log.Info("RabbitMQ publisher closed")
	return nil
}

// IsHealthy reports whether the connection and channel are open.
func (p *RabbitPublisher) IsHealthy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.conn != nil && !p.conn.IsClosed() && p.channel != nil
}
