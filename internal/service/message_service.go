package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/corvid-chat/corvid/internal/apperrors"
	"github.com/corvid-chat/corvid/internal/models"
	"github.com/corvid-chat/corvid/internal/musicbot"
	"github.com/corvid-chat/corvid/internal/validation"
	"github.com/corvid-chat/corvid/pkg/logger"
)

// BotAuthorID is the author of every music bot reply.
const BotAuthorID = "music-bot"

// Bot command outcomes recorded in metrics.
const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

// MessageStore persists chat messages.
type MessageStore interface {
	CreateMessage(ctx context.Context, msg *models.Message) error
	GetMessage(ctx context.Context, id uuid.UUID) (*models.Message, error)
	ListMessagesByChannel(ctx context.Context, channelID string, limit int, before *uuid.UUID) ([]models.Message, error)
	UpdateMessageContent(ctx context.Context, id uuid.UUID, content string) (*models.Message, error)
	DeleteMessage(ctx context.Context, id uuid.UUID) error
	SaveBotExchange(ctx context.Context, command, reply *models.Message) error
}

// ChannelLookup resolves channel ids against the catalog.
type ChannelLookup interface {
	GetChannel(id string) (*models.ChannelRecord, error)
}

// SendResult holds the stored message and, for bot commands, the bot's reply.
type SendResult struct {
	Message *models.Message `json:"message"`
	Reply   *models.Message `json:"reply,omitempty"`
}

// MessagePage is one page of a channel's history, oldest first.
type MessagePage struct {
	Messages []models.Message `json:"messages"`
	HasMore  bool             `json:"hasMore"`
}

// MessageService stores chat messages and routes bot commands in music channels.
type MessageService struct {
	store    MessageStore
	channels ChannelLookup
	bot      *musicbot.Bot
	events   eventSink
	metrics  Metrics
	log      *zap.Logger
	now      func() time.Time
}

// NewMessageService creates a MessageService. bot may be nil, in which case
// every message is stored as plain text.
func NewMessageService(store MessageStore, channels ChannelLookup, bot *musicbot.Bot, publisher EventPublisher, m Metrics) *MessageService {
	log := logger.Named("messages")
	m = metricsOrNop(m)
	return &MessageService{
		store:    store,
		channels: channels,
		bot:      bot,
		events:   newEventSink(publisher, m, log),
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// SendMessage stores a message in channelID. In a music channel with its bot
// enabled, prefixed content is executed as a bot command and the reply is
// stored alongside it. authorID owns the message; requester is shown on queued
// tracks.
func (s *MessageService) SendMessage(ctx context.Context, channelID, content, authorID, requester string) (*SendResult, error) {
	if err := validation.ValidateMessageContent(content); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)

	channel, err := s.channels.GetChannel(channelID)
	if err != nil {
		return nil, err
	}

	if s.routesToBot(channel, content) {
		return s.runCommand(ctx, channelID, content, authorID, requester)
	}

	msg := &models.Message{
		ChannelID: channelID,
		AuthorID:  authorID,
		Content:   content,
		Type:      models.MessageTypeUser,
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, storeError("failed to store message", err)
	}

	s.events.emit(ctx, models.EventMessageCreated, channelID, msg)
	return &SendResult{Message: msg}, nil
}

func (s *MessageService) routesToBot(channel *models.ChannelRecord, content string) bool {
	return s.bot != nil &&
		channel.Kind == models.ChannelKindMusic &&
		channel.BotEnabled &&
		s.bot.IsCommand(content)
}

func (s *MessageService) runCommand(ctx context.Context, channelID, content, authorID, requester string) (*SendResult, error) {
	cmd, _ := musicbot.ParseCommand(content, s.bot.Prefix())

	resp, err := s.bot.Execute(ctx, channelID, requester, content)
	if err != nil {
		s.metrics.ObserveBotCommand(commandLabel(err, cmd.Name), commandOutcome(err))
		s.log.Info("Bot command rejected",
			zap.Error(err),
			zap.String("channelId", channelID),
			zap.String("command", cmd.Name),
		)
		return nil, err
	}
	s.metrics.ObserveBotCommand(cmd.Name, outcomeOK)
	s.metrics.SetQueueLength(channelID, s.bot.Queue().Len(channelID))

	now := s.now().UTC()
	command := &models.Message{
		ChannelID: channelID,
		AuthorID:  authorID,
		Content:   content,
		Type:      models.MessageTypeUser,
		CreatedAt: now,
	}
	// The reply sorts after the command it answers.
	reply := &models.Message{
		ChannelID: channelID,
		AuthorID:  BotAuthorID,
		Content:   resp.Content,
		Type:      models.MessageTypeBot,
		BotAction: resp.Action,
		CreatedAt: now.Add(time.Millisecond),
	}

	if err := s.store.SaveBotExchange(ctx, command, reply); err != nil {
		if resp.Revert != nil {
			resp.Revert()
			s.metrics.SetQueueLength(channelID, s.bot.Queue().Len(channelID))
		}
		s.log.Error("Failed to store bot exchange",
			zap.Error(err),
			zap.Bool("queueReverted", resp.Revert != nil),
			zap.String("channelId", channelID),
			zap.String("command", cmd.Name),
		)
		return nil, storeError("failed to store bot exchange", err)
	}

	s.events.emit(ctx, models.EventMessageCreated, channelID, command)
	s.events.emit(ctx, models.EventMessageCreated, channelID, reply)
	if resp.Action != nil && resp.Action.Command != "queue" {
		s.events.emit(ctx, models.EventQueueUpdated, channelID, s.bot.Queue().GetQueue(channelID))
	}

	s.log.Info("Bot command processed",
		zap.String("channelId", channelID),
		zap.String("command", cmd.Name),
		zap.String("requestedBy", requester),
	)
	return &SendResult{Message: command, Reply: reply}, nil
}

// ListMessages returns up to limit messages of channelID, oldest first. When
// before is set only messages older than that message are returned.
func (s *MessageService) ListMessages(ctx context.Context, channelID string, limit int, before string) (*MessagePage, error) {
	limit = validation.ValidatePagination(limit)

	if _, err := s.channels.GetChannel(channelID); err != nil {
		return nil, err
	}

	var cursor *uuid.UUID
	if before != "" {
		id, err := uuid.Parse(before)
		if err != nil {
			return nil, apperrors.NewValidation("before", "cursor must be a message id")
		}
		anchor, err := s.store.GetMessage(ctx, id)
		if err != nil {
			return nil, storeError("failed to load cursor message", err)
		}
		if anchor.ChannelID != channelID {
			return nil, apperrors.NewValidation("before", "cursor message belongs to another channel")
		}
		cursor = &id
	}

	messages, err := s.store.ListMessagesByChannel(ctx, channelID, limit, cursor)
	if err != nil {
		return nil, storeError("failed to list messages", err)
	}
	slices.Reverse(messages)

	return &MessagePage{
		Messages: messages,
		HasMore:  len(messages) == limit,
	}, nil
}

// EditMessage replaces the content of a message owned by authorID.
func (s *MessageService) EditMessage(ctx context.Context, id uuid.UUID, content, authorID string) (*models.Message, error) {
	if err := validation.ValidateMessageContent(content); err != nil {
		return nil, err
	}

	if _, err := s.ownedMessage(ctx, id, authorID, "edit"); err != nil {
		return nil, err
	}

	msg, err := s.store.UpdateMessageContent(ctx, id, strings.TrimSpace(content))
	if err != nil {
		return nil, storeError("failed to update message", err)
	}

	s.events.emit(ctx, models.EventMessageUpdated, msg.ChannelID, msg)
	return msg, nil
}

// DeleteMessage removes a message owned by authorID.
func (s *MessageService) DeleteMessage(ctx context.Context, id uuid.UUID, authorID string) error {
	msg, err := s.ownedMessage(ctx, id, authorID, "delete")
	if err != nil {
		return err
	}

	if err := s.store.DeleteMessage(ctx, id); err != nil {
		return storeError("failed to delete message", err)
	}

	s.events.emit(ctx, models.EventMessageDeleted, msg.ChannelID, map[string]string{"id": id.String()})
	return nil
}

func (s *MessageService) ownedMessage(ctx context.Context, id uuid.UUID, authorID, verb string) (*models.Message, error) {
	msg, err := s.store.GetMessage(ctx, id)
	if err != nil {
		return nil, storeError("failed to load message", err)
	}
	if msg.AuthorID != authorID {
		return nil, &apperrors.ForbiddenError{Message: "you can only " + verb + " your own messages"}
	}
	return msg, nil
}

// storeError passes NotFound through and wraps everything else.
func storeError(message string, err error) error {
	if apperrors.IsNotFound(err) {
		return err
	}
	return &ProcessingError{Message: message, Cause: err}
}

// commandLabel keeps unknown command names out of metric labels.
func commandLabel(err error, name string) string {
	if apperrors.IsUnknownCommand(err) {
		return "unknown"
	}
	return name
}

func commandOutcome(err error) string {
	if apperrors.IsValidation(err) || apperrors.IsInvalidSource(err) || apperrors.IsUnknownCommand(err) {
		return outcomeRejected
	}
	return outcomeError
}
