// Package repository provides database operations for chat messages.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corvid-chat/corvid/internal/apperrors"
	"github.com/corvid-chat/corvid/internal/models"
)

type ctxKey string

const txKey ctxKey = "tx"

// ErrDuplicateKey is returned when attempting to insert a duplicate record.
var ErrDuplicateKey = errors.New("duplicate key violation")

const messageColumns = `id, channel_id, author_id, content, type, bot_action, edited, created_at, updated_at`

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository handles all database operations for chat messages.
type Repository struct {
	db *pgxpool.Pool
}

// New creates a new Repository instance with the provided database connection pool.
func New(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// conn returns the transaction carried by ctx, or the pool.
func (r *Repository) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey).(pgx.Tx); ok {
		return tx
	}
	return r.db
}

// CreateMessage inserts a message. Zero ID and timestamps are filled in.
func (r *Repository) CreateMessage(ctx context.Context, msg *models.Message) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	if msg.UpdatedAt.IsZero() {
		msg.UpdatedAt = msg.CreatedAt
	}
	if msg.Type == "" {
		msg.Type = models.MessageTypeUser
	}

	botAction, err := encodeBotAction(msg.BotAction)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO chat.messages
		(id, channel_id, author_id, content, type, bot_action, edited, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.conn(ctx).Exec(ctx, query,
		msg.ID, msg.ChannelID, msg.AuthorID, msg.Content, string(msg.Type),
		botAction, msg.Edited, msg.CreatedAt, msg.UpdatedAt,
	)
	return wrapError(err, "create message")
}

// GetMessage retrieves a message by its ID.
func (r *Repository) GetMessage(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM chat.messages WHERE id = $1`

	msg, err := scanMessage(r.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("message", id.String())
		}
		return nil, wrapError(err, "get message")
	}
	return msg, nil
}

// ListMessagesByChannel returns up to limit messages, newest first. When
// before is set only messages older than that message are returned.
func (r *Repository) ListMessagesByChannel(ctx context.Context, channelID string, limit int, before *uuid.UUID) ([]models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM chat.messages
		WHERE channel_id = $1
		  AND ($2::uuid IS NULL OR (created_at, id) < (
		      SELECT created_at, id FROM chat.messages WHERE id = $2))
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`
	rows, err := r.conn(ctx).Query(ctx, query, channelID, before, limit)
	if err != nil {
		return nil, wrapError(err, "list messages")
	}
	defer rows.Close()

	messages := make([]models.Message, 0, limit)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, wrapError(err, "scan message")
		}
		messages = append(messages, *msg)
	}
	return messages, wrapError(rows.Err(), "list messages")
}

// UpdateMessageContent replaces the content and marks the message edited.
func (r *Repository) UpdateMessageContent(ctx context.Context, id uuid.UUID, content string) (*models.Message, error) {
	query := `
		UPDATE chat.messages
		SET content = $2, edited = TRUE, updated_at = $3
		WHERE id = $1
		RETURNING ` + messageColumns

	msg, err := scanMessage(r.conn(ctx).QueryRow(ctx, query, id, content, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("message", id.String())
		}
		return nil, wrapError(err, "update message")
	}
	return msg, nil
}

// DeleteMessage removes a message.
func (r *Repository) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM chat.messages WHERE id = $1`, id)
	if err != nil {
		return wrapError(err, "delete message")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFound("message", id.String())
	}
	return nil
}

// SaveBotExchange stores the user's command and the bot's reply atomically.
func (r *Repository) SaveBotExchange(ctx context.Context, command, reply *models.Message) error {
	txCtx, err := r.BeginTx(ctx)
	if err != nil {
		return wrapError(err, "begin transaction")
	}

	if err := r.CreateMessage(txCtx, command); err != nil {
		_ = r.RollbackTx(txCtx)
		return err
	}
	if err := r.CreateMessage(txCtx, reply); err != nil {
		_ = r.RollbackTx(txCtx)
		return err
	}

	return wrapError(r.CommitTx(txCtx), "commit transaction")
}

// Ping checks the database connection health.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Transaction support

// BeginTx starts a new database transaction and returns a context with the transaction.
func (r *Repository) BeginTx(ctx context.Context) (context.Context, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return context.WithValue(ctx, txKey, tx), nil
}

// CommitTx commits the transaction stored in the context.
func (r *Repository) CommitTx(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	if !ok {
		return fmt.Errorf("no transaction in context")
	}
	return tx.Commit(ctx)
}

// RollbackTx rolls back the transaction stored in the context.
func (r *Repository) RollbackTx(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	if !ok {
		return fmt.Errorf("no transaction in context")
	}
	return tx.Rollback(ctx)
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var (
		msg       models.Message
		msgType   string
		botAction []byte
	)
	if err := row.Scan(
		&msg.ID, &msg.ChannelID, &msg.AuthorID, &msg.Content, &msgType,
		&botAction, &msg.Edited, &msg.CreatedAt, &msg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	msg.Type = models.MessageType(msgType)

	if len(botAction) > 0 {
		var action models.BotAction
		if err := json.Unmarshal(botAction, &action); err != nil {
			return nil, fmt.Errorf("decode bot action: %w", err)
		}
		msg.BotAction = &action
	}
	return &msg, nil
}

func encodeBotAction(action *models.BotAction) ([]byte, error) {
	if action == nil {
		return nil, nil
	}
	raw, err := json.Marshal(action)
	if err != nil {
		return nil, fmt.Errorf("encode bot action: %w", err)
	}
	return raw, nil
}

// wrapError adds the operation name and maps constraint violations.
func wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%s: %w (constraint: %s)", operation, ErrDuplicateKey, pgErr.ConstraintName)
		}
		return fmt.Errorf("%s: database error [%s]: %w", operation, pgErr.Code, err)
	}

	return fmt.Errorf("%s: %w", operation, err)
}
