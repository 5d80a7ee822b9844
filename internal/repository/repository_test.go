package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/corvid-chat/corvid/internal/models"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantNil   bool
		wantIs    error
		wantInMsg string
	}{
		{
			name:    "nil passes through",
			err:     nil,
			wantNil: true,
		},
		{
			name:      "unique violation",
			err:       &pgconn.PgError{Code: "23505", ConstraintName: "messages_pkey"},
			wantIs:    ErrDuplicateKey,
			wantInMsg: "messages_pkey",
		},
		{
			name:      "other postgres error",
			err:       &pgconn.PgError{Code: "42P01", Message: "relation does not exist"},
			wantInMsg: "[42P01]",
		},
		{
			name:   "plain error keeps its chain",
			err:    pgx.ErrNoRows,
			wantIs: pgx.ErrNoRows,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapError(tt.err, "op")

			if tt.wantNil {
				if got != nil {
					t.Errorf("wrapError() = %v, want nil", got)
				}
				return
			}
			if tt.wantIs != nil && !errors.Is(got, tt.wantIs) {
				t.Errorf("wrapError() = %v, want errors.Is %v", got, tt.wantIs)
			}
			if tt.wantInMsg != "" && !strings.Contains(got.Error(), tt.wantInMsg) {
				t.Errorf("wrapError() = %q, want substring %q", got.Error(), tt.wantInMsg)
			}
		})
	}
}

func TestEncodeBotAction(t *testing.T) {
	raw, err := encodeBotAction(nil)
	if err != nil || raw != nil {
		t.Fatalf("encodeBotAction(nil) = %v, %v; want nil, nil", raw, err)
	}

	raw, err = encodeBotAction(&models.BotAction{Command: "clear"})
	if err != nil {
		t.Fatalf("encodeBotAction() error = %v", err)
	}
	if string(raw) != `{"command":"clear"}` {
		t.Errorf("encodeBotAction() = %s", raw)
	}
}

func TestTxHelpers_NoTransaction(t *testing.T) {
	repo := New(nil)
	ctx := context.Background()

	if err := repo.CommitTx(ctx); err == nil {
		t.Error("CommitTx() without transaction should fail")
	}
	if err := repo.RollbackTx(ctx); err == nil {
		t.Error("RollbackTx() without transaction should fail")
	}
}
