package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"lifeai-server/internal/model"
)

const (
	createMessageQuery = `
        INSERT INTO messages (id, chat_id, content, role)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at
    `
	listMessagesQuery = `
        SELECT id, chat_id, content, role, created_at
        FROM messages
        WHERE chat_id = $1
        ORDER BY created_at ASC
    `
)

type pgMessageRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgMessageRepository creates the Postgres-backed message store.
func NewPgMessageRepository(db DBTX, logger *zap.Logger) MessageRepository {
	return &pgMessageRepository{db: db, logger: logger.Named("MessageRepo")}
}

func (r *pgMessageRepository) Create(ctx context.Context, msg *model.Message) error {
	err := r.db.QueryRow(ctx, createMessageQuery, msg.ID, msg.ChatID, msg.Content, msg.Role).
		Scan(&msg.CreatedAt)
	if err != nil {
		r.logger.Error("Error creating message", zap.Error(err))
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *pgMessageRepository) ListByChat(ctx context.Context, chatID uuid.UUID) ([]*model.Message, error) {
	var msgs []*model.Message
	err := pgxscan.Select(ctx, r.db, &msgs, listMessagesQuery, chatID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []*model.Message{}, nil
		}
		r.logger.Error("Error listing messages", zap.Error(err))
		return nil, fmt.Errorf("failed to list messages for chat %s: %w", chatID, err)
	}
	if msgs == nil {
		msgs = []*model.Message{}
	}
	return msgs, nil
}
