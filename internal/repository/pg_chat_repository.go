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
	createChatQuery = `
        INSERT INTO chats (id, name, user_id)
        VALUES ($1, $2, $3)
        RETURNING created_at, updated_at
    `
	getChatByIDQuery = `SELECT id, name, user_id, created_at, updated_at FROM chats WHERE id = $1`
	listChatsQuery   = `
        SELECT id, name, user_id, created_at, updated_at
        FROM chats
        WHERE user_id = $1
        ORDER BY updated_at DESC
    `
	renameChatQuery = `UPDATE chats SET name = $2, updated_at = now() WHERE id = $1`
	touchChatQuery  = `UPDATE chats SET updated_at = now() WHERE id = $1`
	deleteChatQuery = `DELETE FROM chats WHERE id = $1`
)

type pgChatRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgChatRepository creates the Postgres-backed chat store.
func NewPgChatRepository(db DBTX, logger *zap.Logger) ChatRepository {
	return &pgChatRepository{db: db, logger: logger.Named("ChatRepo")}
}

func (r *pgChatRepository) Create(ctx context.Context, chat *model.Chat) error {
	err := r.db.QueryRow(ctx, createChatQuery, chat.ID, chat.Name, chat.UserID).
		Scan(&chat.CreatedAt, &chat.UpdatedAt)
	if err != nil {
		r.logger.Error("Error creating chat", zap.Error(err))
		return fmt.Errorf("failed to create chat: %w", err)
	}
	return nil
}

func (r *pgChatRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Chat, error) {
	var chat model.Chat
	err := pgxscan.Get(ctx, r.db, &chat, getChatByIDQuery, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		r.logger.Error("Error getting chat", zap.Error(err))
		return nil, fmt.Errorf("failed to get chat %s: %w", id, err)
	}
	return &chat, nil
}

func (r *pgChatRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Chat, error) {
	var chats []*model.Chat
	err := pgxscan.Select(ctx, r.db, &chats, listChatsQuery, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []*model.Chat{}, nil
		}
		r.logger.Error("Error listing chats", zap.Error(err))
		return nil, fmt.Errorf("failed to list chats for user %s: %w", userID, err)
	}
	if chats == nil {
		chats = []*model.Chat{}
	}
	return chats, nil
}

func (r *pgChatRepository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	tag, err := r.db.Exec(ctx, renameChatQuery, id, name)
	if err != nil {
		r.logger.Error("Error renaming chat", zap.Error(err))
		return fmt.Errorf("failed to rename chat %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *pgChatRepository) Touch(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, touchChatQuery, id); err != nil {
		return fmt.Errorf("failed to touch chat %s: %w", id, err)
	}
	return nil
}

func (r *pgChatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, deleteChatQuery, id)
	if err != nil {
		r.logger.Error("Error deleting chat", zap.Error(err))
		return fmt.Errorf("failed to delete chat %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
