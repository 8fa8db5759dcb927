package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"lifeai-server/internal/model"
)

// DBTX abstracts over *pgxpool.Pool and pgx.Tx so repositories can run inside
// or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository stores accounts.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// ChatRepository stores conversations.
type ChatRepository interface {
	Create(ctx context.Context, chat *model.Chat) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Chat, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Chat, error)
	Rename(ctx context.Context, id uuid.UUID, name string) error
	Touch(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MessageRepository stores chat messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	ListByChat(ctx context.Context, chatID uuid.UUID) ([]*model.Message, error)
}

// DocumentRepository exposes the knowledge base. Match is an opaque ranked
// lookup: rows above the similarity threshold, best first.
type DocumentRepository interface {
	Match(ctx context.Context, embedding []float32, threshold float64, count int) ([]*model.Document, error)
	GetURLByTitle(ctx context.Context, title string) (string, error)
}

// TokenRepository tracks issued refresh tokens so they can be revoked.
type TokenRepository interface {
	Save(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error)
	Delete(ctx context.Context, userID uuid.UUID, tokenID string) error
	DeleteAll(ctx context.Context, userID uuid.UUID) error
}
