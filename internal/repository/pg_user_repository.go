package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"lifeai-server/internal/model"
)

const (
	createUserQuery = `
        INSERT INTO users (id, email, password_hash)
        VALUES ($1, $2, $3)
    `
	getUserByEmailQuery = `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`
	getUserByIDQuery    = `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`
)

type pgUserRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgUserRepository creates the Postgres-backed account store.
func NewPgUserRepository(db DBTX, logger *zap.Logger) UserRepository {
	return &pgUserRepository{db: db, logger: logger.Named("UserRepo")}
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.Exec(ctx, createUserQuery, user.ID, user.Email, user.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrUserAlreadyExists
		}
		r.logger.Error("Error creating user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *pgUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := pgxscan.Get(ctx, r.db, &user, getUserByEmailQuery, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		r.logger.Error("Error getting user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *pgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := pgxscan.Get(ctx, r.db, &user, getUserByIDQuery, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		r.logger.Error("Error getting user by id", zap.Error(err))
		return nil, fmt.Errorf("failed to get user by id %s: %w", id, err)
	}
	return &user, nil
}
