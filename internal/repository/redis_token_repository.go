package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	refreshTokenKeyPrefix = "refresh_token:"
	userTokensKeyPrefix   = "user_tokens:"
)

type redisTokenRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisTokenRepository creates the Redis-backed refresh token store. Each
// token lives under its own key with a TTL; a per-user set tracks the token
// IDs so logout can revoke everything at once.
func NewRedisTokenRepository(client *redis.Client, logger *zap.Logger) TokenRepository {
	return &redisTokenRepository{client: client, logger: logger.Named("TokenRepo")}
}

func tokenKey(userID uuid.UUID, tokenID string) string {
	return refreshTokenKeyPrefix + userID.String() + ":" + tokenID
}

func userTokensKey(userID uuid.UUID) string {
	return userTokensKeyPrefix + userID.String()
}

func (r *redisTokenRepository) Save(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, tokenKey(userID, tokenID), "1", ttl)
	pipe.SAdd(ctx, userTokensKey(userID), tokenID)
	pipe.Expire(ctx, userTokensKey(userID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Error saving refresh token", zap.Error(err))
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

func (r *redisTokenRepository) Exists(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	_, err := r.client.Get(ctx, tokenKey(userID, tokenID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check refresh token: %w", err)
	}
	return true, nil
}

func (r *redisTokenRepository) Delete(ctx context.Context, userID uuid.UUID, tokenID string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, tokenKey(userID, tokenID))
	pipe.SRem(ctx, userTokensKey(userID), tokenID)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Error deleting refresh token", zap.Error(err))
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

func (r *redisTokenRepository) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	ids, err := r.client.SMembers(ctx, userTokensKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to list user tokens: %w", err)
	}

	pipe := r.client.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, tokenKey(userID, id))
	}
	pipe.Del(ctx, userTokensKey(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Error revoking user tokens", zap.Error(err))
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}
