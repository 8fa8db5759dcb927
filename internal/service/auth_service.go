package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifeai-server/internal/model"
	"lifeai-server/internal/repository"
)

// Claims is the JWT payload for both access and refresh tokens.
type Claims struct {
	UserID    uuid.UUID `json:"uid"`
	TokenType string    `json:"typ"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// AuthService handles registration, login and token lifecycle.
type AuthService struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	logger *zap.Logger

	jwtSecret  []byte
	pepper     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// AuthServiceConfig carries the secrets and token lifetimes.
type AuthServiceConfig struct {
	JWTSecret       string
	PasswordPepper  string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// NewAuthService creates the auth service.
func NewAuthService(users repository.UserRepository, tokens repository.TokenRepository, cfg AuthServiceConfig, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		logger:     logger.Named("AuthService"),
		jwtSecret:  []byte(cfg.JWTSecret),
		pepper:     cfg.PasswordPepper,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}
}

// Register creates a new account.
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", model.ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", model.ErrValidation)
	}

	hash, err := hashPassword(password, s.pepper)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (model.TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.TokenPair{}, model.ErrInvalidCredentials
		}
		return model.TokenPair{}, err
	}

	if !checkPassword(user.PasswordHash, password, s.pepper) {
		return model.TokenPair{}, model.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user.ID)
}

// Refresh rotates a refresh token: the old one is revoked and a fresh pair
// issued atomically from the caller's perspective.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return model.TokenPair{}, err
	}
	if claims.TokenType != "refresh" {
		return model.TokenPair{}, model.ErrTokenInvalid
	}

	ok, err := s.tokens.Exists(ctx, claims.UserID, claims.ID)
	if err != nil {
		return model.TokenPair{}, err
	}
	if !ok {
		return model.TokenPair{}, model.ErrTokenRevoked
	}

	if err := s.tokens.Delete(ctx, claims.UserID, claims.ID); err != nil {
		return model.TokenPair{}, err
	}
	return s.issueTokens(ctx, claims.UserID)
}

// Logout revokes every refresh token of the user.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokens.DeleteAll(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("User logged out", zap.String("user_id", userID.String()))
	return nil
}

// VerifyAccessToken validates an access token and returns its claims. Shaped
// for the HTTP middleware's TokenVerifier hook.
func (s *AuthService) VerifyAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "access" {
		return nil, model.ErrTokenInvalid
	}
	return claims, nil
}

func (s *AuthService) issueTokens(ctx context.Context, userID uuid.UUID) (model.TokenPair, error) {
	now := time.Now().UTC()

	access, err := s.signToken(Claims{
		UserID:    userID,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	})
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshID := uuid.NewString()
	refresh, err := s.signToken(Claims{
		UserID:    userID,
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        refreshID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	})
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.tokens.Save(ctx, userID, refreshID, s.refreshTTL); err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) signToken(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(tokenString string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrTokenExpired
		}
		return nil, model.ErrTokenInvalid
	}
	return &claims, nil
}
