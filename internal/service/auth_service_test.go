package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lifeai-server/internal/model"
)

type mockUserRepo struct {
	byEmail map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byEmail: map[string]*model.User{}}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if _, ok := m.byEmail[user.Email]; ok {
		return model.ErrUserAlreadyExists
	}
	m.byEmail[user.Email] = user
	return nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, model.ErrNotFound
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, model.ErrNotFound
}

type mockTokenRepo struct {
	saved map[string]bool
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{saved: map[string]bool{}}
}

func (m *mockTokenRepo) key(userID uuid.UUID, tokenID string) string {
	return userID.String() + ":" + tokenID
}

func (m *mockTokenRepo) Save(_ context.Context, userID uuid.UUID, tokenID string, _ time.Duration) error {
	m.saved[m.key(userID, tokenID)] = true
	return nil
}

func (m *mockTokenRepo) Exists(_ context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	return m.saved[m.key(userID, tokenID)], nil
}

func (m *mockTokenRepo) Delete(_ context.Context, userID uuid.UUID, tokenID string) error {
	delete(m.saved, m.key(userID, tokenID))
	return nil
}

func (m *mockTokenRepo) DeleteAll(_ context.Context, userID uuid.UUID) error {
	for k := range m.saved {
		if len(k) > 36 && k[:36] == userID.String() {
			delete(m.saved, k)
		}
	}
	return nil
}

func newTestAuthService() (*AuthService, *mockUserRepo, *mockTokenRepo) {
	users := newMockUserRepo()
	tokens := newMockTokenRepo()
	svc := NewAuthService(users, tokens, AuthServiceConfig{
		JWTSecret:       "test-secret",
		PasswordPepper:  "test-pepper",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}, zap.NewNop())
	return svc, users, tokens
}

func TestPasswordHashingRoundTrip(t *testing.T) {
	hash, err := hashPassword("correct horse", "pepper")
	require.NoError(t, err)

	assert.True(t, checkPassword(hash, "correct horse", "pepper"))
	assert.False(t, checkPassword(hash, "wrong horse", "pepper"))
	assert.False(t, checkPassword(hash, "correct horse", "other-pepper"))
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "not-an-email", "longenough")
	require.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Register(ctx, "a@b.fr", "short")
	require.ErrorIs(t, err, model.ErrValidation)

	user, err := svc.Register(ctx, "  A@B.FR ", "longenough")
	require.NoError(t, err)
	assert.Equal(t, "a@b.fr", user.Email, "email is normalized")

	_, err = svc.Register(ctx, "a@b.fr", "longenough")
	require.ErrorIs(t, err, model.ErrUserAlreadyExists)
}

func TestLoginAndVerify(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@b.fr", "longenough")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@b.fr", "wrong password")
	require.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@b.fr", "longenough")
	require.ErrorIs(t, err, model.ErrInvalidCredentials)

	pair, err := svc.Login(ctx, "a@b.fr", "longenough")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	// A refresh token must not pass as an access token.
	_, err = svc.VerifyAccessToken(pair.RefreshToken)
	require.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, tokens := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@b.fr", "longenough")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "a@b.fr", "longenough")
	require.NoError(t, err)

	fresh, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, fresh.RefreshToken)

	// The old token was revoked by the rotation.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, model.ErrTokenRevoked)

	assert.Len(t, tokens.saved, 1)
}

func TestLogoutRevokesEverything(t *testing.T) {
	svc, _, tokens := newTestAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@b.fr", "longenough")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "a@b.fr", "longenough")
	require.NoError(t, err)
	_, err = svc.Login(ctx, "a@b.fr", "longenough")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, user.ID))
	assert.Empty(t, tokens.saved)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, model.ErrTokenRevoked)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.VerifyAccessToken("not.a.jwt")
	require.ErrorIs(t, err, model.ErrTokenInvalid)
}
