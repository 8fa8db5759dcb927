package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"lifeai-server/internal/database"
	"lifeai-server/internal/model"
)

// setupTestDB starts a disposable Postgres (with pgvector) and applies the
// migrations. Requires Docker; skipped under -short.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "pgvector/pgvector:pg16",
		postgres.WithDatabase("lifeai_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.Migrate(pool, zap.NewNop()))
	return pool
}

func TestPostgresRepositories(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	log := zap.NewNop()

	users := NewPgUserRepository(pool, log)
	chats := NewPgChatRepository(pool, log)
	messages := NewPgMessageRepository(pool, log)
	documents := NewPgDocumentRepository(pool, log)

	user := &model.User{ID: uuid.New(), Email: "a@b.fr", PasswordHash: "hash"}
	require.NoError(t, users.Create(ctx, user))

	t.Run("duplicate email is rejected", func(t *testing.T) {
		dup := &model.User{ID: uuid.New(), Email: "a@b.fr", PasswordHash: "hash"}
		require.ErrorIs(t, users.Create(ctx, dup), model.ErrUserAlreadyExists)
	})

	t.Run("get user", func(t *testing.T) {
		got, err := users.GetByEmail(ctx, "a@b.fr")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		_, err = users.GetByEmail(ctx, "nobody@b.fr")
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	first := &model.Chat{ID: uuid.New(), Name: "premier", UserID: user.ID}
	second := &model.Chat{ID: uuid.New(), Name: "deuxième", UserID: user.ID}
	require.NoError(t, chats.Create(ctx, first))
	require.NoError(t, chats.Create(ctx, second))

	t.Run("touch reorders chat listing", func(t *testing.T) {
		require.NoError(t, chats.Touch(ctx, first.ID))

		list, err := chats.ListByUser(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, first.ID, list[0].ID, "most recently active first")
	})

	t.Run("messages are chronological", func(t *testing.T) {
		m1 := &model.Message{ID: uuid.New(), ChatID: first.ID, Content: "question", Role: model.RoleUser}
		m2 := &model.Message{ID: uuid.New(), ChatID: first.ID, Content: "réponse", Role: model.RoleAssistant}
		require.NoError(t, messages.Create(ctx, m1))
		require.NoError(t, messages.Create(ctx, m2))

		list, err := messages.ListByChat(ctx, first.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "question", list[0].Content)
		assert.Equal(t, "réponse", list[1].Content)
	})

	t.Run("delete chat cascades to messages", func(t *testing.T) {
		require.NoError(t, chats.Delete(ctx, first.ID))

		_, err := chats.GetByID(ctx, first.ID)
		require.ErrorIs(t, err, model.ErrNotFound)

		list, err := messages.ListByChat(ctx, first.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("delete unknown chat", func(t *testing.T) {
		require.ErrorIs(t, chats.Delete(ctx, uuid.New()), model.ErrNotFound)
	})

	t.Run("match on empty knowledge base", func(t *testing.T) {
		embedding := make([]float32, 1536)
		embedding[0] = 1

		docs, err := documents.Match(ctx, embedding, 0.78, 2)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("match ranks by similarity", func(t *testing.T) {
		seedDocument(t, pool, "Guerre froide", "contenu a", "https://example.org/a", 0)
		seedDocument(t, pool, "Mur de Berlin", "contenu b", "", 1)

		query := make([]float32, 1536)
		query[0] = 1

		docs, err := documents.Match(ctx, query, 0.5, 2)
		require.NoError(t, err)
		require.Len(t, docs, 1, "orthogonal vector stays below the threshold")
		assert.Equal(t, "Guerre froide", docs[0].Title)
		assert.InDelta(t, 1.0, docs[0].Similarity, 0.001)
	})

	t.Run("url lookup by title", func(t *testing.T) {
		url, err := documents.GetURLByTitle(ctx, "Guerre froide")
		require.NoError(t, err)
		assert.Equal(t, "https://example.org/a", url)

		_, err = documents.GetURLByTitle(ctx, "Mur de Berlin")
		require.ErrorIs(t, err, model.ErrNotFound, "empty urls do not count")
	})
}

// seedDocument inserts a document whose embedding is a unit vector along the
// given axis, making similarities predictable.
func seedDocument(t *testing.T, pool *pgxpool.Pool, title, content, url string, axis int) {
	t.Helper()
	embedding := make([]float32, 1536)
	embedding[axis] = 1

	_, err := pool.Exec(context.Background(),
		`INSERT INTO documents (title, content, url, embedding) VALUES ($1, $2, $3, $4::vector)`,
		title, content, url, vectorLiteral(embedding))
	require.NoError(t, err)
}
