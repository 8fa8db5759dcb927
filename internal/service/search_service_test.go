package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lifeai-server/internal/model"
)

type mockEmbedder struct {
	vector []float32
	err    error
}

func (m *mockEmbedder) Embed(context.Context, string) ([]float32, error) {
	return m.vector, m.err
}

type mockDocumentRepo struct {
	docs       []*model.Document
	matchErr   error
	urlByTitle map[string]string
	urlCalls   []string
}

func (m *mockDocumentRepo) Match(context.Context, []float32, float64, int) ([]*model.Document, error) {
	return m.docs, m.matchErr
}

func (m *mockDocumentRepo) GetURLByTitle(_ context.Context, title string) (string, error) {
	m.urlCalls = append(m.urlCalls, title)
	url, ok := m.urlByTitle[title]
	if !ok {
		return "", model.ErrNotFound
	}
	return url, nil
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	svc := NewSearchService(&mockEmbedder{}, &mockDocumentRepo{}, zap.NewNop())

	_, err := svc.Search(context.Background(), "")
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestSearchPropagatesEmbeddingFailure(t *testing.T) {
	svc := NewSearchService(&mockEmbedder{err: model.ErrGenerationFailed}, &mockDocumentRepo{}, zap.NewNop())

	_, err := svc.Search(context.Background(), "guerre froide")
	require.ErrorIs(t, err, model.ErrGenerationFailed)
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	repo := &mockDocumentRepo{docs: []*model.Document{}}
	svc := NewSearchService(&mockEmbedder{vector: []float32{0.1}}, repo, zap.NewNop())

	results, err := svc.Search(context.Background(), "sujet inconnu")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchEnrichesOnlyMissingURLs(t *testing.T) {
	repo := &mockDocumentRepo{
		docs: []*model.Document{
			{Title: "Guerre froide", Content: "...", URL: "https://example.org/a", Similarity: 0.91},
			{Title: "Mur de Berlin", Content: "...", URL: "", Similarity: 0.85},
		},
		urlByTitle: map[string]string{"Mur de Berlin": "https://example.org/b"},
	}
	svc := NewSearchService(&mockEmbedder{vector: []float32{0.1}}, repo, zap.NewNop())

	results, err := svc.Search(context.Background(), "berlin")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "https://example.org/a", results[0].URL)
	assert.Equal(t, "https://example.org/b", results[1].URL)
	assert.Equal(t, []string{"Mur de Berlin"}, repo.urlCalls, "lookup fires only for the missing URL")
}

func TestSearchToleratesMissingSecondaryURL(t *testing.T) {
	repo := &mockDocumentRepo{
		docs: []*model.Document{{Title: "Sans lien", Content: "...", URL: ""}},
	}
	svc := NewSearchService(&mockEmbedder{vector: []float32{0.1}}, repo, zap.NewNop())

	results, err := svc.Search(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].URL)
}

func TestSearchPropagatesMatchFailure(t *testing.T) {
	repo := &mockDocumentRepo{matchErr: errors.New("db down")}
	svc := NewSearchService(&mockEmbedder{vector: []float32{0.1}}, repo, zap.NewNop())

	_, err := svc.Search(context.Background(), "x")
	require.Error(t, err)
}
