package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"lifeai-server/internal/model"
	"lifeai-server/internal/repository"
)

// Defaults of the semantic matcher.
const (
	matchThreshold = 0.78
	matchCount     = 2
)

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SearchService answers semantic queries against the knowledge base.
type SearchService struct {
	embedder Embedder
	docs     repository.DocumentRepository
	logger   *zap.Logger
}

// NewSearchService creates the search service.
func NewSearchService(embedder Embedder, docs repository.DocumentRepository, logger *zap.Logger) *SearchService {
	return &SearchService{embedder: embedder, docs: docs, logger: logger.Named("SearchService")}
}

// Search embeds the query, matches it against the document store and
// enriches hits with source URLs. An empty result set is a normal outcome.
func (s *SearchService) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", model.ErrValidation)
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	docs, err := s.docs.Match(ctx, embedding, matchThreshold, matchCount)
	if err != nil {
		return nil, fmt.Errorf("failed to match documents: %w", err)
	}

	results := make([]model.SearchResult, 0, len(docs))
	for _, doc := range docs {
		url := doc.URL
		if url == "" {
			// Secondary lookup: some chunks carry no source link of
			// their own but a sibling row with the same title does.
			found, err := s.docs.GetURLByTitle(ctx, doc.Title)
			switch {
			case err == nil:
				url = found
			case errors.Is(err, model.ErrNotFound):
				// no link, fine
			default:
				s.logger.Warn("URL enrichment failed", zap.String("title", doc.Title), zap.Error(err))
			}
		}
		results = append(results, model.SearchResult{
			Title:      doc.Title,
			Content:    doc.Content,
			URL:        url,
			Similarity: doc.Similarity,
		})
	}
	return results, nil
}
