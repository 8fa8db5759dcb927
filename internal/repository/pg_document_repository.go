package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"lifeai-server/internal/model"
)

const (
	matchDocumentsQuery = `SELECT id, title, content, url, similarity FROM match_documents($1::vector, $2, $3)`
	getURLByTitleQuery  = `SELECT url FROM documents WHERE title = $1 AND url <> '' LIMIT 1`
)

type pgDocumentRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgDocumentRepository creates the Postgres-backed knowledge base.
func NewPgDocumentRepository(db DBTX, logger *zap.Logger) DocumentRepository {
	return &pgDocumentRepository{db: db, logger: logger.Named("DocumentRepo")}
}

func (r *pgDocumentRepository) Match(ctx context.Context, embedding []float32, threshold float64, count int) ([]*model.Document, error) {
	var docs []*model.Document
	err := pgxscan.Select(ctx, r.db, &docs, matchDocumentsQuery, vectorLiteral(embedding), threshold, count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []*model.Document{}, nil
		}
		r.logger.Error("Error matching documents", zap.Error(err))
		return nil, fmt.Errorf("failed to match documents: %w", err)
	}
	if docs == nil {
		docs = []*model.Document{}
	}
	return docs, nil
}

func (r *pgDocumentRepository) GetURLByTitle(ctx context.Context, title string) (string, error) {
	var url string
	err := r.db.QueryRow(ctx, getURLByTitleQuery, title).Scan(&url)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to get url for title %q: %w", title, err)
	}
	return url, nil
}

// vectorLiteral renders an embedding in pgvector's input format.
func vectorLiteral(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
