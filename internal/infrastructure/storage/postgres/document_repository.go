package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"edusync/internal/domain/document"
)

type DocumentRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewDocumentRepository(pool *pgxpool.Pool, log *slog.Logger) *DocumentRepository {
	return &DocumentRepository{
		pool: pool,
		log:  log.With("component", "document_repository"),
	}
}

var _ document.Repository = (*DocumentRepository)(nil)

func (r *DocumentRepository) List(ctx context.Context, collection string) ([]document.Document, error) {
	const query = `
		SELECT collection, id, data, created_at, updated_at
		FROM documents
		WHERE collection = $1
		ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, collection)
	if err != nil {
		r.log.Error("failed to list documents", "collection", collection, "error", err)
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]document.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

func (r *DocumentRepository) Get(ctx context.Context, collection, id string) (*document.Document, error) {
	const query = `
		SELECT collection, id, data, created_at, updated_at
		FROM documents
		WHERE collection = $1 AND id = $2`

	doc, err := scanDocument(r.pool.QueryRow(ctx, query, collection, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, document.ErrNotFound
		}
		r.log.Error("failed to get document", "collection", collection, "id", id, "error", err)
		return nil, err
	}
	return doc, nil
}

func (r *DocumentRepository) Upsert(ctx context.Context, doc *document.Document) error {
	const query = `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (collection, id) DO UPDATE
		SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
		RETURNING created_at`

	data, err := json.Marshal(doc.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", document.ErrInvalidData, err)
	}

	err = r.pool.QueryRow(ctx, query,
		doc.Collection, doc.ID, data, doc.CreatedAt, doc.UpdatedAt,
	).Scan(&doc.CreatedAt)
	if err != nil {
		r.log.Error("failed to upsert document", "collection", doc.Collection, "id", doc.ID, "error", err)
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, collection, id string) error {
	const query = `DELETE FROM documents WHERE collection = $1 AND id = $2`

	result, err := r.pool.Exec(ctx, query, collection, id)
	if err != nil {
		r.log.Error("failed to delete document", "collection", collection, "id", id, "error", err)
		return fmt.Errorf("delete document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return document.ErrNotFound
	}
	return nil
}

func (r *DocumentRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanDocument(row pgx.Row) (*document.Document, error) {
	var (
		doc document.Document
		raw []byte
	)
	if err := row.Scan(&doc.Collection, &doc.ID, &raw, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc.Data); err != nil {
		return nil, fmt.Errorf("decode document %s/%s: %w", doc.Collection, doc.ID, err)
	}
	return &doc, nil
}
