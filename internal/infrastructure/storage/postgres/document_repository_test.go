package postgres

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edusync/internal/domain/document"
	"edusync/internal/utils/logger"
)

// Интеграционные тесты запускаются только при заданном EDUSYNC_TEST_DATABASE_URI
// со схемой из migrations/.
func newTestRepository(t *testing.T) *DocumentRepository {
	t.Helper()
	dsn := os.Getenv("EDUSYNC_TEST_DATABASE_URI")
	if dsn == "" {
		t.Skip("EDUSYNC_TEST_DATABASE_URI is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM documents WHERE collection LIKE 'test_%'`)
	})
	return NewDocumentRepository(pool, logger.Discard())
}

func TestDocumentRepository_RoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	doc := &document.Document{
		Collection: "test_fees",
		ID:         "f1",
		Data:       map[string]any{"id": "f1", "amount": "500", "installments": 2},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, repo.Upsert(ctx, doc))

	got, err := repo.Get(ctx, "test_fees", "f1")
	require.NoError(t, err)
	assert.Equal(t, "500", got.Data["amount"])
	assert.Equal(t, json.Number("2"), got.Data["installments"])

	// повторная запись сохраняет created_at
	later := now.Add(time.Hour)
	doc2 := &document.Document{
		Collection: "test_fees",
		ID:         "f1",
		Data:       map[string]any{"id": "f1", "amount": "600"},
		CreatedAt:  later,
		UpdatedAt:  later,
	}
	require.NoError(t, repo.Upsert(ctx, doc2))
	assert.True(t, doc2.CreatedAt.Equal(now))

	docs, err := repo.List(ctx, "test_fees")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "600", docs[0].Data["amount"])

	require.NoError(t, repo.Delete(ctx, "test_fees", "f1"))
	assert.ErrorIs(t, repo.Delete(ctx, "test_fees", "f1"), document.ErrNotFound)

	_, err = repo.Get(ctx, "test_fees", "f1")
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestDocumentRepository_ListEmpty(t *testing.T) {
	repo := newTestRepository(t)

	docs, err := repo.List(context.Background(), "test_empty")
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}
