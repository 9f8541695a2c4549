package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"edusync/internal/app/client"
	clientConfig "edusync/internal/app/client/config"
	"edusync/internal/domain/document"
	"edusync/internal/domain/school"
	domainSync "edusync/internal/domain/sync"
	"edusync/internal/model"
	"edusync/internal/utils/logger"
)

// memRepository хранилище документов в памяти вместо PostgreSQL
type memRepository struct {
	mu   sync.Mutex
	docs map[string]document.Document
}

func newMemRepository() *memRepository {
	return &memRepository{docs: make(map[string]document.Document)}
}

func (r *memRepository) key(collection, id string) string {
	return collection + "/" + id
}

func (r *memRepository) List(_ context.Context, collection string) ([]document.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]document.Document, 0)
	for _, d := range r.docs {
		if d.Collection == collection {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepository) Get(_ context.Context, collection, id string) (*document.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.docs[r.key(collection, id)]
	if !ok {
		return nil, document.ErrNotFound
	}
	return &d, nil
}

func (r *memRepository) Upsert(_ context.Context, doc *document.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.docs[r.key(doc.Collection, doc.ID)]; ok {
		doc.CreatedAt = prev.CreatedAt
	}
	r.docs[r.key(doc.Collection, doc.ID)] = *doc
	return nil
}

func (r *memRepository) Delete(_ context.Context, collection, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[r.key(collection, id)]; !ok {
		return document.ErrNotFound
	}
	delete(r.docs, r.key(collection, id))
	return nil
}

func (r *memRepository) Ping(context.Context) error {
	return nil
}

const testToken = "staff-room-token"

func newTestServer(t *testing.T, tokenHash string) *httptest.Server {
	t.Helper()
	log := logger.Discard()
	svc := document.NewService(newMemRepository(), log)
	srv := httptest.NewServer(New(svc, tokenHash, prometheus.NewRegistry(), log))
	t.Cleanup(srv.Close)
	return srv
}

func clientConfigFor(srv *httptest.Server, token string) *clientConfig.Config {
	return &clientConfig.Config{
		ServerAddress:  strings.TrimPrefix(srv.URL, "http://"),
		APIToken:       token,
		RequestTimeout: 5 * time.Second,
	}
}

func TestAPI_ClientRoundTrip(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte(testToken), bcrypt.MinCost)
	require.NoError(t, err)
	srv := newTestServer(t, string(hash))
	ctx := context.Background()

	api := client.NewHTTPClient(clientConfigFor(srv, testToken), logger.Discard())
	require.NoError(t, api.HealthCheck(ctx))

	fees := client.NewRemoteCollection[*school.Fee](api, school.CollectionFees)

	fee := &school.Fee{StudentID: "S1", Title: "Term 1", Amount: decimal.NewFromInt(500)}
	id, err := fees.Insert(ctx, fee)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, id, fee.ID)

	got, err := fees.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "S1", got.StudentID)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(500)))

	got.Amount = decimal.NewFromInt(650)
	require.NoError(t, fees.Update(ctx, got))

	all, err := fees.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "650", all[0].Amount.String())

	require.NoError(t, fees.Delete(ctx, id))
	assert.ErrorIs(t, fees.Delete(ctx, id), model.ErrNotFound)

	_, err = fees.Get(ctx, id)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAPI_RejectsWrongToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte(testToken), bcrypt.MinCost)
	require.NoError(t, err)
	srv := newTestServer(t, string(hash))
	ctx := context.Background()

	api := client.NewHTTPClient(clientConfigFor(srv, "wrong"), logger.Discard())
	// health публичный
	require.NoError(t, api.HealthCheck(ctx))

	_, err = api.ListDocuments(ctx, school.CollectionStudents)
	assert.ErrorIs(t, err, domainSync.ErrRejected)
}

func TestAPI_InvalidCollection(t *testing.T) {
	srv := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/api/v1/collections/Bad-Name/documents")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_Metrics(t *testing.T) {
	srv := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/api/v1/health")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `edusync_http_requests_total{code="200",method="GET"} 1`)
}
