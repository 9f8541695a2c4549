package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	gosync "sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"edusync/internal/app/client/config"
	"edusync/internal/domain/school"
	"edusync/internal/domain/sync"
	"edusync/internal/infrastructure/metrics"
	"edusync/internal/infrastructure/storage/sqlite"
	"edusync/internal/model"
)

// documentServer минимальный сервер документов в памяти
type documentServer struct {
	mu      gosync.Mutex
	docs    map[string]map[string]json.RawMessage
	offline bool
	token   string
}

func newDocumentServer() *documentServer {
	return &documentServer{docs: make(map[string]map[string]json.RawMessage)}
}

func (s *documentServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("GET /api/v1/collections/{collection}/documents", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		out := listResponse{Documents: []json.RawMessage{}}
		for _, doc := range s.docs[r.PathValue("collection")] {
			out.Documents = append(out.Documents, doc)
		}
		json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("GET /api/v1/collections/{collection}/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		doc, ok := s.docs[r.PathValue("collection")][r.PathValue("id")]
		if !ok {
			problem(w, http.StatusNotFound, "document not found")
			return
		}
		w.Write(doc)
	})
	mux.HandleFunc("POST /api/v1/collections/{collection}/documents", func(w http.ResponseWriter, r *http.Request) {
		var data map[string]any
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
			problem(w, http.StatusBadRequest, err.Error())
			return
		}
		id := uuid.NewString()
		data["id"] = id
		s.put(r.PathValue("collection"), id, data)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(idResponse{ID: id})
	})
	mux.HandleFunc("PUT /api/v1/collections/{collection}/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		var data map[string]any
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
			problem(w, http.StatusBadRequest, err.Error())
			return
		}
		id := r.PathValue("id")
		data["id"] = id
		s.put(r.PathValue("collection"), id, data)
		json.NewEncoder(w).Encode(idResponse{ID: id})
	})
	mux.HandleFunc("DELETE /api/v1/collections/{collection}/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		coll := s.docs[r.PathValue("collection")]
		if _, ok := coll[r.PathValue("id")]; !ok {
			problem(w, http.StatusNotFound, "document not found")
			return
		}
		delete(coll, r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		offline, token := s.offline, s.token
		s.mu.Unlock()
		if offline {
			problem(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			problem(w, http.StatusUnauthorized, "invalid token")
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func (s *documentServer) put(collection, id string, data map[string]any) {
	raw, _ := json.Marshal(data)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]json.RawMessage)
	}
	s.docs[collection][id] = raw
}

func (s *documentServer) get(collection, id string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.docs[collection][id]
	if !ok {
		return nil, false
	}
	var out map[string]any
	_ = json.Unmarshal(raw, &out)
	return out, true
}

func (s *documentServer) setOffline(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offline = v
}

func problem(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}

func newTestApp(t *testing.T, srv *httptest.Server) *App {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Env:            "local",
		ServerAddress:  strings.TrimPrefix(srv.URL, "http://"),
		ConfigDir:      dir,
		DataPath:       filepath.Join(dir, "edusync.db"),
		LocalDriver:    sqlite.DriverPure,
		RequestTimeout: 2 * time.Second,
		SyncStrategy:   sync.StrategyServer,
	}

	app, err := New(context.Background(), cfg, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func TestApp_AddFeeScenario(t *testing.T) {
	docs := newDocumentServer()
	srv := httptest.NewServer(docs.handler())
	defer srv.Close()
	app := newTestApp(t, srv)
	ctx := context.Background()

	res, err := app.AddFee(ctx, &school.Fee{StudentID: "S1", Amount: decimal.NewFromInt(500)})
	require.NoError(t, err)
	assert.Equal(t, sync.OutcomeSynced, res.Remote)

	id := res.Record.ID
	require.NotEmpty(t, id)

	local, err := app.Fees().List(ctx, school.ByStudent("S1"))
	require.NoError(t, err)
	require.Len(t, local, 1)
	assert.Equal(t, id, local[0].ID)

	remote, ok := docs.get(school.CollectionFees, id)
	require.True(t, ok)
	assert.Equal(t, id, remote["id"])
	assert.Equal(t, "S1", remote["student_id"])
	assert.Equal(t, "500", remote["amount"])
}

func TestApp_OfflineWritesStayLocal(t *testing.T) {
	docs := newDocumentServer()
	srv := httptest.NewServer(docs.handler())
	defer srv.Close()
	app := newTestApp(t, srv)
	ctx := context.Background()

	docs.setOffline(true)
	res, err := app.AddStudent(ctx, &school.Student{FirstName: "Amina", LastName: "Otieno", ClassID: "4B"})
	require.NoError(t, err)
	assert.Equal(t, sync.OutcomeUnavailable, res.Remote)
	assert.ErrorIs(t, res.RemoteErr, sync.ErrUnavailable)

	got, err := app.Students().Get(ctx, res.Record.ID)
	require.NoError(t, err)
	assert.True(t, got.Found)
	assert.Equal(t, sync.SourceLocal, got.Source)
	assert.Equal(t, "Amina", got.Value.FirstName)

	counts, err := app.RemoteCounts()
	require.NoError(t, err)
	assert.Contains(t, counts, metrics.RemoteCount{
		Collection: school.CollectionStudents, Op: "insert", Outcome: "unavailable", Count: 1,
	})
	// сервер не ответил и на чтение
	assert.Contains(t, counts, metrics.RemoteCount{
		Collection: school.CollectionStudents, Op: "get", Outcome: "unavailable", Count: 1,
	})
}

func TestApp_PayFee(t *testing.T) {
	docs := newDocumentServer()
	srv := httptest.NewServer(docs.handler())
	defer srv.Close()
	app := newTestApp(t, srv)
	ctx := context.Background()

	res, err := app.AddFee(ctx, &school.Fee{StudentID: "S1", Title: "Term 1", Amount: decimal.NewFromInt(500)})
	require.NoError(t, err)

	paid, err := app.PayFee(ctx, res.Record.ID, decimal.NewFromInt(200))
	require.NoError(t, err)
	assert.Equal(t, school.FeePartial, paid.Record.Status)
	assert.Equal(t, sync.OutcomeSynced, paid.Remote)

	remote, ok := docs.get(school.CollectionFees, res.Record.ID)
	require.True(t, ok)
	assert.Equal(t, "200", remote["paid"])

	_, err = app.PayFee(ctx, res.Record.ID, decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, school.ErrOverpayment)

	_, err = app.PayFee(ctx, "missing", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestApp_DeleteAlwaysRemovesLocal(t *testing.T) {
	docs := newDocumentServer()
	srv := httptest.NewServer(docs.handler())
	defer srv.Close()
	app := newTestApp(t, srv)
	ctx := context.Background()

	docs.setOffline(true)
	res, err := app.AddFee(ctx, &school.Fee{StudentID: "S1", Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)

	fees, err := app.Records(school.CollectionFees)
	require.NoError(t, err)

	outcome, err := fees.Delete(ctx, res.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, sync.OutcomeUnavailable, outcome)

	n, err := fees.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestApp_SyncDownloadsRemote(t *testing.T) {
	docs := newDocumentServer()
	srv := httptest.NewServer(docs.handler())
	defer srv.Close()
	app := newTestApp(t, srv)
	ctx := context.Background()

	docs.put(school.CollectionStudents, "S1", map[string]any{"id": "S1", "first_name": "Remote", "status": "active"})
	docs.put(school.CollectionStudents, "S2", map[string]any{"id": "S2", "first_name": "Second", "status": "active"})

	// локальная запись, которой нет на сервере
	docs.setOffline(true)
	_, err := app.AddStudent(ctx, &school.Student{Base: model.Base{ID: "LOCAL"}, FirstName: "Local", LastName: "Only"})
	require.NoError(t, err)
	docs.setOffline(false)

	result, err := app.Sync(ctx, school.CollectionStudents)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Downloaded)

	students, err := app.Records(school.CollectionStudents)
	require.NoError(t, err)
	n, err := students.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	counts, err := app.LocalCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, counts[school.CollectionStudents])
}

func TestApp_RecordsWatch(t *testing.T) {
	docs := newDocumentServer()
	srv := httptest.NewServer(docs.handler())
	defer srv.Close()
	app := newTestApp(t, srv)
	ctx := context.Background()

	fees, err := app.Records(school.CollectionFees)
	require.NoError(t, err)

	sub, err := fees.Watch(ctx)
	require.NoError(t, err)

	first := <-sub.Updates()
	assert.Empty(t, first)

	_, err = app.AddFee(ctx, &school.Fee{StudentID: "S1", Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)

	select {
	case recs := <-sub.Updates():
		require.Len(t, recs, 1)
		assert.Equal(t, "S1", recs[0].(*school.Fee).StudentID)
	case <-time.After(5 * time.Second):
		t.Fatal("no update after insert")
	}

	sub.Cancel()
	_, ok := <-sub.Updates()
	assert.False(t, ok)
}

func TestApp_UnknownCollection(t *testing.T) {
	docs := newDocumentServer()
	srv := httptest.NewServer(docs.handler())
	defer srv.Close()
	app := newTestApp(t, srv)

	_, err := app.Records("library")
	assert.ErrorIs(t, err, school.ErrUnknownCollection)
	assert.Len(t, app.Collections(), len(school.Collections))
}

func TestHTTPClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "not found", status: http.StatusNotFound, want: model.ErrNotFound},
		{name: "bad request", status: http.StatusBadRequest, want: sync.ErrRejected},
		{name: "unauthorized", status: http.StatusUnauthorized, want: sync.ErrRejected},
		{name: "server error", status: http.StatusInternalServerError, want: sync.ErrUnavailable},
		{name: "unavailable", status: http.StatusServiceUnavailable, want: sync.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				problem(w, tt.status, "boom")
			}))
			defer srv.Close()

			cfg := &config.Config{ServerAddress: strings.TrimPrefix(srv.URL, "http://"), RequestTimeout: time.Second}
			api := NewHTTPClient(cfg, slog.Default())

			_, err := api.GetDocument(context.Background(), "fees", "F1")
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorContains(t, err, "boom")
		})
	}
}

func TestHTTPClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := strings.TrimPrefix(srv.URL, "http://")
	srv.Close()

	cfg := &config.Config{ServerAddress: addr, RequestTimeout: time.Second}
	api := NewHTTPClient(cfg, slog.Default())

	err := api.HealthCheck(context.Background())
	assert.ErrorIs(t, err, sync.ErrUnavailable)
}

func TestHTTPClient_SendsTokenAndAgent(t *testing.T) {
	var auth, agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		agent = r.Header.Get("User-Agent")
		io.Copy(io.Discard, r.Body)
		json.NewEncoder(w).Encode(idResponse{ID: "F1"})
	}))
	defer srv.Close()

	cfg := &config.Config{ServerAddress: strings.TrimPrefix(srv.URL, "http://"), RequestTimeout: time.Second, APIToken: "secret"}
	api := NewHTTPClient(cfg, slog.Default())

	id, err := api.PutDocument(context.Background(), "fees", "F1", map[string]any{"id": "F1"})
	require.NoError(t, err)
	assert.Equal(t, "F1", id)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, userAgent, agent)
}

func TestRemoteCollection_InsertWithoutIDTakesServerID(t *testing.T) {
	docs := newDocumentServer()
	srv := httptest.NewServer(docs.handler())
	defer srv.Close()

	cfg := &config.Config{ServerAddress: strings.TrimPrefix(srv.URL, "http://"), RequestTimeout: time.Second}
	remote := NewRemoteCollection[*school.Vendor](NewHTTPClient(cfg, slog.Default()), school.CollectionVendors)

	v := &school.Vendor{Name: "Stationery Ltd"}
	id, err := remote.Insert(context.Background(), v)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, id, v.ID)

	got, err := remote.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Stationery Ltd", got.Name)

	assert.ErrorIs(t, remote.Update(context.Background(), &school.Vendor{}), sync.ErrMissingID)
	assert.ErrorIs(t, remote.Delete(context.Background(), "nope"), model.ErrNotFound)
}
