package document

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"edusync/internal/domain/document"
	"edusync/internal/utils/logger"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, collection string) ([]document.Document, error) {
	args := m.Called(ctx, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Document), args.Error(1)
}

func (m *MockService) Find(ctx context.Context, collection, id string) (*document.Document, error) {
	args := m.Called(ctx, collection, id)
	// Безопасное приведение nil к указателю
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockService) Insert(ctx context.Context, collection string, data map[string]any) (string, error) {
	args := m.Called(ctx, collection, data)
	return args.String(0), args.Error(1)
}

func (m *MockService) Upsert(ctx context.Context, collection, id string, data map[string]any) (string, error) {
	args := m.Called(ctx, collection, id, data)
	return args.String(0), args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

func (m *MockService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newTestAPI(t *testing.T, svc document.Servicer) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHandler(svc, logger.Discard(), nil).SetupRoutes(api)
	return api
}

func TestHandler_List(t *testing.T) {
	svc := new(MockService)
	api := newTestAPI(t, svc)

	svc.On("List", mock.Anything, "fees").Return([]document.Document{
		{Collection: "fees", ID: "f1", Data: map[string]any{"id": "f1", "amount": "500"}},
		{Collection: "fees", ID: "f2", Data: map[string]any{"id": "f2", "amount": "75.25"}},
	}, nil)
	svc.On("List", mock.Anything, "empty").Return([]document.Document{}, nil)

	resp := api.Get("/api/v1/collections/fees/documents")
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Documents []map[string]any `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Documents, 2)
	assert.Equal(t, "f1", body.Documents[0]["id"])
	assert.Equal(t, "75.25", body.Documents[1]["amount"])

	resp = api.Get("/api/v1/collections/empty/documents")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"documents":[]`)

	svc.AssertExpectations(t)
}

func TestHandler_Find(t *testing.T) {
	svc := new(MockService)
	api := newTestAPI(t, svc)

	svc.On("Find", mock.Anything, "students", "s1").Return(&document.Document{
		Collection: "students",
		ID:         "s1",
		Data:       map[string]any{"id": "s1", "first_name": "Amina"},
	}, nil)
	svc.On("Find", mock.Anything, "students", "nobody").Return(nil, document.ErrNotFound)

	resp := api.Get("/api/v1/collections/students/documents/s1")
	require.Equal(t, http.StatusOK, resp.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "Amina", body["first_name"])

	resp = api.Get("/api/v1/collections/students/documents/nobody")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Type"), "problem+json")
}

func TestHandler_Create(t *testing.T) {
	svc := new(MockService)
	api := newTestAPI(t, svc)

	svc.On("Insert", mock.Anything, "fees", mock.MatchedBy(func(d map[string]any) bool {
		return d["amount"] == "500" && d["student_id"] == "S1"
	})).Return("new-id", nil)

	resp := api.Post("/api/v1/collections/fees/documents", map[string]any{
		"student_id": "S1",
		"amount":     "500",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var body idResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "new-id", body.ID)

	svc.AssertExpectations(t)
}

func TestHandler_Upsert(t *testing.T) {
	svc := new(MockService)
	api := newTestAPI(t, svc)

	svc.On("Upsert", mock.Anything, "vendors", "v1", mock.Anything).Return("v1", nil)

	resp := api.Put("/api/v1/collections/vendors/documents/v1", map[string]any{"name": "Stationers"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"id":"v1"`)
}

func TestHandler_Delete(t *testing.T) {
	svc := new(MockService)
	api := newTestAPI(t, svc)

	svc.On("Delete", mock.Anything, "quizzes", "q1").Return(nil)
	svc.On("Delete", mock.Anything, "quizzes", "gone").Return(document.ErrNotFound)

	resp := api.Delete("/api/v1/collections/quizzes/documents/q1")
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Empty(t, resp.Body.String())

	resp = api.Delete("/api/v1/collections/quizzes/documents/gone")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "invalid collection", err: document.ErrInvalidCollection, status: http.StatusBadRequest},
		{name: "invalid id", err: document.ErrInvalidID, status: http.StatusBadRequest},
		{name: "not found", err: document.ErrNotFound, status: http.StatusNotFound},
		{name: "database failure", err: errors.New("pool closed"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			api := newTestAPI(t, svc)
			svc.On("List", mock.Anything, "fees").Return(nil, tt.err)

			resp := api.Get("/api/v1/collections/fees/documents")
			assert.Equal(t, tt.status, resp.Code)
			assert.NotContains(t, resp.Body.String(), "pool closed")
		})
	}
}
