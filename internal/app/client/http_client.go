package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/exp/slog"

	"edusync/internal/app/client/config"
	"edusync/internal/domain/sync"
	"edusync/internal/model"
)

const userAgent = "edusync-client/1.0"

// httpClient клиент API сервера документов.
// Все ошибки классифицируются: model.ErrNotFound, sync.ErrRejected, sync.ErrUnavailable.
type httpClient struct {
	client  *http.Client
	log     *slog.Logger
	baseURL string
	token   string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) *httpClient {
	client := &http.Client{
		Timeout: cfg.RequestTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &httpClient{
		client:  client,
		log:     log.With("component", "http_client"),
		baseURL: cfg.BaseURL(),
		token:   cfg.APIToken,
	}
}

// HealthCheck проверяет доступность сервера и его хранилища
func (h *httpClient) HealthCheck(ctx context.Context) error {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/v1/health", nil)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

type listResponse struct {
	Documents []json.RawMessage `json:"documents"`
}

type idResponse struct {
	ID string `json:"id"`
}

func (h *httpClient) ListDocuments(ctx context.Context, collection string) ([]json.RawMessage, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, documentsPath(collection), nil)
	if err != nil {
		return nil, err
	}

	var out listResponse
	if err := h.parseResponse(resp, &out); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

func (h *httpClient) GetDocument(ctx context.Context, collection, id string) (json.RawMessage, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, documentPath(collection, id), nil)
	if err != nil {
		return nil, err
	}

	var out json.RawMessage
	if err := h.parseResponse(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateDocument создает документ, ID назначает сервер
func (h *httpClient) CreateDocument(ctx context.Context, collection string, doc any) (string, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, documentsPath(collection), doc)
	if err != nil {
		return "", err
	}

	var out idResponse
	if err := h.parseResponse(resp, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// PutDocument создает или перезаписывает документ с указанным ID
func (h *httpClient) PutDocument(ctx context.Context, collection, id string, doc any) (string, error) {
	resp, err := h.doRequest(ctx, http.MethodPut, documentPath(collection, id), doc)
	if err != nil {
		return "", err
	}

	var out idResponse
	if err := h.parseResponse(resp, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (h *httpClient) DeleteDocument(ctx context.Context, collection, id string) error {
	resp, err := h.doRequest(ctx, http.MethodDelete, documentPath(collection, id), nil)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

func documentsPath(collection string) string {
	return "/api/v1/collections/" + url.PathEscape(collection) + "/documents"
}

func documentPath(collection, id string) string {
	return documentsPath(collection) + "/" + url.PathEscape(id)
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.log.Debug("Отправка запроса",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sync.ErrUnavailable, err)
	}

	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, result any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: ошибка чтения ответа: %w", sync.ErrUnavailable, err)
	}

	h.log.Debug("Получен ответ",
		"status", resp.StatusCode,
		"size", len(body),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(resp.StatusCode, body)
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("%w: ошибка парсинга ответа: %w", sync.ErrRejected, err)
		}
	}

	return nil
}

// statusError переводит HTTP-статус в классифицированную ошибку.
// Тело ответа сервера в формате application/problem+json.
func statusError(status int, body []byte) error {
	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	msg := http.StatusText(status)
	if err := json.Unmarshal(body, &problem); err == nil {
		switch {
		case problem.Detail != "":
			msg = problem.Detail
		case problem.Title != "":
			msg = problem.Title
		}
	}

	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", model.ErrNotFound, msg)
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: статус %d: %s", sync.ErrUnavailable, status, msg)
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: статус %d: %s", sync.ErrUnavailable, status, msg)
	default:
		return fmt.Errorf("%w: статус %d: %s", sync.ErrRejected, status, msg)
	}
}
