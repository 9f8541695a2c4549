package document

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"edusync/internal/domain/document"
)

type Handler struct {
	service    document.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service document.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.findOp(), h.find)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.upsertOp(), h.upsert)
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) list(ctx context.Context, input *collectionInput) (*listOutput, error) {
	docs, err := h.service.List(ctx, input.Collection)
	if err != nil {
		return nil, h.httpError(err)
	}

	body := listResponse{Documents: make([]map[string]any, 0, len(docs))}
	for _, d := range docs {
		body.Documents = append(body.Documents, d.Data)
	}
	return &listOutput{Body: body}, nil
}

func (h *Handler) find(ctx context.Context, input *documentInput) (*findOutput, error) {
	doc, err := h.service.Find(ctx, input.Collection, input.ID)
	if err != nil {
		return nil, h.httpError(err)
	}
	return &findOutput{Body: doc.Data}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*idOutput, error) {
	id, err := h.service.Insert(ctx, input.Collection, input.Body)
	if err != nil {
		return nil, h.httpError(err)
	}
	return &idOutput{Body: idResponse{ID: id}}, nil
}

func (h *Handler) upsert(ctx context.Context, input *upsertInput) (*idOutput, error) {
	id, err := h.service.Upsert(ctx, input.Collection, input.ID, input.Body)
	if err != nil {
		return nil, h.httpError(err)
	}
	return &idOutput{Body: idResponse{ID: id}}, nil
}

func (h *Handler) delete(ctx context.Context, input *documentInput) (*struct{}, error) {
	if err := h.service.Delete(ctx, input.Collection, input.ID); err != nil {
		return nil, h.httpError(err)
	}
	return nil, nil
}

// httpError переводит доменные ошибки в ответы huma; детали внутренних ошибок наружу не отдаются
func (h *Handler) httpError(err error) error {
	switch {
	case errors.Is(err, document.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, document.ErrInvalidCollection),
		errors.Is(err, document.ErrInvalidID),
		errors.Is(err, document.ErrInvalidData):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return huma.Error503ServiceUnavailable("request cancelled")
	default:
		h.log.Error("document request failed", "error", err)
		return huma.Error500InternalServerError("internal error")
	}
}
