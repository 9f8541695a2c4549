package document

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

const (
	documentsPath = "/api/v1/collections/{collection}/documents"
	documentPath  = documentsPath + "/{id}"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "documents-list",
		Method:      http.MethodGet,
		Path:        documentsPath,
		Summary:     "Все документы коллекции",
		Tags:        []string{"documents"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) findOp() huma.Operation {
	return huma.Operation{
		OperationID: "documents-find",
		Method:      http.MethodGet,
		Path:        documentPath,
		Summary:     "Получить документ",
		Tags:        []string{"documents"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID:   "documents-create",
		Method:        http.MethodPost,
		Path:          documentsPath,
		Summary:       "Создать документ",
		Description:   "Если в теле нет id, сервер генерирует UUID и записывает его в поле id документа.",
		Tags:          []string{"documents"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
	}
}

func (h *Handler) upsertOp() huma.Operation {
	return huma.Operation{
		OperationID: "documents-upsert",
		Method:      http.MethodPut,
		Path:        documentPath,
		Summary:     "Создать или перезаписать документ",
		Description: "id из пути заменяет id в теле.",
		Tags:        []string{"documents"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID:   "documents-delete",
		Method:        http.MethodDelete,
		Path:          documentPath,
		Summary:       "Удалить документ",
		Tags:          []string{"documents"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
	}
}
