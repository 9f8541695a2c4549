package client

import (
	"context"
	"encoding/json"
	"fmt"

	"edusync/internal/domain/sync"
	"edusync/internal/model"
)

type documentAPI interface {
	ListDocuments(ctx context.Context, collection string) ([]json.RawMessage, error)
	GetDocument(ctx context.Context, collection, id string) (json.RawMessage, error)
	CreateDocument(ctx context.Context, collection string, doc any) (string, error)
	PutDocument(ctx context.Context, collection, id string, doc any) (string, error)
	DeleteDocument(ctx context.Context, collection, id string) error
}

// RemoteCollection удаленная коллекция записей одного типа поверх API сервера документов
type RemoteCollection[T model.Entity] struct {
	api  documentAPI
	name string
}

var _ sync.RemoteStore[model.Entity] = (*RemoteCollection[model.Entity])(nil)

func NewRemoteCollection[T model.Entity](api documentAPI, name string) *RemoteCollection[T] {
	return &RemoteCollection[T]{api: api, name: name}
}

func (r *RemoteCollection[T]) List(ctx context.Context) ([]T, error) {
	docs, err := r.api.ListDocuments(ctx, r.name)
	if err != nil {
		return nil, err
	}

	recs := make([]T, 0, len(docs))
	for _, doc := range docs {
		rec, err := decodeDocument[T](doc)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (r *RemoteCollection[T]) Get(ctx context.Context, id string) (T, error) {
	if id == "" {
		var zero T
		return zero, sync.ErrMissingID
	}

	doc, err := r.api.GetDocument(ctx, r.name, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeDocument[T](doc)
}

// Insert без ID создает документ с ID от сервера и присваивает его записи,
// с ID перезаписывает документ по этому ID.
func (r *RemoteCollection[T]) Insert(ctx context.Context, rec T) (string, error) {
	if id := rec.GetID(); id != "" {
		return r.api.PutDocument(ctx, r.name, id, rec)
	}

	id, err := r.api.CreateDocument(ctx, r.name, rec)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("%w: сервер не вернул id", sync.ErrRejected)
	}
	rec.SetID(id)
	return id, nil
}

func (r *RemoteCollection[T]) Update(ctx context.Context, rec T) error {
	id := rec.GetID()
	if id == "" {
		return sync.ErrMissingID
	}
	_, err := r.api.PutDocument(ctx, r.name, id, rec)
	return err
}

func (r *RemoteCollection[T]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return sync.ErrMissingID
	}
	return r.api.DeleteDocument(ctx, r.name, id)
}

func decodeDocument[T model.Entity](doc json.RawMessage) (T, error) {
	var rec T
	if err := json.Unmarshal(doc, &rec); err != nil {
		return rec, fmt.Errorf("%w: ошибка разбора документа: %w", sync.ErrRejected, err)
	}
	return rec, nil
}
