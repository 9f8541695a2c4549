package document

import "context"

type Repository interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	// Upsert создает или перезаписывает документ; CreatedAt существующего документа сохраняется
	Upsert(ctx context.Context, doc *Document) error
	// Delete возвращает ErrNotFound, если документа не было
	Delete(ctx context.Context, collection, id string) error
	Ping(ctx context.Context) error
}
