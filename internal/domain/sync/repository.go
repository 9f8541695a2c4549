package sync

import (
	"context"

	"edusync/internal/model"
)

// LocalStore локальное хранилище записей одного типа.
// Ошибки локального хранилища не поглощаются и возвращаются вызывающему.
type LocalStore[T model.Entity] interface {
	// Get возвращает запись или model.ErrNotFound
	Get(ctx context.Context, id string) (T, error)
	// Upsert идемпотентная запись по ID
	Upsert(ctx context.Context, rec T) error
	// Delete удаляет запись; отсутствие записи не ошибка
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters ...model.Filter) ([]T, error)
	Count(ctx context.Context, filters ...model.Filter) (int, error)
	// Watch живая выборка, см. model.Subscription
	Watch(ctx context.Context, filters ...model.Filter) (model.Subscription[[]T], error)
}

// RemoteStore удаленная коллекция документов.
// Ошибки классифицируются: model.ErrNotFound, ErrMissingID, ErrRejected, ErrUnavailable.
type RemoteStore[T model.Entity] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	// Insert сохраняет запись; если ID пуст, его назначает сервер и он присваивается записи
	Insert(ctx context.Context, rec T) (string, error)
	// Update требует непустой ID
	Update(ctx context.Context, rec T) error
	Delete(ctx context.Context, id string) error
}

// Recorder получает результат каждой удаленной операции (метрики)
type Recorder interface {
	ObserveRemote(collection, op string, outcome Outcome)
}

// Syncer массовая синхронизация одной коллекции
type Syncer interface {
	Collection() string
	Sync(ctx context.Context) (Report, error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRemote(string, string, Outcome) {}
