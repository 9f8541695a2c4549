package client

import (
	"context"
	gosync "sync"

	"edusync/internal/domain/school"
	"edusync/internal/domain/sync"
	"edusync/internal/model"
)

// Records доступ к репозиторию коллекции по имени, без знания типа записи.
// Используется командами CLI, которые работают с любой коллекцией.
type Records interface {
	Collection() string
	Get(ctx context.Context, id string) (sync.Lookup[school.Record], error)
	List(ctx context.Context, filters ...model.Filter) ([]school.Record, error)
	Count(ctx context.Context, filters ...model.Filter) (int, error)
	Watch(ctx context.Context, filters ...model.Filter) (model.Subscription[[]school.Record], error)
	Delete(ctx context.Context, id string) (sync.Outcome, error)
}

type records[T school.Record] struct {
	repo *sync.Repository[T]
}

func erase[T school.Record](repo *sync.Repository[T]) Records {
	return records[T]{repo: repo}
}

func (r records[T]) Collection() string {
	return r.repo.Collection()
}

func (r records[T]) Get(ctx context.Context, id string) (sync.Lookup[school.Record], error) {
	l, err := r.repo.Get(ctx, id)
	out := sync.Lookup[school.Record]{Found: l.Found, Source: l.Source, Err: l.Err}
	if l.Found {
		out.Value = l.Value
	}
	return out, err
}

func (r records[T]) List(ctx context.Context, filters ...model.Filter) ([]school.Record, error) {
	recs, err := r.repo.List(ctx, filters...)
	if err != nil {
		return nil, err
	}
	return toRecords(recs), nil
}

func (r records[T]) Count(ctx context.Context, filters ...model.Filter) (int, error) {
	return r.repo.Count(ctx, filters...)
}

func (r records[T]) Delete(ctx context.Context, id string) (sync.Outcome, error) {
	return r.repo.Delete(ctx, id)
}

func (r records[T]) Watch(ctx context.Context, filters ...model.Filter) (model.Subscription[[]school.Record], error) {
	inner, err := r.repo.Watch(ctx, filters...)
	if err != nil {
		return nil, err
	}

	sub := &mappedSubscription{
		inner:   inner.Cancel,
		updates: make(chan []school.Record),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(sub.done)
		defer close(sub.updates)
		for recs := range inner.Updates() {
			select {
			case sub.updates <- toRecords(recs):
			case <-sub.stop:
				return
			}
		}
	}()
	return sub, nil
}

func toRecords[T school.Record](recs []T) []school.Record {
	out := make([]school.Record, len(recs))
	for i, rec := range recs {
		out[i] = rec
	}
	return out
}

type mappedSubscription struct {
	inner   func()
	updates chan []school.Record
	stop    chan struct{}
	once    gosync.Once
	done    chan struct{}
}

func (s *mappedSubscription) Updates() <-chan []school.Record {
	return s.updates
}

func (s *mappedSubscription) Cancel() {
	s.once.Do(func() {
		close(s.stop)
		s.inner()
	})
	<-s.done
}
