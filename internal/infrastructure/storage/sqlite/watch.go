package sqlite

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"edusync/internal/model"
)

type subscription[T any] struct {
	updates chan T
	cancel  context.CancelFunc
	done    chan struct{}
}

func (s *subscription[T]) Updates() <-chan T {
	return s.updates
}

// Cancel останавливает подписку и ждет завершения ее горутины
func (s *subscription[T]) Cancel() {
	s.cancel()
	<-s.done
}

// Watch отдает текущую выборку сразу и затем после каждого изменения коллекции.
// Изменения этого процесса приходят через notifier, изменения других процессов
// замечаются по PRAGMA data_version; в этом случае одинаковая выборка повторно
// не отдается. Изменения, пришедшие пока читатель не забрал предыдущее значение,
// схлопываются.
func (c *Collection[T]) Watch(ctx context.Context, filters ...model.Filter) (model.Subscription[[]T], error) {
	if _, err := compile(c.name, filters); err != nil {
		return nil, err
	}

	changes, unsubscribe := c.store.notifier.subscribe(c.name)
	ctx, cancel := context.WithCancel(ctx)
	sub := &subscription[[]T]{
		updates: make(chan []T),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go func() {
		defer close(sub.done)
		defer close(sub.updates)
		defer unsubscribe()

		ticker := time.NewTicker(c.store.pollInterval)
		defer ticker.Stop()
		version, _ := c.store.dataVersion(ctx)

		var last []byte
		force := true
		for {
			recs, err := c.List(ctx, filters...)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.log.Error("live query failed", "error", err)
			} else if snap, changed := snapshot(recs, last); force || changed {
				last = snap
				select {
				case sub.updates <- recs:
				case <-ctx.Done():
					return
				}
			}

			force = false
			for waiting := true; waiting; {
				select {
				case <-changes:
					force = true
					waiting = false
				case <-ticker.C:
					v, err := c.store.dataVersion(ctx)
					if err == nil && v != version {
						version = v
						waiting = false
					}
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return sub, nil
}

// snapshot JSON выборки и признак того, что она отличается от прошлой
func snapshot[T any](recs []T, last []byte) ([]byte, bool) {
	b, err := json.Marshal(recs)
	if err != nil {
		return nil, true
	}
	return b, !bytes.Equal(b, last)
}
