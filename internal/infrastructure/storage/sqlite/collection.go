package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"

	"edusync/internal/domain/sync"
	"edusync/internal/model"
)

// Collection записи одного типа в локальной базе.
// T указатель на структуру записи, например *school.Fee.
type Collection[T model.Entity] struct {
	store *Store
	name  string
	log   *slog.Logger
}

var _ sync.LocalStore[model.Entity] = (*Collection[model.Entity])(nil)

func NewCollection[T model.Entity](store *Store, name string) *Collection[T] {
	return &Collection[T]{
		store: store,
		name:  name,
		log:   store.log.With("collection", name),
	}
}

func (c *Collection[T]) Name() string {
	return c.name
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T

	var data string
	err := c.store.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`, c.name, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, model.ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("get %s/%s: %w", c.name, id, err)
	}

	return decode[T](data)
}

func (c *Collection[T]) Upsert(ctx context.Context, rec T) error {
	id := rec.GetID()
	if id == "" {
		return fmt.Errorf("upsert %s: %w", c.name, sync.ErrMissingID)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", c.name, id, err)
	}
	createdAt, updatedAt := rec.Timestamps()

	_, err = c.store.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE
		SET data = excluded.data,
		    created_at = excluded.created_at,
		    updated_at = excluded.updated_at
	`, c.name, id, string(data), formatTime(createdAt), formatTime(updatedAt))
	if err != nil {
		return fmt.Errorf("upsert %s/%s: %w", c.name, id, err)
	}

	c.store.notifier.notify(c.name)
	return nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	res, err := c.store.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, c.name, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", c.name, id, err)
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		c.store.notifier.notify(c.name)
	}
	return nil
}

// List записи по возрастанию created_at, затем id
func (c *Collection[T]) List(ctx context.Context, filters ...model.Filter) ([]T, error) {
	q, err := compile(c.name, filters)
	if err != nil {
		return nil, err
	}

	recs := make([]T, 0)
	err = c.scan(ctx, q, func(data string) error {
		rec, err := decode[T](data)
		if err != nil {
			return err
		}
		recs = append(recs, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *Collection[T]) Count(ctx context.Context, filters ...model.Filter) (int, error) {
	q, err := compile(c.name, filters)
	if err != nil {
		return 0, err
	}

	var n int
	if q.exact() {
		if err := c.store.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM documents WHERE `+q.cond, q.args...,
		).Scan(&n); err != nil {
			return 0, fmt.Errorf("count %s: %w", c.name, err)
		}
		return n, nil
	}

	err = c.scan(ctx, q, func(string) error {
		n++
		return nil
	})
	return n, err
}

// scan передает fn данные записей, прошедших все условия q, в порядке списка
func (c *Collection[T]) scan(ctx context.Context, q query, fn func(data string) error) error {
	rows, err := c.store.db.QueryContext(ctx,
		`SELECT data FROM documents WHERE `+q.cond+` ORDER BY created_at, id`, q.args...)
	if err != nil {
		return fmt.Errorf("list %s: %w", c.name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return fmt.Errorf("scan %s: %w", c.name, err)
		}
		if !q.match(data) {
			continue
		}
		if err := fn(data); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list %s: %w", c.name, err)
	}
	return nil
}

func decode[T model.Entity](data string) (T, error) {
	var rec T
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return rec, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}
