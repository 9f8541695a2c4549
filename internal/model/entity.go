package model

import "time"

// Entity общий контракт записей, которые хранятся локально и в удаленном хранилище.
// ID единственный ключ связи между локальной и удаленной копией.
type Entity interface {
	GetID() string
	SetID(id string)
	Timestamps() (createdAt, updatedAt time.Time)
	Stamp(now time.Time)
}

// Base встраивается во все доменные записи
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) GetID() string {
	return b.ID
}

// SetID присваивает идентификатор только один раз: уже назначенный ID не меняется.
func (b *Base) SetID(id string) {
	if b.ID == "" {
		b.ID = id
	}
}

func (b *Base) Timestamps() (time.Time, time.Time) {
	return b.CreatedAt, b.UpdatedAt
}

// Stamp выставляет CreatedAt при первой записи и всегда обновляет UpdatedAt
func (b *Base) Stamp(now time.Time) {
	now = now.UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}
