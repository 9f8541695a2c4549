package document

import "time"

// Document документ коллекции. Data хранится как есть, поле data["id"]
// всегда совпадает с ID.
type Document struct {
	Collection string         `json:"collection"`
	ID         string         `json:"id"`
	Data       map[string]any `json:"data"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
