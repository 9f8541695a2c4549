package document

import "errors"

var (
	ErrNotFound          = errors.New("document not found")
	ErrInvalidCollection = errors.New("invalid collection name")
	ErrInvalidID         = errors.New("invalid document id")
	ErrInvalidData       = errors.New("invalid document data")
)
