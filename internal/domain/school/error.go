package school

import "errors"

var (
	ErrInvalidRecord     = errors.New("invalid record")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrOverpayment       = errors.New("payment exceeds fee balance")
)
