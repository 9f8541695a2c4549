package model

import (
	"fmt"
	"regexp"
	"time"
)

type Op string

const (
	OpEq      Op = "eq"
	OpBetween Op = "between"
)

var fieldRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Filter условие выборки по JSON-полю записи
type Filter struct {
	Field string
	Op    Op
	Value any
	Upper any
}

// Eq выбирает записи, у которых поле равно значению
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

// Between выбирает записи, у которых время в поле попадает в [from, to] включительно.
func Between(field string, from, to time.Time) Filter {
	return Filter{Field: field, Op: OpBetween, Value: from.UTC(), Upper: to.UTC()}
}

func (f Filter) Validate() error {
	if !fieldRe.MatchString(f.Field) {
		return fmt.Errorf("%w: %q", ErrInvalidField, f.Field)
	}
	switch f.Op {
	case OpEq:
		return nil
	case OpBetween:
		if _, ok := f.Value.(time.Time); !ok {
			return fmt.Errorf("%w: between on %q needs time bounds", ErrInvalidField, f.Field)
		}
		if _, ok := f.Upper.(time.Time); !ok {
			return fmt.Errorf("%w: between on %q needs time bounds", ErrInvalidField, f.Field)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown op %q", ErrInvalidField, f.Op)
}
