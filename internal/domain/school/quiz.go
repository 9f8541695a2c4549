package school

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"edusync/internal/model"
)

type Quiz struct {
	model.Base
	Title       string          `json:"title" validate:"notblank"`
	Subject     string          `json:"subject"`
	ClassID     string          `json:"class_id"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	MaxScore    decimal.Decimal `json:"max_score"`
	Status      QuizStatus      `json:"status"`
}

func (q *Quiz) Validate() error {
	if err := checkFields(q); err != nil {
		return err
	}
	if !q.MaxScore.IsPositive() {
		return fmt.Errorf("%w: quiz max score must be positive", ErrInvalidRecord)
	}
	if q.Status == "" {
		q.Status = QuizDraft
	}
	return q.Status.Validate()
}
