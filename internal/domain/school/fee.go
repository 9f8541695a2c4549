package school

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"edusync/internal/model"
)

type Fee struct {
	model.Base
	StudentID string          `json:"student_id" validate:"notblank"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Paid      decimal.Decimal `json:"paid"`
	Term      string          `json:"term,omitempty"`
	DueDate   time.Time       `json:"due_date"`
	Status    FeeStatus       `json:"status"`
}

func (f *Fee) Validate() error {
	if err := checkFields(f); err != nil {
		return err
	}
	if f.Amount.IsNegative() || f.Paid.IsNegative() {
		return fmt.Errorf("%w: fee amounts must not be negative", ErrInvalidRecord)
	}
	if f.Status == "" {
		f.Status = FeePending
	}
	return f.Status.Validate()
}

// Balance остаток к оплате
func (f *Fee) Balance() decimal.Decimal {
	if f.Status == FeeWaived {
		return decimal.Zero
	}
	return f.Amount.Sub(f.Paid)
}

// Pay регистрирует платеж и пересчитывает статус.
// Платеж больше остатка отклоняется.
func (f *Fee) Pay(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: payment must be positive", ErrInvalidRecord)
	}
	if amount.GreaterThan(f.Balance()) {
		return ErrOverpayment
	}
	f.Paid = f.Paid.Add(amount)
	if f.Balance().IsZero() {
		f.Status = FeePaid
	} else {
		f.Status = FeePartial
	}
	return nil
}

// IsOverdue true, если срок прошел, а остаток не погашен
func (f *Fee) IsOverdue(now time.Time) bool {
	if f.DueDate.IsZero() || f.Status == FeePaid || f.Status == FeeWaived {
		return false
	}
	return now.After(f.DueDate) && f.Balance().IsPositive()
}
