package school

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"edusync/internal/model"
)

// Transaction движение денег: доход или расход
type Transaction struct {
	model.Base
	Kind       TransactionKind `json:"kind"`
	Category   string          `json:"category" validate:"notblank"`
	Amount     decimal.Decimal `json:"amount"`
	Reference  string          `json:"reference,omitempty"`
	InvoiceID  string          `json:"invoice_id,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func (t *Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if err := checkFields(t); err != nil {
		return err
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: transaction amount must be positive", ErrInvalidRecord)
	}
	return nil
}

// Signed возвращает сумму со знаком: расход отрицательный
func (t *Transaction) Signed() decimal.Decimal {
	if t.Kind == TransactionExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
