package school

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"edusync/internal/model"
)

type InvoiceLine struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	FeeID       string          `json:"fee_id,omitempty"`
}

func (l InvoiceLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Invoice struct {
	model.Base
	StudentID string        `json:"student_id" validate:"notblank"`
	Number    string        `json:"number" validate:"notblank"`
	Items     []InvoiceLine `json:"items" validate:"dive"`
	IssuedOn  time.Time     `json:"issued_on"`
	DueDate   time.Time     `json:"due_date"`
	Status    InvoiceStatus `json:"status"`
}

func (i *Invoice) Validate() error {
	if err := checkFields(i); err != nil {
		return err
	}
	for n, line := range i.Items {
		if line.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: invoice line %d", ErrInvalidRecord, n+1)
		}
	}
	if i.Status == "" {
		i.Status = InvoiceDraft
	}
	return i.Status.Validate()
}

func (i *Invoice) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range i.Items {
		total = total.Add(line.Total())
	}
	return total
}
