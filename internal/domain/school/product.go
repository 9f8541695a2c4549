package school

import (
	"fmt"

	"github.com/shopspring/decimal"

	"edusync/internal/model"
)

type Product struct {
	model.Base
	Name         string          `json:"name" validate:"notblank"`
	SKU          string          `json:"sku"`
	VendorID     string          `json:"vendor_id,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity" validate:"gte=0"`
	ReorderLevel int             `json:"reorder_level" validate:"gte=0"`
}

func (p *Product) Validate() error {
	if err := checkFields(p); err != nil {
		return err
	}
	if p.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: product price must not be negative", ErrInvalidRecord)
	}
	return nil
}

func (p *Product) NeedsReorder() bool {
	return p.Quantity <= p.ReorderLevel
}
