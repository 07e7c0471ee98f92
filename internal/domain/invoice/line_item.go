package invoice

import (
	"github.com/shopspring/decimal"

	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
)

// LineItem represents a single line item in an invoice
type LineItem struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	InvoiceID   string          `json:"invoice_id" gorm:"index;not null"`
	ProductID   *string         `json:"product_id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:numeric"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:numeric"`
	Currency    string          `json:"currency"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric"`

	types.BaseModel
}

// Validate validates the invoice line item
func (li *LineItem) Validate() error {
	if li.Quantity.IsNegative() {
		return ierr.NewError("invoice line item validation failed").
			WithHint("quantity must be non negative").
			Mark(ierr.ErrValidation)
	}

	if li.UnitPrice.IsNegative() {
		return ierr.NewError("invoice line item validation failed").
			WithHint("unit_price must be non negative").
			Mark(ierr.ErrValidation)
	}

	if !li.Amount.Equal(li.Quantity.Mul(li.UnitPrice)) {
		return ierr.NewError("invoice line item validation failed").
			WithHint("amount must equal quantity * unit_price").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// PaymentMethodLink associates an invoice with a payment method.
// Links are recreated as fresh rows when an invoice is duplicated.
type PaymentMethodLink struct {
	ID              string `json:"id" gorm:"primaryKey"`
	InvoiceID       string `json:"invoice_id" gorm:"index;not null"`
	PaymentMethodID string `json:"payment_method_id" gorm:"not null"`

	types.BaseModel
}
