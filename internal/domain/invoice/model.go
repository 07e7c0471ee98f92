package invoice

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
)

// Invoice represents the invoice domain model
type Invoice struct {
	ID            string              `json:"id" gorm:"primaryKey"`
	InvoiceNumber string              `json:"invoice_number" gorm:"index"`
	CompanyID     string              `json:"company_id" gorm:"index;not null"`
	ClientID      string              `json:"client_id" gorm:"index;not null"`
	ClientName    string              `json:"client_name"`
	ClientEmail   string              `json:"client_email"`
	ClientAddress string              `json:"client_address"`
	Currency      string              `json:"currency" gorm:"not null"`
	Status        types.InvoiceStatus `json:"status" gorm:"index;not null"`
	IssueDate     time.Time           `json:"issue_date"`
	DueDate       *time.Time          `json:"due_date,omitempty"`
	PaidDate      *time.Time          `json:"paid_date,omitempty"`
	Subtotal      decimal.Decimal     `json:"subtotal" gorm:"type:numeric"`
	TaxRate       decimal.Decimal     `json:"tax_rate" gorm:"type:numeric"`
	TaxAmount     decimal.Decimal     `json:"tax_amount" gorm:"type:numeric"`
	Total         decimal.Decimal     `json:"total" gorm:"type:numeric"`
	Notes         string              `json:"notes,omitempty"`
	Metadata      types.Metadata      `json:"metadata,omitempty" gorm:"type:jsonb"`

	LineItems      []*LineItem          `json:"line_items,omitempty" gorm:"foreignKey:InvoiceID"`
	PaymentMethods []*PaymentMethodLink `json:"payment_methods,omitempty" gorm:"foreignKey:InvoiceID"`

	types.BaseModel
}

// Validate checks the invoice arithmetic invariants and its children
func (i *Invoice) Validate() error {
	if i.Subtotal.IsNegative() {
		return ierr.NewError("invoice validation failed").
			WithHint("subtotal must be non negative").
			Mark(ierr.ErrValidation)
	}

	if i.TaxRate.IsNegative() {
		return ierr.NewError("invoice validation failed").
			WithHint("tax_rate must be non negative").
			Mark(ierr.ErrValidation)
	}

	expectedTax := i.Subtotal.Mul(i.TaxRate).Div(decimal.NewFromInt(100))
	if !i.TaxAmount.Equal(expectedTax) {
		return ierr.NewError("invoice validation failed").
			WithHintf("tax_amount must equal subtotal * tax_rate / 100 (expected %s, got %s)",
				expectedTax.String(), i.TaxAmount.String()).
			Mark(ierr.ErrValidation)
	}

	if !i.Total.Equal(i.Subtotal.Add(i.TaxAmount)) {
		return ierr.NewError("invoice validation failed").
			WithHint("total must equal subtotal + tax_amount").
			Mark(ierr.ErrValidation)
	}

	if i.DueDate != nil && i.DueDate.Before(i.IssueDate) {
		return ierr.NewError("invoice validation failed").
			WithHint("due_date must not be before issue_date").
			Mark(ierr.ErrValidation)
	}

	var lineTotal decimal.Decimal
	for _, item := range i.LineItems {
		if item.Currency != i.Currency {
			return ierr.NewError("invoice validation failed").
				WithHint("line item currency must match invoice currency").
				Mark(ierr.ErrValidation)
		}
		if err := item.Validate(); err != nil {
			return err
		}
		lineTotal = lineTotal.Add(item.Amount)
	}

	if len(i.LineItems) > 0 && !lineTotal.Equal(i.Subtotal) {
		return ierr.NewError("invoice validation failed").
			WithHint("sum of line item amounts must equal subtotal").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// RecalculateTotals recomputes subtotal, tax amount and total from line items
func (i *Invoice) RecalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range i.LineItems {
		item.Amount = item.Quantity.Mul(item.UnitPrice)
		subtotal = subtotal.Add(item.Amount)
	}
	i.Subtotal = subtotal
	i.TaxAmount = subtotal.Mul(i.TaxRate).Div(decimal.NewFromInt(100))
	i.Total = i.Subtotal.Add(i.TaxAmount)
}
