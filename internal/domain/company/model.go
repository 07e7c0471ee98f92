package company

import (
	"github.com/shopspring/decimal"

	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
)

// Company represents an issuing business entity within a tenant
type Company struct {
	ID              string          `json:"id" gorm:"primaryKey"`
	Name            string          `json:"name" gorm:"not null"`
	Address         string          `json:"address"`
	DefaultCurrency string          `json:"default_currency"`
	DefaultTaxRate  decimal.Decimal `json:"default_tax_rate" gorm:"type:numeric"`

	types.BaseModel
}

func (c *Company) Validate() error {
	if c.Name == "" {
		return ierr.NewError("company validation failed").
			WithHint("name is required").
			Mark(ierr.ErrValidation)
	}
	if c.DefaultCurrency != "" {
		if err := types.ValidateCurrencyCode(c.DefaultCurrency); err != nil {
			return err
		}
	}
	if c.DefaultTaxRate.IsNegative() {
		return ierr.NewError("company validation failed").
			WithHint("default_tax_rate must be non negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}
