package dto

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/domain/company"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/ledgerline/ledgerline/internal/validator"
)

type CreateCompanyRequest struct {
	Name            string          `json:"name" validate:"required"`
	Address         string          `json:"address,omitempty"`
	DefaultCurrency string          `json:"default_currency,omitempty"`
	DefaultTaxRate  decimal.Decimal `json:"default_tax_rate,omitempty"`
}

func (r *CreateCompanyRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.DefaultCurrency != "" {
		if err := types.ValidateCurrencyCode(r.DefaultCurrency); err != nil {
			return err
		}
	}
	return nil
}

func (r *CreateCompanyRequest) ToCompany(ctx context.Context) *company.Company {
	return &company.Company{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COMPANY),
		Name:            r.Name,
		Address:         r.Address,
		DefaultCurrency: strings.ToLower(r.DefaultCurrency),
		DefaultTaxRate:  r.DefaultTaxRate,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
}

type CompanyResponse struct {
	*company.Company
}

func NewCompanyResponse(c *company.Company) *CompanyResponse {
	return &CompanyResponse{Company: c}
}
