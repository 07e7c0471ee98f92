package dto

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/domain/invoice"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/ledgerline/ledgerline/internal/validator"
)

type CreateInvoiceLineItemRequest struct {
	ProductID   *string         `json:"product_id,omitempty"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"required"`
}

type CreateInvoiceRequest struct {
	CompanyID        string                         `json:"company_id" validate:"required"`
	ClientID         string                         `json:"client_id" validate:"required"`
	Currency         string                         `json:"currency,omitempty"`
	IssueDate        *time.Time                     `json:"issue_date,omitempty"`
	DueDate          *time.Time                     `json:"due_date,omitempty"`
	TaxRate          *decimal.Decimal               `json:"tax_rate,omitempty"`
	Notes            string                         `json:"notes,omitempty"`
	Metadata         types.Metadata                 `json:"metadata,omitempty"`
	LineItems        []CreateInvoiceLineItemRequest `json:"line_items" validate:"required,min=1,dive"`
	PaymentMethodIDs []string                       `json:"payment_method_ids,omitempty"`
}

func (r *CreateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Currency != "" {
		if err := types.ValidateCurrencyCode(r.Currency); err != nil {
			return err
		}
	}
	return nil
}

// ToInvoice builds the domain invoice from the request. Currency and tax
// rate defaults and totals are filled in by the service.
func (r *CreateInvoiceRequest) ToInvoice(ctx context.Context) *invoice.Invoice {
	inv := &invoice.Invoice{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		CompanyID: r.CompanyID,
		ClientID:  r.ClientID,
		Currency:  strings.ToLower(r.Currency),
		Status:    types.InvoiceStatusDraft,
		Notes:     r.Notes,
		Metadata:  r.Metadata,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}

	for _, li := range r.LineItems {
		inv.LineItems = append(inv.LineItems, &invoice.LineItem{
			ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
			ProductID:   li.ProductID,
			Name:        li.Name,
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			Amount:      li.Quantity.Mul(li.UnitPrice),
			BaseModel:   types.GetDefaultBaseModel(ctx),
		})
	}

	for _, pmID := range r.PaymentMethodIDs {
		inv.PaymentMethods = append(inv.PaymentMethods, &invoice.PaymentMethodLink{
			ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_METHOD_LINK),
			PaymentMethodID: pmID,
			BaseModel:       types.GetDefaultBaseModel(ctx),
		})
	}

	return inv
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	*invoice.Invoice
}

func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	return &InvoiceResponse{Invoice: inv}
}

// ListInvoicesResponse represents a paginated list of invoices
type ListInvoicesResponse = types.ListResponse[*InvoiceResponse]

// DuplicateInvoiceRequest carries the optional overrides for duplication
type DuplicateInvoiceRequest struct {
	NewIssueDate *time.Time `json:"new_issue_date,omitempty"`
	NewDueDate   *time.Time `json:"new_due_date,omitempty"`
	NewClientID  *string    `json:"new_client_id,omitempty"`

	// AdjustInvoiceNumber defaults to true; when false the duplicate keeps
	// the source invoice number
	AdjustInvoiceNumber *bool `json:"adjust_invoice_number,omitempty"`

	// CopyNotes appends the duplication stamp to the source notes instead
	// of replacing them
	CopyNotes bool `json:"copy_notes,omitempty"`
}

func (r *DuplicateInvoiceRequest) ShouldAdjustNumber() bool {
	return r.AdjustInvoiceNumber == nil || *r.AdjustInvoiceNumber
}

type DuplicateInvoiceResponse struct {
	Original   *InvoiceResponse `json:"original"`
	Duplicated *InvoiceResponse `json:"duplicated"`
}
