package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
)

// BulkInvoiceOperationRequest is the envelope for POST /v1/invoices/bulk.
// Data is decoded per operation by the dispatcher.
type BulkInvoiceOperationRequest struct {
	Operation types.BulkInvoiceOperation `json:"operation" validate:"required"`
	Data      json.RawMessage            `json:"data" validate:"required"`
}

func (r *BulkInvoiceOperationRequest) Validate() error {
	if err := r.Operation.Validate(); err != nil {
		return err
	}
	if len(r.Data) == 0 {
		return ierr.NewError("missing bulk operation payload").
			WithHint("data is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type BulkUpdateStatusPayload struct {
	InvoiceIDs []string            `json:"invoice_ids" validate:"required,min=1"`
	Status     types.InvoiceStatus `json:"status" validate:"required"`
	Notes      string              `json:"notes,omitempty"`
}

type BulkArchivePayload struct {
	InvoiceIDs []string `json:"invoice_ids" validate:"required,min=1"`
}

type BulkDeletePayload struct {
	InvoiceIDs []string `json:"invoice_ids" validate:"required,min=1"`
	HardDelete bool     `json:"hard_delete"`
}

type BulkMarkPaidPayload struct {
	InvoiceIDs []string         `json:"invoice_ids" validate:"required,min=1"`
	PaidDate   *time.Time       `json:"paid_date,omitempty"`
	PaidAmount *decimal.Decimal `json:"paid_amount,omitempty"`
	Notes      string           `json:"notes,omitempty"`
}

type BulkSendPayload struct {
	InvoiceIDs []string   `json:"invoice_ids" validate:"required,min=1"`
	SendDate   *time.Time `json:"send_date,omitempty"`
}

type BulkDuplicatePayload struct {
	InvoiceIDs []string                 `json:"invoice_ids" validate:"required,min=1"`
	Overrides  *DuplicateInvoiceRequest `json:"overrides,omitempty"`
}

type BulkExportPayload struct {
	InvoiceIDs       []string           `json:"invoice_ids" validate:"required,min=1"`
	Format           types.ExportFormat `json:"format" validate:"required"`
	IncludeLineItems bool               `json:"include_line_items"`
}

// BulkDuplicateFailure reports one source invoice that could not be
// duplicated in a partial bulk result
type BulkDuplicateFailure struct {
	InvoiceID string `json:"invoice_id"`
	Error     string `json:"error"`
}

// ExportResult carries the serialized export document
type ExportResult struct {
	Format      types.ExportFormat `json:"format"`
	ContentType string             `json:"content_type"`
	Data        string             `json:"data"`
}

// BulkOperationResponse is the per-operation outcome of a bulk request
type BulkOperationResponse struct {
	Success   bool                       `json:"success"`
	Operation types.BulkInvoiceOperation `json:"operation"`
	Affected  int                        `json:"affected"`
	Skipped   int                        `json:"skipped,omitempty"`
	Message   string                     `json:"message,omitempty"`

	// duplicate only
	Duplicated []*InvoiceResponse     `json:"duplicated,omitempty"`
	Failed     []BulkDuplicateFailure `json:"failed,omitempty"`

	// export only
	Export *ExportResult `json:"export,omitempty"`
}
