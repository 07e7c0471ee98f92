package types

import (
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/samber/lo"
)

// BulkInvoiceOperation names a batched mutation applied to a list of invoices
type BulkInvoiceOperation string

const (
	BulkInvoiceOperationUpdateStatus BulkInvoiceOperation = "update_status"
	BulkInvoiceOperationArchive      BulkInvoiceOperation = "archive"
	BulkInvoiceOperationDelete       BulkInvoiceOperation = "delete"
	BulkInvoiceOperationMarkPaid     BulkInvoiceOperation = "mark_paid"
	BulkInvoiceOperationSend         BulkInvoiceOperation = "send"
	BulkInvoiceOperationDuplicate    BulkInvoiceOperation = "duplicate"
	BulkInvoiceOperationExport       BulkInvoiceOperation = "export"
)

func (o BulkInvoiceOperation) String() string {
	return string(o)
}

func (o BulkInvoiceOperation) Validate() error {
	allowed := []BulkInvoiceOperation{
		BulkInvoiceOperationUpdateStatus,
		BulkInvoiceOperationArchive,
		BulkInvoiceOperationDelete,
		BulkInvoiceOperationMarkPaid,
		BulkInvoiceOperationSend,
		BulkInvoiceOperationDuplicate,
		BulkInvoiceOperationExport,
	}
	if !lo.Contains(allowed, o) {
		return ierr.NewError("invalid bulk operation").
			WithHint("Please provide a valid bulk operation").
			WithReportableDetails(map[string]any{
				"allowed":   allowed,
				"operation": o,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ExportFormat is the requested serialization format for bulk export
type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
)

func (f ExportFormat) String() string {
	return string(f)
}

func (f ExportFormat) Validate() error {
	allowed := []ExportFormat{
		ExportFormatJSON,
		ExportFormatCSV,
		ExportFormatPDF,
	}
	if !lo.Contains(allowed, f) {
		return ierr.NewError("invalid export format").
			WithHint("Please provide a valid export format").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"format":  f,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
