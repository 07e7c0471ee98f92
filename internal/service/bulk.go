package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"

	"github.com/ledgerline/ledgerline/internal/api/dto"
	"github.com/ledgerline/ledgerline/internal/domain/invoice"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/ledgerline/ledgerline/internal/validator"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BulkOperationService dispatches batched invoice mutations
type BulkOperationService interface {
	Execute(ctx context.Context, req *dto.BulkInvoiceOperationRequest) (*dto.BulkOperationResponse, error)
}

type bulkOperationService struct {
	ServiceParams
	invoiceService InvoiceService
}

func NewBulkOperationService(params ServiceParams) BulkOperationService {
	return &bulkOperationService{
		ServiceParams:  params,
		invoiceService: NewInvoiceService(params),
	}
}

func (s *bulkOperationService) Execute(ctx context.Context, req *dto.BulkInvoiceOperationRequest) (*dto.BulkOperationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.Logger.Infow("executing bulk invoice operation", "operation", req.Operation)

	switch req.Operation {
	case types.BulkInvoiceOperationUpdateStatus:
		return s.executeUpdateStatus(ctx, req.Data)
	case types.BulkInvoiceOperationArchive:
		return s.executeArchive(ctx, req.Data)
	case types.BulkInvoiceOperationDelete:
		return s.executeDelete(ctx, req.Data)
	case types.BulkInvoiceOperationMarkPaid:
		return s.executeMarkPaid(ctx, req.Data)
	case types.BulkInvoiceOperationSend:
		return s.executeSend(ctx, req.Data)
	case types.BulkInvoiceOperationDuplicate:
		return s.executeDuplicate(ctx, req.Data)
	case types.BulkInvoiceOperationExport:
		return s.executeExport(ctx, req.Data)
	default:
		return nil, ierr.NewError("unhandled bulk operation").
			WithHintf("Operation %s is not handled", req.Operation).
			Mark(ierr.ErrValidation)
	}
}

func appendNotes(existing, addition string) string {
	if existing == "" {
		return addition
	}
	return existing + "\n" + addition
}

func decodePayload[T any](data []byte) (*T, error) {
	var payload T
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid bulk operation payload").
			Mark(ierr.ErrValidation)
	}
	if err := validator.ValidateRequest(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// getInvoices loads the requested invoices; when requireAll is set, any
// missing ID fails the whole batch
func (s *bulkOperationService) getInvoices(ctx context.Context, ids []string, requireAll bool) ([]*invoice.Invoice, error) {
	invoices, err := s.InvoiceRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	if requireAll && len(invoices) != len(ids) {
		found := lo.Map(invoices, func(inv *invoice.Invoice, _ int) string { return inv.ID })
		missing, _ := lo.Difference(ids, found)
		return nil, ierr.NewError("invoices not found").
			WithHint("Some invoices in the batch do not exist").
			WithReportableDetails(map[string]any{"invoice_ids": missing}).
			Mark(ierr.ErrNotFound)
	}

	return invoices, nil
}

// executeUpdateStatus applies one target status to the whole batch. The
// batch is all or nothing: a single disallowed transition rejects every
// invoice, naming the offenders, and nothing is written.
func (s *bulkOperationService) executeUpdateStatus(ctx context.Context, data []byte) (*dto.BulkOperationResponse, error) {
	payload, err := decodePayload[dto.BulkUpdateStatusPayload](data)
	if err != nil {
		return nil, err
	}
	if err := payload.Status.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.getInvoices(ctx, payload.InvoiceIDs, true)
	if err != nil {
		return nil, err
	}

	violations := lo.FilterMap(invoices, func(inv *invoice.Invoice, _ int) (string, bool) {
		return inv.ID, !inv.Status.CanTransitionTo(payload.Status)
	})
	if len(violations) > 0 {
		return nil, ierr.NewError("invalid status transition").
			WithHintf("Invoices %s cannot transition to %s",
				strings.Join(violations, ", "), payload.Status).
			WithReportableDetails(map[string]any{
				"invoice_ids":   violations,
				"target_status": payload.Status,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	now := time.Now().UTC()
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		for _, inv := range invoices {
			inv.Status = payload.Status
			if payload.Status == types.InvoiceStatusPaid {
				inv.PaidDate = &now
			}
			if payload.Notes != "" {
				inv.Notes = appendNotes(inv.Notes, payload.Notes)
			}
			inv.UpdatedAt = now
			inv.UpdatedBy = types.GetUserID(ctx)
			if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.BulkOperationResponse{
		Success:   true,
		Operation: types.BulkInvoiceOperationUpdateStatus,
		Affected:  len(invoices),
		Message:   fmt.Sprintf("Updated %d invoices to %s", len(invoices), payload.Status),
	}, nil
}

// executeArchive archives every target regardless of current status. This
// bypasses the transition table on purpose: archival must always be possible.
func (s *bulkOperationService) executeArchive(ctx context.Context, data []byte) (*dto.BulkOperationResponse, error) {
	payload, err := decodePayload[dto.BulkArchivePayload](data)
	if err != nil {
		return nil, err
	}

	invoices, err := s.getInvoices(ctx, payload.InvoiceIDs, false)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	affected, skipped := 0, 0
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		for _, inv := range invoices {
			if inv.Status == types.InvoiceStatusArchived {
				skipped++
				continue
			}
			inv.Status = types.InvoiceStatusArchived
			inv.UpdatedAt = now
			inv.UpdatedBy = types.GetUserID(ctx)
			if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
				return err
			}
			affected++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.BulkOperationResponse{
		Success:   true,
		Operation: types.BulkInvoiceOperationArchive,
		Affected:  affected,
		Skipped:   skipped,
		Message:   fmt.Sprintf("Archived %d invoices", affected),
	}, nil
}

// executeDelete removes invoices. Without hard_delete, a batch containing
// any PAID invoice is rejected whole, naming the paid invoice numbers; the
// surviving path archives the targets and records structured deletion
// metadata instead of destroying financial records.
func (s *bulkOperationService) executeDelete(ctx context.Context, data []byte) (*dto.BulkOperationResponse, error) {
	payload, err := decodePayload[dto.BulkDeletePayload](data)
	if err != nil {
		return nil, err
	}

	invoices, err := s.getInvoices(ctx, payload.InvoiceIDs, false)
	if err != nil {
		return nil, err
	}

	if !payload.HardDelete {
		paid := lo.FilterMap(invoices, func(inv *invoice.Invoice, _ int) (string, bool) {
			return inv.InvoiceNumber, inv.Status == types.InvoiceStatusPaid
		})
		if len(paid) > 0 {
			return nil, ierr.NewError("cannot delete paid invoices").
				WithHintf("Paid invoices cannot be deleted: %s", strings.Join(paid, ", ")).
				WithReportableDetails(map[string]any{"invoice_numbers": paid}).
				Mark(ierr.ErrInvalidOperation)
		}
	}

	if payload.HardDelete {
		ids := lo.Map(invoices, func(inv *invoice.Invoice, _ int) string { return inv.ID })
		if err := s.InvoiceRepo.Delete(ctx, ids); err != nil {
			return nil, err
		}
		return &dto.BulkOperationResponse{
			Success:   true,
			Operation: types.BulkInvoiceOperationDelete,
			Affected:  len(ids),
			Message:   fmt.Sprintf("Permanently deleted %d invoices", len(ids)),
		}, nil
	}

	now := time.Now().UTC()
	deletedBy := types.GetUserID(ctx)
	stamp := fmt.Sprintf("[deleted at %s by %s]", now.Format(time.RFC3339), deletedBy)

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		for _, inv := range invoices {
			inv.Status = types.InvoiceStatusArchived
			if inv.Metadata == nil {
				inv.Metadata = types.Metadata{}
			}
			inv.Metadata["deleted_by"] = deletedBy
			inv.Metadata["deleted_at"] = now.Format(time.RFC3339)
			// Append, never overwrite, the audit stamp
			inv.Notes = appendNotes(inv.Notes, stamp)
			inv.UpdatedAt = now
			inv.UpdatedBy = deletedBy
			if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.BulkOperationResponse{
		Success:   true,
		Operation: types.BulkInvoiceOperationDelete,
		Affected:  len(invoices),
		Message:   fmt.Sprintf("Deleted %d invoices", len(invoices)),
	}, nil
}

// executeMarkPaid settles SENT and OVERDUE invoices; everything else in the
// batch is skipped and counted, never an error.
func (s *bulkOperationService) executeMarkPaid(ctx context.Context, data []byte) (*dto.BulkOperationResponse, error) {
	payload, err := decodePayload[dto.BulkMarkPaidPayload](data)
	if err != nil {
		return nil, err
	}

	invoices, err := s.getInvoices(ctx, payload.InvoiceIDs, false)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	paidDate := lo.FromPtrOr(payload.PaidDate, now)

	affected, skipped := 0, 0
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		for _, inv := range invoices {
			if inv.Status != types.InvoiceStatusSent && inv.Status != types.InvoiceStatusOverdue {
				skipped++
				continue
			}
			inv.Status = types.InvoiceStatusPaid
			inv.PaidDate = &paidDate
			if payload.PaidAmount != nil {
				// The model has no partial-payment column; the received
				// amount is kept as an audit record
				if inv.Metadata == nil {
					inv.Metadata = types.Metadata{}
				}
				inv.Metadata["paid_amount"] = payload.PaidAmount.String()
			}
			if payload.Notes != "" {
				inv.Notes = appendNotes(inv.Notes, payload.Notes)
			}
			inv.UpdatedAt = now
			inv.UpdatedBy = types.GetUserID(ctx)
			if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
				return err
			}
			affected++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.BulkOperationResponse{
		Success:   true,
		Operation: types.BulkInvoiceOperationMarkPaid,
		Affected:  affected,
		Skipped:   skipped,
		Message:   fmt.Sprintf("Marked %d invoices as paid, skipped %d", affected, skipped),
	}, nil
}

// executeSend issues DRAFT invoices; non drafts are skipped and counted.
func (s *bulkOperationService) executeSend(ctx context.Context, data []byte) (*dto.BulkOperationResponse, error) {
	payload, err := decodePayload[dto.BulkSendPayload](data)
	if err != nil {
		return nil, err
	}

	invoices, err := s.getInvoices(ctx, payload.InvoiceIDs, false)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sendDate := lo.FromPtrOr(payload.SendDate, now)

	affected, skipped := 0, 0
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		for _, inv := range invoices {
			if inv.Status != types.InvoiceStatusDraft {
				skipped++
				continue
			}
			inv.Status = types.InvoiceStatusSent
			if inv.Metadata == nil {
				inv.Metadata = types.Metadata{}
			}
			inv.Metadata["sent_at"] = sendDate.Format(time.RFC3339)
			inv.UpdatedAt = now
			inv.UpdatedBy = types.GetUserID(ctx)
			if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
				return err
			}
			affected++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.BulkOperationResponse{
		Success:   true,
		Operation: types.BulkInvoiceOperationSend,
		Affected:  affected,
		Skipped:   skipped,
		Message:   fmt.Sprintf("Sent %d invoices, skipped %d", affected, skipped),
	}, nil
}

// executeDuplicate copies each source invoice in its own transaction and
// reports an explicit partial result instead of failing the batch.
func (s *bulkOperationService) executeDuplicate(ctx context.Context, data []byte) (*dto.BulkOperationResponse, error) {
	payload, err := decodePayload[dto.BulkDuplicatePayload](data)
	if err != nil {
		return nil, err
	}

	var duplicated []*dto.InvoiceResponse
	var failed []dto.BulkDuplicateFailure

	for _, id := range payload.InvoiceIDs {
		resp, err := s.invoiceService.DuplicateInvoice(ctx, id, payload.Overrides)
		if err != nil {
			s.Logger.Warnw("bulk duplicate failed for invoice", "invoice_id", id, "error", err)
			failed = append(failed, dto.BulkDuplicateFailure{
				InvoiceID: id,
				Error:     err.Error(),
			})
			continue
		}
		duplicated = append(duplicated, resp.Duplicated)
	}

	return &dto.BulkOperationResponse{
		Success:    len(failed) == 0,
		Operation:  types.BulkInvoiceOperationDuplicate,
		Affected:   len(duplicated),
		Duplicated: duplicated,
		Failed:     failed,
		Message:    fmt.Sprintf("Duplicated %d invoices, %d failed", len(duplicated), len(failed)),
	}, nil
}

// executeExport serializes the full invoice documents. JSON and CSV are
// rendered here; PDF rendering is a document concern this service does not
// take on and the format is rejected.
func (s *bulkOperationService) executeExport(ctx context.Context, data []byte) (*dto.BulkOperationResponse, error) {
	payload, err := decodePayload[dto.BulkExportPayload](data)
	if err != nil {
		return nil, err
	}
	if err := payload.Format.Validate(); err != nil {
		return nil, err
	}
	if payload.Format == types.ExportFormatPDF {
		return nil, ierr.NewError("pdf export is not supported").
			WithHint("Use json or csv").
			Mark(ierr.ErrInvalidOperation)
	}

	invoices, err := s.getInvoices(ctx, payload.InvoiceIDs, true)
	if err != nil {
		return nil, err
	}

	var result *dto.ExportResult
	switch payload.Format {
	case types.ExportFormatJSON:
		result, err = exportJSON(invoices)
	case types.ExportFormatCSV:
		result, err = exportCSV(invoices, payload.IncludeLineItems)
	}
	if err != nil {
		return nil, err
	}

	return &dto.BulkOperationResponse{
		Success:   true,
		Operation: types.BulkInvoiceOperationExport,
		Affected:  len(invoices),
		Export:    result,
		Message:   fmt.Sprintf("Exported %d invoices as %s", len(invoices), payload.Format),
	}, nil
}

func exportJSON(invoices []*invoice.Invoice) (*dto.ExportResult, error) {
	doc := map[string]any{
		"exported_at": time.Now().UTC().Format(time.RFC3339),
		"count":       len(invoices),
		"invoices":    invoices,
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to serialize invoices as JSON").
			Mark(ierr.ErrSystem)
	}
	return &dto.ExportResult{
		Format:      types.ExportFormatJSON,
		ContentType: "application/json",
		Data:        string(out),
	}, nil
}

func exportCSV(invoices []*invoice.Invoice, includeLineItems bool) (*dto.ExportResult, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"invoice_number", "status", "company_id", "client_name",
		"currency", "issue_date", "due_date", "paid_date",
		"subtotal", "tax_rate", "tax_amount", "total", "notes",
	}
	if includeLineItems {
		header = append(header, "line_item_name", "quantity", "unit_price", "amount")
	}
	if err := w.Write(header); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to serialize invoices as CSV").
			Mark(ierr.ErrSystem)
	}

	formatDate := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	}

	for _, inv := range invoices {
		base := []string{
			inv.InvoiceNumber,
			inv.Status.String(),
			inv.CompanyID,
			inv.ClientName,
			inv.Currency,
			inv.IssueDate.Format("2006-01-02"),
			formatDate(inv.DueDate),
			formatDate(inv.PaidDate),
			inv.Subtotal.String(),
			inv.TaxRate.String(),
			inv.TaxAmount.String(),
			inv.Total.String(),
			inv.Notes,
		}

		if !includeLineItems || len(inv.LineItems) == 0 {
			if err := w.Write(base); err != nil {
				return nil, ierr.WithError(err).
					WithHint("Failed to serialize invoices as CSV").
					Mark(ierr.ErrSystem)
			}
			continue
		}

		for _, item := range inv.LineItems {
			row := append(append([]string{}, base...),
				item.Name,
				item.Quantity.String(),
				item.UnitPrice.String(),
				item.Amount.String(),
			)
			if err := w.Write(row); err != nil {
				return nil, ierr.WithError(err).
					WithHint("Failed to serialize invoices as CSV").
					Mark(ierr.ErrSystem)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to serialize invoices as CSV").
			Mark(ierr.ErrSystem)
	}

	return &dto.ExportResult{
		Format:      types.ExportFormatCSV,
		ContentType: "text/csv",
		Data:        buf.String(),
	}, nil
}
