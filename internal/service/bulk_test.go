package service

import (
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerline/ledgerline/internal/api/dto"
	"github.com/ledgerline/ledgerline/internal/config"
	"github.com/ledgerline/ledgerline/internal/domain/client"
	"github.com/ledgerline/ledgerline/internal/domain/company"
	"github.com/ledgerline/ledgerline/internal/domain/invoice"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/testutil"
	"github.com/ledgerline/ledgerline/internal/types"
)

type BulkServiceSuite struct {
	testutil.BaseServiceSuite
	service BulkOperationService
	company *company.Company
	client  *client.Client
	seq     int64
}

func TestBulkOperationService(t *testing.T) {
	suite.Run(t, new(BulkServiceSuite))
}

func (s *BulkServiceSuite) SetupTest() {
	s.BaseServiceSuite.SetupTest()
	s.seq = 0

	stores := s.GetStores()
	s.service = NewBulkOperationService(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      config.GetDefaultConfig(),
		DB:          s.GetDB(),
		InvoiceRepo: stores.InvoiceRepo,
		ClientRepo:  stores.ClientRepo,
		CompanyRepo: stores.CompanyRepo,
	})

	s.company = &company.Company{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COMPANY),
		Name:      "Acme GmbH",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.Require().NoError(stores.CompanyRepo.Create(s.GetContext(), s.company))

	s.client = &client.Client{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT),
		CompanyID: s.company.ID,
		Name:      "Globex Corp",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.Require().NoError(stores.ClientRepo.Create(s.GetContext(), s.client))
}

func (s *BulkServiceSuite) seedInvoice(status types.InvoiceStatus) *invoice.Invoice {
	s.seq++
	inv := &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		InvoiceNumber: invoice.FormatNumber(2024, s.seq),
		CompanyID:     s.company.ID,
		ClientID:      s.client.ID,
		ClientName:    s.client.Name,
		Currency:      "eur",
		Status:        status,
		IssueDate:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Subtotal:      decimal.NewFromInt(100),
		TaxRate:       decimal.NewFromInt(10),
		TaxAmount:     decimal.NewFromInt(10),
		Total:         decimal.NewFromInt(110),
		LineItems: []*invoice.LineItem{
			{
				ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
				Name:      "Widget",
				Quantity:  decimal.NewFromInt(1),
				UnitPrice: decimal.NewFromInt(100),
				Currency:  "eur",
				Amount:    decimal.NewFromInt(100),
				BaseModel: types.GetDefaultBaseModel(s.GetContext()),
			},
		},
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	if status == types.InvoiceStatusPaid {
		paidDate := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
		inv.PaidDate = &paidDate
	}
	s.Require().NoError(s.GetStores().InvoiceRepo.CreateWithLineItems(s.GetContext(), inv))
	return inv
}

func (s *BulkServiceSuite) execute(op types.BulkInvoiceOperation, payload any) (*dto.BulkOperationResponse, error) {
	data, err := json.Marshal(payload)
	s.Require().NoError(err)
	return s.service.Execute(s.GetContext(), &dto.BulkInvoiceOperationRequest{
		Operation: op,
		Data:      data,
	})
}

// hints flattens the caller-facing hint chain for assertions
func (s *BulkServiceSuite) hints(err error) string {
	return strings.Join(errors.GetAllHints(err), "\n")
}

func (s *BulkServiceSuite) getStatus(id string) types.InvoiceStatus {
	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), id)
	s.Require().NoError(err)
	return inv.Status
}

func (s *BulkServiceSuite) TestUpdateStatusSuccess() {
	a := s.seedInvoice(types.InvoiceStatusDraft)
	b := s.seedInvoice(types.InvoiceStatusDraft)

	resp, err := s.execute(types.BulkInvoiceOperationUpdateStatus, dto.BulkUpdateStatusPayload{
		InvoiceIDs: []string{a.ID, b.ID},
		Status:     types.InvoiceStatusSent,
	})
	s.Require().NoError(err)

	s.True(resp.Success)
	s.Equal(2, resp.Affected)
	s.Equal(types.InvoiceStatusSent, s.getStatus(a.ID))
	s.Equal(types.InvoiceStatusSent, s.getStatus(b.ID))
}

func (s *BulkServiceSuite) TestUpdateStatusAllOrNothing() {
	draft := s.seedInvoice(types.InvoiceStatusDraft)
	paid := s.seedInvoice(types.InvoiceStatusPaid)

	_, err := s.execute(types.BulkInvoiceOperationUpdateStatus, dto.BulkUpdateStatusPayload{
		InvoiceIDs: []string{draft.ID, paid.ID},
		Status:     types.InvoiceStatusSent,
	})
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.Contains(s.hints(err), paid.ID)

	// Nothing moved, including the valid half of the batch
	s.Equal(types.InvoiceStatusDraft, s.getStatus(draft.ID))
	s.Equal(types.InvoiceStatusPaid, s.getStatus(paid.ID))
}

func (s *BulkServiceSuite) TestUpdateStatusToPaidSetsPaidDate() {
	sent := s.seedInvoice(types.InvoiceStatusSent)

	_, err := s.execute(types.BulkInvoiceOperationUpdateStatus, dto.BulkUpdateStatusPayload{
		InvoiceIDs: []string{sent.ID},
		Status:     types.InvoiceStatusPaid,
	})
	s.Require().NoError(err)

	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), sent.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPaid, inv.Status)
	s.NotNil(inv.PaidDate)
}

func (s *BulkServiceSuite) TestUpdateStatusMissingInvoiceFailsBatch() {
	draft := s.seedInvoice(types.InvoiceStatusDraft)

	_, err := s.execute(types.BulkInvoiceOperationUpdateStatus, dto.BulkUpdateStatusPayload{
		InvoiceIDs: []string{draft.ID, "inv_missing"},
		Status:     types.InvoiceStatusSent,
	})
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
	s.Equal(types.InvoiceStatusDraft, s.getStatus(draft.ID))
}

func (s *BulkServiceSuite) TestUpdateStatusRejectsUnknownTarget() {
	draft := s.seedInvoice(types.InvoiceStatusDraft)

	_, err := s.execute(types.BulkInvoiceOperationUpdateStatus, dto.BulkUpdateStatusPayload{
		InvoiceIDs: []string{draft.ID},
		Status:     types.InvoiceStatus("PENDING"),
	})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *BulkServiceSuite) TestArchiveIgnoresTransitionTable() {
	draft := s.seedInvoice(types.InvoiceStatusDraft)
	paid := s.seedInvoice(types.InvoiceStatusPaid)
	archived := s.seedInvoice(types.InvoiceStatusArchived)

	resp, err := s.execute(types.BulkInvoiceOperationArchive, dto.BulkArchivePayload{
		InvoiceIDs: []string{draft.ID, paid.ID, archived.ID},
	})
	s.Require().NoError(err)

	s.Equal(2, resp.Affected)
	s.Equal(1, resp.Skipped)
	s.Equal(types.InvoiceStatusArchived, s.getStatus(draft.ID))
	s.Equal(types.InvoiceStatusArchived, s.getStatus(paid.ID))
}

func (s *BulkServiceSuite) TestDeleteRejectsPaidInvoices() {
	sent := s.seedInvoice(types.InvoiceStatusSent)
	paid := s.seedInvoice(types.InvoiceStatusPaid)

	_, err := s.execute(types.BulkInvoiceOperationDelete, dto.BulkDeletePayload{
		InvoiceIDs: []string{sent.ID, paid.ID},
	})
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.Contains(s.hints(err), paid.InvoiceNumber)

	// Whole batch rejected, the sent invoice survives untouched
	s.Equal(types.InvoiceStatusSent, s.getStatus(sent.ID))
	s.Equal(types.InvoiceStatusPaid, s.getStatus(paid.ID))
}

func (s *BulkServiceSuite) TestHardDeleteRemovesPaidInvoices() {
	sent := s.seedInvoice(types.InvoiceStatusSent)
	paid := s.seedInvoice(types.InvoiceStatusPaid)

	resp, err := s.execute(types.BulkInvoiceOperationDelete, dto.BulkDeletePayload{
		InvoiceIDs: []string{sent.ID, paid.ID},
		HardDelete: true,
	})
	s.Require().NoError(err)
	s.Equal(2, resp.Affected)

	_, err = s.GetStores().InvoiceRepo.Get(s.GetContext(), paid.ID)
	s.True(ierr.IsNotFound(err))
	_, err = s.GetStores().InvoiceRepo.Get(s.GetContext(), sent.ID)
	s.True(ierr.IsNotFound(err))
}

func (s *BulkServiceSuite) TestSoftDeleteRecordsDeletionMetadata() {
	sent := s.seedInvoice(types.InvoiceStatusSent)
	sent.Notes = "original notes"
	s.Require().NoError(s.GetStores().InvoiceRepo.Update(s.GetContext(), sent))

	resp, err := s.execute(types.BulkInvoiceOperationDelete, dto.BulkDeletePayload{
		InvoiceIDs: []string{sent.ID},
	})
	s.Require().NoError(err)
	s.Equal(1, resp.Affected)

	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), sent.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusArchived, inv.Status)
	s.Equal(types.DefaultUserID, inv.Metadata["deleted_by"])
	s.NotEmpty(inv.Metadata["deleted_at"])

	// The audit stamp is appended, the original notes survive
	s.True(strings.HasPrefix(inv.Notes, "original notes\n"))
	s.Contains(inv.Notes, "[deleted at ")
}

func (s *BulkServiceSuite) TestMarkPaidSkipsIneligible() {
	sent := s.seedInvoice(types.InvoiceStatusSent)
	overdue := s.seedInvoice(types.InvoiceStatusOverdue)
	draft := s.seedInvoice(types.InvoiceStatusDraft)
	paid := s.seedInvoice(types.InvoiceStatusPaid)

	resp, err := s.execute(types.BulkInvoiceOperationMarkPaid, dto.BulkMarkPaidPayload{
		InvoiceIDs: []string{sent.ID, overdue.ID, draft.ID, paid.ID},
	})
	s.Require().NoError(err)

	s.Equal(2, resp.Affected)
	s.Equal(2, resp.Skipped)
	s.Equal(types.InvoiceStatusPaid, s.getStatus(sent.ID))
	s.Equal(types.InvoiceStatusPaid, s.getStatus(overdue.ID))
	s.Equal(types.InvoiceStatusDraft, s.getStatus(draft.ID))

	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), overdue.ID)
	s.Require().NoError(err)
	s.NotNil(inv.PaidDate)
}

func (s *BulkServiceSuite) TestMarkPaidUsesGivenPaidDate() {
	sent := s.seedInvoice(types.InvoiceStatusSent)
	paidDate := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)

	_, err := s.execute(types.BulkInvoiceOperationMarkPaid, dto.BulkMarkPaidPayload{
		InvoiceIDs: []string{sent.ID},
		PaidDate:   &paidDate,
		Notes:      "wire transfer received",
	})
	s.Require().NoError(err)

	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), sent.ID)
	s.Require().NoError(err)
	s.Require().NotNil(inv.PaidDate)
	s.True(inv.PaidDate.Equal(paidDate))
	s.Contains(inv.Notes, "wire transfer received")
}

func (s *BulkServiceSuite) TestSendOnlyDrafts() {
	draft := s.seedInvoice(types.InvoiceStatusDraft)
	sent := s.seedInvoice(types.InvoiceStatusSent)

	resp, err := s.execute(types.BulkInvoiceOperationSend, dto.BulkSendPayload{
		InvoiceIDs: []string{draft.ID, sent.ID},
	})
	s.Require().NoError(err)

	s.Equal(1, resp.Affected)
	s.Equal(1, resp.Skipped)
	s.Equal(types.InvoiceStatusSent, s.getStatus(draft.ID))

	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), draft.ID)
	s.Require().NoError(err)
	s.NotEmpty(inv.Metadata["sent_at"])
}

func (s *BulkServiceSuite) TestDuplicateReturnsPartialResult() {
	src := s.seedInvoice(types.InvoiceStatusSent)

	resp, err := s.execute(types.BulkInvoiceOperationDuplicate, dto.BulkDuplicatePayload{
		InvoiceIDs: []string{src.ID, "inv_missing"},
	})
	s.Require().NoError(err)

	s.False(resp.Success)
	s.Equal(1, resp.Affected)
	s.Require().Len(resp.Duplicated, 1)
	s.Equal(types.InvoiceStatusDraft, resp.Duplicated[0].Status)
	s.Require().Len(resp.Failed, 1)
	s.Equal("inv_missing", resp.Failed[0].InvoiceID)
	s.NotEmpty(resp.Failed[0].Error)
}

func (s *BulkServiceSuite) TestExportJSON() {
	src := s.seedInvoice(types.InvoiceStatusSent)

	resp, err := s.execute(types.BulkInvoiceOperationExport, dto.BulkExportPayload{
		InvoiceIDs: []string{src.ID},
		Format:     types.ExportFormatJSON,
	})
	s.Require().NoError(err)

	s.Require().NotNil(resp.Export)
	s.Equal("application/json", resp.Export.ContentType)
	s.Contains(resp.Export.Data, src.InvoiceNumber)
	s.Contains(resp.Export.Data, `"exported_at"`)
}

func (s *BulkServiceSuite) TestExportCSV() {
	src := s.seedInvoice(types.InvoiceStatusSent)

	resp, err := s.execute(types.BulkInvoiceOperationExport, dto.BulkExportPayload{
		InvoiceIDs: []string{src.ID},
		Format:     types.ExportFormatCSV,
	})
	s.Require().NoError(err)

	s.Require().NotNil(resp.Export)
	s.Equal("text/csv", resp.Export.ContentType)

	lines := strings.Split(strings.TrimSpace(resp.Export.Data), "\n")
	s.Require().Len(lines, 2)
	s.Contains(lines[0], "invoice_number")
	s.Contains(lines[1], src.InvoiceNumber)
}

func (s *BulkServiceSuite) TestExportCSVWithLineItems() {
	src := s.seedInvoice(types.InvoiceStatusSent)

	resp, err := s.execute(types.BulkInvoiceOperationExport, dto.BulkExportPayload{
		InvoiceIDs:       []string{src.ID},
		Format:           types.ExportFormatCSV,
		IncludeLineItems: true,
	})
	s.Require().NoError(err)

	lines := strings.Split(strings.TrimSpace(resp.Export.Data), "\n")
	s.Require().Len(lines, 2)
	s.Contains(lines[0], "line_item_name")
	s.Contains(lines[1], "Widget")
}

func (s *BulkServiceSuite) TestExportPDFRejected() {
	src := s.seedInvoice(types.InvoiceStatusSent)

	_, err := s.execute(types.BulkInvoiceOperationExport, dto.BulkExportPayload{
		InvoiceIDs: []string{src.ID},
		Format:     types.ExportFormatPDF,
	})
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *BulkServiceSuite) TestUnknownOperationRejected() {
	src := s.seedInvoice(types.InvoiceStatusDraft)

	_, err := s.execute(types.BulkInvoiceOperation("explode"), dto.BulkArchivePayload{
		InvoiceIDs: []string{src.ID},
	})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *BulkServiceSuite) TestEmptyInvoiceListRejected() {
	_, err := s.execute(types.BulkInvoiceOperationArchive, dto.BulkArchivePayload{
		InvoiceIDs: []string{},
	})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *BulkServiceSuite) TestBulkDuplicateWithOverrides() {
	src := s.seedInvoice(types.InvoiceStatusPaid)

	resp, err := s.execute(types.BulkInvoiceOperationDuplicate, dto.BulkDuplicatePayload{
		InvoiceIDs: []string{src.ID},
		Overrides: &dto.DuplicateInvoiceRequest{
			NewIssueDate: lo.ToPtr(time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)),
			CopyNotes:    true,
		},
	})
	s.Require().NoError(err)

	s.True(resp.Success)
	s.Require().Len(resp.Duplicated, 1)
	dup := resp.Duplicated[0]
	s.Equal(types.InvoiceStatusDraft, dup.Status)
	s.Nil(dup.PaidDate)
	s.Contains(dup.Notes, "Duplicated from "+src.InvoiceNumber)
}
