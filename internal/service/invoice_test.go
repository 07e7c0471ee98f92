package service

import (
	"testing"
	"time"

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

type InvoiceServiceSuite struct {
	testutil.BaseServiceSuite
	service InvoiceService
	company *company.Company
	client  *client.Client
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceSuite.SetupTest()
	s.service = NewInvoiceService(s.params())

	s.company = &company.Company{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COMPANY),
		Name:            "Acme GmbH",
		DefaultCurrency: "eur",
		DefaultTaxRate:  decimal.NewFromInt(19),
		BaseModel:       types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().CompanyRepo.Create(s.GetContext(), s.company))

	s.client = &client.Client{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT),
		CompanyID: s.company.ID,
		Name:      "Globex Corp",
		Email:     "billing@globex.test",
		Address:   "1 Globex Way",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().ClientRepo.Create(s.GetContext(), s.client))
}

func (s *InvoiceServiceSuite) params() ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:      s.GetLogger(),
		Config:      config.GetDefaultConfig(),
		DB:          s.GetDB(),
		InvoiceRepo: stores.InvoiceRepo,
		ClientRepo:  stores.ClientRepo,
		CompanyRepo: stores.CompanyRepo,
	}
}

func (s *InvoiceServiceSuite) createRequest() *dto.CreateInvoiceRequest {
	return &dto.CreateInvoiceRequest{
		CompanyID: s.company.ID,
		ClientID:  s.client.ID,
		Currency:  "eur",
		TaxRate:   lo.ToPtr(decimal.NewFromInt(10)),
		LineItems: []dto.CreateInvoiceLineItemRequest{
			{
				Name:      "Consulting",
				Quantity:  decimal.NewFromInt(2),
				UnitPrice: decimal.NewFromInt(100),
			},
		},
	}
}

// seedInvoice puts an invoice straight into the store, bypassing the service
func (s *InvoiceServiceSuite) seedInvoice(number string, status types.InvoiceStatus, issueDate time.Time) *invoice.Invoice {
	inv := &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		InvoiceNumber: number,
		CompanyID:     s.company.ID,
		ClientID:      s.client.ID,
		ClientName:    s.client.Name,
		ClientEmail:   s.client.Email,
		ClientAddress: s.client.Address,
		Currency:      "eur",
		Status:        status,
		IssueDate:     issueDate,
		Subtotal:      decimal.NewFromInt(200),
		TaxRate:       decimal.NewFromInt(10),
		TaxAmount:     decimal.NewFromInt(20),
		Total:         decimal.NewFromInt(220),
		Notes:         "seeded",
		LineItems: []*invoice.LineItem{
			{
				ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
				Name:      "Consulting",
				Quantity:  decimal.NewFromInt(2),
				UnitPrice: decimal.NewFromInt(100),
				Currency:  "eur",
				Amount:    decimal.NewFromInt(200),
				BaseModel: types.GetDefaultBaseModel(s.GetContext()),
			},
		},
		PaymentMethods: []*invoice.PaymentMethodLink{
			{
				ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_METHOD_LINK),
				PaymentMethodID: "pm_test",
				BaseModel:       types.GetDefaultBaseModel(s.GetContext()),
			},
		},
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.Require().NoError(s.GetStores().InvoiceRepo.CreateWithLineItems(s.GetContext(), inv))
	return inv
}

func (s *InvoiceServiceSuite) TestCreateInvoiceAssignsFirstNumber() {
	resp, err := s.service.CreateInvoice(s.GetContext(), s.createRequest())
	s.Require().NoError(err)

	year := time.Now().UTC().Year()
	s.Equal(invoice.FormatNumber(year, 1), resp.InvoiceNumber)
	s.Equal(types.InvoiceStatusDraft, resp.Status)
	s.True(resp.Subtotal.Equal(decimal.NewFromInt(200)))
	s.True(resp.TaxAmount.Equal(decimal.NewFromInt(20)))
	s.True(resp.Total.Equal(decimal.NewFromInt(220)))
	s.Equal(s.client.Name, resp.ClientName)
	s.Equal(s.client.Email, resp.ClientEmail)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceSequenceIncrements() {
	first, err := s.service.CreateInvoice(s.GetContext(), s.createRequest())
	s.Require().NoError(err)
	second, err := s.service.CreateInvoice(s.GetContext(), s.createRequest())
	s.Require().NoError(err)

	year := time.Now().UTC().Year()
	s.Equal(invoice.FormatNumber(year, 1), first.InvoiceNumber)
	s.Equal(invoice.FormatNumber(year, 2), second.InvoiceNumber)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceDefaultsFromCompany() {
	req := s.createRequest()
	req.Currency = ""
	req.TaxRate = nil

	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.Require().NoError(err)

	s.Equal("eur", resp.Currency)
	s.True(resp.TaxRate.Equal(decimal.NewFromInt(19)))
	s.True(resp.TaxAmount.Equal(decimal.NewFromInt(38)))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceUnknownClient() {
	req := s.createRequest()
	req.ClientID = "client_missing"

	_, err := s.service.CreateInvoice(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceClientCompanyMismatch() {
	other := &company.Company{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COMPANY),
		Name:      "Other Co",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.Require().NoError(s.GetStores().CompanyRepo.Create(s.GetContext(), other))

	req := s.createRequest()
	req.CompanyID = other.ID

	_, err := s.service.CreateInvoice(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestListInvoicesFilterByStatus() {
	s.seedInvoice("INV-2024-0001", types.InvoiceStatusDraft, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	s.seedInvoice("INV-2024-0002", types.InvoiceStatusSent, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))

	filter := types.NewInvoiceFilter()
	filter.InvoiceStatus = []types.InvoiceStatus{types.InvoiceStatusSent}

	resp, err := s.service.ListInvoices(s.GetContext(), filter)
	s.Require().NoError(err)
	s.Require().Len(resp.Items, 1)
	s.Equal("INV-2024-0002", resp.Items[0].InvoiceNumber)
	s.Equal(1, resp.Pagination.Total)
}

func (s *InvoiceServiceSuite) TestDuplicateAssignsNextNumber() {
	// The duplicated invoice is not the year's highest number; the new
	// number must still come from the year max, not the source
	src := s.seedInvoice("INV-2024-0007", types.InvoiceStatusPaid, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	s.seedInvoice("INV-2024-0012", types.InvoiceStatusSent, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	resp, err := s.service.DuplicateInvoice(s.GetContext(), src.ID, &dto.DuplicateInvoiceRequest{
		NewIssueDate: lo.ToPtr(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
	})
	s.Require().NoError(err)

	dup := resp.Duplicated
	s.Equal("INV-2024-0013", dup.InvoiceNumber)
	s.Equal(types.InvoiceStatusDraft, dup.Status)
	s.Nil(dup.PaidDate)
	s.Equal("Duplicated from INV-2024-0007", dup.Notes)
	s.NotEqual(src.ID, dup.ID)

	// Fresh child rows, same content
	s.Require().Len(dup.LineItems, 1)
	s.NotEqual(src.LineItems[0].ID, dup.LineItems[0].ID)
	s.True(dup.LineItems[0].Amount.Equal(src.LineItems[0].Amount))
	s.Require().Len(dup.PaymentMethods, 1)
	s.NotEqual(src.PaymentMethods[0].ID, dup.PaymentMethods[0].ID)
	s.Equal("pm_test", dup.PaymentMethods[0].PaymentMethodID)

	// Source untouched
	stored, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), src.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPaid, stored.Status)
	s.Equal("INV-2024-0007", stored.InvoiceNumber)
	s.Equal("seeded", stored.Notes)
}

func (s *InvoiceServiceSuite) TestDuplicateFirstNumberOfNewYear() {
	src := s.seedInvoice("INV-2024-0012", types.InvoiceStatusSent, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	resp, err := s.service.DuplicateInvoice(s.GetContext(), src.ID, &dto.DuplicateInvoiceRequest{
		NewIssueDate: lo.ToPtr(time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC)),
	})
	s.Require().NoError(err)
	s.Equal("INV-2030-0001", resp.Duplicated.InvoiceNumber)
}

func (s *InvoiceServiceSuite) TestDuplicateKeepsNumberWhenSuppressed() {
	src := s.seedInvoice("INV-2024-0012", types.InvoiceStatusSent, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	resp, err := s.service.DuplicateInvoice(s.GetContext(), src.ID, &dto.DuplicateInvoiceRequest{
		AdjustInvoiceNumber: lo.ToPtr(false),
	})
	s.Require().NoError(err)
	s.Equal("INV-2024-0012", resp.Duplicated.InvoiceNumber)
}

func (s *InvoiceServiceSuite) TestDuplicateCopyNotesAppendsStamp() {
	src := s.seedInvoice("INV-2024-0012", types.InvoiceStatusSent, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	resp, err := s.service.DuplicateInvoice(s.GetContext(), src.ID, &dto.DuplicateInvoiceRequest{
		NewIssueDate: lo.ToPtr(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
		CopyNotes:    true,
	})
	s.Require().NoError(err)
	s.Equal("seeded\nDuplicated from INV-2024-0012", resp.Duplicated.Notes)
}

func (s *InvoiceServiceSuite) TestDuplicateClientSubstitution() {
	src := s.seedInvoice("INV-2024-0012", types.InvoiceStatusSent, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	other := &client.Client{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT),
		CompanyID: s.company.ID,
		Name:      "Initech",
		Email:     "ap@initech.test",
		Address:   "2 Initech Blvd",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.Require().NoError(s.GetStores().ClientRepo.Create(s.GetContext(), other))

	resp, err := s.service.DuplicateInvoice(s.GetContext(), src.ID, &dto.DuplicateInvoiceRequest{
		NewClientID: lo.ToPtr(other.ID),
	})
	s.Require().NoError(err)

	dup := resp.Duplicated
	s.Equal(other.ID, dup.ClientID)
	s.Equal("Initech", dup.ClientName)
	s.Equal("ap@initech.test", dup.ClientEmail)
	s.Equal("2 Initech Blvd", dup.ClientAddress)
}

func (s *InvoiceServiceSuite) TestDuplicateRejectsForeignClient() {
	src := s.seedInvoice("INV-2024-0012", types.InvoiceStatusSent, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	otherCompany := &company.Company{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COMPANY),
		Name:      "Other Co",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.Require().NoError(s.GetStores().CompanyRepo.Create(s.GetContext(), otherCompany))

	foreign := &client.Client{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT),
		CompanyID: otherCompany.ID,
		Name:      "Foreign",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.Require().NoError(s.GetStores().ClientRepo.Create(s.GetContext(), foreign))

	_, err := s.service.DuplicateInvoice(s.GetContext(), src.ID, &dto.DuplicateInvoiceRequest{
		NewClientID: lo.ToPtr(foreign.ID),
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestRepeatedDuplicationStrictlyIncreases() {
	src := s.seedInvoice("INV-2024-0012", types.InvoiceStatusSent, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	issue := lo.ToPtr(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	want := []string{"INV-2024-0013", "INV-2024-0014", "INV-2024-0015"}
	for _, expected := range want {
		resp, err := s.service.DuplicateInvoice(s.GetContext(), src.ID, &dto.DuplicateInvoiceRequest{
			NewIssueDate: issue,
		})
		s.Require().NoError(err)
		s.Equal(expected, resp.Duplicated.InvoiceNumber)
	}
}

func (s *InvoiceServiceSuite) TestDuplicateMissingInvoice() {
	_, err := s.service.DuplicateInvoice(s.GetContext(), "inv_missing", nil)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
