package service

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/ledgerline/ledgerline/internal/api/dto"
	"github.com/ledgerline/ledgerline/internal/domain/invoice"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
)

// InvoiceService handles invoice creation, retrieval and duplication
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	DuplicateInvoice(ctx context.Context, id string, req *dto.DuplicateInvoiceRequest) (*dto.DuplicateInvoiceResponse, error)
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{ServiceParams: params}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	comp, err := s.CompanyRepo.Get(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}

	cl, err := s.ClientRepo.Get(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if cl.CompanyID != comp.ID {
		return nil, ierr.NewError("client does not belong to company").
			WithHint("The client must belong to the invoicing company").
			WithReportableDetails(map[string]any{
				"client_id":  cl.ID,
				"company_id": comp.ID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	inv := req.ToInvoice(ctx)

	if inv.Currency == "" {
		inv.Currency = comp.DefaultCurrency
	}
	if err := types.ValidateCurrencyCode(inv.Currency); err != nil {
		return nil, err
	}
	for _, item := range inv.LineItems {
		item.Currency = inv.Currency
	}

	if req.TaxRate != nil {
		inv.TaxRate = *req.TaxRate
	} else {
		inv.TaxRate = comp.DefaultTaxRate
	}

	inv.IssueDate = lo.FromPtrOr(req.IssueDate, time.Now().UTC())
	inv.DueDate = req.DueDate
	inv.ClientName = cl.Name
	inv.ClientEmail = cl.Email
	inv.ClientAddress = cl.Address
	inv.RecalculateTotals()

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	// Number assignment and row creation share one transaction so two
	// concurrent creates cannot claim the same sequence
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		seq, err := s.InvoiceRepo.NextSequence(ctx, inv.CompanyID, inv.IssueDate.Year())
		if err != nil {
			return err
		}
		inv.InvoiceNumber = invoice.FormatNumber(inv.IssueDate.Year(), seq)
		return s.InvoiceRepo.CreateWithLineItems(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"company_id", inv.CompanyID,
	)

	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	if id == "" {
		return nil, ierr.NewError("invoice ID is required").
			WithHint("Please provide an invoice ID").
			Mark(ierr.ErrValidation)
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(invoices, func(inv *invoice.Invoice, _ int) *dto.InvoiceResponse {
		return dto.NewInvoiceResponse(inv)
	})

	resp := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

// DuplicateInvoice creates a fresh draft copy of an existing invoice. The
// copy gets the next free number for its year unless suppressed, fresh line
// item and payment method rows, and never mutates the source.
func (s *invoiceService) DuplicateInvoice(ctx context.Context, id string, req *dto.DuplicateInvoiceRequest) (*dto.DuplicateInvoiceResponse, error) {
	if req == nil {
		req = &dto.DuplicateInvoiceRequest{}
	}

	src, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var dup *invoice.Invoice
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		dup, err = s.buildDuplicate(ctx, src, req)
		if err != nil {
			return err
		}
		return s.InvoiceRepo.CreateWithLineItems(ctx, dup)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("duplicated invoice",
		"source_invoice_id", src.ID,
		"invoice_id", dup.ID,
		"invoice_number", dup.InvoiceNumber,
	)

	return &dto.DuplicateInvoiceResponse{
		Original:   dto.NewInvoiceResponse(src),
		Duplicated: dto.NewInvoiceResponse(dup),
	}, nil
}

func (s *invoiceService) buildDuplicate(ctx context.Context, src *invoice.Invoice, req *dto.DuplicateInvoiceRequest) (*invoice.Invoice, error) {
	issueDate := lo.FromPtrOr(req.NewIssueDate, time.Now().UTC())

	dueDate := req.NewDueDate
	if dueDate == nil && src.DueDate != nil {
		// Preserve the source payment window relative to the new issue date
		shifted := issueDate.Add(src.DueDate.Sub(src.IssueDate))
		dueDate = &shifted
	}

	dup := &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		InvoiceNumber: src.InvoiceNumber,
		CompanyID:     src.CompanyID,
		ClientID:      src.ClientID,
		ClientName:    src.ClientName,
		ClientEmail:   src.ClientEmail,
		ClientAddress: src.ClientAddress,
		Currency:      src.Currency,
		Status:        types.InvoiceStatusDraft,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		Subtotal:      src.Subtotal,
		TaxRate:       src.TaxRate,
		TaxAmount:     src.TaxAmount,
		Total:         src.Total,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}

	if req.ShouldAdjustNumber() {
		seq, err := s.InvoiceRepo.NextSequence(ctx, src.CompanyID, issueDate.Year())
		if err != nil {
			return nil, err
		}
		dup.InvoiceNumber = invoice.FormatNumber(issueDate.Year(), seq)
	}

	if req.NewClientID != nil && *req.NewClientID != src.ClientID {
		cl, err := s.ClientRepo.Get(ctx, *req.NewClientID)
		if err != nil {
			return nil, err
		}
		if cl.CompanyID != src.CompanyID {
			return nil, ierr.NewError("client does not belong to company").
				WithHint("The substituted client must belong to the invoicing company").
				WithReportableDetails(map[string]any{
					"client_id":  cl.ID,
					"company_id": src.CompanyID,
				}).
				Mark(ierr.ErrInvalidOperation)
		}
		dup.ClientID = cl.ID
		dup.ClientName = cl.Name
		dup.ClientEmail = cl.Email
		dup.ClientAddress = cl.Address
	}

	stamp := fmt.Sprintf("Duplicated from %s", src.InvoiceNumber)
	if req.CopyNotes && src.Notes != "" {
		dup.Notes = src.Notes + "\n" + stamp
	} else {
		dup.Notes = stamp
	}

	if len(src.Metadata) > 0 {
		dup.Metadata = make(types.Metadata, len(src.Metadata))
		for k, v := range src.Metadata {
			dup.Metadata[k] = v
		}
	}

	for _, item := range src.LineItems {
		dup.LineItems = append(dup.LineItems, &invoice.LineItem{
			ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
			ProductID:   item.ProductID,
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Currency:    item.Currency,
			Amount:      item.Amount,
			BaseModel:   types.GetDefaultBaseModel(ctx),
		})
	}

	for _, pm := range src.PaymentMethods {
		dup.PaymentMethods = append(dup.PaymentMethods, &invoice.PaymentMethodLink{
			ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_METHOD_LINK),
			PaymentMethodID: pm.PaymentMethodID,
			BaseModel:       types.GetDefaultBaseModel(ctx),
		})
	}

	return dup, nil
}
