package testutil

import (
	"context"

	"github.com/ledgerline/ledgerline/internal/domain/invoice"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
)

// InMemoryInvoiceStore implements invoice.Repository for tests
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]
}

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

// copyInvoice returns a deep copy so callers cannot mutate stored state
func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}

	cp := *inv

	if inv.Metadata != nil {
		cp.Metadata = make(types.Metadata, len(inv.Metadata))
		for k, v := range inv.Metadata {
			cp.Metadata[k] = v
		}
	}

	cp.LineItems = nil
	for _, item := range inv.LineItems {
		itemCopy := *item
		cp.LineItems = append(cp.LineItems, &itemCopy)
	}

	cp.PaymentMethods = nil
	for _, pm := range inv.PaymentMethods {
		pmCopy := *pm
		cp.PaymentMethods = append(cp.PaymentMethods, &pmCopy)
	}

	return &cp
}

func (s *InMemoryInvoiceStore) CreateWithLineItems(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return ierr.NewError("invoice cannot be nil").Mark(ierr.ErrValidation)
	}

	stored := copyInvoice(inv)
	for _, item := range stored.LineItems {
		item.InvoiceID = stored.ID
	}
	for _, pm := range stored.PaymentMethods {
		pm.InvoiceID = stored.ID
	}

	if err := s.InMemoryStore.Create(ctx, stored.ID, stored); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create invoice").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("invoice not found").
			WithHintf("Invoice with ID %s was not found", id).
			WithReportableDetails(map[string]any{"invoice_id": id}).
			Mark(ierr.ErrNotFound)
	}
	if tenantID := types.GetTenantID(ctx); tenantID != "" && inv.TenantID != tenantID {
		return nil, ierr.NewError("invoice not found").
			WithHintf("Invoice with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) GetByIDs(ctx context.Context, ids []string) ([]*invoice.Invoice, error) {
	var result []*invoice.Invoice
	for _, id := range ids {
		inv, err := s.Get(ctx, id)
		if err != nil {
			continue
		}
		result = append(result, inv)
	}
	return result, nil
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return ierr.NewError("invoice cannot be nil").Mark(ierr.ErrValidation)
	}

	existing, err := s.InMemoryStore.Get(ctx, inv.ID)
	if err != nil {
		return ierr.NewError("invoice not found").
			WithHintf("Invoice with ID %s was not found", inv.ID).
			Mark(ierr.ErrNotFound)
	}

	updated := copyInvoice(inv)
	// Children are not managed through Update, mirror the row-only semantics
	updated.LineItems = existing.LineItems
	updated.PaymentMethods = existing.PaymentMethods

	if err := s.InMemoryStore.Update(ctx, inv.ID, updated); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update invoice").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (s *InMemoryInvoiceStore) Delete(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := s.InMemoryStore.Delete(ctx, id); err != nil {
			return ierr.NewError("invoice not found").
				WithHintf("Invoice with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
	}
	return nil
}

func invoiceFilterFn(ctx context.Context, inv *invoice.Invoice, filter interface{}) bool {
	f, ok := filter.(*types.InvoiceFilter)
	if !ok {
		return true
	}

	if tenantID := types.GetTenantID(ctx); tenantID != "" && inv.TenantID != tenantID {
		return false
	}
	if len(f.InvoiceIDs) > 0 {
		found := false
		for _, id := range f.InvoiceIDs {
			if inv.ID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.CompanyID != "" && inv.CompanyID != f.CompanyID {
		return false
	}
	if f.ClientID != "" && inv.ClientID != f.ClientID {
		return false
	}
	if len(f.InvoiceStatus) > 0 {
		found := false
		for _, st := range f.InvoiceStatus {
			if inv.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func invoiceSortFn(i, j *invoice.Invoice) bool {
	return i.CreatedAt.After(j.CreatedAt)
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	invoices, err := s.InMemoryStore.List(ctx, filter, invoiceFilterFn, invoiceSortFn)
	if err != nil {
		return nil, err
	}

	result := make([]*invoice.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, copyInvoice(inv))
	}
	return result, nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, invoiceFilterFn)
}

func (s *InMemoryInvoiceStore) NextSequence(ctx context.Context, companyID string, year int) (int64, error) {
	filter := types.NewNoLimitInvoiceFilter()
	filter.CompanyID = companyID

	invoices, err := s.InMemoryStore.List(ctx, filter, invoiceFilterFn, nil)
	if err != nil {
		return 0, err
	}

	var maxSeq int64
	for _, inv := range invoices {
		seq, err := invoice.ParseSequence(inv.InvoiceNumber, year)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1, nil
}
