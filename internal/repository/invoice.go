package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ledgerline/ledgerline/internal/db"
	"github.com/ledgerline/ledgerline/internal/domain/invoice"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/logger"
	"github.com/ledgerline/ledgerline/internal/types"
)

type invoiceRepository struct {
	client db.IClient
	log    *logger.Logger
}

func NewInvoiceRepository(client db.IClient, log *logger.Logger) invoice.Repository {
	return &invoiceRepository{client: client, log: log}
}

func (r *invoiceRepository) CreateWithLineItems(ctx context.Context, inv *invoice.Invoice) error {
	r.log.Debugw("creating invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"tenant_id", inv.TenantID,
	)

	return r.client.WithTx(ctx, func(ctx context.Context) error {
		conn := r.client.Conn(ctx)

		if err := conn.Omit(clause.Associations).Create(inv).Error; err != nil {
			return ierr.WithError(err).
				WithHint("Failed to create invoice").
				WithReportableDetails(map[string]any{"invoice_id": inv.ID}).
				Mark(ierr.ErrDatabase)
		}

		for _, item := range inv.LineItems {
			item.InvoiceID = inv.ID
			if err := conn.Create(item).Error; err != nil {
				return ierr.WithError(err).
					WithHint("Failed to create invoice line item").
					Mark(ierr.ErrDatabase)
			}
		}

		for _, pm := range inv.PaymentMethods {
			pm.InvoiceID = inv.ID
			if err := conn.Create(pm).Error; err != nil {
				return ierr.WithError(err).
					WithHint("Failed to link payment method").
					Mark(ierr.ErrDatabase)
			}
		}

		return nil
	})
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	err := r.client.Conn(ctx).
		Preload("LineItems").
		Preload("PaymentMethods").
		Where("id = ? AND tenant_id = ?", id, types.GetTenantID(ctx)).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("invoice not found").
				WithHintf("Invoice with ID %s was not found", id).
				WithReportableDetails(map[string]any{"invoice_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice").
			Mark(ierr.ErrDatabase)
	}
	return &inv, nil
}

func (r *invoiceRepository) GetByIDs(ctx context.Context, ids []string) ([]*invoice.Invoice, error) {
	var invoices []*invoice.Invoice
	err := r.client.Conn(ctx).
		Preload("LineItems").
		Preload("PaymentMethods").
		Where("id IN ? AND tenant_id = ?", ids, types.GetTenantID(ctx)).
		Find(&invoices).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoices").
			Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	result := r.client.Conn(ctx).
		Omit(clause.Associations).
		Where("id = ? AND tenant_id = ?", inv.ID, types.GetTenantID(ctx)).
		Save(inv)
	if result.Error != nil {
		return ierr.WithError(result.Error).
			WithHint("Failed to update invoice").
			WithReportableDetails(map[string]any{"invoice_id": inv.ID}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	return r.client.WithTx(ctx, func(ctx context.Context) error {
		conn := r.client.Conn(ctx)

		if err := conn.Where("invoice_id IN ?", ids).
			Delete(&invoice.LineItem{}).Error; err != nil {
			return ierr.WithError(err).
				WithHint("Failed to delete invoice line items").
				Mark(ierr.ErrDatabase)
		}

		if err := conn.Where("invoice_id IN ?", ids).
			Delete(&invoice.PaymentMethodLink{}).Error; err != nil {
			return ierr.WithError(err).
				WithHint("Failed to delete invoice payment method links").
				Mark(ierr.ErrDatabase)
		}

		if err := conn.Where("id IN ? AND tenant_id = ?", ids, types.GetTenantID(ctx)).
			Delete(&invoice.Invoice{}).Error; err != nil {
			return ierr.WithError(err).
				WithHint("Failed to delete invoices").
				Mark(ierr.ErrDatabase)
		}

		return nil
	})
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	query := r.buildFilterQuery(ctx, filter)

	if !filter.IsUnlimited() {
		query = query.Limit(filter.GetLimit()).Offset(filter.GetOffset())
	}
	query = query.Order(filter.GetSort() + " " + filter.GetOrder())

	var invoices []*invoice.Invoice
	if err := query.Preload("LineItems").Preload("PaymentMethods").Find(&invoices).Error; err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices").
			Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	var count int64
	if err := r.buildFilterQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count invoices").
			Mark(ierr.ErrDatabase)
	}
	return int(count), nil
}

func (r *invoiceRepository) buildFilterQuery(ctx context.Context, filter *types.InvoiceFilter) *gorm.DB {
	query := r.client.Conn(ctx).
		Model(&invoice.Invoice{}).
		Where("tenant_id = ?", types.GetTenantID(ctx))

	if len(filter.InvoiceIDs) > 0 {
		query = query.Where("id IN ?", filter.InvoiceIDs)
	}
	if filter.CompanyID != "" {
		query = query.Where("company_id = ?", filter.CompanyID)
	}
	if filter.ClientID != "" {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if len(filter.InvoiceStatus) > 0 {
		query = query.Where("status IN ?", filter.InvoiceStatus)
	}

	return query
}

// NextSequence scans existing invoice numbers for the company and year and
// returns max(sequence)+1. The comparison is numeric so sequences past 9999
// keep ordering correctly.
func (r *invoiceRepository) NextSequence(ctx context.Context, companyID string, year int) (int64, error) {
	prefix := invoice.NumberPrefix(year)

	var numbers []string
	err := r.client.Conn(ctx).
		Model(&invoice.Invoice{}).
		Where("tenant_id = ? AND company_id = ? AND invoice_number LIKE ?",
			types.GetTenantID(ctx), companyID, prefix+"%").
		Pluck("invoice_number", &numbers).Error
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to determine next invoice number").
			Mark(ierr.ErrDatabase)
	}

	var maxSeq int64
	for _, num := range numbers {
		seq, err := invoice.ParseSequence(num, year)
		if err != nil {
			// Legacy or hand-edited numbers are skipped rather than
			// blocking new invoice creation
			r.log.Warnw("skipping unparseable invoice number", "invoice_number", num)
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}

	return maxSeq + 1, nil
}
