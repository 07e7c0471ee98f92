package invoice

import (
	"context"

	"github.com/ledgerline/ledgerline/internal/types"
)

// Repository defines the interface for invoice persistence operations
type Repository interface {
	// CreateWithLineItems creates an invoice along with its line items and
	// payment method links in a single transaction
	CreateWithLineItems(ctx context.Context, inv *Invoice) error

	// Get retrieves an invoice by ID with its children loaded
	Get(ctx context.Context, id string) (*Invoice, error)

	// GetByIDs retrieves the invoices matching the given IDs; missing IDs
	// are simply absent from the result
	GetByIDs(ctx context.Context, ids []string) ([]*Invoice, error)

	// Update persists changes to an invoice row (children untouched)
	Update(ctx context.Context, inv *Invoice) error

	// Delete permanently removes invoices and their children
	Delete(ctx context.Context, ids []string) error

	// List retrieves invoices matching the filter
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)

	// Count returns the number of invoices matching the filter
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)

	// NextSequence returns the next free invoice sequence for a company
	// and year, starting at 1 when no invoices exist yet
	NextSequence(ctx context.Context, companyID string, year int) (int64, error)
}
