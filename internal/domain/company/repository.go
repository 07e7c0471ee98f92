package company

import "context"

// Repository defines the interface for company persistence operations
type Repository interface {
	Create(ctx context.Context, c *Company) error
	Get(ctx context.Context, id string) (*Company, error)
	Update(ctx context.Context, c *Company) error
	List(ctx context.Context) ([]*Company, error)
	Delete(ctx context.Context, id string) error
}
