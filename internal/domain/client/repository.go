package client

import "context"

// Repository defines the interface for client persistence operations
type Repository interface {
	Create(ctx context.Context, c *Client) error
	Get(ctx context.Context, id string) (*Client, error)
	Update(ctx context.Context, c *Client) error
	List(ctx context.Context, companyID string) ([]*Client, error)
	Delete(ctx context.Context, id string) error
}
