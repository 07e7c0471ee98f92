package testutil

import (
	"context"

	"github.com/ledgerline/ledgerline/internal/domain/client"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
)

// InMemoryClientStore implements client.Repository for tests
type InMemoryClientStore struct {
	*InMemoryStore[*client.Client]
}

func NewInMemoryClientStore() *InMemoryClientStore {
	return &InMemoryClientStore{
		InMemoryStore: NewInMemoryStore[*client.Client](),
	}
}

func (s *InMemoryClientStore) Create(ctx context.Context, c *client.Client) error {
	if err := s.InMemoryStore.Create(ctx, c.ID, c); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create client").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryClientStore) Get(ctx context.Context, id string) (*client.Client, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("client not found").
			WithHintf("Client with ID %s was not found", id).
			WithReportableDetails(map[string]any{"client_id": id}).
			Mark(ierr.ErrNotFound)
	}
	if tenantID := types.GetTenantID(ctx); tenantID != "" && c.TenantID != tenantID {
		return nil, ierr.NewError("client not found").
			WithHintf("Client with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (s *InMemoryClientStore) Update(ctx context.Context, c *client.Client) error {
	cp := *c
	if err := s.InMemoryStore.Update(ctx, c.ID, &cp); err != nil {
		return ierr.NewError("client not found").
			WithHintf("Client with ID %s was not found", c.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryClientStore) List(ctx context.Context, companyID string) ([]*client.Client, error) {
	return s.InMemoryStore.List(ctx, companyID,
		func(ctx context.Context, c *client.Client, filter interface{}) bool {
			if tenantID := types.GetTenantID(ctx); tenantID != "" && c.TenantID != tenantID {
				return false
			}
			id, _ := filter.(string)
			return id == "" || c.CompanyID == id
		},
		func(i, j *client.Client) bool {
			return i.CreatedAt.After(j.CreatedAt)
		})
}

func (s *InMemoryClientStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("client not found").
			WithHintf("Client with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
