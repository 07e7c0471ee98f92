package testutil

import (
	"context"

	"github.com/ledgerline/ledgerline/internal/domain/company"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
)

// InMemoryCompanyStore implements company.Repository for tests
type InMemoryCompanyStore struct {
	*InMemoryStore[*company.Company]
}

func NewInMemoryCompanyStore() *InMemoryCompanyStore {
	return &InMemoryCompanyStore{
		InMemoryStore: NewInMemoryStore[*company.Company](),
	}
}

func (s *InMemoryCompanyStore) Create(ctx context.Context, c *company.Company) error {
	if err := s.InMemoryStore.Create(ctx, c.ID, c); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create company").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryCompanyStore) Get(ctx context.Context, id string) (*company.Company, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("company not found").
			WithHintf("Company with ID %s was not found", id).
			WithReportableDetails(map[string]any{"company_id": id}).
			Mark(ierr.ErrNotFound)
	}
	if tenantID := types.GetTenantID(ctx); tenantID != "" && c.TenantID != tenantID {
		return nil, ierr.NewError("company not found").
			WithHintf("Company with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (s *InMemoryCompanyStore) Update(ctx context.Context, c *company.Company) error {
	cp := *c
	if err := s.InMemoryStore.Update(ctx, c.ID, &cp); err != nil {
		return ierr.NewError("company not found").
			WithHintf("Company with ID %s was not found", c.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryCompanyStore) List(ctx context.Context) ([]*company.Company, error) {
	return s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, c *company.Company, _ interface{}) bool {
			tenantID := types.GetTenantID(ctx)
			return tenantID == "" || c.TenantID == tenantID
		},
		func(i, j *company.Company) bool {
			return i.CreatedAt.After(j.CreatedAt)
		})
}

func (s *InMemoryCompanyStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("company not found").
			WithHintf("Company with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
