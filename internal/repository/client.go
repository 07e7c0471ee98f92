package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ledgerline/ledgerline/internal/db"
	"github.com/ledgerline/ledgerline/internal/domain/client"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/logger"
	"github.com/ledgerline/ledgerline/internal/types"
)

type clientRepository struct {
	client db.IClient
	log    *logger.Logger
}

func NewClientRepository(dbClient db.IClient, log *logger.Logger) client.Repository {
	return &clientRepository{client: dbClient, log: log}
}

func (r *clientRepository) Create(ctx context.Context, c *client.Client) error {
	if err := r.client.Conn(ctx).Create(c).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create client").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *clientRepository) Get(ctx context.Context, id string) (*client.Client, error) {
	var c client.Client
	err := r.client.Conn(ctx).
		Where("id = ? AND tenant_id = ?", id, types.GetTenantID(ctx)).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("client not found").
				WithHintf("Client with ID %s was not found", id).
				WithReportableDetails(map[string]any{"client_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get client").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *clientRepository) Update(ctx context.Context, c *client.Client) error {
	if err := r.client.Conn(ctx).
		Where("id = ? AND tenant_id = ?", c.ID, types.GetTenantID(ctx)).
		Save(c).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update client").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *clientRepository) List(ctx context.Context, companyID string) ([]*client.Client, error) {
	query := r.client.Conn(ctx).
		Model(&client.Client{}).
		Where("tenant_id = ?", types.GetTenantID(ctx))
	if companyID != "" {
		query = query.Where("company_id = ?", companyID)
	}

	var clients []*client.Client
	if err := query.Order("created_at desc").Find(&clients).Error; err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list clients").
			Mark(ierr.ErrDatabase)
	}
	return clients, nil
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Conn(ctx).
		Where("id = ? AND tenant_id = ?", id, types.GetTenantID(ctx)).
		Delete(&client.Client{}).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete client").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
