package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ledgerline/ledgerline/internal/db"
	"github.com/ledgerline/ledgerline/internal/domain/company"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/logger"
	"github.com/ledgerline/ledgerline/internal/types"
)

type companyRepository struct {
	client db.IClient
	log    *logger.Logger
}

func NewCompanyRepository(dbClient db.IClient, log *logger.Logger) company.Repository {
	return &companyRepository{client: dbClient, log: log}
}

func (r *companyRepository) Create(ctx context.Context, c *company.Company) error {
	if err := r.client.Conn(ctx).Create(c).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create company").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *companyRepository) Get(ctx context.Context, id string) (*company.Company, error) {
	var c company.Company
	err := r.client.Conn(ctx).
		Where("id = ? AND tenant_id = ?", id, types.GetTenantID(ctx)).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("company not found").
				WithHintf("Company with ID %s was not found", id).
				WithReportableDetails(map[string]any{"company_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get company").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *companyRepository) Update(ctx context.Context, c *company.Company) error {
	if err := r.client.Conn(ctx).
		Where("id = ? AND tenant_id = ?", c.ID, types.GetTenantID(ctx)).
		Save(c).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update company").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *companyRepository) List(ctx context.Context) ([]*company.Company, error) {
	var companies []*company.Company
	if err := r.client.Conn(ctx).
		Where("tenant_id = ?", types.GetTenantID(ctx)).
		Order("created_at desc").
		Find(&companies).Error; err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list companies").
			Mark(ierr.ErrDatabase)
	}
	return companies, nil
}

func (r *companyRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Conn(ctx).
		Where("id = ? AND tenant_id = ?", id, types.GetTenantID(ctx)).
		Delete(&company.Company{}).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete company").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
