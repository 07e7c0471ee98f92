package repository

import (
	"gorm.io/gorm"

	"github.com/ledgerline/ledgerline/internal/domain/client"
	"github.com/ledgerline/ledgerline/internal/domain/company"
	"github.com/ledgerline/ledgerline/internal/domain/invoice"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
)

// AutoMigrate creates or updates the schema for all persisted models
func AutoMigrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&company.Company{},
		&client.Client{},
		&invoice.Invoice{},
		&invoice.LineItem{},
		&invoice.PaymentMethodLink{},
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to migrate database schema").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
