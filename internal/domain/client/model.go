package client

import (
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
)

// Client represents a billable customer of a company
type Client struct {
	ID        string `json:"id" gorm:"primaryKey"`
	CompanyID string `json:"company_id" gorm:"index;not null"`
	Name      string `json:"name" gorm:"not null"`
	Email     string `json:"email"`
	Address   string `json:"address"`

	types.BaseModel
}

func (c *Client) Validate() error {
	if c.Name == "" {
		return ierr.NewError("client validation failed").
			WithHint("name is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
