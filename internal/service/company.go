package service

import (
	"context"

	"github.com/ledgerline/ledgerline/internal/api/dto"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
)

// CompanyService handles company CRUD
type CompanyService interface {
	CreateCompany(ctx context.Context, req *dto.CreateCompanyRequest) (*dto.CompanyResponse, error)
	GetCompany(ctx context.Context, id string) (*dto.CompanyResponse, error)
}

type companyService struct {
	ServiceParams
}

func NewCompanyService(params ServiceParams) CompanyService {
	return &companyService{ServiceParams: params}
}

func (s *companyService) CreateCompany(ctx context.Context, req *dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := req.ToCompany(ctx)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.CompanyRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.Logger.Infow("created company", "company_id", c.ID)
	return dto.NewCompanyResponse(c), nil
}

func (s *companyService) GetCompany(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	if id == "" {
		return nil, ierr.NewError("company ID is required").
			WithHint("Please provide a company ID").
			Mark(ierr.ErrValidation)
	}

	c, err := s.CompanyRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewCompanyResponse(c), nil
}
