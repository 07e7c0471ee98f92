package testutil

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/ledgerline/ledgerline/internal/config"
	"github.com/ledgerline/ledgerline/internal/db"
	"github.com/ledgerline/ledgerline/internal/logger"
	"github.com/ledgerline/ledgerline/internal/types"
)

// Stores holds the in-memory repositories used by service tests
type Stores struct {
	InvoiceRepo *InMemoryInvoiceStore
	ClientRepo  *InMemoryClientStore
	CompanyRepo *InMemoryCompanyStore
}

// BaseServiceSuite provides common setup for service test suites
type BaseServiceSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	db     db.IClient
	logger *logger.Logger
}

// SetupSuite initializes shared resources
func (s *BaseServiceSuite) SetupSuite() {
	log, err := logger.NewLogger(config.GetDefaultConfig())
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
	s.logger = log
	s.db = NewMockDBClient()
}

// SetupTest prepares fresh stores and context for each test
func (s *BaseServiceSuite) SetupTest() {
	ctx := context.Background()
	ctx = types.SetTenantID(ctx, types.DefaultTenantID)
	ctx = types.SetUserID(ctx, types.DefaultUserID)
	s.ctx = ctx

	s.stores = Stores{
		InvoiceRepo: NewInMemoryInvoiceStore(),
		ClientRepo:  NewInMemoryClientStore(),
		CompanyRepo: NewInMemoryCompanyStore(),
	}
}

func (s *BaseServiceSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceSuite) GetDB() db.IClient {
	return s.db
}

func (s *BaseServiceSuite) GetLogger() *logger.Logger {
	return s.logger
}

// ClearStores resets all in-memory stores
func (s *BaseServiceSuite) ClearStores() {
	s.stores.InvoiceRepo.Clear()
	s.stores.ClientRepo.Clear()
	s.stores.CompanyRepo.Clear()
}
