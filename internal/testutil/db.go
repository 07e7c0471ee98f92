package testutil

import (
	"context"

	"gorm.io/gorm"

	"github.com/ledgerline/ledgerline/internal/db"
)

// MockDBClient satisfies db.IClient for services under test. Transactions
// are a pass-through since the in-memory stores have no rollback.
type MockDBClient struct{}

func NewMockDBClient() db.IClient {
	return &MockDBClient{}
}

func (m *MockDBClient) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *MockDBClient) Conn(ctx context.Context) *gorm.DB {
	return nil
}
