package db

import (
	"context"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ledgerline/ledgerline/internal/config"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/logger"
	"github.com/ledgerline/ledgerline/internal/types"
)

// IClient defines the interface for database client operations
type IClient interface {
	// WithTx wraps the given function in a transaction; the transactional
	// handle travels in the context so nested repository calls join it
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// Conn returns the transaction handle from the context if present,
	// or the regular connection otherwise
	Conn(ctx context.Context) *gorm.DB
}

// Client wraps gorm.DB to provide context-scoped transaction management
type Client struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewGormDB opens the configured gorm connection (postgres or sqlite)
func NewGormDB(cfg *config.Configuration, log *logger.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}
	if cfg.Logging.Level == types.LogLevelDebug {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Database.Postgres.GetDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.SQLitePath)
	default:
		return nil, ierr.NewError("unsupported database driver").
			WithHintf("driver %q is not supported", cfg.Database.Driver).
			Mark(ierr.ErrValidation)
	}

	conn, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to connect to the database").
			Mark(ierr.ErrDatabase)
	}

	log.Infow("database connection established", "driver", cfg.Database.Driver)
	return conn, nil
}

// NewClient creates a new gorm client wrapper with transaction management
func NewClient(conn *gorm.DB, log *logger.Logger) IClient {
	return &Client{db: conn, logger: log}
}

func (c *Client) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	// Already inside a transaction: join it
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, types.CtxDBTransaction, tx)
		return fn(txCtx)
	})
}

func (c *Client) Conn(ctx context.Context) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return c.db.WithContext(ctx)
}

func txFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(types.CtxDBTransaction).(*gorm.DB); ok {
		return tx
	}
	return nil
}
