package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/ledgerline/ledgerline/internal/api"
	v1 "github.com/ledgerline/ledgerline/internal/api/v1"
	"github.com/ledgerline/ledgerline/internal/config"
	"github.com/ledgerline/ledgerline/internal/db"
	"github.com/ledgerline/ledgerline/internal/domain/client"
	"github.com/ledgerline/ledgerline/internal/domain/company"
	"github.com/ledgerline/ledgerline/internal/domain/invoice"
	"github.com/ledgerline/ledgerline/internal/logger"
	"github.com/ledgerline/ledgerline/internal/repository"
	"github.com/ledgerline/ledgerline/internal/service"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			db.NewGormDB,
			db.NewClient,
			repository.NewInvoiceRepository,
			repository.NewClientRepository,
			repository.NewCompanyRepository,
			newServiceParams,
			service.NewInvoiceService,
			service.NewBulkOperationService,
			service.NewClientService,
			service.NewCompanyService,
			v1.NewInvoiceHandler,
			v1.NewClientHandler,
			v1.NewCompanyHandler,
			v1.NewHealthHandler,
			newHandlers,
			api.NewRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func newServiceParams(
	log *logger.Logger,
	cfg *config.Configuration,
	dbClient db.IClient,
	invoiceRepo invoice.Repository,
	clientRepo client.Repository,
	companyRepo company.Repository,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:      log,
		Config:      cfg,
		DB:          dbClient,
		InvoiceRepo: invoiceRepo,
		ClientRepo:  clientRepo,
		CompanyRepo: companyRepo,
	}
}

func newHandlers(
	invoiceHandler *v1.InvoiceHandler,
	clientHandler *v1.ClientHandler,
	companyHandler *v1.CompanyHandler,
	healthHandler *v1.HealthHandler,
) api.Handlers {
	return api.Handlers{
		Invoice: invoiceHandler,
		Client:  clientHandler,
		Company: companyHandler,
		Health:  healthHandler,
	}
}

func startServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	conn *gorm.DB,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := repository.AutoMigrate(conn); err != nil {
				return err
			}

			log.Infow("starting server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalw("server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("shutting down server")
			return srv.Shutdown(ctx)
		},
	})
}
