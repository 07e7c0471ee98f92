package api

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/ledgerline/ledgerline/internal/api/v1"
	"github.com/ledgerline/ledgerline/internal/config"
	"github.com/ledgerline/ledgerline/internal/logger"
	"github.com/ledgerline/ledgerline/internal/rest/middleware"
	"github.com/ledgerline/ledgerline/internal/types"
)

// Handlers groups all HTTP handlers for router wiring
type Handlers struct {
	Invoice *v1.InvoiceHandler
	Client  *v1.ClientHandler
	Company *v1.CompanyHandler
	Health  *v1.HealthHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode == types.ModeAPI {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.TenantMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	group := router.Group("/v1")

	invoices := group.Group("/invoices")
	{
		invoices.POST("", handlers.Invoice.CreateInvoice)
		invoices.GET("", handlers.Invoice.ListInvoices)
		invoices.POST("/bulk", handlers.Invoice.BulkOperation)
		invoices.GET("/:id", handlers.Invoice.GetInvoice)
		invoices.POST("/:id/duplicate", handlers.Invoice.DuplicateInvoice)
	}

	clients := group.Group("/clients")
	{
		clients.POST("", handlers.Client.CreateClient)
		clients.GET("", handlers.Client.ListClients)
		clients.GET("/:id", handlers.Client.GetClient)
	}

	companies := group.Group("/companies")
	{
		companies.POST("", handlers.Company.CreateCompany)
		companies.GET("/:id", handlers.Company.GetCompany)
	}

	return router
}
