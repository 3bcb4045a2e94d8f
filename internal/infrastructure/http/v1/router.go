// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"minibooks/internal/core/numerator"
	"minibooks/internal/domain/accounts"
	"minibooks/internal/domain/catalogs/counterparty"
	"minibooks/internal/domain/catalogs/product"
	"minibooks/internal/domain/documents"
	"minibooks/internal/domain/journal"
	"minibooks/internal/domain/payments"
	"minibooks/internal/domain/posting"
	"minibooks/internal/domain/registers/inventory"
	"minibooks/internal/domain/reports"
	"minibooks/internal/infrastructure/http/v1/handlers"
	"minibooks/internal/infrastructure/http/v1/middleware"
	"minibooks/internal/infrastructure/storage/postgres"
	"minibooks/internal/infrastructure/storage/postgres/catalog_repo"
	"minibooks/internal/infrastructure/storage/postgres/document_repo"
	"minibooks/internal/infrastructure/storage/postgres/journal_repo"
	"minibooks/internal/infrastructure/storage/postgres/payment_repo"
	"minibooks/internal/infrastructure/storage/postgres/register_repo"
	"minibooks/internal/infrastructure/storage/postgres/report_repo"
	"minibooks/pkg/logger"
)

// RouterConfig holds the dependencies the router wires together.
type RouterConfig struct {
	Pool      *postgres.Pool
	TxManager *postgres.TxManager
	Logger    *logger.Logger
	Numerator numerator.Generator

	// Audit may be nil to disable the posting audit trail.
	Audit *postgres.AuditService
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Order matters: recovery outermost, then tracing so the logger and
	// error handler see the request id.
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	healthHandler.RegisterRoutes(router.Group("/health"))

	// Repositories.
	accountRepo := catalog_repo.NewAccountRepo(cfg.TxManager)
	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	counterpartyRepo := catalog_repo.NewCounterpartyRepo(cfg.TxManager)
	documentRepo := document_repo.NewDocumentRepo(cfg.TxManager)
	journalRepo := journal_repo.NewJournalRepo(cfg.TxManager)
	inventoryRepo := register_repo.NewInventoryRepo(cfg.TxManager)
	paymentRepo := payment_repo.NewPaymentRepo(cfg.TxManager)
	reportRepo := report_repo.NewReportRepo(cfg.TxManager)

	// Domain services.
	accountService := accounts.NewService(accountRepo, cfg.TxManager)
	resolver := accounts.NewResolver(accountRepo)
	productService := product.NewService(productRepo, cfg.TxManager)
	counterpartyService := counterparty.NewService(counterpartyRepo, cfg.TxManager)
	journalService := journal.NewService(journalRepo, cfg.Numerator, cfg.TxManager)
	registerService := inventory.NewService(inventoryRepo)
	documentService := documents.NewService(documentRepo, cfg.Numerator, cfg.TxManager)
	reportService := reports.NewService(reportRepo)

	var auditor posting.Auditor
	if cfg.Audit != nil {
		auditor = cfg.Audit
	}
	engine := posting.NewEngine(
		documentRepo,
		productRepo,
		counterpartyRepo,
		resolver,
		journalService,
		registerService,
		cfg.TxManager,
		auditor,
	)

	paymentService := payments.NewService(
		paymentRepo,
		documentRepo,
		counterpartyRepo,
		resolver,
		journalService,
		cfg.Numerator,
		cfg.TxManager,
	)

	api := router.Group("/api/v1")
	{
		catalog := api.Group("/catalog")
		handlers.NewAccountHandler(base, accountService).
			RegisterRoutes(catalog.Group("/accounts"))
		handlers.NewProductHandler(base, productService, registerService).
			RegisterRoutes(catalog.Group("/products"))
		handlers.NewCounterpartyHandler(base, counterpartyService).
			RegisterRoutes(catalog.Group("/counterparties"))

		var auditReader handlers.AuditReader
		if cfg.Audit != nil {
			auditReader = cfg.Audit
		}
		handlers.NewDocumentHandler(base, documentService, engine, auditReader).
			RegisterRoutes(api.Group("/documents"))

		paymentHandler := handlers.NewPaymentHandler(base, paymentService)
		paymentHandler.RegisterRoutes(api.Group("/payments"))
		paymentHandler.RegisterAllocationRoutes(api.Group("/allocations"))

		handlers.NewJournalHandler(base, journalService).
			RegisterRoutes(api.Group("/journal"))
		handlers.NewReportsHandler(base, reportService).
			RegisterRoutes(api.Group("/reports"))
	}

	return router
}
