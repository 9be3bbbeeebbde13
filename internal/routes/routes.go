// Package routes defines the API routing configuration. It wires
// repositories, services and handlers, and applies authentication middleware
// per route group.
package routes

import (
	"cantina/internal/handlers"
	"cantina/internal/metrics"
	"cantina/internal/middleware"
	"cantina/internal/models"
	"cantina/internal/repositories"
	"cantina/internal/services/catalog"
	"cantina/internal/services/ledger"
	"cantina/internal/services/order"
	"cantina/internal/services/pix"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Repositories
	walletRepo := repositories.NewWalletRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)
	pixRepo := repositories.NewPixRepository(db)
	tenantRepo := repositories.NewTenantRepository(db)

	// Services
	ledgerService := ledger.NewService(
		walletRepo,
		repositories.CacheService,
		ledger.Config{},
		metrics.NewLedgerCollector(),
	)
	catalogService := catalog.NewService(catalogRepo)
	orderService := order.NewService(orderRepo, catalogService, ledgerService)
	pixService := pix.NewService(pixRepo, ledgerService)

	// Handlers
	walletHandler := handlers.NewWalletHandler(ledgerService)
	orderHandler := handlers.NewOrderHandler(orderService)
	pixHandler := handlers.NewPixHandler(pixService, tenantRepo)

	app.Get("/health", handlers.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Gateway webhook: shared-secret auth, no bearer token.
	app.Post("/api/wallets/pix-webhook", pixHandler.Webhook)

	api := app.Group("/api", middleware.TenantAuth)

	wallets := api.Group("/wallets")
	wallets.Get("/:studentId", walletHandler.GetWallet)
	wallets.Get("/:studentId/reconcile", middleware.RequireRole(models.RoleAdmin), walletHandler.Reconcile)
	wallets.Post("/:studentId/topup", middleware.RequireRole(models.RoleStaff), walletHandler.Topup)
	wallets.Post("/:studentId/debit", middleware.RequireRole(models.RoleStaff), walletHandler.Debit)
	wallets.Post("/:studentId/refund", middleware.RequireRole(models.RoleStaff), walletHandler.Refund)
	wallets.Post("/:studentId/pix-charge", pixHandler.CreateCharge)

	orders := api.Group("/orders")
	orders.Get("/", orderHandler.List)
	orders.Post("/", orderHandler.Create)
	orders.Post("/:orderId/fulfill", middleware.RequireRole(models.RoleStaff), orderHandler.Fulfill)
	orders.Post("/:orderId/cancel", middleware.RequireRole(models.RoleStaff), orderHandler.Cancel)
}
