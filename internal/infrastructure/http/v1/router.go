// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"ironstock/internal/domain/auth"
	"ironstock/internal/domain/catalogs/product"
	"ironstock/internal/domain/catalogs/supplier"
	"ironstock/internal/domain/documents/purchase_receipt"
	"ironstock/internal/domain/registers/stock"
	"ironstock/internal/domain/reports"
	"ironstock/internal/infrastructure/http/v1/handlers"
	"ironstock/internal/infrastructure/http/v1/middleware"
	"ironstock/internal/infrastructure/storage/postgres"
	"ironstock/pkg/logger"
)

// RouterConfig wires the services exposed over HTTP.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	AuthService     *auth.Service
	ProductService  *product.Service
	SupplierService *supplier.Service
	ReceiptService  *purchase_receipt.Service
	StockService    *stock.Service
	ReportService   *reports.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Order matters: recovery first, error handler wraps everything after it
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	api := router.Group("/api/v1")

	// Auth endpoints: login/register public, profile protected
	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
	publicAuth := api.Group("/auth")
	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.AuthService))
	authHandler.RegisterRoutes(publicAuth, protectedAuth)

	// Everything else requires a valid token
	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.AuthService))

	catalogs := protected.Group("/catalogs")
	{
		productHandler := handlers.NewProductHandler(base, cfg.ProductService)
		productHandler.RegisterRoutes(catalogs.Group("/products"))

		supplierHandler := handlers.NewSupplierHandler(base, cfg.SupplierService)
		supplierHandler.RegisterRoutes(catalogs.Group("/suppliers"))
	}

	documents := protected.Group("/documents")
	{
		receiptHandler := handlers.NewPurchaseReceiptHandler(base, cfg.ReceiptService)
		receiptHandler.RegisterRoutes(documents.Group("/purchase-receipts"))
	}

	registers := protected.Group("/registers")
	{
		stockHandler := handlers.NewStockHandler(base, cfg.StockService)
		stockHandler.RegisterRoutes(registers.Group("/stock"))
	}

	reportsGroup := protected.Group("/reports")
	{
		reportsHandler := handlers.NewReportsHandler(base, cfg.ReportService)
		reportsHandler.RegisterRoutes(reportsGroup)
	}

	return router
}
