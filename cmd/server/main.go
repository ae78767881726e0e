// Package main is the entry point for the ironstock API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ironstock/internal/core/rules"
	"ironstock/internal/domain/auth"
	"ironstock/internal/domain/catalogs/product"
	"ironstock/internal/domain/catalogs/supplier"
	"ironstock/internal/domain/documents/purchase_receipt"
	"ironstock/internal/domain/registers/stock"
	"ironstock/internal/domain/reports"
	v1 "ironstock/internal/infrastructure/http/v1"
	"ironstock/internal/infrastructure/storage/postgres"
	"ironstock/internal/infrastructure/storage/postgres/auth_repo"
	"ironstock/internal/infrastructure/storage/postgres/catalog_repo"
	"ironstock/internal/infrastructure/storage/postgres/document_repo"
	"ironstock/internal/infrastructure/storage/postgres/register_repo"
	"ironstock/internal/infrastructure/storage/postgres/report_repo"
	"ironstock/pkg/logger"
	"ironstock/pkg/numerator"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting ironstock server")

	// --- Database ---
	dsn := mustEnv("DATABASE_URL")
	poolCfg := postgres.DefaultPoolConfig(dsn)
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Auth ---
	jwtSecret := mustEnv("JWT_SECRET")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))
	userRepo := auth_repo.NewUserRepo(txManager)
	authService := auth.NewService(userRepo, txManager, jwtService, auth.DefaultServiceConfig())

	// --- Numbering ---
	numeratorService := numerator.New(pool)

	// --- Audit trail ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Catalogs ---
	productRepo := catalog_repo.NewProductRepo(txManager)
	productService := product.NewService(productRepo, txManager, numeratorService)

	supplierRepo := catalog_repo.NewSupplierRepo(txManager)
	supplierService := supplier.NewService(supplierRepo, txManager, numeratorService)

	// --- Stock register ---
	stockRepo := register_repo.NewStockRepo(txManager)
	stockService := stock.NewService(stockRepo)

	// --- Configurable validation rules ---
	rulesEngine, err := rules.NewEngine()
	if err != nil {
		log.Fatalw("failed to initialize rules engine", "error", err)
	}
	if maxTotal := getEnv("RECEIPT_MAX_TOTAL", ""); maxTotal != "" {
		expr := fmt.Sprintf("doc.totalAmount <= %s", maxTotal)
		if err := rulesEngine.AddRule("max_total", expr, "receipt total exceeds the allowed maximum"); err != nil {
			log.Fatalw("invalid receipt rule", "rule", "max_total", "error", err)
		}
	}

	// --- Purchase receipts ---
	receiptRepo := document_repo.NewPurchaseReceiptRepo(txManager)
	receiptService := purchase_receipt.NewService(purchase_receipt.Config{
		Repo:      receiptRepo,
		Stock:     stockService,
		Suppliers: supplierRepo,
		Products:  productRepo,
		Numerator: numeratorService,
		TxManager: txManager,
		Rules:     rulesEngine,
		Auditor:   postgres.NewReceiptAuditor(auditService),
	})

	// --- Reports ---
	reportRepo := report_repo.NewReportRepo(txManager)
	reportService := reports.NewService(reportRepo, txManager)

	// --- Router and HTTP server ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:            pool,
		Logger:          log,
		AuthService:     authService,
		ProductService:  productService,
		SupplierService: supplierService,
		ReceiptService:  receiptService,
		StockService:    stockService,
		ReportService:   reportService,
	})

	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
