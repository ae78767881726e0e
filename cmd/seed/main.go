// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"ironstock/internal/core/apperror"
	"ironstock/internal/core/types"
	"ironstock/internal/domain/auth"
	"ironstock/internal/domain/catalogs/product"
	"ironstock/internal/domain/catalogs/supplier"
	"ironstock/internal/infrastructure/storage/postgres"
	"ironstock/internal/infrastructure/storage/postgres/auth_repo"
	"ironstock/internal/infrastructure/storage/postgres/catalog_repo"
	"ironstock/pkg/logger"
	"ironstock/pkg/numerator"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	if err := seedAdminUser(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, txManager, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	username := envOr("ADMIN_USERNAME", "admin")
	email := envOr("ADMIN_EMAIL", "admin@ironstock.local")
	password := envOr("ADMIN_PASSWORD", "Admin123!")

	userRepo := auth_repo.NewUserRepo(txManager)

	if _, err := userRepo.GetByUsername(ctx, username); err == nil {
		log.Infow("admin user already exists", "username", username)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := auth.NewUser(username, email, string(hash))
	admin.FullName = "Administrator"
	admin.Roles = []string{"admin"}

	if err := txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return userRepo.Create(ctx, admin)
	}); err != nil {
		return err
	}

	log.Infow("admin user created", "username", username)
	return nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, txManager *postgres.TxManager, log *logger.Logger) error {
	num := numerator.New(pool)

	supplierRepo := catalog_repo.NewSupplierRepo(txManager)
	supplierService := supplier.NewService(supplierRepo, txManager, num)

	productRepo := catalog_repo.NewProductRepo(txManager)
	productService := product.NewService(productRepo, txManager, num)

	suppliers := []*supplier.Supplier{
		supplier.NewSupplier("", "Ridgeline Tools Inc."),
		supplier.NewSupplier("", "Hammer & Sons Wholesale"),
	}
	for _, s := range suppliers {
		if err := supplierService.Create(ctx, s); err != nil {
			if apperror.IsDuplicate(err) {
				continue
			}
			return fmt.Errorf("seed supplier %q: %w", s.Name, err)
		}
		log.Infow("supplier created", "code", s.Code, "name", s.Name)
	}

	type demoProduct struct {
		name  string
		sku   string
		unit  product.Unit
		price float64
	}
	demoProducts := []demoProduct{
		{"Claw Hammer 16oz", "HMR-016", product.UnitPiece, 12.50},
		{"Wood Screws 4x40 (box of 200)", "SCR-440", product.UnitBox, 8.99},
		{"PVC Pipe 25mm", "PVC-025", product.UnitMeter, 2.35},
		{"Multi-Surface Primer 5L", "PRM-005", product.UnitLiter, 24.00},
	}
	for _, d := range demoProducts {
		p := product.NewProduct("", d.name, d.unit)
		sku := d.sku
		p.SKU = &sku
		p.PurchasePrice = types.NewMoney(d.price)
		p.ReorderLevel = 10
		if err := productService.Create(ctx, p); err != nil {
			if apperror.IsDuplicate(err) {
				continue
			}
			return fmt.Errorf("seed product %q: %w", d.name, err)
		}
		log.Infow("product created", "code", p.Code, "name", p.Name)
	}

	return nil
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
