package product

import (
	"context"
	"fmt"
	"time"

	"ironstock/internal/core/apperror"
	"ironstock/internal/core/id"
	"ironstock/internal/core/tx"
	"ironstock/internal/domain"
	"ironstock/pkg/numerator"
)

// Service provides business logic for the Product catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Product]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Product service.
func NewService(repo Repository, txManager tx.Manager, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForCreate)
	base.Hooks().On(domain.BeforeUpdate, svc.checkUniqueness)

	return svc
}

// prepareForCreate handles code generation and uniqueness checks.
func (s *Service) prepareForCreate(ctx context.Context, item *Product) error {
	if item.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("P"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		item.Code = code
	}
	return s.checkUniqueness(ctx, item)
}

// checkUniqueness ensures SKU and barcode are not already used.
func (s *Service) checkUniqueness(ctx context.Context, item *Product) error {
	if item.SKU != nil && *item.SKU != "" {
		if taken, _ := s.skuTaken(ctx, *item.SKU, item.ID); taken {
			return apperror.NewDuplicate("product", "sku", *item.SKU)
		}
	}
	if item.Barcode != nil && *item.Barcode != "" {
		if taken, _ := s.barcodeTaken(ctx, *item.Barcode, item.ID); taken {
			return apperror.NewDuplicate("product", "barcode", *item.Barcode)
		}
	}
	return nil
}

// FindBySKU retrieves a product by SKU.
func (s *Service) FindBySKU(ctx context.Context, sku string) (*Product, error) {
	return s.repo.FindBySKU(ctx, sku)
}

// FindByBarcode retrieves a product by barcode.
func (s *Service) FindByBarcode(ctx context.Context, barcode string) (*Product, error) {
	return s.repo.FindByBarcode(ctx, barcode)
}

func (s *Service) skuTaken(ctx context.Context, sku string, excludeID id.ID) (bool, error) {
	existing, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return false, nil
	}
	return existing.ID != excludeID, nil
}

func (s *Service) barcodeTaken(ctx context.Context, barcode string, excludeID id.ID) (bool, error) {
	existing, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return false, nil
	}
	return existing.ID != excludeID, nil
}
