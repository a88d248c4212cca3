package product

import (
	"context"
	"fmt"

	"galen/internal/core/apperror"
	"galen/internal/core/batch"
	"galen/internal/core/tx"
	"galen/internal/domain"
)

// Service provides business logic for the Product catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Product]
	repo      Repository
	sequencer domain.CodeSequencer
}

// NewService creates a new Product service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	sequencer domain.CodeSequencer,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		sequencer:      sequencer,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.checkUniqueness)

	return svc
}

// prepareForCreate handles code generation and uniqueness checks.
func (s *Service) prepareForCreate(ctx context.Context, item *Product) error {
	if item.Code == "" {
		n, err := s.sequencer.Next(ctx, "product_code")
		if err != nil {
			return fmt.Errorf("generate product code: %w", err)
		}
		item.Code = fmt.Sprintf("PR-%06d", n)
	}

	return s.checkUniqueness(ctx, item)
}

// checkUniqueness verifies the ATC code is not already used by another product.
func (s *Service) checkUniqueness(ctx context.Context, item *Product) error {
	if item.ATCCode == nil || *item.ATCCode == "" {
		return nil
	}
	existing, err := s.repo.FindByATCCode(ctx, *item.ATCCode)
	if err != nil {
		// No match means the code is free; anything else is a real failure.
		if apperror.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("check atc code uniqueness: %w", err)
	}
	if existing.ID != item.ID {
		return apperror.NewDuplicate("product", "atcCode", *item.ATCCode)
	}
	return nil
}

// ListByCategory retrieves products of one regulatory category.
func (s *Service) ListByCategory(ctx context.Context, category batch.Category, filter domain.ListFilter) (domain.ListResult[*Product], error) {
	if !category.Valid() {
		return domain.ListResult[*Product]{}, apperror.NewValidation("invalid product category").
			WithDetail("field", "category").
			WithDetail("value", string(category))
	}
	return s.repo.ListByCategory(ctx, category, filter)
}

// FindByATCCode retrieves a product by its ATC classification code.
func (s *Service) FindByATCCode(ctx context.Context, atcCode string) (*Product, error) {
	return s.repo.FindByATCCode(ctx, atcCode)
}
