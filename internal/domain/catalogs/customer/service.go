package customer

import (
	"context"
	"fmt"

	"galen/internal/core/apperror"
	"galen/internal/core/tx"
	"galen/internal/domain"
)

// Service provides business logic for the Customer catalog.
type Service struct {
	*domain.CatalogService[*Customer]
	repo      Repository
	sequencer domain.CodeSequencer
}

// NewService creates a new Customer service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	sequencer domain.CodeSequencer,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Customer]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "customer",
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
func (s *Service) prepareForCreate(ctx context.Context, item *Customer) error {
	if item.Code == "" {
		n, err := s.sequencer.Next(ctx, "customer_code")
		if err != nil {
			return fmt.Errorf("generate customer code: %w", err)
		}
		item.Code = fmt.Sprintf("CU-%06d", n)
	}

	return s.checkUniqueness(ctx, item)
}

// checkUniqueness verifies the tax number is not already used by another customer.
func (s *Service) checkUniqueness(ctx context.Context, item *Customer) error {
	if item.TaxNumber == nil || *item.TaxNumber == "" {
		return nil
	}
	existing, err := s.repo.FindByTaxNumber(ctx, *item.TaxNumber)
	if err != nil {
		// No match means the tax number is free; anything else is a real failure.
		if apperror.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("check tax number uniqueness: %w", err)
	}
	if existing.ID != item.ID {
		return apperror.NewDuplicate("customer", "taxNumber", *item.TaxNumber)
	}
	return nil
}

// FindByTaxNumber retrieves a customer by tax registration number.
func (s *Service) FindByTaxNumber(ctx context.Context, taxNumber string) (*Customer, error) {
	return s.repo.FindByTaxNumber(ctx, taxNumber)
}
