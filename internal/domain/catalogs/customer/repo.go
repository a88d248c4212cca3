package customer

import (
	"context"

	"galen/internal/domain"
)

// Repository defines the interface for Customer persistence.
type Repository interface {
	domain.CatalogRepository[*Customer]

	// FindByTaxNumber retrieves a customer by tax registration number.
	FindByTaxNumber(ctx context.Context, taxNumber string) (*Customer, error)
}
