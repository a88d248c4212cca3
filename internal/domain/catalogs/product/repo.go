package product

import (
	"context"

	"galen/internal/core/batch"
	"galen/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// FindByATCCode retrieves a product by its ATC classification code.
	FindByATCCode(ctx context.Context, atcCode string) (*Product, error)

	// ListByCategory retrieves products of one regulatory category.
	ListByCategory(ctx context.Context, category batch.Category, filter domain.ListFilter) (domain.ListResult[*Product], error)
}
