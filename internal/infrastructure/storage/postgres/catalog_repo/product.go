package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"galen/internal/core/apperror"
	"galen/internal/core/batch"
	"galen/internal/domain"
	"galen/internal/domain/catalogs/product"
	"galen/internal/domain/filter"
	"galen/internal/infrastructure/storage/postgres"
)

const productTable = "cat_products"

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			productTable,
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}

// FindByATCCode retrieves a product by its ATC classification code.
func (r *ProductRepo) FindByATCCode(ctx context.Context, atcCode string) (*product.Product, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"atc_code": atcCode}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	item, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("product", atcCode)
		}
		return nil, err
	}
	return item, nil
}

// ListByCategory retrieves products of one regulatory category.
func (r *ProductRepo) ListByCategory(ctx context.Context, category batch.Category, lf domain.ListFilter) (domain.ListResult[*product.Product], error) {
	lf.AdvancedFilters = append(lf.AdvancedFilters, filter.Item{
		Field:    "category",
		Operator: filter.Equal,
		Value:    string(category),
	})
	return r.List(ctx, lf)
}
