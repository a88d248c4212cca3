package order_repo

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"galen/internal/core/apperror"
	"galen/internal/domain"
	"galen/internal/domain/orders"
	"galen/internal/infrastructure/storage/postgres"
)

const orderTable = "doc_production_orders"

// ProductionOrderRepo implements orders.Repository.
type ProductionOrderRepo struct {
	*BaseDocumentRepo[*orders.ProductionOrder]
}

// NewProductionOrderRepo creates a new production order repository.
func NewProductionOrderRepo(txManager *postgres.TxManager) *ProductionOrderRepo {
	return &ProductionOrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			orderTable,
			postgres.ExtractDBColumns[orders.ProductionOrder](),
			func() *orders.ProductionOrder { return &orders.ProductionOrder{} },
		),
	}
}

// GetByBatchCode retrieves the order carrying a rendered batch code.
func (r *ProductionOrderRepo) GetByBatchCode(ctx context.Context, code string) (*orders.ProductionOrder, error) {
	entity := &orders.ProductionOrder{}

	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"batch_code": code}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(orderTable, code)
		}
		return nil, err
	}

	return entity, nil
}

// List retrieves production orders with document-specific filtering.
func (r *ProductionOrderRepo) List(ctx context.Context, filter orders.ListFilter) (domain.ListResult[*orders.ProductionOrder], error) {
	q := r.baseSelect(ctx)

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": pattern},
			squirrel.ILike{"batch_code": pattern},
		})
	}

	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}
	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.Category != nil {
		q = q.Where(squirrel.Eq{"category": string(*filter.Category)})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	return r.listWith(ctx, q, filter.ListFilter)
}
