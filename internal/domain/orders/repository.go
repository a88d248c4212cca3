// Package orders provides the ProductionOrder repository interface.
package orders

import (
	"context"
	"time"

	"galen/internal/core/batch"
	"galen/internal/core/id"
	"galen/internal/domain"
)

// Repository defines operations for production orders.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *ProductionOrder) error
	GetByID(ctx context.Context, docID id.ID) (*ProductionOrder, error)
	GetByNumber(ctx context.Context, number string) (*ProductionOrder, error)
	Update(ctx context.Context, doc *ProductionOrder) error
	Delete(ctx context.Context, docID id.ID) error

	// GetByBatchCode retrieves the order carrying a rendered batch code.
	GetByBatchCode(ctx context.Context, code string) (*ProductionOrder, error)

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*ProductionOrder], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*ProductionOrder, error)
}

// ListFilter for filtering production orders.
type ListFilter struct {
	domain.ListFilter

	// Document-specific filters
	ProductID  *id.ID
	CustomerID *id.ID
	Category   *batch.Category
	Status     *Status
	DateFrom   *time.Time
	DateTo     *time.Time
}
