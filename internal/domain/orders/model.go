// Package orders provides the ProductionOrder document.
// A production order is one manufacturing run of one product for one
// customer. Each run carries exactly one batch code; a multi-batch
// campaign is recorded as several orders.
package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"galen/internal/core/apperror"
	"galen/internal/core/batch"
	"galen/internal/core/entity"
	"galen/internal/core/id"
)

// Status defines the shop-floor state of a production order.
type Status string

const (
	StatusDraft        Status = "draft"
	StatusScheduled    Status = "scheduled"
	StatusInProduction Status = "in_production"
	StatusPackaging    Status = "packaging"
	StatusQualityCheck Status = "quality_check"
	StatusReleased     Status = "released"
	StatusCancelled    Status = "cancelled"
)

// transitions lists the allowed forward moves per status.
// Cancellation is handled separately in CanTransitionTo.
var transitions = map[Status][]Status{
	StatusDraft:        {StatusScheduled},
	StatusScheduled:    {StatusInProduction},
	StatusInProduction: {StatusPackaging},
	StatusPackaging:    {StatusQualityCheck},
	StatusQualityCheck: {StatusReleased},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusInProduction, StatusPackaging,
		StatusQualityCheck, StatusReleased, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusReleased || s == StatusCancelled
}

// CanTransitionTo reports whether a move from s to target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	if target == StatusCancelled {
		return s != StatusReleased && s != StatusCancelled
	}
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// ProductionOrder represents one manufacturing run.
type ProductionOrder struct {
	entity.Document

	// ProductID is the reference to the manufactured product
	ProductID id.ID `db:"product_id" json:"productId"`

	// CustomerID is the reference to the contracting customer
	CustomerID id.ID `db:"customer_id" json:"customerId"`

	// Category is the regulatory line of the run
	Category batch.Category `db:"category" json:"category"`

	// BatchCode is the allocated batch identifier, empty until allocated
	BatchCode string `db:"batch_code" json:"batchCode,omitempty"`

	// Quantity is the number of units to manufacture
	Quantity decimal.Decimal `db:"quantity" json:"quantity"`

	// PackSize is the units per pack for this run
	PackSize int `db:"pack_size" json:"packSize"`

	// DueDate is the agreed completion date
	DueDate time.Time `db:"due_date" json:"dueDate"`

	// Status is the shop-floor state
	Status Status `db:"status" json:"status"`
}

// NewProductionOrder creates a new draft order.
func NewProductionOrder(productID, customerID id.ID, category batch.Category) *ProductionOrder {
	return &ProductionOrder{
		Document:   entity.NewDocument(),
		ProductID:  productID,
		CustomerID: customerID,
		Category:   category,
		Quantity:   decimal.Zero,
		PackSize:   1,
		Status:     StatusDraft,
	}
}

// Clone returns a new draft order carrying the business fields of o.
// Identity, number, timestamps, version, status and the batch code are
// not copied: the clone is a fresh run that gets its own code.
func (o *ProductionOrder) Clone() *ProductionOrder {
	clone := NewProductionOrder(o.ProductID, o.CustomerID, o.Category)
	clone.Date = o.Date
	clone.Comment = o.Comment
	clone.Quantity = o.Quantity
	clone.PackSize = o.PackSize
	clone.DueDate = o.DueDate
	return clone
}

// Validate implements entity.Validatable.
func (o *ProductionOrder) Validate(ctx context.Context) error {
	if err := o.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(o.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}

	if id.IsNil(o.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}

	if !o.Category.Valid() {
		return apperror.NewValidation("invalid order category").
			WithDetail("field", "category").
			WithDetail("value", string(o.Category))
	}

	if !o.Status.Valid() {
		return apperror.NewValidation("invalid order status").
			WithDetail("field", "status").
			WithDetail("value", string(o.Status))
	}

	if o.Quantity.IsNegative() {
		return apperror.NewValidation("quantity cannot be negative").
			WithDetail("field", "quantity")
	}

	if o.PackSize < 1 {
		return apperror.NewValidation("pack size must be at least 1").
			WithDetail("field", "packSize")
	}

	if o.BatchCode != "" {
		parsed, err := batch.Parse(o.BatchCode, o.Category, o.Date.Year())
		if err != nil || parsed.IsRange {
			return apperror.NewValidation("batch code must be a single valid code").
				WithDetail("field", "batchCode").
				WithDetail("value", o.BatchCode)
		}
	}

	return nil
}

// HasBatchCode reports whether a batch code has been allocated.
func (o *ProductionOrder) HasBatchCode() bool {
	return o.BatchCode != ""
}
