package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"galen/internal/core/apperror"
	"galen/internal/core/batch"
	"galen/internal/core/entity"
	"galen/internal/core/id"
	"galen/internal/domain/orders"
)

// --- Request DTOs ---

// CreateOrderRequest is the request body for creating a production order.
type CreateOrderRequest struct {
	ProductID  string            `json:"productId" binding:"required"`
	CustomerID string            `json:"customerId" binding:"required"`
	Category   batch.Category    `json:"category" binding:"required"`
	Date       *time.Time        `json:"date"`
	Quantity   decimal.Decimal   `json:"quantity"`
	PackSize   int               `json:"packSize"`
	DueDate    time.Time         `json:"dueDate"`
	Comment    string            `json:"comment"`
	Attributes entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateOrderRequest) ToEntity() (*orders.ProductionOrder, error) {
	productID, err := id.Parse(r.ProductID)
	if err != nil {
		return nil, apperror.NewValidation("invalid product id").
			WithDetail("field", "productId").
			WithDetail("value", r.ProductID)
	}

	customerID, err := id.Parse(r.CustomerID)
	if err != nil {
		return nil, apperror.NewValidation("invalid customer id").
			WithDetail("field", "customerId").
			WithDetail("value", r.CustomerID)
	}

	item := orders.NewProductionOrder(productID, customerID, r.Category)
	if r.Date != nil {
		item.Date = *r.Date
	}
	item.Quantity = r.Quantity
	if r.PackSize > 0 {
		item.PackSize = r.PackSize
	}
	item.DueDate = r.DueDate
	item.Comment = r.Comment
	item.Attributes = r.Attributes
	return item, nil
}

// UpdateOrderRequest is the request body for updating a production order.
// Status and batch code are changed through their own endpoints.
type UpdateOrderRequest struct {
	Date       time.Time         `json:"date" binding:"required"`
	Quantity   decimal.Decimal   `json:"quantity"`
	PackSize   int               `json:"packSize"`
	DueDate    time.Time         `json:"dueDate"`
	Comment    string            `json:"comment"`
	Attributes entity.Attributes `json:"attributes"`
	Version    int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateOrderRequest) ApplyTo(item *orders.ProductionOrder) {
	item.Date = r.Date
	item.Quantity = r.Quantity
	item.PackSize = r.PackSize
	item.DueDate = r.DueDate
	item.Comment = r.Comment
	item.Attributes = r.Attributes
	item.Version = r.Version
}

// ChangeStatusRequest is the request body for a status transition.
type ChangeStatusRequest struct {
	Status orders.Status `json:"status" binding:"required"`
}

// --- Response DTOs ---

// OrderResponse is the response body for a production order.
type OrderResponse struct {
	ID         string            `json:"id"`
	Number     string            `json:"number"`
	Date       time.Time         `json:"date"`
	ProductID  string            `json:"productId"`
	CustomerID string            `json:"customerId"`
	Category   batch.Category    `json:"category"`
	BatchCode  string            `json:"batchCode,omitempty"`
	Quantity   decimal.Decimal   `json:"quantity"`
	PackSize   int               `json:"packSize"`
	DueDate    time.Time         `json:"dueDate"`
	Status     orders.Status     `json:"status"`
	Comment    string            `json:"comment,omitempty"`
	Version    int               `json:"version"`
	Attributes entity.Attributes `json:"attributes,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// FromOrder creates response DTO from domain entity.
func FromOrder(item *orders.ProductionOrder) *OrderResponse {
	return &OrderResponse{
		ID:         item.ID.String(),
		Number:     item.Number,
		Date:       item.Date,
		ProductID:  item.ProductID.String(),
		CustomerID: item.CustomerID.String(),
		Category:   item.Category,
		BatchCode:  item.BatchCode,
		Quantity:   item.Quantity,
		PackSize:   item.PackSize,
		DueDate:    item.DueDate,
		Status:     item.Status,
		Comment:    item.Comment,
		Version:    item.Version,
		Attributes: item.Attributes,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}
