package dto

import (
	"github.com/shopspring/decimal"

	"galen/internal/core/batch"
	"galen/internal/core/entity"
	"galen/internal/domain/catalogs/product"
)

// --- Request DTOs ---

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	Code            string             `json:"code"`
	Name            string             `json:"name" binding:"required"`
	Category        batch.Category     `json:"category" binding:"required"`
	DosageForm      product.DosageForm `json:"dosageForm" binding:"required"`
	Strength        decimal.Decimal    `json:"strength"`
	StrengthUnit    string             `json:"strengthUnit"`
	PackSize        int                `json:"packSize"`
	ATCCode         *string            `json:"atcCode"`
	ShelfLifeMonths int                `json:"shelfLifeMonths"`
	StorageNotes    *string            `json:"storageNotes"`
	ParentID        *string            `json:"parentId"`
	IsFolder        bool               `json:"isFolder"`
	Attributes      entity.Attributes  `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	item := product.NewProduct(r.Code, r.Name, r.Category, r.DosageForm)
	item.Strength = r.Strength
	item.StrengthUnit = r.StrengthUnit
	if r.PackSize > 0 {
		item.PackSize = r.PackSize
	}
	item.ATCCode = r.ATCCode
	item.ShelfLifeMonths = r.ShelfLifeMonths
	item.StorageNotes = r.StorageNotes
	item.ParentID = r.ParentID
	item.IsFolder = r.IsFolder
	item.Attributes = r.Attributes
	return item
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	Code            string             `json:"code"`
	Name            string             `json:"name" binding:"required"`
	Category        batch.Category     `json:"category" binding:"required"`
	DosageForm      product.DosageForm `json:"dosageForm" binding:"required"`
	Strength        decimal.Decimal    `json:"strength"`
	StrengthUnit    string             `json:"strengthUnit"`
	PackSize        int                `json:"packSize"`
	ATCCode         *string            `json:"atcCode"`
	ShelfLifeMonths int                `json:"shelfLifeMonths"`
	StorageNotes    *string            `json:"storageNotes"`
	ParentID        *string            `json:"parentId"`
	IsFolder        bool               `json:"isFolder"`
	Attributes      entity.Attributes  `json:"attributes"`
	Version         int                `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateProductRequest) ApplyTo(item *product.Product) {
	item.Code = r.Code
	item.Name = r.Name
	item.Category = r.Category
	item.DosageForm = r.DosageForm
	item.Strength = r.Strength
	item.StrengthUnit = r.StrengthUnit
	item.PackSize = r.PackSize
	item.ATCCode = r.ATCCode
	item.ShelfLifeMonths = r.ShelfLifeMonths
	item.StorageNotes = r.StorageNotes
	item.ParentID = r.ParentID
	item.IsFolder = r.IsFolder
	item.Attributes = r.Attributes
	item.Version = r.Version
}

// --- Response DTOs ---

// ProductResponse is the response body for a product.
type ProductResponse struct {
	ID              string             `json:"id"`
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	Category        batch.Category     `json:"category"`
	DosageForm      product.DosageForm `json:"dosageForm"`
	Strength        decimal.Decimal    `json:"strength"`
	StrengthUnit    string             `json:"strengthUnit"`
	PackSize        int                `json:"packSize"`
	ATCCode         *string            `json:"atcCode,omitempty"`
	ShelfLifeMonths int                `json:"shelfLifeMonths"`
	StorageNotes    *string            `json:"storageNotes,omitempty"`
	ParentID        *string            `json:"parentId,omitempty"`
	IsFolder        bool               `json:"isFolder"`
	DeletionMark    bool               `json:"deletionMark"`
	Version         int                `json:"version"`
	Attributes      entity.Attributes  `json:"attributes,omitempty"`
}

// FromProduct creates response DTO from domain entity.
func FromProduct(item *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:              item.ID.String(),
		Code:            item.Code,
		Name:            item.Name,
		Category:        item.Category,
		DosageForm:      item.DosageForm,
		Strength:        item.Strength,
		StrengthUnit:    item.StrengthUnit,
		PackSize:        item.PackSize,
		ATCCode:         item.ATCCode,
		ShelfLifeMonths: item.ShelfLifeMonths,
		StorageNotes:    item.StorageNotes,
		ParentID:        item.ParentID,
		IsFolder:        item.IsFolder,
		DeletionMark:    item.DeletionMark,
		Version:         item.Version,
		Attributes:      item.Attributes,
	}
}
