package dto

import (
	"galen/internal/core/entity"
	"galen/internal/domain/catalogs/customer"
)

// --- Request DTOs ---

// CreateCustomerRequest is the request body for creating a customer.
type CreateCustomerRequest struct {
	Code             string            `json:"code"`
	Name             string            `json:"name" binding:"required"`
	FullName         *string           `json:"fullName"`
	TaxNumber        *string           `json:"taxNumber"`
	Country          *string           `json:"country"`
	ContactName      *string           `json:"contactName"`
	ContactEmail     *string           `json:"contactEmail"`
	ContactPhone     *string           `json:"contactPhone"`
	PaymentTermsDays *int              `json:"paymentTermsDays"`
	IsBlocked        bool              `json:"isBlocked"`
	ParentID         *string           `json:"parentId"`
	IsFolder         bool              `json:"isFolder"`
	Attributes       entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCustomerRequest) ToEntity() *customer.Customer {
	item := customer.NewCustomer(r.Code, r.Name)
	item.FullName = r.FullName
	item.TaxNumber = r.TaxNumber
	item.Country = r.Country
	item.ContactName = r.ContactName
	item.ContactEmail = r.ContactEmail
	item.ContactPhone = r.ContactPhone
	if r.PaymentTermsDays != nil {
		item.PaymentTermsDays = *r.PaymentTermsDays
	}
	item.IsBlocked = r.IsBlocked
	item.ParentID = r.ParentID
	item.IsFolder = r.IsFolder
	item.Attributes = r.Attributes
	return item
}

// UpdateCustomerRequest is the request body for updating a customer.
type UpdateCustomerRequest struct {
	Code             string            `json:"code"`
	Name             string            `json:"name" binding:"required"`
	FullName         *string           `json:"fullName"`
	TaxNumber        *string           `json:"taxNumber"`
	Country          *string           `json:"country"`
	ContactName      *string           `json:"contactName"`
	ContactEmail     *string           `json:"contactEmail"`
	ContactPhone     *string           `json:"contactPhone"`
	PaymentTermsDays int               `json:"paymentTermsDays"`
	IsBlocked        bool              `json:"isBlocked"`
	ParentID         *string           `json:"parentId"`
	IsFolder         bool              `json:"isFolder"`
	Attributes       entity.Attributes `json:"attributes"`
	Version          int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCustomerRequest) ApplyTo(item *customer.Customer) {
	item.Code = r.Code
	item.Name = r.Name
	item.FullName = r.FullName
	item.TaxNumber = r.TaxNumber
	item.Country = r.Country
	item.ContactName = r.ContactName
	item.ContactEmail = r.ContactEmail
	item.ContactPhone = r.ContactPhone
	item.PaymentTermsDays = r.PaymentTermsDays
	item.IsBlocked = r.IsBlocked
	item.ParentID = r.ParentID
	item.IsFolder = r.IsFolder
	item.Attributes = r.Attributes
	item.Version = r.Version
}

// --- Response DTOs ---

// CustomerResponse is the response body for a customer.
type CustomerResponse struct {
	ID               string            `json:"id"`
	Code             string            `json:"code"`
	Name             string            `json:"name"`
	FullName         *string           `json:"fullName,omitempty"`
	TaxNumber        *string           `json:"taxNumber,omitempty"`
	Country          *string           `json:"country,omitempty"`
	ContactName      *string           `json:"contactName,omitempty"`
	ContactEmail     *string           `json:"contactEmail,omitempty"`
	ContactPhone     *string           `json:"contactPhone,omitempty"`
	PaymentTermsDays int               `json:"paymentTermsDays"`
	IsBlocked        bool              `json:"isBlocked"`
	ParentID         *string           `json:"parentId,omitempty"`
	IsFolder         bool              `json:"isFolder"`
	DeletionMark     bool              `json:"deletionMark"`
	Version          int               `json:"version"`
	Attributes       entity.Attributes `json:"attributes,omitempty"`
}

// FromCustomer creates response DTO from domain entity.
func FromCustomer(item *customer.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:               item.ID.String(),
		Code:             item.Code,
		Name:             item.Name,
		FullName:         item.FullName,
		TaxNumber:        item.TaxNumber,
		Country:          item.Country,
		ContactName:      item.ContactName,
		ContactEmail:     item.ContactEmail,
		ContactPhone:     item.ContactPhone,
		PaymentTermsDays: item.PaymentTermsDays,
		IsBlocked:        item.IsBlocked,
		ParentID:         item.ParentID,
		IsFolder:         item.IsFolder,
		DeletionMark:     item.DeletionMark,
		Version:          item.Version,
		Attributes:       item.Attributes,
	}
}
