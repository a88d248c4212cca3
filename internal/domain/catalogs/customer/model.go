// Package customer provides the Customer catalog.
// A customer is a company that contracts manufacturing runs.
package customer

import (
	"context"
	"strings"

	"galen/internal/core/apperror"
	"galen/internal/core/entity"
)

// Customer represents a contract-manufacturing client.
type Customer struct {
	entity.Catalog

	// FullName is the full legal name
	FullName *string `db:"full_name" json:"fullName,omitempty"`

	// TaxNumber is the tax registration number
	TaxNumber *string `db:"tax_number" json:"taxNumber,omitempty"`

	// Country is the ISO 3166-1 alpha-2 country code
	Country *string `db:"country" json:"country,omitempty"`

	// ContactName is the primary contact person
	ContactName *string `db:"contact_name" json:"contactName,omitempty"`

	// ContactEmail is the primary contact e-mail
	ContactEmail *string `db:"contact_email" json:"contactEmail,omitempty"`

	// ContactPhone is the primary contact phone
	ContactPhone *string `db:"contact_phone" json:"contactPhone,omitempty"`

	// PaymentTermsDays is the agreed invoice payment term
	PaymentTermsDays int `db:"payment_terms_days" json:"paymentTermsDays"`

	// IsBlocked blocks new orders for the customer
	IsBlocked bool `db:"is_blocked" json:"isBlocked"`
}

// NewCustomer creates a new Customer with required fields.
func NewCustomer(code, name string) *Customer {
	return &Customer{
		Catalog:          entity.NewCatalog(code, name),
		PaymentTermsDays: 30,
	}
}

// Validate implements entity.Validatable interface.
func (c *Customer) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.PaymentTermsDays < 0 {
		return apperror.NewValidation("payment terms cannot be negative").
			WithDetail("field", "paymentTermsDays")
	}

	if c.Country != nil && *c.Country != "" && len(*c.Country) != 2 {
		return apperror.NewValidation("country must be an ISO 3166-1 alpha-2 code").
			WithDetail("field", "country").
			WithDetail("value", *c.Country)
	}

	if c.ContactEmail != nil && *c.ContactEmail != "" && !strings.Contains(*c.ContactEmail, "@") {
		return apperror.NewValidation("invalid contact e-mail").
			WithDetail("field", "contactEmail")
	}

	return nil
}
