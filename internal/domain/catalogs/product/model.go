// Package product provides the Product catalog.
// A product is a manufactured pharmaceutical item: a dosage form with a
// strength, offered for human or veterinary use.
package product

import (
	"context"

	"github.com/shopspring/decimal"

	"galen/internal/core/apperror"
	"galen/internal/core/batch"
	"galen/internal/core/entity"
)

// DosageForm defines the physical form of the product.
type DosageForm string

const (
	FormTablet    DosageForm = "tablet"
	FormCapsule   DosageForm = "capsule"
	FormSyrup     DosageForm = "syrup"
	FormInjection DosageForm = "injection"
	FormOintment  DosageForm = "ointment"
	FormDrops     DosageForm = "drops"
	FormPowder    DosageForm = "powder"
)

// Product represents a manufactured pharmaceutical item.
type Product struct {
	entity.Catalog

	// Category is the regulatory line the product belongs to
	Category batch.Category `db:"category" json:"category"`

	// DosageForm is the physical form (tablet, syrup, ...)
	DosageForm DosageForm `db:"dosage_form" json:"dosageForm"`

	// Strength is the active ingredient amount per unit
	Strength decimal.Decimal `db:"strength" json:"strength"`

	// StrengthUnit is the unit of Strength (mg, ml, IU, ...)
	StrengthUnit string `db:"strength_unit" json:"strengthUnit"`

	// PackSize is the default units per pack
	PackSize int `db:"pack_size" json:"packSize"`

	// ATCCode is the WHO anatomical-therapeutic-chemical classification code
	ATCCode *string `db:"atc_code" json:"atcCode,omitempty"`

	// ShelfLifeMonths is the approved shelf life
	ShelfLifeMonths int `db:"shelf_life_months" json:"shelfLifeMonths"`

	// StorageNotes are free-form storage conditions
	StorageNotes *string `db:"storage_notes" json:"storageNotes,omitempty"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(code, name string, category batch.Category, form DosageForm) *Product {
	return &Product{
		Catalog:    entity.NewCatalog(code, name),
		Category:   category,
		DosageForm: form,
		Strength:   decimal.Zero,
		PackSize:   1,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !p.Category.Valid() {
		return apperror.NewValidation("invalid product category").
			WithDetail("field", "category").
			WithDetail("value", string(p.Category))
	}

	if !isValidDosageForm(p.DosageForm) {
		return apperror.NewValidation("invalid dosage form").
			WithDetail("field", "dosageForm").
			WithDetail("value", string(p.DosageForm))
	}

	if p.Strength.IsNegative() {
		return apperror.NewValidation("strength cannot be negative").
			WithDetail("field", "strength")
	}

	if p.PackSize < 1 {
		return apperror.NewValidation("pack size must be at least 1").
			WithDetail("field", "packSize")
	}

	if p.ShelfLifeMonths < 0 {
		return apperror.NewValidation("shelf life cannot be negative").
			WithDetail("field", "shelfLifeMonths")
	}

	return nil
}

func isValidDosageForm(f DosageForm) bool {
	switch f {
	case FormTablet, FormCapsule, FormSyrup, FormInjection, FormOintment, FormDrops, FormPowder:
		return true
	}
	return false
}
