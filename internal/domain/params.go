package domain

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

// validate runs before any network call; a failure here never reaches the
// gateway.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Let "required" see Date as the time.Time it wraps.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(Date); ok {
			return d.Time
		}

		return nil
	}, Date{})

	return v
}

// CityParams creates or updates a city.
type CityParams struct {
	Name     string   `json:"nom" validate:"required"`
	Country  string   `json:"pays" validate:"required"`
	Currency Currency `json:"monnaie" validate:"required,oneof=GNF XOF XAF EUR USD"`
}

func (p CityParams) Validate() error { return validate.Struct(p) }

// BuildingParams creates or updates a building. The server derives the
// currency from the city; it is not part of the request.
type BuildingParams struct {
	Name       string `json:"nom" validate:"required"`
	Address    string `json:"adresse" validate:"required"`
	CityID     int64  `json:"ville_id" validate:"required"`
	FloorCount int    `json:"etages" validate:"gt=0"`
}

func (p BuildingParams) Validate() error { return validate.Struct(p) }

// FloorParams creates a floor.
type FloorParams struct {
	BuildingID int64 `json:"immeuble_id" validate:"required"`
	Number     int   `json:"numero" validate:"gte=0"`
}

func (p FloorParams) Validate() error { return validate.Struct(p) }

// UnitParams creates or updates a unit.
type UnitParams struct {
	FloorID       int64   `json:"etage_id" validate:"required"`
	Label         string  `json:"numero" validate:"required"`
	Bedrooms      int     `json:"chambres" validate:"gte=0"`
	Bathrooms     int     `json:"sallesDeBain" validate:"gte=0"`
	Area          float64 `json:"surface" validate:"gt=0"`
	Balcony       bool    `json:"balcon"`
	FittedKitchen bool    `json:"cuisineEquipee"`
	Rent          Amount  `json:"loyer" validate:"gt=0"`
}

func (p UnitParams) Validate() error { return validate.Struct(p) }

// TenantParams creates or updates a tenant.
type TenantParams struct {
	Name       string `json:"nom" validate:"required"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string `json:"telephone,omitempty"`
	BirthDate  string `json:"date_naissance,omitempty"`
	BirthPlace string `json:"lieu_naissance,omitempty"`
}

func (p TenantParams) Validate() error { return validate.Struct(p) }

// LeaseParams creates or updates a lease.
type LeaseParams struct {
	UnitID      int64  `json:"appartement_id" validate:"required"`
	TenantID    int64  `json:"locataire_id" validate:"required"`
	StartDate   Date   `json:"date_debut" validate:"required"`
	EndDate     *Date  `json:"date_fin"`
	MonthlyRent Amount `json:"loyer_mensuel" validate:"gt=0"`
	Deposit     Amount `json:"caution" validate:"gte=0"`
}

func (p LeaseParams) Validate() error { return validate.Struct(p) }

// PaymentParams records a payment against a lease.
type PaymentParams struct {
	LeaseID int64  `json:"contrat_id" validate:"required"`
	Amount  Amount `json:"montant" validate:"gt=0"`
	Date    Date   `json:"date_paiement" validate:"required"`
	Paid    bool   `json:"est_paye"`
}

func (p PaymentParams) Validate() error { return validate.Struct(p) }

// SupplierParams creates or updates a supplier.
type SupplierParams struct {
	Name        string `json:"nom" validate:"required"`
	Contact     string `json:"contact" validate:"required"`
	ServiceType string `json:"type_service" validate:"required"`
}

func (p SupplierParams) Validate() error { return validate.Struct(p) }

// SupplierInvoiceParams records a supplier invoice against a building.
type SupplierInvoiceParams struct {
	SupplierID  int64  `json:"fournisseur_id" validate:"required"`
	BuildingID  int64  `json:"immeuble_id" validate:"required"`
	Amount      Amount `json:"montant" validate:"gt=0"`
	IssueDate   Date   `json:"date_emission" validate:"required"`
	Description string `json:"description,omitempty"`
}

func (p SupplierInvoiceParams) Validate() error { return validate.Struct(p) }

// ExpenseParams records an expense.
type ExpenseParams struct {
	Type              string `json:"type" validate:"required"`
	Amount            Amount `json:"montant" validate:"gt=0"`
	IssueDate         Date   `json:"date_emission" validate:"required"`
	Description       string `json:"description,omitempty"`
	SupplierInvoiceID *int64 `json:"facture_fournisseur_id,omitempty"`
}

func (p ExpenseParams) Validate() error { return validate.Struct(p) }

// ProfileParams updates the authenticated user's profile. Avatar bytes
// travel as multipart form data, not JSON.
type ProfileParams struct {
	Name       string `validate:"required"`
	Email      string `validate:"required,email"`
	AvatarName string
	Avatar     []byte
}

func (p ProfileParams) Validate() error { return validate.Struct(p) }
