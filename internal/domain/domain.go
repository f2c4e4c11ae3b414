// Package domain holds the entity types mirrored from the rental-management
// API. Go names are English; JSON tags carry the French wire names the
// server speaks.
package domain

// Currency is the ISO-like code a building inherits from its city.
type Currency string

const (
	CurrencyGNF Currency = "GNF"
	CurrencyXOF Currency = "XOF"
	CurrencyXAF Currency = "XAF"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// City groups buildings and fixes their currency.
type City struct {
	ID       int64    `json:"id"`
	Name     string   `json:"nom"`
	Country  string   `json:"pays"`
	Currency Currency `json:"monnaie"`
}

// Building is a managed property. Currency is set at creation from the
// city and never changes afterwards.
type Building struct {
	ID         int64    `json:"id"`
	Name       string   `json:"nom"`
	Address    string   `json:"adresse"`
	CityID     int64    `json:"ville_id"`
	FloorCount int      `json:"etages"`
	Currency   Currency `json:"monnaie"`
}

// Floor belongs to a building; Number must stay below the building's
// floor count.
type Floor struct {
	ID         int64 `json:"id"`
	BuildingID int64 `json:"immeuble_id"`
	Number     int   `json:"numero"`
}

// Unit is a rentable apartment on a floor.
type Unit struct {
	ID            int64   `json:"id"`
	FloorID       int64   `json:"etage_id"`
	Label         string  `json:"numero"`
	Bedrooms      int     `json:"chambres"`
	Bathrooms     int     `json:"sallesDeBain"`
	Area          float64 `json:"surface"`
	Balcony       bool    `json:"balcon"`
	FittedKitchen bool    `json:"cuisineEquipee"`
	Rent          Amount  `json:"loyer"`
}

// Tenant is a renter. Only the name is mandatory.
type Tenant struct {
	ID         int64  `json:"id"`
	Name       string `json:"nom"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"telephone,omitempty"`
	BirthDate  string `json:"date_naissance,omitempty"`
	BirthPlace string `json:"lieu_naissance,omitempty"`
}

// LeaseStatus is the lifecycle state of a lease as reported by the server.
type LeaseStatus string

const (
	LeaseActive LeaseStatus = "active"
	LeaseEnded  LeaseStatus = "ended"
)

// Lease binds a tenant to a unit. A nil EndDate means the lease is
// ongoing. UnitLabel and TenantName are denormalized display names the
// server echoes back.
type Lease struct {
	ID          int64       `json:"id"`
	UnitID      int64       `json:"appartement_id"`
	TenantID    int64       `json:"locataire_id"`
	StartDate   Date        `json:"date_debut"`
	EndDate     *Date       `json:"date_fin"`
	MonthlyRent Amount      `json:"loyer_mensuel"`
	Deposit     Amount      `json:"caution"`
	Status      LeaseStatus `json:"statut,omitempty"`
	UnitLabel   string      `json:"appartement_nom,omitempty"`
	TenantName  string      `json:"locataire_nom,omitempty"`
}

// Ongoing reports whether the lease has no end date yet.
func (l *Lease) Ongoing() bool {
	return l.EndDate == nil
}

// Payment is a rent payment tied to a lease. Paid=false marks it as
// outstanding.
type Payment struct {
	ID      int64  `json:"id"`
	LeaseID int64  `json:"contrat_id"`
	Amount  Amount `json:"montant"`
	Date    Date   `json:"date_paiement"`
	Paid    bool   `json:"est_paye"`
}

// Supplier provides services billed against buildings.
type Supplier struct {
	ID          int64  `json:"id"`
	Name        string `json:"nom"`
	Contact     string `json:"contact"`
	ServiceType string `json:"type_service"`
}

// SettlementStatus is shared by supplier invoices and expenses.
type SettlementStatus string

const (
	SettlementPaid   SettlementStatus = "payee"
	SettlementUnpaid SettlementStatus = "non_payee"
)

// SupplierInvoice is a bill from a supplier against a building.
type SupplierInvoice struct {
	ID           int64            `json:"id"`
	SupplierID   int64            `json:"fournisseur_id"`
	BuildingID   int64            `json:"immeuble_id"`
	Amount       Amount           `json:"montant"`
	IssueDate    Date             `json:"date_emission"`
	PaymentDate  *Date            `json:"date_paiement,omitempty"`
	Status       SettlementStatus `json:"statut"`
	Description  string           `json:"description,omitempty"`
	SupplierName string           `json:"fournisseur_nom,omitempty"`
	BuildingName string           `json:"immeuble_nom,omitempty"`
}

// Expense is a general outgoing, optionally linked to a supplier invoice.
type Expense struct {
	ID                int64            `json:"id"`
	Type              string           `json:"type"`
	Amount            Amount           `json:"montant"`
	IssueDate         Date             `json:"date_emission"`
	Description       string           `json:"description,omitempty"`
	Status            SettlementStatus `json:"statut"`
	PaymentDate       *Date            `json:"date_paiement,omitempty"`
	SupplierInvoiceID *int64           `json:"facture_fournisseur_id,omitempty"`
}

// MonthlyStat is a server-side aggregate of payments per month ("2025-01").
type MonthlyStat struct {
	Month string `json:"mois"`
	Total Amount `json:"total"`
}

// Role is an account role.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleOwner Role = "proprietaire"
)

// User is an authenticated account.
type User struct {
	ID     int64  `json:"id"`
	Name   string `json:"nom"`
	Email  string `json:"email"`
	Role   Role   `json:"role,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}
