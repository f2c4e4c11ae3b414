package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mkante/gestloc/internal/domain"
)

// ExitMotif selects which lease-exit flow the server runs.
type ExitMotif string

const (
	MotifContractEnd ExitMotif = "fin_contrat"
	MotifTermination ExitMotif = "resiliation"
)

// ExitRequest is the body of the lease exit action.
type ExitRequest struct {
	Motif              ExitMotif      `json:"motif"`
	ExitDate           *domain.Date   `json:"dateSortie,omitempty"`
	InspectionNote     string         `json:"commentaireEtatLieux,omitempty"`
	RestitutionAmount  *domain.Amount `json:"montantRestitue,omitempty"`
	RestitutionComment string         `json:"commentaireRestitution,omitempty"`
}

// ExitResponse is the server's confirmation of a lease exit. Lease carries
// the authoritative end date and status; the optional fields are
// independent informational signals.
type ExitResponse struct {
	Message       string       `json:"message"`
	Lease         domain.Lease `json:"contrat"`
	UnpaidWarning string       `json:"avertissementImpayes,omitempty"`
	RestitutionID *int64       `json:"restitutionId,omitempty"`
	InspectionID  *int64       `json:"etatLieuxId,omitempty"`
}

// SubmitLeaseExit posts the exit action for a lease. The idempotency key
// lets the server drop an accidental duplicate of the same submission.
func (c *Client) SubmitLeaseExit(ctx context.Context, leaseID int64, req ExitRequest, idempotencyKey string) (*ExitResponse, error) {
	header := http.Header{}
	if idempotencyKey != "" {
		header.Set("Idempotency-Key", idempotencyKey)
	}

	raw, err := c.request(ctx, http.MethodPost, fmt.Sprintf("/contrats/%d/sortie", leaseID), req, header)
	if err != nil {
		return nil, err
	}

	return decodeObject[ExitResponse](raw, "sortie")
}

// Login exchanges credentials for a bearer token and the account. The
// caller decides whether to persist the token.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	body := map[string]string{"email": email, "password": password}

	raw, err := c.requestAnon(ctx, http.MethodPost, "/auth/login", body)
	if err != nil {
		return nil, "", err
	}

	resp, err := decodeObject[struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}](raw, "auth")
	if err != nil {
		return nil, "", err
	}

	return &resp.User, resp.Token, nil
}

// Me returns the authenticated account.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	raw, err := c.request(ctx, http.MethodGet, "/auth/me", nil, nil)
	if err != nil {
		return nil, err
	}

	return decodeObject[domain.User](raw, "utilisateur")
}

// UpdateProfile sends the profile as multipart form data (the only
// endpoint that does not speak JSON on the way in).
func (c *Client) UpdateProfile(ctx context.Context, p domain.ProfileParams) (*domain.User, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	fields := map[string]string{"nom": p.Name, "email": p.Email}

	raw, err := c.requestMultipart(ctx, http.MethodPut, "/auth/update-profile", fields, p.AvatarName, p.Avatar)
	if err != nil {
		return nil, err
	}

	return decodeObject[domain.User](raw, "utilisateur")
}

func (c *Client) ListCities(ctx context.Context) ([]domain.City, error) {
	return list[domain.City](ctx, c, "/villes", "ville")
}

func (c *Client) CreateCity(ctx context.Context, p domain.CityParams) (*domain.City, error) {
	return create[domain.City](ctx, c, "/villes", "ville", p)
}

func (c *Client) DeleteCity(ctx context.Context, id int64) error {
	return c.delete(ctx, "/villes", id)
}

func (c *Client) ListBuildings(ctx context.Context) ([]domain.Building, error) {
	return list[domain.Building](ctx, c, "/biens", "immeuble")
}

func (c *Client) CreateBuilding(ctx context.Context, p domain.BuildingParams) (*domain.Building, error) {
	return create[domain.Building](ctx, c, "/biens", "immeuble", p)
}

func (c *Client) DeleteBuilding(ctx context.Context, id int64) error {
	return c.delete(ctx, "/biens", id)
}

func (c *Client) ListFloors(ctx context.Context) ([]domain.Floor, error) {
	return list[domain.Floor](ctx, c, "/etages", "etage")
}

func (c *Client) CreateFloor(ctx context.Context, p domain.FloorParams) (*domain.Floor, error) {
	return create[domain.Floor](ctx, c, "/etages", "etage", p)
}

func (c *Client) DeleteFloor(ctx context.Context, id int64) error {
	return c.delete(ctx, "/etages", id)
}

func (c *Client) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	return list[domain.Unit](ctx, c, "/appartements", "appartement")
}

func (c *Client) CreateUnit(ctx context.Context, p domain.UnitParams) (*domain.Unit, error) {
	return create[domain.Unit](ctx, c, "/appartements", "appartement", p)
}

func (c *Client) DeleteUnit(ctx context.Context, id int64) error {
	return c.delete(ctx, "/appartements", id)
}

func (c *Client) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	return list[domain.Tenant](ctx, c, "/locataires", "locataire")
}

func (c *Client) CreateTenant(ctx context.Context, p domain.TenantParams) (*domain.Tenant, error) {
	return create[domain.Tenant](ctx, c, "/locataires", "locataire", p)
}

func (c *Client) UpdateTenant(ctx context.Context, id int64, p domain.TenantParams) (*domain.Tenant, error) {
	return update[domain.Tenant](ctx, c, "/locataires", "locataire", id, p)
}

func (c *Client) DeleteTenant(ctx context.Context, id int64) error {
	return c.delete(ctx, "/locataires", id)
}

func (c *Client) ListLeases(ctx context.Context) ([]domain.Lease, error) {
	return list[domain.Lease](ctx, c, "/contrats", "contrat")
}

func (c *Client) CreateLease(ctx context.Context, p domain.LeaseParams) (*domain.Lease, error) {
	return create[domain.Lease](ctx, c, "/contrats", "contrat", p)
}

func (c *Client) UpdateLease(ctx context.Context, id int64, p domain.LeaseParams) (*domain.Lease, error) {
	return update[domain.Lease](ctx, c, "/contrats", "contrat", id, p)
}

func (c *Client) DeleteLease(ctx context.Context, id int64) error {
	return c.delete(ctx, "/contrats", id)
}

func (c *Client) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	return list[domain.Payment](ctx, c, "/paiements", "paiement")
}

func (c *Client) CreatePayment(ctx context.Context, p domain.PaymentParams) (*domain.Payment, error) {
	return create[domain.Payment](ctx, c, "/paiements", "paiement", p)
}

func (c *Client) UpdatePayment(ctx context.Context, id int64, p domain.PaymentParams) (*domain.Payment, error) {
	return update[domain.Payment](ctx, c, "/paiements", "paiement", id, p)
}

func (c *Client) DeletePayment(ctx context.Context, id int64) error {
	return c.delete(ctx, "/paiements", id)
}

// PaymentStats is the server-side monthly payment aggregate.
func (c *Client) PaymentStats(ctx context.Context) ([]domain.MonthlyStat, error) {
	return list[domain.MonthlyStat](ctx, c, "/paiements/stats", "stat_mensuelle")
}

func (c *Client) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return list[domain.Supplier](ctx, c, "/fournisseurs", "fournisseur")
}

func (c *Client) CreateSupplier(ctx context.Context, p domain.SupplierParams) (*domain.Supplier, error) {
	return create[domain.Supplier](ctx, c, "/fournisseurs", "fournisseur", p)
}

func (c *Client) DeleteSupplier(ctx context.Context, id int64) error {
	return c.delete(ctx, "/fournisseurs", id)
}

func (c *Client) ListSupplierInvoices(ctx context.Context) ([]domain.SupplierInvoice, error) {
	return list[domain.SupplierInvoice](ctx, c, "/factures-fournisseurs", "facture_fournisseur")
}

func (c *Client) CreateSupplierInvoice(ctx context.Context, p domain.SupplierInvoiceParams) (*domain.SupplierInvoice, error) {
	return create[domain.SupplierInvoice](ctx, c, "/factures-fournisseurs", "facture_fournisseur", p)
}

func (c *Client) DeleteSupplierInvoice(ctx context.Context, id int64) error {
	return c.delete(ctx, "/factures-fournisseurs", id)
}

// MarkSupplierInvoicePaid settles an invoice on the given date.
func (c *Client) MarkSupplierInvoicePaid(ctx context.Context, id int64, date domain.Date) (*domain.SupplierInvoice, error) {
	body := map[string]domain.Date{"date_paiement": date}

	raw, err := c.request(ctx, http.MethodPut, fmt.Sprintf("/factures-fournisseurs/%d/payer", id), body, nil)
	if err != nil {
		return nil, err
	}

	return decodeObject[domain.SupplierInvoice](raw, "facture_fournisseur")
}

func (c *Client) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	return list[domain.Expense](ctx, c, "/depenses", "depense")
}

func (c *Client) CreateExpense(ctx context.Context, p domain.ExpenseParams) (*domain.Expense, error) {
	return create[domain.Expense](ctx, c, "/depenses", "depense", p)
}

func (c *Client) DeleteExpense(ctx context.Context, id int64) error {
	return c.delete(ctx, "/depenses", id)
}

// MarkExpensePaid settles an expense on the given date.
func (c *Client) MarkExpensePaid(ctx context.Context, id int64, date domain.Date) (*domain.Expense, error) {
	body := map[string]domain.Date{"date_paiement": date}

	raw, err := c.request(ctx, http.MethodPut, fmt.Sprintf("/depenses/%d/payer", id), body, nil)
	if err != nil {
		return nil, err
	}

	return decodeObject[domain.Expense](raw, "depense")
}

// AdminListUsers lists all accounts (admin only).
func (c *Client) AdminListUsers(ctx context.Context) ([]domain.User, error) {
	return list[domain.User](ctx, c, "/admin/users", "utilisateur")
}

// AdminSetRole changes an account's role (admin only).
func (c *Client) AdminSetRole(ctx context.Context, id int64, role domain.Role) error {
	body := map[string]domain.Role{"role": role}

	_, err := c.request(ctx, http.MethodPut, fmt.Sprintf("/admin/users/%d", id), body, nil)

	return err
}

// validated is implemented by every params struct.
type validated interface {
	Validate() error
}

func list[T any](ctx context.Context, c *Client, path, schema string) ([]T, error) {
	raw, err := c.request(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	return decodeList[T](raw, schema)
}

func create[T any](ctx context.Context, c *Client, path, schema string, p validated) (*T, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	raw, err := c.request(ctx, http.MethodPost, path, p, nil)
	if err != nil {
		return nil, err
	}

	return decodeObject[T](raw, schema)
}

func update[T any](ctx context.Context, c *Client, path, schema string, id int64, p validated) (*T, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	raw, err := c.request(ctx, http.MethodPut, fmt.Sprintf("%s/%d", path, id), p, nil)
	if err != nil {
		return nil, err
	}

	return decodeObject[T](raw, schema)
}

func (c *Client) delete(ctx context.Context, path string, id int64) error {
	_, err := c.request(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", path, id), nil, nil)

	return err
}
