package collections

import (
	"context"
	"fmt"

	"github.com/mkante/gestloc/internal/domain"
)

// Gateway is the slice of the API client the loader needs.
type Gateway interface {
	ListCities(ctx context.Context) ([]domain.City, error)
	ListBuildings(ctx context.Context) ([]domain.Building, error)
	ListFloors(ctx context.Context) ([]domain.Floor, error)
	ListUnits(ctx context.Context) ([]domain.Unit, error)
	ListTenants(ctx context.Context) ([]domain.Tenant, error)
	ListLeases(ctx context.Context) ([]domain.Lease, error)
	ListPayments(ctx context.Context) ([]domain.Payment, error)
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	ListSupplierInvoices(ctx context.Context) ([]domain.SupplierInvoice, error)
	ListExpenses(ctx context.Context) ([]domain.Expense, error)
	PaymentStats(ctx context.Context) ([]domain.MonthlyStat, error)
}

// Load refreshes the snapshot wholesale from the gateway. All lists are
// fetched before any collection is touched; a failure mid-fetch leaves the
// snapshot exactly as it was.
func (s *Snapshot) Load(ctx context.Context, gw Gateway) error {
	cities, err := gw.ListCities(ctx)
	if err != nil {
		return fmt.Errorf("loading cities: %w", err)
	}

	buildings, err := gw.ListBuildings(ctx)
	if err != nil {
		return fmt.Errorf("loading buildings: %w", err)
	}

	floors, err := gw.ListFloors(ctx)
	if err != nil {
		return fmt.Errorf("loading floors: %w", err)
	}

	units, err := gw.ListUnits(ctx)
	if err != nil {
		return fmt.Errorf("loading units: %w", err)
	}

	tenants, err := gw.ListTenants(ctx)
	if err != nil {
		return fmt.Errorf("loading tenants: %w", err)
	}

	leases, err := gw.ListLeases(ctx)
	if err != nil {
		return fmt.Errorf("loading leases: %w", err)
	}

	payments, err := gw.ListPayments(ctx)
	if err != nil {
		return fmt.Errorf("loading payments: %w", err)
	}

	suppliers, err := gw.ListSuppliers(ctx)
	if err != nil {
		return fmt.Errorf("loading suppliers: %w", err)
	}

	invoices, err := gw.ListSupplierInvoices(ctx)
	if err != nil {
		return fmt.Errorf("loading supplier invoices: %w", err)
	}

	expenses, err := gw.ListExpenses(ctx)
	if err != nil {
		return fmt.Errorf("loading expenses: %w", err)
	}

	stats, err := gw.PaymentStats(ctx)
	if err != nil {
		return fmt.Errorf("loading payment stats: %w", err)
	}

	s.Cities.SetAll(cities)
	s.Buildings.SetAll(buildings)
	s.Floors.SetAll(floors)
	s.Units.SetAll(units)
	s.Tenants.SetAll(tenants)
	s.Leases.SetAll(leases)
	s.Payments.SetAll(payments)
	s.Suppliers.SetAll(suppliers)
	s.Invoices.SetAll(invoices)
	s.Expenses.SetAll(expenses)
	s.Stats = stats

	return nil
}
