package collections_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkante/gestloc/internal/collections"
	"github.com/mkante/gestloc/internal/domain"
)

func TestCollection_SetAllReplaces(t *testing.T) {
	c := collections.New(func(v domain.Tenant) int64 { return v.ID })

	c.SetAll([]domain.Tenant{{ID: 1, Name: "Awa"}, {ID: 2, Name: "Mamadou"}})
	c.SetAll([]domain.Tenant{{ID: 3, Name: "Fatou"}})

	all := c.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Fatou", all[0].Name)

	_, ok := c.Get(1)
	assert.False(t, ok, "a refresh must drop records the server no longer returns")
}

func TestCollection_OrderIsStable(t *testing.T) {
	c := collections.New(func(v domain.Tenant) int64 { return v.ID })

	c.SetAll([]domain.Tenant{{ID: 5}, {ID: 2}, {ID: 9}})
	c.Append(domain.Tenant{ID: 1})
	c.Remove(2)

	var ids []int64
	for _, item := range c.All() {
		ids = append(ids, item.ID)
	}

	assert.Equal(t, []int64{5, 9, 1}, ids)
}

func TestCollection_PatchInPlace(t *testing.T) {
	c := collections.New(func(v domain.Lease) int64 { return v.ID })
	c.SetAll([]domain.Lease{
		{ID: 1, Status: domain.LeaseActive},
		{ID: 2, Status: domain.LeaseActive},
	})

	end := domain.NewDate(2025, time.March, 1)

	err := c.Patch(2, func(l *domain.Lease) {
		l.EndDate = &end
		l.Status = domain.LeaseEnded
	})
	require.NoError(t, err)

	patched, ok := c.Get(2)
	require.True(t, ok)
	assert.Equal(t, domain.LeaseEnded, patched.Status)

	// The sibling is untouched.
	other, _ := c.Get(1)
	assert.Equal(t, domain.LeaseActive, other.Status)
	assert.Nil(t, other.EndDate)
}

func TestCollection_PatchUnknownID(t *testing.T) {
	c := collections.New(func(v domain.Lease) int64 { return v.ID })

	err := c.Patch(99, func(*domain.Lease) {})
	assert.ErrorIs(t, err, collections.ErrNotFound)
}

func TestCollection_AllReturnsCopy(t *testing.T) {
	c := collections.New(func(v domain.Tenant) int64 { return v.ID })
	c.SetAll([]domain.Tenant{{ID: 1, Name: "Awa"}})

	c.All()[0].Name = "mutated"

	got, _ := c.Get(1)
	assert.Equal(t, "Awa", got.Name)
}

// fakeGateway serves canned lists and can fail a single endpoint.
type fakeGateway struct {
	failLeases bool
}

var errBoom = errors.New("boom")

func (f *fakeGateway) ListCities(context.Context) ([]domain.City, error) {
	return []domain.City{{ID: 1, Name: "Conakry", Currency: domain.CurrencyGNF}}, nil
}

func (f *fakeGateway) ListBuildings(context.Context) ([]domain.Building, error) {
	return []domain.Building{{ID: 1, Name: "Résidence Nimba", CityID: 1}}, nil
}

func (f *fakeGateway) ListFloors(context.Context) ([]domain.Floor, error) {
	return []domain.Floor{{ID: 1, BuildingID: 1}}, nil
}

func (f *fakeGateway) ListUnits(context.Context) ([]domain.Unit, error) {
	return []domain.Unit{{ID: 1, FloorID: 1, Label: "A1"}}, nil
}

func (f *fakeGateway) ListTenants(context.Context) ([]domain.Tenant, error) {
	return []domain.Tenant{{ID: 1, Name: "Awa"}}, nil
}

func (f *fakeGateway) ListLeases(context.Context) ([]domain.Lease, error) {
	if f.failLeases {
		return nil, errBoom
	}

	return []domain.Lease{{ID: 1, UnitID: 1, TenantID: 1}}, nil
}

func (f *fakeGateway) ListPayments(context.Context) ([]domain.Payment, error) {
	return []domain.Payment{{ID: 1, LeaseID: 1, Amount: 250000}}, nil
}

func (f *fakeGateway) ListSuppliers(context.Context) ([]domain.Supplier, error) {
	return []domain.Supplier{{ID: 1, Name: "EDG"}}, nil
}

func (f *fakeGateway) ListSupplierInvoices(context.Context) ([]domain.SupplierInvoice, error) {
	return []domain.SupplierInvoice{{ID: 1, SupplierID: 1, BuildingID: 1}}, nil
}

func (f *fakeGateway) ListExpenses(context.Context) ([]domain.Expense, error) {
	return []domain.Expense{{ID: 1, Type: "Plomberie"}}, nil
}

func (f *fakeGateway) PaymentStats(context.Context) ([]domain.MonthlyStat, error) {
	return []domain.MonthlyStat{{Month: "2025-01", Total: 250000}}, nil
}

func TestSnapshot_Load(t *testing.T) {
	s := collections.NewSnapshot()

	require.NoError(t, s.Load(t.Context(), &fakeGateway{}))

	assert.Equal(t, 1, s.Leases.Len())
	assert.Equal(t, 1, s.Payments.Len())
	require.Len(t, s.Stats, 1)
	assert.Equal(t, "2025-01", s.Stats[0].Month)
}

func TestSnapshot_LoadFailureLeavesSnapshotUntouched(t *testing.T) {
	s := collections.NewSnapshot()
	require.NoError(t, s.Load(t.Context(), &fakeGateway{}))

	err := s.Load(t.Context(), &fakeGateway{failLeases: true})
	require.ErrorIs(t, err, errBoom)

	// Previous refresh still intact, including collections fetched before
	// the failing endpoint.
	assert.Equal(t, 1, s.Cities.Len())
	assert.Equal(t, 1, s.Leases.Len())
	assert.Len(t, s.Stats, 1)
}
