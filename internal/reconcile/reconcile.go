// Package reconcile derives dashboard state from a collections snapshot.
// Everything here is a pure function of the snapshot; nothing mutates it
// and nothing talks to the network.
package reconcile

import (
	"sort"
	"strings"

	"github.com/mkante/gestloc/internal/collections"
	"github.com/mkante/gestloc/internal/domain"
)

// unknownName labels records whose lease, tenant or unit reference dangles.
const unknownName = "Inconnu"

// Status restricts a filter to paid or unpaid payments.
type Status string

const (
	StatusAll    Status = "all"
	StatusPaid   Status = "paid"
	StatusUnpaid Status = "unpaid"
)

// Filter is a composable AND predicate over payments. Zero values mean
// "no restriction".
type Filter struct {
	// MonthPrefix matches the payment date's "YYYY-MM" prefix.
	MonthPrefix string
	// BuildingID is resolved payment -> lease -> unit -> floor -> building.
	// A payment whose chain dangles never matches a building restriction.
	BuildingID int64
	Status     Status
}

// Match reports whether the payment passes every set restriction.
func (f Filter) Match(s *collections.Snapshot, p domain.Payment) bool {
	if f.MonthPrefix != "" && !strings.HasPrefix(p.Date.String(), f.MonthPrefix) {
		return false
	}

	if f.Status == StatusPaid && !p.Paid {
		return false
	}

	if f.Status == StatusUnpaid && p.Paid {
		return false
	}

	if f.BuildingID != 0 {
		id, ok := buildingOf(s, p)
		if !ok || id != f.BuildingID {
			return false
		}
	}

	return true
}

func buildingOf(s *collections.Snapshot, p domain.Payment) (int64, bool) {
	lease, ok := s.Leases.Get(p.LeaseID)
	if !ok {
		return 0, false
	}

	unit, ok := s.Units.Get(lease.UnitID)
	if !ok {
		return 0, false
	}

	floor, ok := s.Floors.Get(unit.FloorID)
	if !ok {
		return 0, false
	}

	return floor.BuildingID, true
}

// UnpaidRecord is an outstanding payment joined with display names. Names
// fall back to "Inconnu" when a reference dangles; the record itself is
// never dropped.
type UnpaidRecord struct {
	Payment    domain.Payment
	TenantName string
	UnitLabel  string
	BuildingID int64
	Currency   domain.Currency
}

// UnpaidRecords projects the unpaid payments matching the filter.
func UnpaidRecords(s *collections.Snapshot, f Filter) []UnpaidRecord {
	f.Status = StatusUnpaid

	var out []UnpaidRecord

	for _, p := range s.Payments.All() {
		if !f.Match(s, p) {
			continue
		}

		rec := UnpaidRecord{
			Payment:    p,
			TenantName: unknownName,
			UnitLabel:  unknownName,
		}

		if lease, ok := s.Leases.Get(p.LeaseID); ok {
			if tenant, ok := s.Tenants.Get(lease.TenantID); ok {
				rec.TenantName = tenant.Name
			}

			if unit, ok := s.Units.Get(lease.UnitID); ok {
				rec.UnitLabel = unit.Label
			}
		}

		if id, ok := buildingOf(s, p); ok {
			rec.BuildingID = id

			if b, ok := s.Buildings.Get(id); ok {
				rec.Currency = b.Currency
			}
		}

		out = append(out, rec)
	}

	return out
}

// OccupancyRate is the share of units under an open-ended lease, as a
// percentage. No units means 0, not a division by zero.
func OccupancyRate(s *collections.Snapshot) float64 {
	total := s.Units.Len()
	if total == 0 {
		return 0
	}

	occupied := 0

	for _, l := range s.Leases.All() {
		if l.Ongoing() {
			occupied++
		}
	}

	return float64(occupied) / float64(total) * 100
}

// AveragePaymentDelay is the mean number of days between a payment and its
// lease's start date, over the payments matching the filter. Payments whose
// lease dangles are skipped entirely; an empty set yields 0.
func AveragePaymentDelay(s *collections.Snapshot, f Filter) float64 {
	var (
		sum   int
		count int
	)

	for _, p := range s.Payments.All() {
		if !f.Match(s, p) {
			continue
		}

		lease, ok := s.Leases.Get(p.LeaseID)
		if !ok {
			continue
		}

		sum += lease.StartDate.DaysUntil(p.Date)
		count++
	}

	if count == 0 {
		return 0
	}

	return float64(sum) / float64(count)
}

// GroupTotal is a summed amount under a display name.
type GroupTotal struct {
	Name  string
	Total domain.Amount
}

// TotalsByTenant groups the filtered payments by resolved tenant name,
// ordered by descending total. Ties keep first-encounter order.
func TotalsByTenant(s *collections.Snapshot, f Filter) []GroupTotal {
	return groupTotals(s, f, func(p domain.Payment) string {
		lease, ok := s.Leases.Get(p.LeaseID)
		if !ok {
			return unknownName
		}

		tenant, ok := s.Tenants.Get(lease.TenantID)
		if !ok {
			return unknownName
		}

		return tenant.Name
	})
}

// TotalsByBuilding groups the filtered payments by resolved building name,
// ordered by descending total. Ties keep first-encounter order.
func TotalsByBuilding(s *collections.Snapshot, f Filter) []GroupTotal {
	return groupTotals(s, f, func(p domain.Payment) string {
		id, ok := buildingOf(s, p)
		if !ok {
			return unknownName
		}

		b, ok := s.Buildings.Get(id)
		if !ok {
			return unknownName
		}

		return b.Name
	})
}

func groupTotals(s *collections.Snapshot, f Filter, nameOf func(domain.Payment) string) []GroupTotal {
	index := map[string]int{}

	var out []GroupTotal

	for _, p := range s.Payments.All() {
		if !f.Match(s, p) {
			continue
		}

		name := nameOf(p)

		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, GroupTotal{Name: name})
		}

		out[i].Total += p.Amount
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})

	return out
}

// ExpiringLeases returns leases whose end date falls strictly within the
// window (in days) of now, today included. When includeEnded is true,
// leases whose end date already passed stay flagged; when false they drop
// off the list the day after expiry.
func ExpiringLeases(s *collections.Snapshot, now domain.Date, window int, includeEnded bool) []domain.Lease {
	var out []domain.Lease

	for _, l := range s.Leases.All() {
		if l.EndDate == nil {
			continue
		}

		days := now.DaysUntil(*l.EndDate)
		if days >= window {
			continue
		}

		if days < 0 && !includeEnded {
			continue
		}

		out = append(out, l)
	}

	return out
}

// TotalPayments sums the settled payments matching the filter.
func TotalPayments(s *collections.Snapshot, f Filter) domain.Amount {
	f.Status = StatusPaid

	return sumPayments(s, f)
}

// TotalUnpaid sums the outstanding payments matching the filter.
func TotalUnpaid(s *collections.Snapshot, f Filter) domain.Amount {
	f.Status = StatusUnpaid

	return sumPayments(s, f)
}

func sumPayments(s *collections.Snapshot, f Filter) domain.Amount {
	var total domain.Amount

	for _, p := range s.Payments.All() {
		if f.Match(s, p) {
			total += p.Amount
		}
	}

	return total
}

// TotalSupplierInvoices sums every supplier invoice.
func TotalSupplierInvoices(s *collections.Snapshot) domain.Amount {
	var total domain.Amount

	for _, inv := range s.Invoices.All() {
		total += inv.Amount
	}

	return total
}

// TotalUnpaidSupplierInvoices sums the invoices still awaiting settlement.
func TotalUnpaidSupplierInvoices(s *collections.Snapshot) domain.Amount {
	var total domain.Amount

	for _, inv := range s.Invoices.All() {
		if inv.Status != domain.SettlementPaid {
			total += inv.Amount
		}
	}

	return total
}

// TotalPaidExpenses sums settled expenses only; recording an expense moves
// nothing until it is marked paid.
func TotalPaidExpenses(s *collections.Snapshot) domain.Amount {
	var total domain.Amount

	for _, e := range s.Expenses.All() {
		if e.Status == domain.SettlementPaid {
			total += e.Amount
		}
	}

	return total
}

// Balance is settled revenue minus settled expenses.
func Balance(s *collections.Snapshot) domain.Amount {
	return TotalPayments(s, Filter{}) - TotalPaidExpenses(s)
}
