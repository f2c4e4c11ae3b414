package main

import (
	"time"

	"github.com/mkante/gestloc/internal/domain"
)

// seed loads a small but representative dataset: two cities in different
// currencies, an ended lease, an unpaid rent and an unsettled invoice.
func (s *server) seed() {
	conakry := s.cities.insert(domain.City{Name: "Conakry", Country: "Guinée", Currency: domain.CurrencyGNF})
	dakar := s.cities.insert(domain.City{Name: "Dakar", Country: "Sénégal", Currency: domain.CurrencyXOF})

	nimba := s.buildings.insert(domain.Building{Name: "Résidence Nimba", Address: "Route de Donka", CityID: conakry.ID, FloorCount: 3, Currency: conakry.Currency})
	teranga := s.buildings.insert(domain.Building{Name: "Villa Teranga", Address: "Avenue Cheikh Anta Diop", CityID: dakar.ID, FloorCount: 2, Currency: dakar.Currency})

	f1 := s.floors.insert(domain.Floor{BuildingID: nimba.ID, Number: 0})
	f2 := s.floors.insert(domain.Floor{BuildingID: nimba.ID, Number: 1})
	f3 := s.floors.insert(domain.Floor{BuildingID: teranga.ID, Number: 0})

	a1 := s.units.insert(domain.Unit{FloorID: f1.ID, Label: "A1", Bedrooms: 2, Bathrooms: 1, Area: 65, Balcony: true, Rent: 500000})
	a2 := s.units.insert(domain.Unit{FloorID: f2.ID, Label: "A2", Bedrooms: 3, Bathrooms: 2, Area: 90, FittedKitchen: true, Rent: 750000})
	b1 := s.units.insert(domain.Unit{FloorID: f3.ID, Label: "B1", Bedrooms: 4, Bathrooms: 2, Area: 120, Balcony: true, Rent: 350000})

	awa := s.tenants.insert(domain.Tenant{Name: "Awa Diallo", Email: "awa@example.com", Phone: "+224 620 00 00 01"})
	mamadou := s.tenants.insert(domain.Tenant{Name: "Mamadou Sow", Phone: "+224 620 00 00 02"})
	fatou := s.tenants.insert(domain.Tenant{Name: "Fatou Ndiaye", Email: "fatou@example.com"})

	ended := domain.NewDate(2025, time.January, 31)

	l1 := s.leases.insert(domain.Lease{UnitID: a1.ID, TenantID: awa.ID, StartDate: domain.NewDate(2024, time.March, 1), MonthlyRent: 500000, Deposit: 1000000, Status: domain.LeaseActive})
	l2 := s.leases.insert(domain.Lease{UnitID: b1.ID, TenantID: fatou.ID, StartDate: domain.NewDate(2024, time.June, 1), MonthlyRent: 350000, Deposit: 700000, Status: domain.LeaseActive})
	l3 := s.leases.insert(domain.Lease{UnitID: a2.ID, TenantID: mamadou.ID, StartDate: domain.NewDate(2024, time.January, 1), EndDate: &ended, MonthlyRent: 750000, Deposit: 1500000, Status: domain.LeaseEnded})

	s.payments.insert(domain.Payment{LeaseID: l1.ID, Amount: 500000, Date: domain.NewDate(2025, time.January, 5), Paid: true})
	s.payments.insert(domain.Payment{LeaseID: l1.ID, Amount: 500000, Date: domain.NewDate(2025, time.February, 5), Paid: false})
	s.payments.insert(domain.Payment{LeaseID: l2.ID, Amount: 350000, Date: domain.NewDate(2025, time.January, 3), Paid: true})
	s.payments.insert(domain.Payment{LeaseID: l2.ID, Amount: 350000, Date: domain.NewDate(2025, time.February, 3), Paid: true})
	s.payments.insert(domain.Payment{LeaseID: l3.ID, Amount: 750000, Date: domain.NewDate(2025, time.January, 10), Paid: false})

	edg := s.suppliers.insert(domain.Supplier{Name: "EDG", Contact: "standard@edg.gn", ServiceType: "Électricité"})
	seg := s.suppliers.insert(domain.Supplier{Name: "SEG", Contact: "contact@seg.gn", ServiceType: "Eau"})

	s.invoices.insert(domain.SupplierInvoice{SupplierID: edg.ID, BuildingID: nimba.ID, Amount: 120000, IssueDate: domain.NewDate(2025, time.January, 15), Status: domain.SettlementUnpaid, Description: "Électricité parties communes"})
	s.invoices.insert(domain.SupplierInvoice{SupplierID: seg.ID, BuildingID: teranga.ID, Amount: 45000, IssueDate: domain.NewDate(2025, time.January, 20), Status: domain.SettlementPaid})

	s.expenses.insert(domain.Expense{Type: "Plomberie", Amount: 200000, IssueDate: domain.NewDate(2025, time.January, 12), Status: domain.SettlementPaid, Description: "Fuite A2"})
	s.expenses.insert(domain.Expense{Type: "Peinture", Amount: 100000, IssueDate: domain.NewDate(2025, time.February, 1), Status: domain.SettlementUnpaid})

	s.users.insert(domain.User{Name: "Admin", Email: "admin@gestloc.dev", Role: domain.RoleAdmin})
	s.users.insert(domain.User{Name: "Propriétaire", Email: "proprio@gestloc.dev", Role: domain.RoleOwner})
}
