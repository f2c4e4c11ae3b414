// Package export writes CSV reports from a collections snapshot. Files are
// named with the export date so repeated runs never clobber older reports
// from another day.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mkante/gestloc/internal/collections"
	"github.com/mkante/gestloc/internal/domain"
	"github.com/mkante/gestloc/internal/reconcile"
)

// Service renders reports from the snapshot. It never talks to the
// network; the snapshot is whatever the last refresh left.
type Service struct {
	snap *collections.Snapshot
	now  func() domain.Date
}

func NewService(snap *collections.Snapshot) *Service {
	return &Service{snap: snap, now: domain.Today}
}

// PaymentsJournal writes the filtered payments with resolved names and
// returns the file path.
func (s *Service) PaymentsJournal(dir string, f reconcile.Filter) (string, error) {
	rows := [][]string{{"date", "locataire", "appartement", "montant", "statut"}}

	for _, p := range s.snap.Payments.All() {
		if !f.Match(s.snap, p) {
			continue
		}

		tenant, unit := s.names(p)

		status := "impayé"
		if p.Paid {
			status = "payé"
		}

		rows = append(rows, []string{
			p.Date.String(),
			tenant,
			unit,
			strconv.FormatInt(int64(p.Amount), 10),
			status,
		})
	}

	return s.write(dir, "paiements", rows)
}

// UnpaidReport writes the unpaid projection and returns the file path.
func (s *Service) UnpaidReport(dir string, f reconcile.Filter) (string, error) {
	rows := [][]string{{"date", "locataire", "appartement", "montant", "monnaie"}}

	for _, rec := range reconcile.UnpaidRecords(s.snap, f) {
		rows = append(rows, []string{
			rec.Payment.Date.String(),
			rec.TenantName,
			rec.UnitLabel,
			strconv.FormatInt(int64(rec.Payment.Amount), 10),
			string(rec.Currency),
		})
	}

	return s.write(dir, "impayes", rows)
}

// DashboardSummary writes the key indicators and returns the file path.
func (s *Service) DashboardSummary(dir string, f reconcile.Filter) (string, error) {
	rows := [][]string{{"indicateur", "valeur"}}

	for _, line := range s.indicators(f) {
		rows = append(rows, []string{line.label, line.value})
	}

	return s.write(dir, "synthese", rows)
}

// SummaryText renders the same indicators as a plain-text block for
// on-screen display.
func (s *Service) SummaryText(f reconcile.Filter) string {
	var sb strings.Builder

	for _, line := range s.indicators(f) {
		sb.WriteString(fmt.Sprintf("%-28s %s\n", line.label, line.value))
	}

	return sb.String()
}

type indicator struct {
	label string
	value string
}

func (s *Service) indicators(f reconcile.Filter) []indicator {
	snap := s.snap

	return []indicator{
		{"Total encaissé", strconv.FormatInt(int64(reconcile.TotalPayments(snap, f)), 10)},
		{"Total impayé", strconv.FormatInt(int64(reconcile.TotalUnpaid(snap, f)), 10)},
		{"Factures fournisseurs", strconv.FormatInt(int64(reconcile.TotalSupplierInvoices(snap)), 10)},
		{"Factures non payées", strconv.FormatInt(int64(reconcile.TotalUnpaidSupplierInvoices(snap)), 10)},
		{"Dépenses payées", strconv.FormatInt(int64(reconcile.TotalPaidExpenses(snap)), 10)},
		{"Solde", strconv.FormatInt(int64(reconcile.Balance(snap)), 10)},
		{"Taux d'occupation (%)", fmt.Sprintf("%.1f", reconcile.OccupancyRate(snap))},
		{"Délai moyen (jours)", fmt.Sprintf("%.1f", reconcile.AveragePaymentDelay(snap, f))},
	}
}

func (s *Service) names(p domain.Payment) (tenant, unit string) {
	tenant, unit = "Inconnu", "Inconnu"

	lease, ok := s.snap.Leases.Get(p.LeaseID)
	if !ok {
		return tenant, unit
	}

	if t, ok := s.snap.Tenants.Get(lease.TenantID); ok {
		tenant = t.Name
	}

	if u, ok := s.snap.Units.Get(lease.UnitID); ok {
		unit = u.Label
	}

	return tenant, unit
}

func (s *Service) write(dir, prefix string, rows [][]string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", prefix, s.now()))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	return path, nil
}
