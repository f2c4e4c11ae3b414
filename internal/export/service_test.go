package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkante/gestloc/internal/collections"
	"github.com/mkante/gestloc/internal/domain"
	"github.com/mkante/gestloc/internal/reconcile"
)

func exportSnapshot() *collections.Snapshot {
	s := collections.NewSnapshot()

	s.Buildings.SetAll([]domain.Building{{ID: 1, Name: "Résidence Nimba", Currency: domain.CurrencyGNF}})
	s.Floors.SetAll([]domain.Floor{{ID: 1, BuildingID: 1}})
	s.Units.SetAll([]domain.Unit{{ID: 1, FloorID: 1, Label: "A1"}})
	s.Tenants.SetAll([]domain.Tenant{{ID: 1, Name: "Awa"}})
	s.Leases.SetAll([]domain.Lease{{ID: 1, UnitID: 1, TenantID: 1, StartDate: domain.NewDate(2025, time.January, 1)}})
	s.Payments.SetAll([]domain.Payment{
		{ID: 1, LeaseID: 1, Amount: 250000, Date: domain.NewDate(2025, time.January, 5), Paid: true},
		{ID: 2, LeaseID: 1, Amount: 250000, Date: domain.NewDate(2025, time.February, 5), Paid: false},
	})

	return s
}

func testExportService(snap *collections.Snapshot) *Service {
	svc := NewService(snap)
	svc.now = func() domain.Date { return domain.NewDate(2025, time.February, 20) }

	return svc
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	return rows
}

func TestService_PaymentsJournal(t *testing.T) {
	dir := t.TempDir()
	svc := testExportService(exportSnapshot())

	path, err := svc.PaymentsJournal(dir, reconcile.Filter{})
	require.NoError(t, err)
	assert.Equal(t, "paiements_2025-02-20.csv", filepath.Base(path))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"date", "locataire", "appartement", "montant", "statut"}, rows[0])
	assert.Equal(t, []string{"2025-01-05", "Awa", "A1", "250000", "payé"}, rows[1])
	assert.Equal(t, "impayé", rows[2][4])
}

func TestService_UnpaidReport(t *testing.T) {
	dir := t.TempDir()
	svc := testExportService(exportSnapshot())

	path, err := svc.UnpaidReport(dir, reconcile.Filter{})
	require.NoError(t, err)
	assert.Equal(t, "impayes_2025-02-20.csv", filepath.Base(path))

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2025-02-05", "Awa", "A1", "250000", "GNF"}, rows[1])
}

func TestService_DashboardSummary(t *testing.T) {
	dir := t.TempDir()
	svc := testExportService(exportSnapshot())

	path, err := svc.DashboardSummary(dir, reconcile.Filter{})
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Greater(t, len(rows), 1)
	assert.Equal(t, []string{"Total encaissé", "250000"}, rows[1])
	assert.Equal(t, []string{"Total impayé", "250000"}, rows[2])
}

func TestService_SummaryText(t *testing.T) {
	svc := testExportService(exportSnapshot())

	text := svc.SummaryText(reconcile.Filter{})
	assert.Contains(t, text, "Total encaissé")
	assert.Contains(t, text, "250000")
	assert.Contains(t, text, "Taux d'occupation")
}
