package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkante/gestloc/internal/collections"
	"github.com/mkante/gestloc/internal/domain"
	"github.com/mkante/gestloc/internal/reconcile"
)

// expiryWindow is how far ahead the dashboard flags lease end dates.
const expiryWindow = 30

type DashboardModel struct {
	CommonModel
	snap *collections.Snapshot
	gw   collections.Gateway

	monthIdx    int
	statusIdx   int
	buildingIdx int
	byBuilding  bool

	loading bool
	errText string
}

func NewDashboardModel(snap *collections.Snapshot, gw collections.Gateway) DashboardModel {
	return DashboardModel{snap: snap, gw: gw}
}

func (m DashboardModel) Init() tea.Cmd {
	return nil
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshedMsg:
		m.loading = false
		m.errText = ""

		if msg.Err != nil {
			m.errText = msg.Err.Error()
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "m":
			m.monthIdx = (m.monthIdx + 1) % 3
		case "s":
			m.statusIdx = (m.statusIdx + 1) % 3
		case "b":
			m.buildingIdx = (m.buildingIdx + 1) % (m.snap.Buildings.Len() + 1)
		case "g":
			m.byBuilding = !m.byBuilding
		case "r":
			m.loading = true
			return m, RefreshCmd(m.snap, m.gw)
		}
	}

	return m, nil
}

// filter builds the composed predicate the cycling keys describe.
func (m DashboardModel) filter() reconcile.Filter {
	f := reconcile.Filter{}

	now := time.Now()
	switch m.monthIdx {
	case 1:
		f.MonthPrefix = now.Format("2006-01")
	case 2:
		f.MonthPrefix = now.AddDate(0, -1, 0).Format("2006-01")
	}

	switch m.statusIdx {
	case 1:
		f.Status = reconcile.StatusPaid
	case 2:
		f.Status = reconcile.StatusUnpaid
	}

	if m.buildingIdx > 0 {
		buildings := m.snap.Buildings.All()
		if m.buildingIdx <= len(buildings) {
			f.BuildingID = buildings[m.buildingIdx-1].ID
		}
	}

	return f
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Chargement...")
	}

	f := m.filter()

	var sb strings.Builder

	sb.WriteString(m.filterLine(f))
	sb.WriteString("\n\n")
	sb.WriteString(m.kpis(f))
	sb.WriteString("\n\n")
	sb.WriteString(m.totals(f))

	if alerts := m.alerts(); alerts != "" {
		sb.WriteString("\n\n")
		sb.WriteString(alerts)
	}

	if m.errText != "" {
		sb.WriteString("\n\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.errText))
	}

	sb.WriteString("\n\n[m] mois | [s] statut | [b] immeuble | [g] groupement | [r] actualiser | Esc retour")

	return lipgloss.NewStyle().Padding(1).Render(sb.String())
}

func (m DashboardModel) filterLine(f reconcile.Filter) string {
	monthLabels := []string{"Tous", "Ce mois", "Mois dernier"}
	statusLabels := []string{"Tous", "Payés", "Impayés"}

	building := "Tous"
	if f.BuildingID != 0 {
		if b, ok := m.snap.Buildings.Get(f.BuildingID); ok {
			building = b.Name
		}
	}

	return fmt.Sprintf(
		"Filtres  mois: %s | statut: %s | immeuble: %s",
		activeStyle(monthLabels[m.monthIdx]),
		activeStyle(statusLabels[m.statusIdx]),
		activeStyle(building),
	)
}

func (m DashboardModel) kpis(f reconcile.Filter) string {
	return strings.Join([]string{
		fmt.Sprintf("Encaissé      %s", FormatAmount(reconcile.TotalPayments(m.snap, f), "")),
		fmt.Sprintf("Impayé        %s", FormatAmount(reconcile.TotalUnpaid(m.snap, f), "")),
		fmt.Sprintf("Occupation    %.1f %%", reconcile.OccupancyRate(m.snap)),
		fmt.Sprintf("Délai moyen   %.1f jours", reconcile.AveragePaymentDelay(m.snap, f)),
		fmt.Sprintf("Solde         %s", FormatAmount(reconcile.Balance(m.snap), "")),
	}, "\n")
}

func (m DashboardModel) totals(f reconcile.Filter) string {
	var (
		title  string
		groups []reconcile.GroupTotal
	)

	if m.byBuilding {
		title = "Total par immeuble"
		groups = reconcile.TotalsByBuilding(m.snap, f)
	} else {
		title = "Total par locataire"
		groups = reconcile.TotalsByTenant(m.snap, f)
	}

	if len(groups) == 0 {
		return title + "\n  (aucun paiement)"
	}

	lines := []string{title}
	for _, g := range groups {
		lines = append(lines, fmt.Sprintf("  %-24s %s", g.Name, FormatAmount(g.Total, "")))
	}

	return strings.Join(lines, "\n")
}

func (m DashboardModel) alerts() string {
	expiring := reconcile.ExpiringLeases(m.snap, domain.Today(), expiryWindow, true)
	if len(expiring) == 0 {
		return ""
	}

	warn := lipgloss.NewStyle().Foreground(lipgloss.Color("208"))

	lines := []string{warn.Render(fmt.Sprintf("%d contrat(s) arrivent à échéance:", len(expiring)))}
	for _, l := range expiring {
		name := l.TenantName
		if name == "" {
			if t, ok := m.snap.Tenants.Get(l.TenantID); ok {
				name = t.Name
			}
		}

		lines = append(lines, fmt.Sprintf("  %s (fin %s)", name, FormatDate(l.EndDate)))
	}

	return strings.Join(lines, "\n")
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}
