package view

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkante/gestloc/internal/collections"
	"github.com/mkante/gestloc/internal/domain"
	"github.com/mkante/gestloc/internal/reconcile"
)

type PaymentsModel struct {
	CommonModel
	snap *collections.Snapshot
	gw   collections.Gateway

	table     table.Model
	statusIdx int
	monthIdx  int

	loading bool
	errText string
}

func NewPaymentsModel(snap *collections.Snapshot, gw collections.Gateway) PaymentsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Locataire", Width: 22},
		{Title: "Appartement", Width: 12},
		{Title: "Montant", Width: 16},
		{Title: "Statut", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := PaymentsModel{snap: snap, gw: gw, table: t}
	m.refreshTable()

	return m
}

func (m PaymentsModel) Init() tea.Cmd {
	return nil
}

func (m PaymentsModel) filter() reconcile.Filter {
	f := reconcile.Filter{}

	switch m.statusIdx {
	case 1:
		f.Status = reconcile.StatusPaid
	case 2:
		f.Status = reconcile.StatusUnpaid
	}

	now := time.Now()
	switch m.monthIdx {
	case 1:
		f.MonthPrefix = now.Format("2006-01")
	case 2:
		f.MonthPrefix = now.AddDate(0, -1, 0).Format("2006-01")
	}

	return f
}

func (m PaymentsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshedMsg:
		m.loading = false

		if msg.Err != nil {
			m.errText = msg.Err.Error()
		} else {
			m.errText = ""
		}

		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, RefreshCmd(m.snap, m.gw)
		case "s":
			m.statusIdx = (m.statusIdx + 1) % 3
			m.refreshTable()

			return m, nil
		case "m":
			m.monthIdx = (m.monthIdx + 1) % 3
			m.refreshTable()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

// refreshTable walks every payment through the composed filter; the
// unpaid rows reuse the reconciler's joined projection.
func (m *PaymentsModel) refreshTable() {
	f := m.filter()

	unpaidByID := map[int64]reconcile.UnpaidRecord{}
	for _, rec := range reconcile.UnpaidRecords(m.snap, reconcile.Filter{}) {
		unpaidByID[rec.Payment.ID] = rec
	}

	var rows []table.Row

	for _, p := range m.snap.Payments.All() {
		if !f.Match(m.snap, p) {
			continue
		}

		tenant, unit := "Inconnu", "Inconnu"

		var currency domain.Currency

		if rec, ok := unpaidByID[p.ID]; ok {
			tenant, unit = rec.TenantName, rec.UnitLabel
			currency = rec.Currency
		} else if lease, ok := m.snap.Leases.Get(p.LeaseID); ok {
			if t, ok := m.snap.Tenants.Get(lease.TenantID); ok {
				tenant = t.Name
			}

			if u, ok := m.snap.Units.Get(lease.UnitID); ok {
				unit = u.Label
			}
		}

		status := "impayé"
		if p.Paid {
			status = "payé"
		}

		date := p.Date

		rows = append(rows, table.Row{
			FormatDate(&date),
			tenant,
			unit,
			FormatAmount(p.Amount, currency),
			status,
		})
	}

	m.table.SetRows(rows)
}

func (m PaymentsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Chargement des paiements...")
	}

	statusLabels := []string{"Tous", "Payés", "Impayés"}
	monthLabels := []string{"Tous", "Ce mois", "Mois dernier"}

	header := "Filtres  [s] statut: " + activeStyle(statusLabels[m.statusIdx]) +
		" | [m] mois: " + activeStyle(monthLabels[m.monthIdx])

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
		lipgloss.NewStyle().Faint(true).Render("[r] actualiser | Esc retour"),
	)

	if m.errText != "" {
		content = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.errText) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
