package view

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkante/gestloc/internal/api"
	"github.com/mkante/gestloc/internal/collections"
	"github.com/mkante/gestloc/internal/domain"
)

type InvoicesModel struct {
	CommonModel
	snap   *collections.Snapshot
	client *api.Client

	table    table.Model
	invoices []domain.SupplierInvoice

	loading bool
	busy    bool
	errText string
	status  string
}

func NewInvoicesModel(snap *collections.Snapshot, client *api.Client) InvoicesModel {
	columns := []table.Column{
		{Title: "Émission", Width: 12},
		{Title: "Fournisseur", Width: 20},
		{Title: "Immeuble", Width: 20},
		{Title: "Montant", Width: 14},
		{Title: "Statut", Width: 10},
		{Title: "Payée le", Width: 12},
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

	m := InvoicesModel{snap: snap, client: client, table: t}
	m.refreshTable()

	return m
}

func (m InvoicesModel) Init() tea.Cmd {
	return nil
}

func (m InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	case invoicePaidMsg:
		m.busy = false

		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}

		// Only the server's confirmed copy lands in the collection.
		_ = m.snap.Invoices.Replace(msg.invoice.ID, msg.invoice)
		m.status = "Facture marquée payée"
		m.errText = ""
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, RefreshCmd(m.snap, m.client)
		case "p":
			return m.markPaid()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m InvoicesModel) markPaid() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.invoices) {
		return m, nil
	}

	inv := m.invoices[idx]
	if inv.Status == domain.SettlementPaid {
		m.status = "Cette facture est déjà payée"
		return m, nil
	}

	m.busy = true
	m.status = ""

	return m, func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		updated, err := m.client.MarkSupplierInvoicePaid(ctx, inv.ID, domain.Today())
		if err != nil {
			return routeErr(err, invoicePaidMsg{err: err})
		}

		return invoicePaidMsg{invoice: *updated}
	}
}

type invoicePaidMsg struct {
	invoice domain.SupplierInvoice
	err     error
}

func (m *InvoicesModel) refreshTable() {
	m.invoices = m.snap.Invoices.All()

	rows := make([]table.Row, 0, len(m.invoices))

	for _, inv := range m.invoices {
		supplier := inv.SupplierName
		if supplier == "" {
			if s, ok := m.snap.Suppliers.Get(inv.SupplierID); ok {
				supplier = s.Name
			} else {
				supplier = "Inconnu"
			}
		}

		building := inv.BuildingName

		var currency domain.Currency

		if b, ok := m.snap.Buildings.Get(inv.BuildingID); ok {
			if building == "" {
				building = b.Name
			}

			currency = b.Currency
		}

		status := "non payée"
		if inv.Status == domain.SettlementPaid {
			status = "payée"
		}

		issue := inv.IssueDate

		rows = append(rows, table.Row{
			FormatDate(&issue),
			supplier,
			building,
			FormatAmount(inv.Amount, currency),
			status,
			FormatDate(inv.PaymentDate),
		})
	}

	m.table.SetRows(rows)
}

func (m InvoicesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Chargement des factures...")
	}

	if m.busy {
		return lipgloss.NewStyle().Padding(2).Render("Enregistrement du paiement...")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
		lipgloss.NewStyle().Faint(true).Render("[p] marquer payée | [r] actualiser | Esc retour"),
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	if m.errText != "" {
		content = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.errText) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
