package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkante/gestloc/internal/api"
	"github.com/mkante/gestloc/internal/collections"
	"github.com/mkante/gestloc/internal/domain"
	"github.com/mkante/gestloc/internal/reconcile"
)

type AccountingModel struct {
	CommonModel
	snap   *collections.Snapshot
	client *api.Client

	table    table.Model
	expenses []domain.Expense

	loading bool
	busy    bool
	errText string
	status  string
}

func NewAccountingModel(snap *collections.Snapshot, client *api.Client) AccountingModel {
	columns := []table.Column{
		{Title: "Émission", Width: 12},
		{Title: "Type", Width: 18},
		{Title: "Description", Width: 26},
		{Title: "Montant", Width: 14},
		{Title: "Statut", Width: 10},
		{Title: "Payée le", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
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

	m := AccountingModel{snap: snap, client: client, table: t}
	m.refreshTable()

	return m
}

func (m AccountingModel) Init() tea.Cmd {
	return nil
}

func (m AccountingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	case expensePaidMsg:
		m.busy = false

		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}

		_ = m.snap.Expenses.Replace(msg.expense.ID, msg.expense)
		m.status = "Dépense marquée payée"
		m.errText = ""
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
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

func (m AccountingModel) markPaid() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.expenses) {
		return m, nil
	}

	exp := m.expenses[idx]
	if exp.Status == domain.SettlementPaid {
		m.status = "Cette dépense est déjà payée"
		return m, nil
	}

	m.busy = true
	m.status = ""

	return m, func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		updated, err := m.client.MarkExpensePaid(ctx, exp.ID, domain.Today())
		if err != nil {
			return routeErr(err, expensePaidMsg{err: err})
		}

		return expensePaidMsg{expense: *updated}
	}
}

type expensePaidMsg struct {
	expense domain.Expense
	err     error
}

func (m *AccountingModel) refreshTable() {
	m.expenses = m.snap.Expenses.All()

	rows := make([]table.Row, 0, len(m.expenses))

	for _, e := range m.expenses {
		status := "non payée"
		if e.Status == domain.SettlementPaid {
			status = "payée"
		}

		issue := e.IssueDate

		rows = append(rows, table.Row{
			FormatDate(&issue),
			e.Type,
			e.Description,
			FormatAmount(e.Amount, ""),
			status,
			FormatDate(e.PaymentDate),
		})
	}

	m.table.SetRows(rows)
}

func (m AccountingModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Chargement des dépenses...")
	}

	if m.busy {
		return lipgloss.NewStyle().Padding(2).Render("Enregistrement du paiement...")
	}

	// Recording an expense moves nothing; only settled amounts count.
	footer := fmt.Sprintf(
		"Dépenses payées: %s | Factures impayées: %s | Solde: %s",
		FormatAmount(reconcile.TotalPaidExpenses(m.snap), ""),
		FormatAmount(reconcile.TotalUnpaidSupplierInvoices(m.snap), ""),
		FormatAmount(reconcile.Balance(m.snap), ""),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
		lipgloss.NewStyle().PaddingTop(1).Render(footer),
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
