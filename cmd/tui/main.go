package main

import (
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/mkante/gestloc/cmd/tui/internal/view"
	"github.com/mkante/gestloc/internal/api"
	"github.com/mkante/gestloc/internal/collections"
	"github.com/mkante/gestloc/internal/config"
	"github.com/mkante/gestloc/internal/export"
	"github.com/mkante/gestloc/internal/lease"
	"github.com/mkante/gestloc/internal/session"
)

type model struct {
	client    *api.Client
	session   *session.Session
	snap      *collections.Snapshot
	leaseSvc  *lease.Service
	exportSvc *export.Service

	currentView View

	loginView      view.LoginModel
	dashboardView  view.DashboardModel
	leasesView     view.LeasesModel
	paymentsView   view.PaymentsModel
	invoicesView   view.InvoicesModel
	accountingView view.AccountingModel
	exportView     view.ExportModel
}

type View int

const (
	ViewLogin View = iota
	ViewMenu
	ViewDashboard
	ViewLeases
	ViewPayments
	ViewInvoices
	ViewAccounting
	ViewExport
)

func initialModel() model {
	_ = godotenv.Load()

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		TimeFormat: time.Kitchen,
	})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	sess, err := session.Load(cfg.Session.Path)
	if err != nil {
		slog.Error("failed to load session", "error", err)
		os.Exit(1)
	}

	client := api.New(cfg.API.BaseURL, cfg.API.Timeout, sess)
	snap := collections.NewSnapshot()

	m := model{
		client:    client,
		session:   sess,
		snap:      snap,
		leaseSvc:  lease.NewService(client, snap),
		exportSvc: export.NewService(snap),
		loginView: view.NewLoginModel(client, sess),
	}

	// A stored, unexpired token skips the login form; the first 401 will
	// route back here anyway.
	if sess.Token() != "" && !sess.Expired(time.Now()) {
		m.currentView = ViewMenu
	} else {
		m.currentView = ViewLogin
	}

	return m
}

func (m model) Init() tea.Cmd {
	if m.currentView == ViewLogin {
		return m.loginView.Init()
	}

	return view.RefreshCmd(m.snap, m.client)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case view.SessionExpiredMsg:
		m.currentView = ViewLogin
		m.loginView = view.NewLoginModel(m.client, m.session)

		return m, m.loginView.Init()

	case view.LoggedInMsg:
		m.currentView = ViewMenu
		return m, view.RefreshCmd(m.snap, m.client)

	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "T":
				m.toggleTheme()
				return m, nil
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.snap, m.client)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewLeases
				m.leasesView = view.NewLeasesModel(m.snap, m.client, m.leaseSvc)

				return m, m.leasesView.Init()
			case "3":
				m.currentView = ViewPayments
				m.paymentsView = view.NewPaymentsModel(m.snap, m.client)

				return m, m.paymentsView.Init()
			case "4":
				m.currentView = ViewInvoices
				m.invoicesView = view.NewInvoicesModel(m.snap, m.client)

				return m, m.invoicesView.Init()
			case "5":
				m.currentView = ViewAccounting
				m.accountingView = view.NewAccountingModel(m.snap, m.client)

				return m, m.accountingView.Init()
			case "6":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportSvc)

				return m, m.exportView.Init()
			}
		}

	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewLogin:
		var newModel tea.Model
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewLeases:
		var newModel tea.Model
		newModel, cmd = m.leasesView.Update(msg)
		m.leasesView = newModel.(view.LeasesModel)
	case ViewPayments:
		var newModel tea.Model
		newModel, cmd = m.paymentsView.Update(msg)
		m.paymentsView = newModel.(view.PaymentsModel)
	case ViewInvoices:
		var newModel tea.Model
		newModel, cmd = m.invoicesView.Update(msg)
		m.invoicesView = newModel.(view.InvoicesModel)
	case ViewAccounting:
		var newModel tea.Model
		newModel, cmd = m.accountingView.Update(msg)
		m.accountingView = newModel.(view.AccountingModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m *model) toggleTheme() {
	next := session.ThemeDark
	if m.session.Theme() == session.ThemeDark {
		next = session.ThemeLight
	}

	if err := m.session.SetTheme(next); err != nil {
		slog.Error("failed to persist theme", "error", err)
	}
}

func (m model) View() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewMenu:
		return m.viewMenu()
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewLeases:
		return m.leasesView.View()
	case ViewPayments:
		return m.paymentsView.View()
	case ViewInvoices:
		return m.invoicesView.View()
	case ViewAccounting:
		return m.accountingView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Vue inconnue"
}

func (m model) viewMenu() string {
	titleColor := lipgloss.Color("63")
	if m.session.Theme() == session.ThemeDark {
		titleColor = lipgloss.Color("205")
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(titleColor).Render("GestLoc")

	return lipgloss.NewStyle().Padding(2).Render(
		title + "\n\n" +
			"1. Tableau de bord\n" +
			"2. Contrats\n" +
			"3. Paiements\n" +
			"4. Factures fournisseurs\n" +
			"5. Comptabilité\n" +
			"6. Export\n\n" +
			"T. Thème | q. Quitter",
	)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
