package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkante/gestloc/internal/api"
	"github.com/mkante/gestloc/internal/collections"
	"github.com/mkante/gestloc/internal/domain"
	"github.com/mkante/gestloc/internal/lease"
)

type leasesState int

const (
	leasesStateBrowse leasesState = iota
	leasesStateExitForm
	leasesStateConfirm
	leasesStateSubmitting
	leasesStateResult
)

type LeasesModel struct {
	CommonModel
	snap    *collections.Snapshot
	gw      collections.Gateway
	exitSvc *lease.Service

	state   leasesState
	table   table.Model
	leases  []domain.Lease
	spinner spinner.Model

	exit    *lease.Exit
	form    *huh.Form
	confirm *huh.Form
	result  *lease.Result

	loading bool
	errText string
}

func NewLeasesModel(snap *collections.Snapshot, gw collections.Gateway, exitSvc *lease.Service) LeasesModel {
	columns := []table.Column{
		{Title: "Locataire", Width: 22},
		{Title: "Appartement", Width: 12},
		{Title: "Début", Width: 12},
		{Title: "Fin", Width: 12},
		{Title: "Loyer", Width: 14},
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

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := LeasesModel{
		snap:    snap,
		gw:      gw,
		exitSvc: exitSvc,
		table:   t,
		spinner: sp,
	}
	m.refreshTable()

	return m
}

func (m LeasesModel) Init() tea.Cmd {
	return nil
}

func (m LeasesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	case exitResultMsg:
		// Ignore a stale result after the user left the flow.
		if m.state != leasesStateSubmitting {
			return m, nil
		}

		if msg.err != nil {
			// The form keeps its values and its idempotency key; the user
			// can fix and retry.
			m.state = leasesStateExitForm
			m.errText = msg.err.Error()
			m.form = m.buildExitForm()

			return m, m.form.Init()
		}

		m.state = leasesStateResult
		m.result = msg.result
		m.errText = ""
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case leasesStateBrowse:
		return m.updateBrowse(msg)
	case leasesStateExitForm:
		return m.updateExitForm(msg)
	case leasesStateConfirm:
		return m.updateConfirm(msg)
	case leasesStateSubmitting:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case leasesStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.state = leasesStateBrowse
			m.result = nil
			m.table.Focus()
		}

		return m, nil
	}

	return m, nil
}

func (m LeasesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, RefreshCmd(m.snap, m.gw)
		case "t":
			return m.openExit(api.MotifTermination)
		case "f":
			return m.openExit(api.MotifContractEnd)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m LeasesModel) openExit(motif api.ExitMotif) (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.leases) {
		return m, nil
	}

	exit, err := m.exitSvc.OpenExit(m.leases[idx], motif)
	if err != nil {
		m.errText = err.Error()
		return m, nil
	}

	m.exit = exit
	m.errText = ""
	m.form = m.buildExitForm()
	m.state = leasesStateExitForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m LeasesModel) buildExitForm() *huh.Form {
	exitDate := m.exit.ExitDate.String()
	amount := strconv.FormatInt(int64(m.exit.RestitutionAmount), 10)
	note := m.exit.InspectionNote
	comment := m.exit.RestitutionComment

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("date").
				Title("Date de sortie").
				Description("AAAA-MM-JJ").
				Value(&exitDate).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("date invalide")
					}

					return nil
				}),

			huh.NewText().
				Key("note").
				Title("État des lieux").
				Value(&note),

			huh.NewInput().
				Key("amount").
				Title("Montant restitué").
				Value(&amount).
				Validate(func(s string) error {
					n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
					if err != nil || n < 0 {
						return fmt.Errorf("montant invalide")
					}

					return nil
				}),

			huh.NewInput().
				Key("comment").
				Title("Commentaire restitution").
				Value(&comment),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m LeasesModel) updateExitForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = leasesStateBrowse
		m.exit = nil
		m.form = nil
		m.errText = ""
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	// Carry the edited values into the pending exit.
	if d, err := time.Parse(time.DateOnly, strings.TrimSpace(m.form.GetString("date"))); err == nil {
		m.exit.ExitDate = domain.DateOf(d)
	}

	if n, err := strconv.ParseInt(strings.TrimSpace(m.form.GetString("amount")), 10, 64); err == nil {
		m.exit.RestitutionAmount = domain.Amount(n)
	}

	m.exit.InspectionNote = m.form.GetString("note")
	m.exit.RestitutionComment = m.form.GetString("comment")

	m.confirm = m.buildConfirmForm()
	m.state = leasesStateConfirm

	return m, m.confirm.Init()
}

func (m LeasesModel) buildConfirmForm() *huh.Form {
	motif := "fin de contrat"
	if m.exit.Motif == api.MotifTermination {
		motif = "résiliation"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("ok").
				Title(fmt.Sprintf("Clôturer le contrat de %s (%s) ?", m.exit.TenantName, m.exit.UnitLabel)).
				Description(fmt.Sprintf("Motif: %s, sortie le %s, restitution %s",
					motif, m.exit.ExitDate, FormatAmount(m.exit.RestitutionAmount, ""))).
				Affirmative("Confirmer").
				Negative("Annuler"),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m LeasesModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = leasesStateExitForm
		m.form = m.buildExitForm()

		return m, m.form.Init()
	}

	form, cmd := m.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm = f
	}

	if m.confirm.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.confirm.GetBool("ok") {
		m.state = leasesStateBrowse
		m.exit = nil
		m.table.Focus()

		return m, nil
	}

	// The submit control is gone while the request is in flight; a second
	// enter cannot double-submit.
	m.state = leasesStateSubmitting

	return m, tea.Batch(m.spinner.Tick, m.submitCmd(m.exit))
}

type exitResultMsg struct {
	result *lease.Result
	err    error
}

func (m LeasesModel) submitCmd(exit *lease.Exit) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		result, err := m.exitSvc.Submit(ctx, exit)
		if err != nil {
			return routeErr(err, exitResultMsg{err: err})
		}

		return exitResultMsg{result: result}
	}
}

func (m *LeasesModel) refreshTable() {
	m.leases = m.snap.Leases.All()

	rows := make([]table.Row, 0, len(m.leases))

	for _, l := range m.leases {
		tenant := l.TenantName
		if tenant == "" {
			if t, ok := m.snap.Tenants.Get(l.TenantID); ok {
				tenant = t.Name
			} else {
				tenant = "Inconnu"
			}
		}

		unit := l.UnitLabel
		if unit == "" {
			if u, ok := m.snap.Units.Get(l.UnitID); ok {
				unit = u.Label
			} else {
				unit = "Inconnu"
			}
		}

		status := "actif"
		if l.Status == domain.LeaseEnded || !l.Ongoing() {
			status = "clôturé"
		}

		start := l.StartDate

		rows = append(rows, table.Row{
			tenant,
			unit,
			FormatDate(&start),
			FormatDate(l.EndDate),
			FormatAmount(l.MonthlyRent, ""),
			status,
		})
	}

	m.table.SetRows(rows)
}

func (m LeasesModel) View() string {
	switch m.state {
	case leasesStateSubmitting:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Enregistrement de la sortie...", m.spinner.View()),
		)

	case leasesStateResult:
		return m.viewResult()
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Chargement des contrats...")
	}

	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	help := "[t] résiliation | [f] fin de contrat | [r] actualiser | Esc retour"
	content = lipgloss.JoinVertical(lipgloss.Left, content, lipgloss.NewStyle().Faint(true).Render(help))

	if m.errText != "" {
		content = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.errText) + "\n" + content
	}

	if (m.state == leasesStateExitForm && m.form != nil) || (m.state == leasesStateConfirm && m.confirm != nil) {
		title := "Sortie de contrat"
		body := ""

		switch m.state {
		case leasesStateExitForm:
			body = m.form.View()
		case leasesStateConfirm:
			body = m.confirm.View()
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(56).
			Render(fmt.Sprintf("%s\n\n%s - %s\n\n%s", title, m.exit.TenantName, m.exit.UnitLabel, body))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m LeasesModel) viewResult() string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render(m.result.Message)

	lines := []string{header}

	if m.result.UnpaidWarning != "" {
		lines = append(lines, "",
			lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Render("Attention: "+m.result.UnpaidWarning))
	}

	if m.result.RestitutionID != nil {
		lines = append(lines, "", fmt.Sprintf("Restitution enregistrée (n° %d)", *m.result.RestitutionID))
	}

	if m.result.InspectionID != nil {
		lines = append(lines, fmt.Sprintf("État des lieux enregistré (n° %d)", *m.result.InspectionID))
	}

	lines = append(lines, "", "(Esc pour revenir)")

	return lipgloss.NewStyle().Padding(2).Render(strings.Join(lines, "\n"))
}
