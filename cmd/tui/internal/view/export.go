package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkante/gestloc/internal/export"
	"github.com/mkante/gestloc/internal/reconcile"
)

type exportState int

const (
	exportStateForm exportState = iota
	exportStateExporting
	exportStateResult
)

type reportKind string

const (
	reportJournal reportKind = "journal"
	reportUnpaid  reportKind = "impayes"
	reportSummary reportKind = "synthese"
)

type ExportModel struct {
	CommonModel
	exportService *export.Service

	state   exportState
	form    *huh.Form
	spinner spinner.Model

	err     error
	path    string
	summary string
}

func NewExportModel(svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ExportModel{
		exportService: svc,
		spinner:       s,
	}
	m.form = m.buildForm()

	return m
}

func (m ExportModel) buildForm() *huh.Form {
	path := "./exports"

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[reportKind]().
				Key("report").
				Title("Rapport").
				Options(
					huh.NewOption("Journal des paiements", reportJournal),
					huh.NewOption("Impayés", reportUnpaid),
					huh.NewOption("Synthèse", reportSummary),
				),

			huh.NewInput().
				Key("path").
				Title("Dossier de destination").
				Description("Créé s'il n'existe pas").
				Placeholder("./exports").
				Value(&path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case exportStateForm:
		return m.updateForm(msg)

	case exportStateExporting:
		if result, ok := msg.(exportResultMsg); ok {
			m.state = exportStateResult
			m.err = result.err
			m.summary = result.body

			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case exportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}

		return m, nil
	}

	return m, nil
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	kind := m.form.Get("report").(reportKind)

	m.path = m.form.GetString("path")
	if m.path == "" {
		m.path = "./exports"
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(kind, m.path))
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Export en cours...", m.spinner.View()),
		)

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Erreur: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Export terminé")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			m.summary,
			"",
			"(Esc pour revenir)",
		),
	)
}

type exportResultMsg struct {
	body string
	err  error
}

func (m ExportModel) runExportCmd(kind reportKind, path string) tea.Cmd {
	return func() tea.Msg {
		filter := reconcile.Filter{}

		var (
			file string
			err  error
		)

		switch kind {
		case reportJournal:
			file, err = m.exportService.PaymentsJournal(path, filter)
		case reportUnpaid:
			file, err = m.exportService.UnpaidReport(path, filter)
		case reportSummary:
			file, err = m.exportService.DashboardSummary(path, filter)
		}

		if err != nil {
			return exportResultMsg{err: err}
		}

		body := fmt.Sprintf("Fichier: %s\n\n%s", file, m.exportService.SummaryText(filter))

		return exportResultMsg{body: body}
	}
}
