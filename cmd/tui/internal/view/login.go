package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkante/gestloc/internal/api"
	"github.com/mkante/gestloc/internal/domain"
	"github.com/mkante/gestloc/internal/session"
)

// LoggedInMsg carries the authenticated account to the root model.
type LoggedInMsg struct {
	User domain.User
}

type LoginModel struct {
	CommonModel
	client  *api.Client
	session *session.Session

	form    *huh.Form
	email   string
	pass    string
	busy    bool
	errText string
}

func NewLoginModel(client *api.Client, sess *session.Session) LoginModel {
	m := LoginModel{client: client, session: sess}
	m.form = m.buildForm()

	return m
}

func (m LoginModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("email").
				Title("Email").
				Value(&m.email),

			huh.NewInput().
				Key("password").
				Title("Mot de passe").
				EchoMode(huh.EchoModePassword).
				Value(&m.pass),
		),
	).WithWidth(40).WithShowHelp(false)
}

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(loginResultMsg); ok {
		m.busy = false

		if result.err != nil {
			m.errText = result.err.Error()
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		return m, func() tea.Msg { return LoggedInMsg{User: result.user} }
	}

	if m.busy {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.busy = true
	m.errText = ""

	return m, m.loginCmd(m.form.GetString("email"), m.form.GetString("password"))
}

func (m LoginModel) View() string {
	if m.busy {
		return lipgloss.NewStyle().Padding(2).Render("Connexion...")
	}

	content := "GestLoc\n\n" + m.form.View()

	if m.errText != "" {
		content += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.errText)
	}

	return lipgloss.NewStyle().Padding(2).Render(content)
}

type loginResultMsg struct {
	user domain.User
	err  error
}

func (m LoginModel) loginCmd(email, pass string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		user, token, err := m.client.Login(ctx, email, pass)
		if err != nil {
			return loginResultMsg{err: err}
		}

		if err := m.session.SetToken(token); err != nil {
			return loginResultMsg{err: fmt.Errorf("enregistrement de la session: %w", err)}
		}

		return loginResultMsg{user: *user}
	}
}
