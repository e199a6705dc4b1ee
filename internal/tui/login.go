package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fidd-app/fidd/internal/forms"
	"github.com/fidd-app/fidd/pkg/client"
	"github.com/fidd-app/fidd/pkg/domain"
)

// loginDoneMsg carries the outcome of a sign-in attempt. The root model
// intercepts it to persist the session and run the deletion-status check.
type loginDoneMsg struct {
	auth *domain.AuthResponse
	err  error
}

// switchToRegisterMsg moves from the login screen to registration.
type switchToRegisterMsg struct{}

const (
	loginFieldEmail = iota
	loginFieldPassword
	loginFieldCount
)

type loginModel struct {
	client     *client.Client
	email      string
	password   string
	focus      int
	submitting bool
	errs       forms.Errors
	errMsg     string // server-side failure line
	width      int
	height     int
}

func newLoginModel(c *client.Client) loginModel {
	return loginModel{client: c, errs: forms.Errors{}}
}

func (m loginModel) Init() tea.Cmd { return nil }

func (m loginModel) submit() (loginModel, tea.Cmd) {
	form := forms.Login{Email: m.email, Password: m.password}
	m.errs = form.Validate()
	if !m.errs.Valid() {
		return m, nil
	}
	m.submitting = true
	m.errMsg = ""
	c := m.client
	return m, func() tea.Msg {
		auth, err := c.Login(context.Background(), form.Request())
		return loginDoneMsg{auth: auth, err: err}
	}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loginDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = client.Message(msg.err, "sign in failed, try again")
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.focus = (m.focus + 1) % loginFieldCount
		case "shift+tab", "up":
			m.focus = (m.focus + loginFieldCount - 1) % loginFieldCount
		case "enter":
			return m.submit()
		case "ctrl+n":
			return m, func() tea.Msg { return switchToRegisterMsg{} }
		default:
			switch m.focus {
			case loginFieldEmail:
				m.email = editRune(m.email, msg.String())
			case loginFieldPassword:
				m.password = editRune(m.password, msg.String())
			}
		}
	}
	return m, nil
}

func (m loginModel) View() string {
	var sb strings.Builder

	sb.WriteString("\n " + sectionHeaderStyle.Render("── SIGN IN ──") + "\n\n")
	sb.WriteString(formField("email", m.email, m.focus == loginFieldEmail, false, m.errs.For("email")))
	sb.WriteString(formField("password", m.password, m.focus == loginFieldPassword, true, m.errs.For("password")))

	if m.submitting {
		sb.WriteString("\n   " + dimStyle.Render("signing in...") + "\n")
	} else if m.errMsg != "" {
		sb.WriteString("\n   " + errStyle.Render(m.errMsg) + "\n")
	}

	sb.WriteString("\n   " + dimStyle.Render("new store? press ctrl+n to register") + "\n")
	return sb.String()
}

func (m loginModel) helpKeys() string {
	return helpEntry("tab", "next field") + "  " + helpEntry("enter", "sign in") + "  " + helpEntry("ctrl+n", "register") + "  " + helpEntry("ctrl+c", "quit")
}
