package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fidd-app/fidd/internal/forms"
	"github.com/fidd-app/fidd/pkg/client"
	"github.com/fidd-app/fidd/pkg/domain"
)

// registerDoneMsg carries the outcome of a registration attempt. A new
// account is born active, so the root model goes straight to the dashboard.
type registerDoneMsg struct {
	auth *domain.AuthResponse
	err  error
}

// switchToLoginMsg moves back from registration to the login screen.
type switchToLoginMsg struct{}

const (
	regFieldTradeName = iota
	regFieldTaxID
	regFieldEmail
	regFieldPassword
	regFieldConfirm
	regFieldCount
)

type registerModel struct {
	client     *client.Client
	form       forms.Register
	focus      int
	submitting bool
	errs       forms.Errors
	errMsg     string
	width      int
	height     int
}

func newRegisterModel(c *client.Client) registerModel {
	return registerModel{client: c, errs: forms.Errors{}}
}

func (m registerModel) Init() tea.Cmd { return nil }

func (m registerModel) submit() (registerModel, tea.Cmd) {
	m.errs = m.form.Validate()
	if !m.errs.Valid() {
		return m, nil
	}
	m.submitting = true
	m.errMsg = ""
	c := m.client
	req := m.form.Request()
	return m, func() tea.Msg {
		auth, err := c.Register(context.Background(), req)
		return registerDoneMsg{auth: auth, err: err}
	}
}

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case registerDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = client.Message(msg.err, "registration failed, try again")
			// Backend field rejections land on their fields when present.
			var apiErr *client.APIError
			if errors.As(msg.err, &apiErr) {
				for field, msgs := range apiErr.Fields {
					if len(msgs) > 0 {
						m.errs[field] = msgs[0]
					}
				}
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.focus = (m.focus + 1) % regFieldCount
		case "shift+tab", "up":
			m.focus = (m.focus + regFieldCount - 1) % regFieldCount
		case "enter":
			return m.submit()
		case "esc":
			return m, func() tea.Msg { return switchToLoginMsg{} }
		default:
			key := msg.String()
			switch m.focus {
			case regFieldTradeName:
				m.form.TradeName = editRune(m.form.TradeName, key)
			case regFieldTaxID:
				m.form.TaxID = editDigits(m.form.TaxID, key)
			case regFieldEmail:
				m.form.Email = editRune(m.form.Email, key)
			case regFieldPassword:
				m.form.Password = editRune(m.form.Password, key)
			case regFieldConfirm:
				m.form.ConfirmPassword = editRune(m.form.ConfirmPassword, key)
			}
		}
	}
	return m, nil
}

func (m registerModel) View() string {
	var sb strings.Builder

	sb.WriteString("\n " + sectionHeaderStyle.Render("── REGISTER YOUR STORE ──") + "\n\n")
	sb.WriteString(formField("trade name", m.form.TradeName, m.focus == regFieldTradeName, false, m.errs.For("tradeName")))
	sb.WriteString(formField("cpf/cnpj", m.form.TaxID, m.focus == regFieldTaxID, false, m.errs.For("taxId")))
	sb.WriteString(formField("email", m.form.Email, m.focus == regFieldEmail, false, m.errs.For("email")))
	sb.WriteString(formField("password", m.form.Password, m.focus == regFieldPassword, true, m.errs.For("password")))
	sb.WriteString(formField("confirm", m.form.ConfirmPassword, m.focus == regFieldConfirm, true, m.errs.For("confirmPassword")))

	if m.submitting {
		sb.WriteString("\n   " + dimStyle.Render("creating your store...") + "\n")
	} else if m.errMsg != "" {
		sb.WriteString("\n   " + errStyle.Render(m.errMsg) + "\n")
	}
	return sb.String()
}

func (m registerModel) helpKeys() string {
	return helpEntry("tab", "next field") + "  " + helpEntry("enter", "create") + "  " + helpEntry("esc", "back") + "  " + helpEntry("ctrl+c", "quit")
}
