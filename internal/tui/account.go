package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fidd-app/fidd/internal/forms"
	"github.com/fidd-app/fidd/pkg/client"
	"github.com/fidd-app/fidd/pkg/domain"
)

// accountState is the state machine for the account tab.
type accountState int

const (
	aNormal        accountState = iota
	aConfirmDelete              // password + confirmation form
	aCancelConfirm              // y/n prompt for reactivation
)

// -- messages --

type accountStatusMsg struct {
	status *domain.DeleteStatus
	seq    int
	err    error
}

func (msg accountStatusMsg) loadErr() error { return msg.err }

// deletionScheduledMsg reports the outcome of a deletion request. On
// success the root model signs the session out.
type deletionScheduledMsg struct {
	status *domain.DeleteStatus
	err    error
}

func (msg deletionScheduledMsg) loadErr() error { return msg.err }

type deletionCancelledMsg struct {
	status *domain.DeleteStatus
	err    error
}

func (msg deletionCancelledMsg) loadErr() error { return msg.err }

// signOutMsg asks the root model to clear the session and show login.
type signOutMsg struct{}

const (
	aFieldPassword = iota
	aFieldConfirm
	aFieldCount
)

type accountModel struct {
	client    *client.Client
	user      *domain.User
	status    *domain.DeleteStatus
	loadSeq   int
	loading   bool
	err       string
	state     accountState
	statusMsg string
	width     int
	height    int

	form       forms.DeleteAccount
	formFocus  int
	formErrs   forms.Errors
	submitting bool
}

func newAccountModel(c *client.Client) accountModel {
	return accountModel{client: c, loading: true, formErrs: forms.Errors{}}
}

func (m accountModel) Init() tea.Cmd {
	return m.load()
}

// enter re-fetches the deletion status so the tab never shows stale
// countdown numbers.
func (m accountModel) enter() (accountModel, tea.Cmd) {
	m.loading = true
	m.loadSeq++
	return m, m.load()
}

func (m accountModel) load() tea.Cmd {
	seq := m.loadSeq
	c := m.client
	return func() tea.Msg {
		status, err := c.DeleteStatus(context.Background())
		return accountStatusMsg{status: status, seq: seq, err: err}
	}
}

func (m accountModel) Update(msg tea.Msg) (accountModel, tea.Cmd) {
	switch msg := msg.(type) {
	case accountStatusMsg:
		if msg.seq != m.loadSeq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err, "could not load account status")
		} else {
			m.status = msg.status
			m.err = ""
		}
		return m, nil

	case deletionScheduledMsg:
		// Success never reaches here; the root model signs out first.
		m.submitting = false
		if msg.err != nil {
			m.statusMsg = errStyle.Render(client.Message(msg.err, "deletion request failed"))
			if client.IsStatus(msg.err, 403) || client.IsStatus(msg.err, 400) {
				m.formErrs["password"] = "Password incorrect"
			}
		}
		return m, nil

	case deletionCancelledMsg:
		m.submitting = false
		if msg.err != nil {
			m.statusMsg = errStyle.Render(client.Message(msg.err, "reactivation failed"))
		} else {
			m.status = msg.status
			m.statusMsg = okStyle.Render("account reactivated")
		}
		m.state = aNormal
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		return m.handleKey(msg)
	}
	return m, nil
}

func (m accountModel) handleKey(msg tea.KeyMsg) (accountModel, tea.Cmd) {
	switch m.state {
	case aConfirmDelete:
		return m.handleKeyConfirmDelete(msg)
	case aCancelConfirm:
		return m.handleKeyCancelConfirm(msg)
	}

	switch msg.String() {
	case "d":
		if m.status != nil && !m.status.PendingDeletion() {
			m.state = aConfirmDelete
			m.form = forms.DeleteAccount{}
			m.formFocus = 0
			m.formErrs = forms.Errors{}
		}

	case "c":
		if m.status != nil && m.status.PendingDeletion() {
			m.state = aCancelConfirm
		}

	case "o":
		return m, func() tea.Msg { return signOutMsg{} }

	case "r":
		return m.enter()
	}
	return m, nil
}

func (m accountModel) handleKeyConfirmDelete(msg tea.KeyMsg) (accountModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	switch msg.String() {
	case "tab", "down":
		m.formFocus = (m.formFocus + 1) % aFieldCount
	case "shift+tab", "up":
		m.formFocus = (m.formFocus + aFieldCount - 1) % aFieldCount
	case "enter":
		m.formErrs = m.form.Validate()
		if !m.formErrs.Valid() {
			return m, nil
		}
		m.submitting = true
		c := m.client
		password := m.form.Password
		return m, func() tea.Msg {
			status, err := c.RequestAccountDeletion(context.Background(), password)
			return deletionScheduledMsg{status: status, err: err}
		}
	case "esc":
		m.state = aNormal
		m.form = forms.DeleteAccount{}
		m.formErrs = forms.Errors{}
	default:
		key := msg.String()
		switch m.formFocus {
		case aFieldPassword:
			m.form.Password = editRune(m.form.Password, key)
		case aFieldConfirm:
			m.form.ConfirmPassword = editRune(m.form.ConfirmPassword, key)
		}
	}
	return m, nil
}

func (m accountModel) handleKeyCancelConfirm(msg tea.KeyMsg) (accountModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.submitting = true
		c := m.client
		return m, func() tea.Msg {
			status, err := c.CancelAccountDeletion(context.Background())
			return deletionCancelledMsg{status: status, err: err}
		}
	case "n", "N", "esc":
		m.state = aNormal
	}
	return m, nil
}

func (m accountModel) View() string {
	var sb strings.Builder
	sb.WriteString("\n " + sectionHeaderStyle.Render("── ACCOUNT ──") + "\n\n")

	if m.user != nil {
		sb.WriteString("   " + selectedStyle.Render(m.user.TradeName) + "\n")
		sb.WriteString("   " + dimStyle.Render(m.user.Email) + "\n\n")
	}

	if m.loading && m.status == nil {
		sb.WriteString("   " + dimStyle.Render("loading status...") + "\n")
		return sb.String()
	}
	if m.err != "" && m.status == nil {
		sb.WriteString("   " + errStyle.Render("error: "+m.err) + "\n")
		return sb.String()
	}

	if m.statusMsg != "" {
		sb.WriteString("   " + m.statusMsg + "\n\n")
	}

	switch m.state {
	case aConfirmDelete:
		sb.WriteString("   " + errStyle.Render("request account deletion") + "\n")
		sb.WriteString("   " + dimStyle.Render("your store stays recoverable for 30 days") + "\n\n")
		sb.WriteString(formField("password", m.form.Password, m.formFocus == aFieldPassword, true, m.formErrs.For("password")))
		sb.WriteString(formField("confirm", m.form.ConfirmPassword, m.formFocus == aFieldConfirm, true, m.formErrs.For("confirmPassword")))
		if m.submitting {
			sb.WriteString("\n   " + dimStyle.Render("requesting...") + "\n")
		}
		return sb.String()

	case aCancelConfirm:
		sb.WriteString(m.renderStatus())
		sb.WriteString("\n   " + warnStyle.Render("reactivate your account? ") +
			accentStyle.Render("y") + dimStyle.Render("/") + dimStyle.Render("n") + "\n")
		return sb.String()
	}

	sb.WriteString(m.renderStatus())

	sb.WriteString("\n")
	if m.status != nil && m.status.PendingDeletion() {
		sb.WriteString("   " + accentStyle.Render("c") + " " + normalStyle.Render("cancel deletion") + "\n")
	} else {
		sb.WriteString("   " + accentStyle.Render("d") + " " + normalStyle.Render("delete account") + "\n")
	}
	sb.WriteString("   " + accentStyle.Render("o") + " " + normalStyle.Render("sign out") + "\n")
	return sb.String()
}

func (m accountModel) renderStatus() string {
	if m.status == nil {
		return ""
	}
	var sb strings.Builder
	if m.status.PendingDeletion() {
		sb.WriteString("   " + warnStyle.Render("status: scheduled for deletion") + "\n")
		if m.status.ScheduledDeletionDate != "" {
			sb.WriteString("   " + normalStyle.Render("deletion date: ") + warnStyle.Render(m.status.ScheduledDeletionDate) + "\n")
		}
		sb.WriteString("   " + normalStyle.Render(fmt.Sprintf("days remaining: %d", m.status.DaysRemaining)) + "\n")
		if m.status.Message != "" {
			sb.WriteString("   " + dimStyle.Render(m.status.Message) + "\n")
		}
	} else {
		sb.WriteString("   " + okStyle.Render("status: active") + "\n")
	}
	return sb.String()
}

// helpKeys returns context-sensitive help text based on the current state.
func (m accountModel) helpKeys() string {
	switch m.state {
	case aConfirmDelete:
		return helpEntry("tab", "next") + "  " + helpEntry("enter", "confirm") + "  " + helpEntry("esc", "cancel")
	case aCancelConfirm:
		return helpEntry("y", "confirm") + "  " + helpEntry("n", "cancel")
	default:
		if m.status != nil && m.status.PendingDeletion() {
			return helpEntry("c", "cancel deletion") + "  " + helpEntry("o", "sign out") + "  " + helpEntry("r", "refresh") + "  " + helpEntry("q", "quit")
		}
		return helpEntry("d", "delete account") + "  " + helpEntry("o", "sign out") + "  " + helpEntry("r", "refresh") + "  " + helpEntry("q", "quit")
	}
}
