package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fidd-app/fidd/pkg/client"
	"github.com/fidd-app/fidd/pkg/domain"
)

// reactivatedMsg carries the outcome of cancelling a pending deletion from
// the post-login prompt.
type reactivatedMsg struct {
	status *domain.DeleteStatus
	err    error
}

// continueToDashboardMsg skips reactivation and enters the dashboard with
// the account still scheduled for deletion.
type continueToDashboardMsg struct{}

// reactivateModel is the prompt shown when a sign-in lands on an account
// that is scheduled for deletion. The owner either reactivates on the spot
// or continues with the countdown running.
type reactivateModel struct {
	client     *client.Client
	status     *domain.DeleteStatus
	submitting bool
	errMsg     string
	width      int
	height     int
}

func newReactivateModel(c *client.Client) reactivateModel {
	return reactivateModel{client: c}
}

func (m reactivateModel) Init() tea.Cmd { return nil }

func (m reactivateModel) Update(msg tea.Msg) (reactivateModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case reactivatedMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = client.Message(msg.err, "reactivation failed, try again")
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "r", "R":
			m.submitting = true
			m.errMsg = ""
			c := m.client
			return m, func() tea.Msg {
				status, err := c.CancelAccountDeletion(context.Background())
				return reactivatedMsg{status: status, err: err}
			}
		case "c", "C", "enter":
			return m, func() tea.Msg { return continueToDashboardMsg{} }
		}
	}
	return m, nil
}

func (m reactivateModel) View() string {
	var sb strings.Builder

	sb.WriteString("\n " + warnStyle.Render("── ACCOUNT SCHEDULED FOR DELETION ──") + "\n\n")

	if m.status != nil {
		if m.status.ScheduledDeletionDate != "" {
			sb.WriteString("   " + normalStyle.Render("deletion date: ") + warnStyle.Render(m.status.ScheduledDeletionDate) + "\n")
		}
		sb.WriteString("   " + normalStyle.Render(fmt.Sprintf("days remaining: %d", m.status.DaysRemaining)) + "\n")
		if m.status.Message != "" {
			sb.WriteString("   " + dimStyle.Render(m.status.Message) + "\n")
		}
	}

	sb.WriteString("\n   " + accentStyle.Render("r") + " " + normalStyle.Render("reactivate now") + "\n")
	sb.WriteString("   " + accentStyle.Render("c") + " " + normalStyle.Render("continue to dashboard") + "\n")

	if m.submitting {
		sb.WriteString("\n   " + dimStyle.Render("reactivating...") + "\n")
	} else if m.errMsg != "" {
		sb.WriteString("\n   " + errStyle.Render(m.errMsg) + "\n")
	}
	return sb.String()
}

func (m reactivateModel) helpKeys() string {
	return helpEntry("r", "reactivate") + "  " + helpEntry("c", "continue") + "  " + helpEntry("ctrl+c", "quit")
}
