// Package tui implements the FIDD terminal dashboard for store owners.
// The root App model owns the screen flow (login, registration, the
// pending-deletion prompt, the dashboard) and routes messages to the
// per-tab sub-models.
package tui

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fidd-app/fidd/pkg/client"
	"github.com/fidd-app/fidd/pkg/domain"
)

type screen int

const (
	screenLogin screen = iota
	screenRegister
	screenReactivate
	screenDashboard
)

type view int

const (
	viewHome view = iota
	viewCampaigns
	viewInvitations
	viewAccount
)

// SessionStore persists credentials across runs. *session.Store satisfies it.
type SessionStore interface {
	Save(*domain.AuthResponse) error
	Clear()
	User() *domain.User
	Authenticated() bool
}

// errCarrier is implemented by every load-result message so the root model
// can spot an expired token no matter which call tripped it.
type errCarrier interface {
	loadErr() error
}

// deleteStatusCheckedMsg is the post-login lifecycle check. A pending
// deletion routes through the reactivation prompt before the dashboard.
type deleteStatusCheckedMsg struct {
	status *domain.DeleteStatus
	err    error
}

func (msg deleteStatusCheckedMsg) loadErr() error { return msg.err }

// App is the root Bubbletea model.
type App struct {
	client   *client.Client
	sessions SessionStore
	csvDir   string

	screen screen
	view   view

	login       loginModel
	register    registerModel
	reactivate  reactivateModel
	home        homeModel
	campaigns   campaignsModel
	invitations invitationsModel
	account     accountModel

	user   *domain.User
	notice string // one-line banner under the body
	width  int
	height int
	frame  int // logo shimmer animation frame
}

// NewApp creates the TUI application. A hydrated session skips the login
// screen; the deletion-status check still runs before the dashboard is
// trusted.
func NewApp(c *client.Client, sessions SessionStore, csvDir string) App {
	a := App{
		client:      c,
		sessions:    sessions,
		csvDir:      csvDir,
		login:       newLoginModel(c),
		register:    newRegisterModel(c),
		reactivate:  newReactivateModel(c),
		home:        newHomeModel(c),
		campaigns:   newCampaignsModel(c),
		invitations: newInvitationsModel(c, csvDir),
		account:     newAccountModel(c),
	}
	if sessions != nil && sessions.Authenticated() {
		a.screen = screenDashboard
		a.user = sessions.User()
		a.account.user = a.user
	}
	return a
}

func (a App) Init() tea.Cmd {
	if a.screen == screenDashboard {
		return tea.Batch(shimmerTickCmd(), a.home.Init(), a.checkDeleteStatus())
	}
	return shimmerTickCmd()
}

func (a App) checkDeleteStatus() tea.Cmd {
	c := a.client
	return func() tea.Msg {
		status, err := c.DeleteStatus(context.Background())
		return deleteStatusCheckedMsg{status: status, err: err}
	}
}

// enterDashboard switches to the dashboard home tab with fresh metrics.
func (a App) enterDashboard() (App, tea.Cmd) {
	a.screen = screenDashboard
	a.view = viewHome
	a.account.user = a.user
	var cmd tea.Cmd
	a.home, cmd = a.home.enter()
	return a, cmd
}

// signOut clears local state and returns to the login screen. The stored
// session is already cleared by the caller (or by the 401 hook).
func (a App) signOut(notice string) (App, tea.Cmd) {
	c := a.client
	a.screen = screenLogin
	a.view = viewHome
	a.user = nil
	a.notice = notice
	a.login = newLoginModel(c)
	a.register = newRegisterModel(c)
	a.reactivate = newReactivateModel(c)
	a.home = newHomeModel(c)
	a.campaigns = newCampaignsModel(c)
	a.invitations = newInvitationsModel(c, a.csvDir)
	a.account = newAccountModel(c)
	return a, nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// An expired token anywhere drops back to login. The client's 401 hook
	// has already cleared the stored credentials by the time this runs.
	if ec, ok := msg.(errCarrier); ok && a.screen == screenDashboard {
		if err := ec.loadErr(); err != nil && client.IsStatus(err, http.StatusUnauthorized) {
			if a.sessions != nil {
				a.sessions.Clear()
			}
			return a.signOut("session expired, sign in again")
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + notice(1) + help(1) = 5 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 5}
		a.login, _ = a.login.Update(bodyMsg)
		a.register, _ = a.register.Update(bodyMsg)
		a.reactivate, _ = a.reactivate.Update(bodyMsg)
		a.home, _ = a.home.Update(bodyMsg)
		a.campaigns, _ = a.campaigns.Update(bodyMsg)
		a.invitations, _ = a.invitations.Update(bodyMsg)
		a.account, _ = a.account.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case loginDoneMsg:
		if msg.err == nil && msg.auth != nil {
			u := msg.auth.User()
			a.user = &u
			a.notice = ""
			if a.sessions != nil {
				if err := a.sessions.Save(msg.auth); err != nil {
					a.notice = "could not persist session: " + err.Error()
				}
			}
			// Login screen keeps its spinner while the lifecycle check runs.
			return a, a.checkDeleteStatus()
		}
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a, cmd

	case registerDoneMsg:
		if msg.err == nil && msg.auth != nil {
			u := msg.auth.User()
			a.user = &u
			a.notice = "welcome, " + u.TradeName
			if a.sessions != nil {
				if err := a.sessions.Save(msg.auth); err != nil {
					a.notice = "could not persist session: " + err.Error()
				}
			}
			return a.enterDashboard()
		}
		var cmd tea.Cmd
		a.register, cmd = a.register.Update(msg)
		return a, cmd

	case deleteStatusCheckedMsg:
		// Only meaningful on the way in from login or session restore.
		if a.screen == screenDashboard || a.screen == screenLogin {
			if msg.err == nil && msg.status != nil && msg.status.PendingDeletion() {
				a.screen = screenReactivate
				a.reactivate = newReactivateModel(a.client)
				a.reactivate.status = msg.status
				return a, nil
			}
			if a.screen == screenLogin {
				// Check failed or account is active: either way, proceed.
				return a.enterDashboard()
			}
		}
		return a, nil

	case reactivatedMsg:
		if msg.err == nil {
			a.notice = "account reactivated"
			return a.enterDashboard()
		}
		var cmd tea.Cmd
		a.reactivate, cmd = a.reactivate.Update(msg)
		return a, cmd

	case continueToDashboardMsg:
		return a.enterDashboard()

	case switchToRegisterMsg:
		a.screen = screenRegister
		a.register = newRegisterModel(a.client)
		return a, nil

	case switchToLoginMsg:
		a.screen = screenLogin
		a.login = newLoginModel(a.client)
		return a, nil

	case signOutMsg:
		if a.sessions != nil {
			a.sessions.Clear()
		}
		return a.signOut("signed out")

	case deletionScheduledMsg:
		if msg.err == nil {
			if a.sessions != nil {
				a.sessions.Clear()
			}
			notice := "account deletion scheduled"
			if msg.status != nil && msg.status.DaysRemaining > 0 {
				notice = fmt.Sprintf("deletion scheduled · sign in within %d days to undo", msg.status.DaysRemaining)
			}
			return a.signOut(notice)
		}
		var cmd tea.Cmd
		a.account, cmd = a.account.Update(msg)
		return a, cmd

	case showInvitationsMsg:
		a.view = viewInvitations
		a.invitations.preselect(msg.campaign)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		a.notice = ""

		if a.screen == screenDashboard && !a.isEditing() {
			var cmd tea.Cmd
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "1":
				if a.view != viewHome {
					a.view = viewHome
					a.home, cmd = a.home.enter()
				}
				return a, cmd
			case "2":
				if a.view != viewCampaigns {
					a.view = viewCampaigns
					a.campaigns, cmd = a.campaigns.enter()
				}
				return a, cmd
			case "3":
				if a.view != viewInvitations {
					a.view = viewInvitations
					a.invitations, cmd = a.invitations.enter()
				}
				return a, cmd
			case "4":
				if a.view != viewAccount {
					a.view = viewAccount
					a.account.user = a.user
					a.account, cmd = a.account.enter()
				}
				return a, cmd
			}
		}
	}

	return a.route(msg)
}

// route forwards a message to the model that owns the active screen.
func (a App) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case screenLogin:
		a.login, cmd = a.login.Update(msg)
	case screenRegister:
		a.register, cmd = a.register.Update(msg)
	case screenReactivate:
		a.reactivate, cmd = a.reactivate.Update(msg)
	case screenDashboard:
		switch a.view {
		case viewHome:
			a.home, cmd = a.home.Update(msg)
		case viewCampaigns:
			a.campaigns, cmd = a.campaigns.Update(msg)
		case viewInvitations:
			a.invitations, cmd = a.invitations.Update(msg)
		case viewAccount:
			a.account, cmd = a.account.Update(msg)
		}
	}
	return a, cmd
}

func (a App) isEditing() bool {
	switch a.screen {
	case screenLogin, screenRegister:
		return true
	case screenDashboard:
		switch a.view {
		case viewCampaigns:
			return a.campaigns.state != cNormal
		case viewInvitations:
			return a.invitations.phase == iForm
		case viewAccount:
			return a.account.state != aNormal
		}
	}
	return false
}

func (a App) View() string {
	// Header: centered shimmer logo + identity line
	logo := renderShimmerLogo(a.frame)
	header := centerLine(logo, a.width)

	identity := metaStyle.Render("loyalty for local stores")
	if a.user != nil {
		identity = metaStyle.Render(a.user.TradeName + " · " + a.user.Email)
	}
	header += "\n" + centerLine(identity, a.width)

	// Tab bar, only on the dashboard
	tabBar := ""
	if a.screen == screenDashboard {
		tabBar = a.renderTabs()
	}

	var body, help string
	switch a.screen {
	case screenLogin:
		body = a.login.View()
		help = " " + a.login.helpKeys()
	case screenRegister:
		body = a.register.View()
		help = " " + a.register.helpKeys()
	case screenReactivate:
		body = a.reactivate.View()
		help = " " + a.reactivate.helpKeys()
	case screenDashboard:
		switch a.view {
		case viewHome:
			body = a.home.View()
			help = " " + helpEntry("1-4", "tabs") + "  " + a.home.helpKeys()
		case viewCampaigns:
			body = a.campaigns.View()
			help = " " + helpEntry("1-4", "tabs") + "  " + a.campaigns.helpKeys()
		case viewInvitations:
			body = a.invitations.View()
			help = " " + helpEntry("1-4", "tabs") + "  " + a.invitations.helpKeys()
		case viewAccount:
			body = a.account.View()
			help = " " + helpEntry("1-4", "tabs") + "  " + a.account.helpKeys()
		}
	}

	noticeLine := ""
	if a.notice != "" {
		noticeLine = " " + warnStyle.Render(a.notice)
	}

	// Chrome budget: header(2) + tabs(1) + notice(1) + help(1) = 5 lines + body
	chrome := 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, tabBar, body, noticeLine, help)
}

func (a App) renderTabs() string {
	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Home", viewHome},
		{"2", "Campaigns", viewCampaigns},
		{"3", "Invitations", viewInvitations},
		{"4", "Account", viewAccount},
	}

	// Equal-width columns spread across the terminal
	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	return tabBar.String()
}
