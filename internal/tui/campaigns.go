package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fidd-app/fidd/internal/forms"
	"github.com/fidd-app/fidd/pkg/client"
	"github.com/fidd-app/fidd/pkg/domain"
)

// campaignState is the state machine for campaign CRUD interactions.
type campaignState int

const (
	cNormal   campaignState = iota
	cAdding                 // new campaign form
	cEditing                // editing the selected campaign
	cDeleting               // delete confirmation on the selected row
)

// -- messages --

type campaignsLoadedMsg struct {
	campaigns []domain.Campaign
	seq       int
	err       error
}

func (msg campaignsLoadedMsg) loadErr() error { return msg.err }

type campaignSavedMsg struct {
	created bool
	err     error
}

func (msg campaignSavedMsg) loadErr() error { return msg.err }

type campaignDeletedMsg struct {
	id  int64
	err error
}

func (msg campaignDeletedMsg) loadErr() error { return msg.err }

// showInvitationsMsg jumps to the invitations tab with a campaign preselected.
type showInvitationsMsg struct {
	campaign domain.Campaign
}

const (
	cFieldName = iota
	cFieldPoints
	cFieldDate
	cFieldCount
)

type campaignsModel struct {
	client    *client.Client
	campaigns []domain.Campaign
	cursor    int
	state     campaignState
	loadSeq   int
	loading   bool
	err       string
	statusMsg string
	width     int
	height    int

	// form state shared by adding and editing
	form      forms.Campaign
	formFocus int
	formErrs  forms.Errors
	editingID int64
	// isActive is not editable in the form; edits keep the server value
	editingActive bool
	submitting    bool
}

func newCampaignsModel(c *client.Client) campaignsModel {
	return campaignsModel{client: c, loading: true, formErrs: forms.Errors{}}
}

func (m campaignsModel) Init() tea.Cmd {
	return m.load()
}

// enter re-fetches the list when the tab becomes active.
func (m campaignsModel) enter() (campaignsModel, tea.Cmd) {
	m.loading = true
	m.loadSeq++
	return m, m.load()
}

func (m campaignsModel) load() tea.Cmd {
	seq := m.loadSeq
	c := m.client
	return func() tea.Msg {
		campaigns, err := c.ListCampaigns(context.Background())
		return campaignsLoadedMsg{campaigns: campaigns, seq: seq, err: err}
	}
}

func (m campaignsModel) selected() (domain.Campaign, bool) {
	if len(m.campaigns) == 0 || m.cursor >= len(m.campaigns) {
		return domain.Campaign{}, false
	}
	return m.campaigns[m.cursor], true
}

func (m campaignsModel) Update(msg tea.Msg) (campaignsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case campaignsLoadedMsg:
		if msg.seq != m.loadSeq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err, "could not load campaigns")
		} else {
			m.campaigns = msg.campaigns
			m.err = ""
			if m.cursor >= len(m.campaigns) {
				m.cursor = 0
			}
		}
		return m, nil

	case campaignSavedMsg:
		m.submitting = false
		if msg.err != nil {
			m.statusMsg = errStyle.Render(client.Message(msg.err, "save failed"))
			return m, nil
		}
		if msg.created {
			m.statusMsg = okStyle.Render("campaign created")
		} else {
			m.statusMsg = okStyle.Render("campaign saved")
		}
		m.state = cNormal
		m.resetForm()
		// Saves re-fetch the whole list so server-computed fields stay fresh.
		m.loading = true
		m.loadSeq++
		return m, m.load()

	case campaignDeletedMsg:
		if msg.err != nil {
			m.statusMsg = errStyle.Render(client.Message(msg.err, "delete failed"))
		} else {
			// Deletes drop the local row without a reload.
			for i, c := range m.campaigns {
				if c.ID == msg.id {
					m.campaigns = append(m.campaigns[:i], m.campaigns[i+1:]...)
					break
				}
			}
			if m.cursor >= len(m.campaigns) && m.cursor > 0 {
				m.cursor = len(m.campaigns) - 1
			}
			m.statusMsg = okStyle.Render("campaign removed")
		}
		m.state = cNormal
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

func (m campaignsModel) handleKey(msg tea.KeyMsg) (campaignsModel, tea.Cmd) {
	switch m.state {
	case cAdding, cEditing:
		return m.handleKeyForm(msg)
	case cDeleting:
		return m.handleKeyDeleting(msg)
	}

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.campaigns)-1 {
			m.cursor++
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "a":
		m.state = cAdding
		m.resetForm()

	case "e":
		if c, ok := m.selected(); ok {
			m.state = cEditing
			m.editingID = c.ID
			m.editingActive = c.IsActive
			m.form = forms.Campaign{
				Name:           c.Name,
				PointsRequired: fmt.Sprintf("%d", c.PointsRequired),
				ExpirationDate: c.ExpirationDate,
			}
			m.formFocus = 0
			m.formErrs = forms.Errors{}
		}

	case "d":
		if _, ok := m.selected(); ok {
			m.state = cDeleting
		}

	case "g":
		if c, ok := m.selected(); ok {
			return m, func() tea.Msg { return showInvitationsMsg{campaign: c} }
		}

	case "r":
		m.loading = true
		m.loadSeq++
		return m, m.load()
	}
	return m, nil
}

func (m campaignsModel) handleKeyForm(msg tea.KeyMsg) (campaignsModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	switch msg.String() {
	case "tab", "down":
		m.formFocus = (m.formFocus + 1) % cFieldCount
	case "shift+tab", "up":
		m.formFocus = (m.formFocus + cFieldCount - 1) % cFieldCount
	case "enter":
		m.formErrs = m.form.Validate()
		if !m.formErrs.Valid() {
			return m, nil
		}
		m.submitting = true
		c := m.client
		if m.state == cAdding {
			req := m.form.CreateRequest()
			return m, func() tea.Msg {
				_, err := c.CreateCampaign(context.Background(), req)
				return campaignSavedMsg{created: true, err: err}
			}
		}
		id := m.editingID
		req := m.form.UpdateRequest(m.editingActive)
		return m, func() tea.Msg {
			_, err := c.UpdateCampaign(context.Background(), id, req)
			return campaignSavedMsg{err: err}
		}
	case "esc":
		m.state = cNormal
		m.resetForm()
	default:
		key := msg.String()
		switch m.formFocus {
		case cFieldName:
			m.form.Name = editRune(m.form.Name, key)
		case cFieldPoints:
			m.form.PointsRequired = editDigits(m.form.PointsRequired, key)
		case cFieldDate:
			m.form.ExpirationDate = editDate(m.form.ExpirationDate, key)
		}
	}
	return m, nil
}

func (m campaignsModel) handleKeyDeleting(msg tea.KeyMsg) (campaignsModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if c, ok := m.selected(); ok {
			id := c.ID
			cl := m.client
			return m, func() tea.Msg {
				err := cl.DeleteCampaign(context.Background(), id)
				return campaignDeletedMsg{id: id, err: err}
			}
		}
		m.state = cNormal
	case "n", "N", "esc":
		m.state = cNormal
	}
	return m, nil
}

func (m *campaignsModel) resetForm() {
	m.form = forms.Campaign{}
	m.formFocus = 0
	m.formErrs = forms.Errors{}
	m.editingID = 0
	m.editingActive = true
}

func (m campaignsModel) View() string {
	if m.loading && len(m.campaigns) == 0 {
		return " " + dimStyle.Render("loading campaigns...")
	}
	if m.err != "" && len(m.campaigns) == 0 {
		return " " + errStyle.Render("error: "+m.err)
	}

	var sb strings.Builder
	sb.WriteString("\n " + sectionHeaderStyle.Render(fmt.Sprintf("── CAMPAIGNS %d ──", len(m.campaigns))) + "\n")

	if m.statusMsg != "" {
		sb.WriteString("   " + m.statusMsg + "\n")
	}

	if m.state == cAdding || m.state == cEditing {
		sb.WriteString(m.renderForm())
		return sb.String()
	}

	if len(m.campaigns) == 0 {
		sb.WriteString("   " + dimStyle.Render("no campaigns yet · press a to create one") + "\n")
		return sb.String()
	}

	now := time.Now()
	for i, c := range m.campaigns {
		isSelected := i == m.cursor

		cursor := "  "
		if isSelected {
			cursor = accentStyle.Render("▸") + " "
		}

		nameStr := normalStyle.Render(truncStr(c.Name, 30))
		if isSelected {
			nameStr = selectedStyle.Render(truncStr(c.Name, 30))
		}

		points := goldStyle.Render(fmt.Sprintf("%d pts", c.PointsRequired))
		date := metaStyle.Render(c.ExpirationDate)

		badge := activeBadgeStyle.Render("[active]")
		if !c.IsActive {
			badge = inactiveBadgeStyle.Render("[inactive]")
		}
		// Expiry is derived for display only; the stored flag is untouched.
		if c.Expired(now) {
			badge += " " + expiredBadgeStyle.Render("[expired]")
		}

		fmt.Fprintf(&sb, " %s%s  %s  %s  %s\n", cursor, nameStr, points, date, badge)

		if isSelected && m.state == cDeleting {
			sb.WriteString("   " + errStyle.Render("delete this campaign? ") +
				accentStyle.Render("y") + dimStyle.Render("/") + dimStyle.Render("n") + "\n")
		}
	}

	return sb.String()
}

func (m campaignsModel) renderForm() string {
	var sb strings.Builder
	title := "new campaign"
	if m.state == cEditing {
		title = "edit campaign"
	}
	sb.WriteString("\n   " + brightStyle.Render(title) + "\n\n")
	sb.WriteString(formField("name", m.form.Name, m.formFocus == cFieldName, false, m.formErrs.For("name")))
	sb.WriteString(formField("points", m.form.PointsRequired, m.formFocus == cFieldPoints, false, m.formErrs.For("pointsRequired")))
	sb.WriteString(formField("expires (YYYY-MM-DD)", m.form.ExpirationDate, m.formFocus == cFieldDate, false, m.formErrs.For("expirationDate")))
	if m.submitting {
		sb.WriteString("\n   " + dimStyle.Render("saving...") + "\n")
	}
	return sb.String()
}

// helpKeys returns context-sensitive help text based on the current state.
func (m campaignsModel) helpKeys() string {
	switch m.state {
	case cAdding, cEditing:
		return helpEntry("tab", "next") + "  " + helpEntry("enter", "save") + "  " + helpEntry("esc", "cancel")
	case cDeleting:
		return helpEntry("y", "confirm") + "  " + helpEntry("n", "cancel")
	default:
		return helpEntry("j/k", "nav") + "  " + helpEntry("a", "add") + "  " + helpEntry("e", "edit") + "  " + helpEntry("d", "delete") + "  " + helpEntry("g", "invitations") + "  " + helpEntry("r", "reload") + "  " + helpEntry("q", "quit")
	}
}
