package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fidd-app/fidd/internal/export"
	"github.com/fidd-app/fidd/internal/forms"
	"github.com/fidd-app/fidd/pkg/client"
	"github.com/fidd-app/fidd/pkg/domain"
)

// invitationPhase tracks the pick -> form -> result flow.
type invitationPhase int

const (
	iPick   invitationPhase = iota
	iForm                   // batch parameters for the chosen campaign
	iResult                 // generated tokens
)

// Default batch parameters preloaded into the form.
const (
	defaultQuantity = "10"
	defaultPoints   = "5"
	defaultMinutes  = "60"
)

// -- messages --

type invCampaignsLoadedMsg struct {
	campaigns []domain.Campaign
	seq       int
	err       error
}

func (msg invCampaignsLoadedMsg) loadErr() error { return msg.err }

type invGeneratedMsg struct {
	batch *domain.InvitationBatch
	err   error
}

func (msg invGeneratedMsg) loadErr() error { return msg.err }

type invCopyMsg struct {
	all bool
	err error
}

type invExportMsg struct {
	path string
	err  error
}

const (
	iFieldQuantity = iota
	iFieldPoints
	iFieldMinutes
	iFieldCount
)

type invitationsModel struct {
	client *client.Client
	csvDir string

	phase     invitationPhase
	campaigns []domain.Campaign
	cursor    int
	campaign  domain.Campaign // chosen campaign for the batch
	loadSeq   int
	loading   bool
	err       string
	statusMsg string
	width     int
	height    int

	form       forms.Invitations
	formFocus  int
	formErrs   forms.Errors
	submitting bool

	batch        *domain.InvitationBatch
	resultCursor int
}

func newInvitationsModel(c *client.Client, csvDir string) invitationsModel {
	return invitationsModel{
		client:   c,
		csvDir:   csvDir,
		loading:  true,
		form:     defaultInvitationForm(),
		formErrs: forms.Errors{},
	}
}

func defaultInvitationForm() forms.Invitations {
	return forms.Invitations{Quantity: defaultQuantity, Points: defaultPoints, Minutes: defaultMinutes}
}

func (m invitationsModel) Init() tea.Cmd {
	return m.load()
}

// enter re-fetches the campaign list when the tab becomes active.
func (m invitationsModel) enter() (invitationsModel, tea.Cmd) {
	m.loading = true
	m.loadSeq++
	return m, m.load()
}

func (m invitationsModel) load() tea.Cmd {
	seq := m.loadSeq
	c := m.client
	return func() tea.Msg {
		campaigns, err := c.ListCampaigns(context.Background())
		return invCampaignsLoadedMsg{campaigns: campaigns, seq: seq, err: err}
	}
}

// preselect enters the form phase for a campaign chosen elsewhere, e.g.
// via the campaigns tab.
func (m *invitationsModel) preselect(c domain.Campaign) {
	m.campaign = c
	m.phase = iForm
	m.form = defaultInvitationForm()
	m.formFocus = 0
	m.formErrs = forms.Errors{}
	m.batch = nil
}

func (m invitationsModel) Update(msg tea.Msg) (invitationsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case invCampaignsLoadedMsg:
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

	case invGeneratedMsg:
		m.submitting = false
		if msg.err != nil {
			m.statusMsg = errStyle.Render(client.Message(msg.err, "generation failed"))
			return m, nil
		}
		m.batch = msg.batch
		m.resultCursor = 0
		m.phase = iResult
		m.statusMsg = okStyle.Render(fmt.Sprintf("%d invitations generated", msg.batch.TotalGenerated))
		return m, nil

	case invCopyMsg:
		if msg.err != nil {
			m.statusMsg = errStyle.Render(fmt.Sprintf("copy failed: %v", msg.err))
		} else if msg.all {
			m.statusMsg = okStyle.Render("all tokens copied!")
		} else {
			m.statusMsg = okStyle.Render("token copied!")
		}
		return m, nil

	case invExportMsg:
		if msg.err != nil {
			m.statusMsg = errStyle.Render(fmt.Sprintf("export failed: %v", msg.err))
		} else {
			m.statusMsg = okStyle.Render("saved " + msg.path)
		}
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

func (m invitationsModel) handleKey(msg tea.KeyMsg) (invitationsModel, tea.Cmd) {
	switch m.phase {
	case iForm:
		return m.handleKeyForm(msg)
	case iResult:
		return m.handleKeyResult(msg)
	}

	// Picker
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.campaigns)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if len(m.campaigns) > 0 && m.cursor < len(m.campaigns) {
			m.preselect(m.campaigns[m.cursor])
		}
	case "r":
		m.loading = true
		m.loadSeq++
		return m, m.load()
	}
	return m, nil
}

func (m invitationsModel) handleKeyForm(msg tea.KeyMsg) (invitationsModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	switch msg.String() {
	case "tab", "down":
		m.formFocus = (m.formFocus + 1) % iFieldCount
	case "shift+tab", "up":
		m.formFocus = (m.formFocus + iFieldCount - 1) % iFieldCount
	case "enter":
		m.formErrs = m.form.Validate()
		if !m.formErrs.Valid() {
			return m, nil
		}
		m.submitting = true
		c := m.client
		req := m.form.Request(m.campaign.ID)
		return m, func() tea.Msg {
			batch, err := c.GenerateInvitations(context.Background(), req)
			return invGeneratedMsg{batch: batch, err: err}
		}
	case "esc":
		m.phase = iPick
	default:
		key := msg.String()
		switch m.formFocus {
		case iFieldQuantity:
			m.form.Quantity = editDigits(m.form.Quantity, key)
		case iFieldPoints:
			m.form.Points = editDigits(m.form.Points, key)
		case iFieldMinutes:
			m.form.Minutes = editDigits(m.form.Minutes, key)
		}
	}
	return m, nil
}

func (m invitationsModel) handleKeyResult(msg tea.KeyMsg) (invitationsModel, tea.Cmd) {
	if m.batch == nil {
		m.phase = iPick
		return m, nil
	}
	switch msg.String() {
	case "j", "down":
		if m.resultCursor < len(m.batch.Invitations)-1 {
			m.resultCursor++
		}
	case "k", "up":
		if m.resultCursor > 0 {
			m.resultCursor--
		}
	case "c":
		if m.resultCursor < len(m.batch.Invitations) {
			token := m.batch.Invitations[m.resultCursor].Token
			return m, func() tea.Msg {
				err := clipboard.WriteAll(token)
				return invCopyMsg{err: err}
			}
		}
	case "a":
		tokens := make([]string, len(m.batch.Invitations))
		for i, inv := range m.batch.Invitations {
			tokens[i] = inv.Token
		}
		return m, func() tea.Msg {
			err := clipboard.WriteAll(strings.Join(tokens, "\n"))
			return invCopyMsg{all: true, err: err}
		}
	case "x":
		dir := m.csvDir
		name := m.campaign.Name
		batch := m.batch
		return m, func() tea.Msg {
			path, err := export.WriteFile(dir, name, batch)
			return invExportMsg{path: path, err: err}
		}
	case "n":
		m.phase = iForm
		m.form = defaultInvitationForm()
		m.formFocus = 0
		m.formErrs = forms.Errors{}
	case "esc":
		m.phase = iPick
		m.batch = nil
	}
	return m, nil
}

func (m invitationsModel) View() string {
	switch m.phase {
	case iForm:
		return m.viewForm()
	case iResult:
		return m.viewResult()
	}
	return m.viewPicker()
}

func (m invitationsModel) viewPicker() string {
	if m.loading && len(m.campaigns) == 0 {
		return " " + dimStyle.Render("loading campaigns...")
	}
	if m.err != "" && len(m.campaigns) == 0 {
		return " " + errStyle.Render("error: "+m.err)
	}

	var sb strings.Builder
	sb.WriteString("\n " + sectionHeaderStyle.Render("── GENERATE INVITATIONS ──") + "\n")
	sb.WriteString("   " + dimStyle.Render("pick a campaign") + "\n\n")

	if len(m.campaigns) == 0 {
		sb.WriteString("   " + dimStyle.Render("no campaigns yet · create one on the campaigns tab") + "\n")
		return sb.String()
	}

	now := time.Now()
	for i, c := range m.campaigns {
		cursor := "  "
		nameStr := normalStyle.Render(truncStr(c.Name, 30))
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			nameStr = selectedStyle.Render(truncStr(c.Name, 30))
		}
		note := ""
		if c.Expired(now) {
			note = " " + expiredBadgeStyle.Render("[expired]")
		} else if !c.IsActive {
			note = " " + inactiveBadgeStyle.Render("[inactive]")
		}
		fmt.Fprintf(&sb, " %s%s  %s%s\n", cursor, nameStr, goldStyle.Render(fmt.Sprintf("%d pts", c.PointsRequired)), note)
	}
	return sb.String()
}

func (m invitationsModel) viewForm() string {
	var sb strings.Builder
	sb.WriteString("\n " + sectionHeaderStyle.Render("── GENERATE INVITATIONS ──") + "\n")
	sb.WriteString("   " + normalStyle.Render(truncStr(m.campaign.Name, 40)) + "\n\n")

	sb.WriteString(formField("quantity", m.form.Quantity, m.formFocus == iFieldQuantity, false, m.formErrs.For("quantity")))
	sb.WriteString(formField("points each", m.form.Points, m.formFocus == iFieldPoints, false, m.formErrs.For("pointsPerInvitation")))
	sb.WriteString(formField("expires in (min)", m.form.Minutes, m.formFocus == iFieldMinutes, false, m.formErrs.For("expirationMinutes")))

	if m.submitting {
		sb.WriteString("\n   " + dimStyle.Render("generating...") + "\n")
	} else if m.statusMsg != "" {
		sb.WriteString("\n   " + m.statusMsg + "\n")
	}
	return sb.String()
}

func (m invitationsModel) viewResult() string {
	var sb strings.Builder
	sb.WriteString("\n " + sectionHeaderStyle.Render(fmt.Sprintf("── %d INVITATIONS · %s ──", m.batch.TotalGenerated, truncStr(m.campaign.Name, 30))) + "\n")

	if m.statusMsg != "" {
		sb.WriteString("   " + m.statusMsg + "\n")
	}
	sb.WriteString("\n")

	now := time.Now()
	maxRows := m.height - 8
	if maxRows < 5 {
		maxRows = 5
	}
	for i, inv := range m.batch.Invitations {
		if i >= maxRows {
			sb.WriteString("   " + dimStyle.Render(fmt.Sprintf("... and %d more · x exports all", len(m.batch.Invitations)-i)) + "\n")
			break
		}
		cursor := "  "
		tok := tokenStyle.Render(inv.Token)
		if i == m.resultCursor {
			cursor = accentStyle.Render("▸") + " "
			tok = brightStyle.Render(inv.Token)
		}
		fmt.Fprintf(&sb, " %s%s  %s  %s\n", cursor, tok,
			goldStyle.Render(fmt.Sprintf("%d pts", inv.PointsValue)),
			metaStyle.Render(formatExpiry(inv.ExpiresAt, now)))
	}
	return sb.String()
}

// helpKeys returns context-sensitive help text based on the current phase.
func (m invitationsModel) helpKeys() string {
	switch m.phase {
	case iForm:
		return helpEntry("tab", "next") + "  " + helpEntry("enter", "generate") + "  " + helpEntry("esc", "back")
	case iResult:
		return helpEntry("j/k", "nav") + "  " + helpEntry("c", "copy") + "  " + helpEntry("a", "copy all") + "  " + helpEntry("x", "csv") + "  " + helpEntry("n", "new batch") + "  " + helpEntry("esc", "back")
	default:
		return helpEntry("j/k", "nav") + "  " + helpEntry("enter", "select") + "  " + helpEntry("r", "reload") + "  " + helpEntry("q", "quit")
	}
}
