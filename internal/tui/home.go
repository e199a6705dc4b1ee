package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fidd-app/fidd/pkg/client"
	"github.com/fidd-app/fidd/pkg/domain"
)

// metricsPollInterval is how often the dashboard metrics auto-refresh.
const metricsPollInterval = 30 * time.Second

type metricsTickMsg time.Time

func metricsTickCmd() tea.Cmd {
	return tea.Tick(metricsPollInterval, func(t time.Time) tea.Msg {
		return metricsTickMsg(t)
	})
}

type metricsLoadedMsg struct {
	metrics *domain.Metrics
	seq     int
	err     error
}

func (msg metricsLoadedMsg) loadErr() error { return msg.err }

type homeModel struct {
	client  *client.Client
	metrics *domain.Metrics
	loadSeq int // drops responses from superseded loads
	loading bool
	err     string
	width   int
	height  int
}

func newHomeModel(c *client.Client) homeModel {
	return homeModel{client: c, loading: true}
}

func (m homeModel) Init() tea.Cmd {
	return m.load()
}

// enter re-fetches metrics when the tab becomes active. Bumping the
// sequence makes any in-flight response from an older load a no-op.
func (m homeModel) enter() (homeModel, tea.Cmd) {
	m.loading = true
	m.loadSeq++
	return m, m.load()
}

// load captures the current sequence number; responses from loads that
// have since been superseded are dropped in Update.
func (m homeModel) load() tea.Cmd {
	seq := m.loadSeq
	c := m.client
	return func() tea.Msg {
		metrics, err := c.DashboardHome(context.Background())
		return metricsLoadedMsg{metrics: metrics, seq: seq, err: err}
	}
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case metricsLoadedMsg:
		if msg.seq != m.loadSeq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err, "could not load metrics")
		} else {
			m.metrics = msg.metrics
			m.err = ""
		}
		return m, metricsTickCmd()

	case metricsTickMsg:
		return m, m.load()

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			m.loadSeq++
			return m, m.load()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m homeModel) View() string {
	if m.loading && m.metrics == nil {
		return " " + dimStyle.Render("loading metrics...")
	}
	if m.err != "" && m.metrics == nil {
		return " " + errStyle.Render("error: "+m.err)
	}

	var sb strings.Builder
	sb.WriteString("\n " + sectionHeaderStyle.Render("── STORE OVERVIEW ──") + "\n\n")

	if m.metrics == nil {
		sb.WriteString("   " + dimStyle.Render("no data yet") + "\n")
		return sb.String()
	}

	type card struct {
		label string
		value string
	}
	cards := []card{
		{"active campaigns", fmt.Sprintf("%d", m.metrics.ActiveCampaigns)},
		{"customers", fmt.Sprintf("%d", m.metrics.TotalCustomers)},
		{"points distributed", fmt.Sprintf("%d", m.metrics.PointsDistributed)},
		{"engagement", fmt.Sprintf("%.1f%%", m.metrics.EngagementRate)},
	}
	for _, c := range cards {
		fmt.Fprintf(&sb, "   %s  %s\n",
			brightStyle.Render(fmt.Sprintf("%8s", c.value)),
			dimStyle.Render(c.label))
	}

	if m.err != "" {
		sb.WriteString("\n   " + warnStyle.Render("refresh failed: "+m.err) + "\n")
	}
	return sb.String()
}

func (m homeModel) helpKeys() string {
	return helpEntry("r", "refresh") + "  " + helpEntry("q", "quit")
}
