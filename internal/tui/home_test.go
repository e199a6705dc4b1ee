package tui

import (
	"strings"
	"testing"

	"github.com/fidd-app/fidd/pkg/domain"
)

func TestHomeRendersMetrics(t *testing.T) {
	m := newHomeModel(nil)
	m.width = 80
	m.height = 24

	m, _ = m.Update(metricsLoadedMsg{metrics: &domain.Metrics{
		ActiveCampaigns:   3,
		TotalCustomers:    128,
		PointsDistributed: 4500,
		EngagementRate:    37.5,
	}, seq: 0})

	view := m.View()
	for _, want := range []string{"3", "128", "4500", "37.5%"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in metrics view, got:\n%s", want, view)
		}
	}
}

func TestHomeStaleMetricsDropped(t *testing.T) {
	m := newHomeModel(nil)
	m, _ = m.Update(metricsLoadedMsg{metrics: &domain.Metrics{ActiveCampaigns: 5}, seq: 0})
	m.loadSeq = 2

	m, _ = m.Update(metricsLoadedMsg{metrics: &domain.Metrics{ActiveCampaigns: 1}, seq: 1})
	if m.metrics.ActiveCampaigns != 5 {
		t.Error("stale metrics response must not overwrite the latest data")
	}
}

func TestHomeLoadKeepsLastGoodDataOnError(t *testing.T) {
	m := newHomeModel(nil)
	m, _ = m.Update(metricsLoadedMsg{metrics: &domain.Metrics{ActiveCampaigns: 5}, seq: 0})

	m, _ = m.Update(metricsLoadedMsg{err: &testErr{"backend down"}, seq: 0})
	if m.metrics == nil || m.metrics.ActiveCampaigns != 5 {
		t.Error("a failed refresh must keep the previous metrics on screen")
	}
	view := m.View()
	if !strings.Contains(view, "refresh failed") {
		t.Errorf("expected refresh failure note, got:\n%s", view)
	}
}

func TestHomeRefreshBumpsSequence(t *testing.T) {
	m := newHomeModel(nil)
	m, _ = m.Update(metricsLoadedMsg{metrics: &domain.Metrics{}, seq: 0})

	before := m.loadSeq
	m, cmd := m.Update(key("r"))
	if cmd == nil {
		t.Fatal("expected reload command on 'r'")
	}
	if m.loadSeq != before+1 {
		t.Error("manual refresh must bump the load sequence")
	}
}

func TestHomePollScheduledAfterLoad(t *testing.T) {
	m := newHomeModel(nil)
	_, cmd := m.Update(metricsLoadedMsg{metrics: &domain.Metrics{}, seq: 0})
	if cmd == nil {
		t.Error("expected a poll tick scheduled after a load")
	}
}
