package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fidd-app/fidd/pkg/domain"
)

func testCampaigns() []domain.Campaign {
	future := time.Now().AddDate(0, 1, 0).Format(domain.ExpirationDateLayout)
	past := time.Now().AddDate(0, 0, -2).Format(domain.ExpirationDateLayout)
	return []domain.Campaign{
		{ID: 1, Name: "Café Grátis", PointsRequired: 100, IsActive: true, ExpirationDate: future},
		{ID: 2, Name: "Desconto 10%", PointsRequired: 50, IsActive: true, ExpirationDate: past},
		{ID: 3, Name: "Brinde", PointsRequired: 200, IsActive: false, ExpirationDate: future},
	}
}

func loadedCampaignsModel() campaignsModel {
	m := newCampaignsModel(nil)
	m.width = 80
	m.height = 24
	m, _ = m.Update(campaignsLoadedMsg{campaigns: testCampaigns(), seq: 0})
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCampaignsLoad(t *testing.T) {
	m := loadedCampaignsModel()
	if m.loading {
		t.Error("loading should be false after load")
	}
	if len(m.campaigns) != 3 {
		t.Fatalf("got %d campaigns, want 3", len(m.campaigns))
	}
}

func TestCampaignsStaleResponseDropped(t *testing.T) {
	m := loadedCampaignsModel()
	m.loadSeq = 2 // two reloads issued since

	m, _ = m.Update(campaignsLoadedMsg{campaigns: nil, seq: 1})
	if len(m.campaigns) != 3 {
		t.Error("stale response must not overwrite the list")
	}
}

func TestCampaignsNavigation(t *testing.T) {
	m := loadedCampaignsModel()

	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("j"))
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}
	m, _ = m.Update(key("j"))
	if m.cursor != 2 {
		t.Error("cursor must stop at the last row")
	}
	m, _ = m.Update(key("k"))
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

func TestCampaignsDeleteRemovesLocalRowOnly(t *testing.T) {
	m := loadedCampaignsModel()
	m.cursor = 1

	m, _ = m.Update(key("d"))
	if m.state != cDeleting {
		t.Fatalf("state = %d, want deleting confirmation", m.state)
	}

	m, cmd := m.Update(key("y"))
	if cmd == nil {
		t.Fatal("expected delete command on confirm")
	}

	before := m.loadSeq
	m, reload := m.Update(campaignDeletedMsg{id: 2})
	if reload != nil {
		t.Error("delete must not trigger a list reload")
	}
	if m.loadSeq != before {
		t.Error("delete must not bump the load sequence")
	}
	if len(m.campaigns) != 2 {
		t.Fatalf("got %d campaigns after delete, want 2", len(m.campaigns))
	}
	for _, c := range m.campaigns {
		if c.ID == 2 {
			t.Error("deleted campaign still present")
		}
	}
}

func TestCampaignsDeleteCancelled(t *testing.T) {
	m := loadedCampaignsModel()
	m, _ = m.Update(key("d"))
	m, _ = m.Update(key("n"))
	if m.state != cNormal {
		t.Errorf("state = %d, want normal after cancel", m.state)
	}
	if len(m.campaigns) != 3 {
		t.Error("cancel must not remove anything")
	}
}

func TestCampaignsCreateTriggersReload(t *testing.T) {
	m := loadedCampaignsModel()
	m, _ = m.Update(key("a"))
	if m.state != cAdding {
		t.Fatalf("state = %d, want adding", m.state)
	}

	before := m.loadSeq
	m, cmd := m.Update(campaignSavedMsg{created: true})
	if cmd == nil {
		t.Fatal("expected reload command after create")
	}
	if m.loadSeq != before+1 {
		t.Error("create must bump the load sequence for a fresh fetch")
	}
	if m.state != cNormal {
		t.Errorf("state = %d, want normal after save", m.state)
	}
}

func TestCampaignsFormValidationBlocksSubmit(t *testing.T) {
	m := loadedCampaignsModel()
	m, _ = m.Update(key("a"))

	// Empty form: enter must not fire the API call.
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("invalid form must not submit")
	}
	if m.formErrs.Valid() {
		t.Error("expected field errors on an empty form")
	}
	if m.state != cAdding {
		t.Error("form stays open on validation failure")
	}
}

func TestCampaignsFormTyping(t *testing.T) {
	m := loadedCampaignsModel()
	m, _ = m.Update(key("a"))

	for _, r := range "Promo" {
		m, _ = m.Update(key(string(r)))
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(key("1"))
	m, _ = m.Update(key("x")) // non-digit ignored in points
	m, _ = m.Update(key("0"))

	if m.form.Name != "Promo" {
		t.Errorf("name = %q, want Promo", m.form.Name)
	}
	if m.form.PointsRequired != "10" {
		t.Errorf("points = %q, want 10", m.form.PointsRequired)
	}
}

func TestCampaignsEditPrefillsForm(t *testing.T) {
	m := loadedCampaignsModel()
	m.cursor = 2

	m, _ = m.Update(key("e"))
	if m.state != cEditing {
		t.Fatalf("state = %d, want editing", m.state)
	}
	if m.form.Name != "Brinde" || m.form.PointsRequired != "200" {
		t.Errorf("form = %+v, want prefilled from selection", m.form)
	}
	if m.editingID != 3 {
		t.Errorf("editingID = %d, want 3", m.editingID)
	}
	if m.editingActive {
		t.Error("inactive campaign must keep isActive=false through an edit")
	}
}

func TestCampaignsExpiredBadgeIsDerived(t *testing.T) {
	m := loadedCampaignsModel()
	view := m.View()

	if !strings.Contains(view, "[expired]") {
		t.Errorf("expected expired badge for past campaign, got:\n%s", view)
	}
	// The stored flag must be untouched by rendering.
	if !m.campaigns[1].IsActive {
		t.Error("rendering must not mutate IsActive")
	}
}

func TestCampaignsGenerateJump(t *testing.T) {
	m := loadedCampaignsModel()
	m.cursor = 0

	m, cmd := m.Update(key("g"))
	if cmd == nil {
		t.Fatal("expected a command carrying showInvitationsMsg")
	}
	msg := cmd()
	jump, ok := msg.(showInvitationsMsg)
	if !ok {
		t.Fatalf("got %T, want showInvitationsMsg", msg)
	}
	if jump.campaign.ID != 1 {
		t.Errorf("campaign id = %d, want 1", jump.campaign.ID)
	}
}

func TestCampaignsEmptyState(t *testing.T) {
	m := newCampaignsModel(nil)
	m, _ = m.Update(campaignsLoadedMsg{campaigns: nil, seq: 0})
	view := m.View()
	if !strings.Contains(view, "no campaigns yet") {
		t.Errorf("expected empty-state hint, got:\n%s", view)
	}
}
