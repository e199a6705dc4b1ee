package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fidd-app/fidd/pkg/domain"
)

func testBatch() *domain.InvitationBatch {
	return &domain.InvitationBatch{
		CampaignID:          1,
		TotalGenerated:      3,
		PointsPerInvitation: 5,
		ExpirationMinutes:   60,
		Invitations: []domain.Invitation{
			{Token: "AAAA-1111", PointsValue: 5, ExpiresAt: time.Now().Add(time.Hour)},
			{Token: "BBBB-2222", PointsValue: 5, ExpiresAt: time.Now().Add(time.Hour)},
			{Token: "CCCC-3333", PointsValue: 5, ExpiresAt: time.Now().Add(time.Hour)},
		},
	}
}

func pickerModel() invitationsModel {
	m := newInvitationsModel(nil, "")
	m.width = 80
	m.height = 24
	m, _ = m.Update(invCampaignsLoadedMsg{campaigns: testCampaigns(), seq: 0})
	return m
}

func TestInvitationsPickerSelect(t *testing.T) {
	m := pickerModel()

	m, _ = m.Update(key("j"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.phase != iForm {
		t.Fatalf("phase = %d, want form", m.phase)
	}
	if m.campaign.ID != 2 {
		t.Errorf("campaign id = %d, want 2", m.campaign.ID)
	}
}

func TestInvitationsFormDefaults(t *testing.T) {
	m := pickerModel()
	m.preselect(testCampaigns()[0])

	if m.form.Quantity != "10" || m.form.Points != "5" || m.form.Minutes != "60" {
		t.Errorf("defaults = %+v, want 10/5/60", m.form)
	}
}

func TestInvitationsGenerateValidationGate(t *testing.T) {
	m := pickerModel()
	m.preselect(testCampaigns()[0])
	m.form.Quantity = "1001" // above the cap

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("out-of-range quantity must not submit")
	}
	if m.formErrs.For("quantity") == "" {
		t.Error("expected quantity error")
	}
}

func TestInvitationsGenerateShowsResult(t *testing.T) {
	m := pickerModel()
	m.preselect(testCampaigns()[0])

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected generate command for valid defaults")
	}

	m, _ = m.Update(invGeneratedMsg{batch: testBatch()})
	if m.phase != iResult {
		t.Fatalf("phase = %d, want result", m.phase)
	}

	view := m.View()
	for _, tok := range []string{"AAAA-1111", "BBBB-2222", "CCCC-3333"} {
		if !strings.Contains(view, tok) {
			t.Errorf("expected token %s in result view", tok)
		}
	}
}

func TestInvitationsResultCopy(t *testing.T) {
	m := pickerModel()
	m.preselect(testCampaigns()[0])
	m, _ = m.Update(invGeneratedMsg{batch: testBatch()})

	m, _ = m.Update(key("j"))
	if m.resultCursor != 1 {
		t.Errorf("resultCursor = %d, want 1", m.resultCursor)
	}

	_, cmd := m.Update(key("c"))
	if cmd == nil {
		t.Error("expected copy command for the selected token")
	}

	_, cmd = m.Update(key("a"))
	if cmd == nil {
		t.Error("expected copy-all command")
	}
}

func TestInvitationsResultExport(t *testing.T) {
	m := pickerModel()
	m.csvDir = t.TempDir()
	m.preselect(testCampaigns()[0])
	m, _ = m.Update(invGeneratedMsg{batch: testBatch()})

	m, cmd := m.Update(key("x"))
	if cmd == nil {
		t.Fatal("expected export command")
	}
	msg := cmd()
	exp, ok := msg.(invExportMsg)
	if !ok {
		t.Fatalf("got %T, want invExportMsg", msg)
	}
	if exp.err != nil {
		t.Fatalf("export error: %v", exp.err)
	}
	if !strings.Contains(exp.path, "invitations-caf-gr-tis-") {
		t.Errorf("path = %q, want campaign slug in filename", exp.path)
	}

	m, _ = m.Update(msg)
	if !strings.Contains(m.statusMsg, "saved") {
		t.Errorf("statusMsg = %q, want saved confirmation", m.statusMsg)
	}
}

func TestInvitationsNewBatchResetsForm(t *testing.T) {
	m := pickerModel()
	m.preselect(testCampaigns()[0])
	m.form.Quantity = "500"
	m, _ = m.Update(invGeneratedMsg{batch: testBatch()})

	m, _ = m.Update(key("n"))
	if m.phase != iForm {
		t.Fatalf("phase = %d, want form", m.phase)
	}
	if m.form.Quantity != "10" {
		t.Errorf("quantity = %q, want default restored", m.form.Quantity)
	}
	if m.campaign.ID != 1 {
		t.Error("new batch must keep the same campaign")
	}
}

func TestInvitationsEscBacksOut(t *testing.T) {
	m := pickerModel()
	m.preselect(testCampaigns()[0])
	m, _ = m.Update(invGeneratedMsg{batch: testBatch()})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.phase != iPick {
		t.Fatalf("phase = %d, want picker after esc from result", m.phase)
	}
	if m.batch != nil {
		t.Error("leaving the result must drop the batch")
	}
}

func TestInvitationsGenerateFailureStaysOnForm(t *testing.T) {
	m := pickerModel()
	m.preselect(testCampaigns()[0])

	m, _ = m.Update(invGeneratedMsg{err: &testErr{"campaign expired"}})
	if m.phase != iForm {
		t.Errorf("phase = %d, want form kept on failure", m.phase)
	}
	if m.statusMsg == "" {
		t.Error("expected an error status line")
	}
}

type testErr struct{ s string }

func (e *testErr) Error() string { return e.s }
