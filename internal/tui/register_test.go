package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fidd-app/fidd/pkg/client"
)

func filledRegisterModel() registerModel {
	m := newRegisterModel(nil)
	m.form.TradeName = "Padaria Central"
	m.form.TaxID = "12345678000190"
	m.form.Email = "owner@store.com"
	m.form.Password = "Password123!"
	m.form.ConfirmPassword = "Password123!"
	return m
}

func TestRegisterTaxIDFieldDigitsOnly(t *testing.T) {
	m := newRegisterModel(nil)
	m.focus = regFieldTaxID

	for _, k := range []string{"1", "2", ".", "3", "-", "4"} {
		m, _ = m.Update(key(k))
	}
	if m.form.TaxID != "1234" {
		t.Errorf("taxID = %q, want punctuation filtered out", m.form.TaxID)
	}
}

func TestRegisterWeakPasswordBlocked(t *testing.T) {
	m := filledRegisterModel()
	m.form.Password = "weak"
	m.form.ConfirmPassword = "weak"

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("weak password must not submit")
	}
	if m.errs.For("password") == "" {
		t.Error("expected a password strength error")
	}
}

func TestRegisterSubmitsValidForm(t *testing.T) {
	m := filledRegisterModel()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected register command")
	}
	if !m.submitting {
		t.Error("expected submitting state")
	}
}

func TestRegisterBackendFieldErrorsLand(t *testing.T) {
	m := filledRegisterModel()
	m.submitting = true

	m, _ = m.Update(registerDoneMsg{err: &client.APIError{
		StatusCode: 422,
		Message:    "validation failed",
		Fields:     map[string][]string{"email": {"already registered"}},
	}})

	if m.errs.For("email") != "already registered" {
		t.Errorf("email error = %q, want the backend message on its field", m.errs.For("email"))
	}
}

func TestRegisterEscReturnsToLogin(t *testing.T) {
	m := newRegisterModel(nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected switch command on esc")
	}
	if _, ok := cmd().(switchToLoginMsg); !ok {
		t.Error("expected switchToLoginMsg")
	}
}
