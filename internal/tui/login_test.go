package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestLoginTypingAndFocus(t *testing.T) {
	m := newLoginModel(nil)

	for _, r := range "a@b.c" {
		m, _ = m.Update(key(string(r)))
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	for _, r := range "secret" {
		m, _ = m.Update(key(string(r)))
	}

	if m.email != "a@b.c" {
		t.Errorf("email = %q, want a@b.c", m.email)
	}
	if m.password != "secret" {
		t.Errorf("password = %q, want secret", m.password)
	}
}

func TestLoginValidationBlocksSubmit(t *testing.T) {
	m := newLoginModel(nil)
	m.email = "not-an-email"
	m.password = "x"

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("invalid email must not submit")
	}
	if m.errs.For("email") == "" {
		t.Error("expected an email error")
	}
}

func TestLoginSubmitsValidForm(t *testing.T) {
	m := newLoginModel(nil)
	m.email = "owner@store.com"
	m.password = "anything"

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected login command")
	}
	if !m.submitting {
		t.Error("expected submitting state")
	}
}

func TestLoginPasswordMasked(t *testing.T) {
	m := newLoginModel(nil)
	m.password = "secret"
	if strings.Contains(m.View(), "secret") {
		t.Error("password must never render in clear text")
	}
}

func TestLoginFailureShowsServerMessage(t *testing.T) {
	m := newLoginModel(nil)
	m.submitting = true

	m, _ = m.Update(loginDoneMsg{err: &testErr{"bad credentials"}})
	if m.submitting {
		t.Error("failure must clear the submitting state")
	}
	if m.errMsg == "" {
		t.Error("expected a failure line")
	}
}

func TestLoginIgnoresKeysWhileSubmitting(t *testing.T) {
	m := newLoginModel(nil)
	m.submitting = true
	m.email = "a@b.c"

	m, _ = m.Update(key("x"))
	if m.email != "a@b.c" {
		t.Error("typing must be ignored while a request is in flight")
	}
}
