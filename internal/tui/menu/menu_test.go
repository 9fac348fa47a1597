// ABOUTME: Tests for the actions menu
// ABOUTME: Validates preselection, disabled handling and cancel behavior

package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testOptions() []Option {
	return []Option{
		{Label: "Start", Key: "s", Enabled: false},
		{Label: "Stop", Key: "x", Enabled: true},
		{Label: "Screenshot", Key: "p", Enabled: true},
	}
}

func TestMenuPreselectsFirstEnabled(t *testing.T) {
	m := New(testOptions())
	if m.selected != "x" {
		t.Errorf("selected = %q, want first enabled option x", m.selected)
	}
}

func TestMenuChooseEnabled(t *testing.T) {
	m := New(testOptions())
	msg := m.choose("p")()
	sel, ok := msg.(ActionSelectedMsg)
	if !ok {
		t.Fatalf("expected ActionSelectedMsg, got %T", msg)
	}
	if sel.Key != "p" {
		t.Errorf("Key = %q, want p", sel.Key)
	}
}

func TestMenuChooseDisabled(t *testing.T) {
	m := New(testOptions())
	if _, ok := m.choose("s")().(CancelledMsg); !ok {
		t.Error("choosing a disabled option should close the menu without an action")
	}
}

func TestMenuEscCancels(t *testing.T) {
	m := New(testOptions())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected cancel command")
	}
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Errorf("expected CancelledMsg, got %T", cmd())
	}
}

func TestMenuView(t *testing.T) {
	m := New(testOptions())
	m.Init()
	if m.View() == "" {
		t.Error("expected menu view")
	}
}
