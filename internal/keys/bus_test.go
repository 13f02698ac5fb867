package keys

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type pressed struct{ name string }

func action(name string) tea.Cmd {
	return func() tea.Msg { return pressed{name} }
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"Escape": "esc",
		"ESC":    "esc",
		"Enter":  "enter",
		"Return": "enter",
		" ":      "space",
		"q":      "q",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDispatchCaseInsensitive(t *testing.T) {
	bus := NewBus()
	bus.Subscribe("Escape", action("close"))

	cmd, ok := bus.Dispatch(tea.KeyMsg{Type: tea.KeyEsc})
	if !ok || cmd == nil {
		t.Fatal("Escape subscription should match the esc key")
	}
	if got := cmd(); got != (pressed{"close"}) {
		t.Errorf("action produced %v", got)
	}

	if _, ok := bus.Dispatch(tea.KeyMsg{Type: tea.KeyEnter}); ok {
		t.Error("enter should not match an Escape subscription")
	}
}

func TestDispatchRunsEveryMatchingListener(t *testing.T) {
	bus := NewBus()
	bus.Subscribe("enter", action("a"))
	bus.Subscribe("Enter", action("b"))

	cmd, ok := bus.Dispatch(tea.KeyMsg{Type: tea.KeyEnter})
	if !ok {
		t.Fatal("expected a match")
	}
	batch, isBatch := cmd().(tea.BatchMsg)
	if !isBatch || len(batch) != 2 {
		t.Fatalf("expected a batch of two actions, got %T", cmd())
	}
}

func TestCloseDeregisters(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe("esc", action("close"))
	if bus.Len() != 1 {
		t.Fatalf("Len = %d, want 1", bus.Len())
	}

	sub.Close()
	sub.Close()
	if bus.Len() != 0 {
		t.Errorf("Len = %d after Close, want 0", bus.Len())
	}
	if _, ok := bus.Dispatch(tea.KeyMsg{Type: tea.KeyEsc}); ok {
		t.Error("closed subscription must not fire")
	}

	var nilSub *Subscription
	nilSub.Close()
}

func TestRebindReplacesListener(t *testing.T) {
	bus := NewBus()
	other := bus.Subscribe("q", action("other"))
	sub := bus.Subscribe("esc", action("old"))

	sub.Rebind("enter", action("new"))

	if bus.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (no duplicate or leaked listener)", bus.Len())
	}
	if bus.Count("esc") != 0 {
		t.Error("old key should no longer be subscribed")
	}
	cmd, ok := bus.Dispatch(tea.KeyMsg{Type: tea.KeyEnter})
	if !ok || cmd() != (pressed{"new"}) {
		t.Error("rebound action should fire on the new key")
	}

	sub.Rebind("enter", action("newer"))
	if bus.Count("enter") != 1 {
		t.Errorf("Count(enter) = %d, want 1", bus.Count("enter"))
	}

	other.Close()
	sub.Close()
	if bus.Len() != 0 {
		t.Errorf("Len = %d, want 0", bus.Len())
	}
	sub.Rebind("esc", action("late"))
	if bus.Len() != 0 {
		t.Error("rebinding a closed subscription must not register it again")
	}
}
