// Package keys lets components listen for a key anywhere in the program,
// independent of which pane currently has focus.
package keys

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

var aliases = map[string]string{
	"escape": "esc",
	"return": "enter",
	" ":      "space",
}

// Normalize maps a key name to the form used for matching: lower case, with
// DOM-style names such as "Escape" folded onto Bubble Tea's names.
func Normalize(name string) string {
	if name != " " {
		name = strings.ToLower(strings.TrimSpace(name))
	}
	if a, ok := aliases[name]; ok {
		return a
	}
	return name
}

// Bus routes key messages to subscribed actions.
type Bus struct {
	next uint64
	subs []*Subscription
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscription is one registered listener. It stays registered until Close.
type Subscription struct {
	bus    *Bus
	id     uint64
	key    string
	action tea.Cmd
}

// Subscribe registers action to run whenever key is pressed.
func (b *Bus) Subscribe(key string, action tea.Cmd) *Subscription {
	b.next++
	s := &Subscription{bus: b, id: b.next, key: Normalize(key), action: action}
	b.subs = append(b.subs, s)
	return s
}

// Rebind points the subscription at a new key and action. The old listener
// is removed before the new one is added.
func (s *Subscription) Rebind(key string, action tea.Cmd) {
	if s == nil || s.bus == nil {
		return
	}
	b := s.bus
	b.remove(s.id)
	b.next++
	s.id = b.next
	s.key = Normalize(key)
	s.action = action
	b.subs = append(b.subs, s)
}

// Close removes the listener. Calling Close more than once, or on a nil
// subscription, is safe.
func (s *Subscription) Close() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.remove(s.id)
	s.bus = nil
}

func (b *Bus) remove(id uint64) {
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Dispatch runs every listener registered for the pressed key, in
// subscription order. The second result is false when nothing matched.
func (b *Bus) Dispatch(msg tea.KeyMsg) (tea.Cmd, bool) {
	pressed := Normalize(msg.String())

	var cmds []tea.Cmd
	for _, s := range b.subs {
		if s.key == pressed {
			cmds = append(cmds, s.action)
		}
	}
	if len(cmds) == 0 {
		return nil, false
	}
	return tea.Batch(cmds...), true
}

// Len returns the number of registered listeners.
func (b *Bus) Len() int {
	return len(b.subs)
}

// Count returns how many listeners are registered for key.
func (b *Bus) Count(key string) int {
	key = Normalize(key)
	n := 0
	for _, s := range b.subs {
		if s.key == key {
			n++
		}
	}
	return n
}
