package habitlist

import (
	"planner-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// Interaction is the gesture currently in progress. At most one is active.
type Interaction int

const (
	Browsing Interaction = iota
	Reordering
	Editing
	Adding
)

func (i Interaction) String() string {
	switch i {
	case Reordering:
		return "reordering"
	case Editing:
		return "editing"
	case Adding:
		return "adding"
	default:
		return "browsing"
	}
}

// List ties the store to its gestures and keeps them mutually exclusive.
type List struct {
	Store  *Store
	Drag   Drag
	Editor Editor
	Form   AddForm
}

func NewList(store *Store) *List {
	return &List{Store: store}
}

func (l *List) Interaction() Interaction {
	switch {
	case l.Drag.Active():
		return Reordering
	case l.Editor.Editing():
		return Editing
	case l.Form.Expanded():
		return Adding
	default:
		return Browsing
	}
}

func (l *List) Ordered() []model.Habit { return l.Store.Ordered() }

// Blocked reports whether the list can't be interacted with: there is no
// snapshot, either because nothing loaded yet or because the load failed.
func (l *List) Blocked() bool { return l.Store.State().Data == nil }

// StartDrag begins a drag from index i. It refuses (false) while blocked,
// during another gesture, or for an index outside the ordered sequence.
func (l *List) StartDrag(i int) bool {
	if l.Blocked() || l.Interaction() != Browsing {
		return false
	}
	if i < 0 || i >= len(l.Ordered()) {
		return false
	}
	l.Drag.Start(i)
	return true
}

// BeginEdit opens the inline editor for name.
func (l *List) BeginEdit(name string) bool {
	if l.Blocked() || l.Interaction() != Browsing || !l.Store.State().Data.Has(name) {
		return false
	}
	l.Editor.Begin(name)
	return true
}

// OpenForm expands the add form.
func (l *List) OpenForm() bool {
	if l.Blocked() || l.Interaction() != Browsing {
		return false
	}
	l.Form.Open()
	return true
}

func (l *List) Toggle(name string) tea.Cmd {
	if l.Blocked() || l.Interaction() != Browsing {
		return nil
	}
	return l.Store.Toggle(name)
}

func (l *List) Remove(name string) tea.Cmd {
	if l.Blocked() || l.Interaction() != Browsing {
		return nil
	}
	return l.Store.Remove(name)
}

// Reset drops all transient gesture state.
func (l *List) Reset() {
	l.Drag.Cancel()
	l.Editor.Cancel()
	l.Form.Cancel()
}

// Update forwards store messages. A failed mutation resets every gesture.
func (l *List) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(MutatedMsg); ok && m.Err != nil {
		l.Reset()
	}
	return l.Store.Update(msg)
}
