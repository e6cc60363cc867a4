package habitlist

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// AddForm toggles between the "+" affordance (collapsed) and a text entry.
type AddForm struct {
	expanded bool
	draft    string
}

func (f *AddForm) Open() {
	f.expanded = true
	f.draft = ""
}

func (f *AddForm) Expanded() bool { return f.expanded }

func (f *AddForm) Draft() string { return f.draft }

func (f *AddForm) SetDraft(v string) {
	if f.expanded {
		f.draft = v
	}
}

// Cancel collapses the form and drops the draft.
func (f *AddForm) Cancel() {
	f.expanded = false
	f.draft = ""
}

// Blur collapses the form only when nothing has been typed.
func (f *AddForm) Blur() {
	if strings.TrimSpace(f.draft) == "" {
		f.Cancel()
	}
}

// Submit adds the trimmed draft and collapses the form. A blank draft leaves
// the form as it is.
func (f *AddForm) Submit(store *Store) tea.Cmd {
	if !f.expanded {
		return nil
	}
	name := strings.TrimSpace(f.draft)
	if name == "" {
		return nil
	}
	f.Cancel()
	return store.Add(name)
}
