package habitlist

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type editSession struct {
	original string
	draft    string
}

// Editor is the inline rename state: Viewing (no session) or Editing.
// A session is consumed by its first Commit, so Enter followed by a blur
// renames once.
type Editor struct {
	session *editSession
}

// Begin starts editing name, with the draft set to the current name.
func (e *Editor) Begin(name string) {
	e.session = &editSession{original: name, draft: name}
}

func (e *Editor) Editing() bool { return e.session != nil }

// Original is the name being edited, or "" when viewing.
func (e *Editor) Original() string {
	if e.session == nil {
		return ""
	}
	return e.session.original
}

func (e *Editor) Draft() string {
	if e.session == nil {
		return ""
	}
	return e.session.draft
}

func (e *Editor) SetDraft(v string) {
	if e.session != nil {
		e.session.draft = v
	}
}

// Commit ends the session and returns the rename command, or nil when the
// trimmed draft is empty, unchanged, or there is no session.
func (e *Editor) Commit(store *Store) tea.Cmd {
	sess := e.session
	e.session = nil
	if sess == nil {
		return nil
	}
	draft := strings.TrimSpace(sess.draft)
	if draft == "" || draft == sess.original {
		return nil
	}
	return store.Rename(sess.original, draft)
}

// Cancel discards the draft.
func (e *Editor) Cancel() { e.session = nil }
