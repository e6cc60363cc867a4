package tui

import (
	"time"

	"planner-cli/internal/habitlist"

	tea "github.com/charmbracelet/bubbletea"
)

type mouseState struct {
	// pressed is set between a left press on a pill and its release.
	pressed    bool
	pressIndex int

	lastClickIndex int
	lastClickAt    time.Time
}

func (m *appModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !m.enabled {
		return nil
	}
	lay := m.layout()

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.showNote && msg.Y >= len(lay.lines) {
			m.note.LineUp(3)
		}
		return nil
	case tea.MouseButtonWheelDown:
		if m.showNote && msg.Y >= len(lay.lines) {
			m.note.LineDown(3)
		}
		return nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		return m.mousePress(lay, msg.X, msg.Y)

	case tea.MouseActionMotion:
		if msg.Button != tea.MouseButtonLeft || !m.mouse.pressed {
			return nil
		}
		m.mouseDrag(lay, msg.X, msg.Y)
		return nil

	case tea.MouseActionRelease:
		pressed := m.mouse.pressed
		m.mouse.pressed = false
		if !pressed || !m.list.Drag.Active() {
			return nil
		}
		if _, ok := lay.pillAt(msg.X, msg.Y); !ok {
			// Released off the pills: no drop.
			m.list.Drag.Cancel()
			return nil
		}
		return m.list.Drag.Drop(m.list.Store)
	}
	return nil
}

func (m *appModel) mousePress(lay layout, x, y int) tea.Cmd {
	store := m.list.Store

	// A click anywhere but the focused field is a blur.
	switch m.list.Interaction() {
	case habitlist.Editing:
		if h, ok := lay.pillAt(x, y); ok && m.isEditing(h.index) {
			return nil
		}
		cmd := m.list.Editor.Commit(store)
		m.syncInput()
		return cmd
	case habitlist.Adding:
		if lay.add.contains(x, y) {
			return nil
		}
		m.list.Form.Blur()
		m.syncInput()
		return nil
	case habitlist.Reordering:
		m.list.Drag.Cancel()
		return nil
	}

	if lay.retry.contains(x, y) {
		if store.State().Loading {
			return nil
		}
		return store.Load()
	}
	if lay.add.contains(x, y) {
		if m.list.OpenForm() {
			return m.focusInput("", "New habit")
		}
		return nil
	}

	h, ok := lay.pillAt(x, y)
	if !ok {
		return nil
	}
	seq := m.list.Ordered()
	if h.index >= len(seq) {
		return nil
	}
	name := seq[h.index].Name
	m.cursor = h.index
	m.cursorName = name

	if x < h.check {
		m.mouse.lastClickAt = time.Time{}
		return m.list.Toggle(name)
	}

	now := m.now()
	if m.mouse.lastClickIndex == h.index && !m.mouse.lastClickAt.IsZero() && now.Sub(m.mouse.lastClickAt) <= doubleClickThreshold {
		m.mouse.lastClickAt = time.Time{}
		m.mouse.pressed = false
		if m.list.BeginEdit(name) {
			return m.focusInput(name, "")
		}
		return nil
	}
	m.mouse.lastClickIndex = h.index
	m.mouse.lastClickAt = now
	m.mouse.pressed = true
	m.mouse.pressIndex = h.index
	return nil
}

// mouseDrag handles motion with the left button held: the first motion starts
// the drag, moving over a pill makes it the target, leaving the pill rows
// abandons the gesture.
func (m *appModel) mouseDrag(lay layout, x, y int) {
	if !m.list.Drag.Active() {
		if !m.list.StartDrag(m.mouse.pressIndex) {
			m.mouse.pressed = false
			return
		}
		m.mouse.lastClickAt = time.Time{}
	}
	if !lay.inList(y) {
		m.list.Drag.Cancel()
		m.mouse.pressed = false
		return
	}
	if h, ok := lay.pillAt(x, y); ok {
		m.list.Drag.Enter(h.index)
	}
}

func (m *appModel) isEditing(index int) bool {
	seq := m.list.Ordered()
	return index >= 0 && index < len(seq) && seq[index].Name == m.list.Editor.Original()
}
