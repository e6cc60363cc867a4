package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"planner-cli/internal/habitlist"
	"planner-cli/internal/model"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	doubleClickThreshold = 400 * time.Millisecond
	maxInputChars        = 120
)

// noteLoadedMsg carries the weekly note markdown for the preview pane.
type noteLoadedMsg struct {
	md  string
	err error
}

type appModel struct {
	list *habitlist.List

	keys  keyMap
	help  help.Model
	input textinput.Model

	note     viewport.Model
	noteFn   func(ctx context.Context) (string, error)
	noteMD   string
	noteErr  string
	showNote bool

	enabled bool
	width   int
	height  int

	// The cursor follows the habit by name across reloads, since toggling
	// moves a habit between the two sublists.
	cursor     int
	cursorName string

	mouse mouseState

	timeout   time.Duration
	now       func() time.Time
	statePath string
	log       *slog.Logger
}

func newModel(opts Options) appModel {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	store := habitlist.NewStore(opts.Client, habitlist.WithTimeout(timeout), habitlist.WithLogger(log))

	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = maxInputChars
	in.Width = 24

	m := appModel{
		list:      habitlist.NewList(store),
		keys:      defaultKeyMap(),
		help:      help.New(),
		input:     in,
		note:      viewport.New(80, 10),
		noteFn:    opts.Note,
		enabled:   opts.HabitTracker,
		width:     80,
		height:    24,
		timeout:   timeout,
		now:       time.Now,
		statePath: uiStatePath(opts.StateDir),
		log:       log,
	}
	st := loadUIState(m.statePath)
	m.cursorName = st.CursorHabit
	m.showNote = st.ShowNote && m.noteFn != nil
	return m
}

func (m appModel) Init() tea.Cmd {
	if !m.enabled {
		return nil
	}
	cmds := []tea.Cmd{m.list.Store.Load()}
	if m.showNote {
		cmds = append(cmds, m.loadNote())
	}
	return tea.Batch(cmds...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(12, min(40, msg.Width-8))
		m.resizeNote()
		if m.noteMD != "" {
			m.note.SetContent(renderMarkdown(m.noteMD, m.note.Width))
		}
		return m, nil

	case habitlist.LoadedMsg:
		cmd := m.list.Update(msg)
		m.syncCursor()
		if m.showNote && !m.list.Store.State().Loading {
			return m, tea.Batch(cmd, m.loadNote())
		}
		return m, cmd

	case habitlist.MutatedMsg:
		cmd := m.list.Update(msg)
		if msg.Err != nil {
			m.log.Warn("habit mutation failed", "op", msg.Op, "err", msg.Err)
		}
		m.syncInput()
		return m, cmd

	case noteLoadedMsg:
		if msg.err != nil {
			m.noteErr = msg.err.Error()
			m.noteMD = ""
			m.note.SetContent("")
			return m, nil
		}
		m.noteErr = ""
		m.noteMD = msg.md
		m.resizeNote()
		m.note.SetContent(renderMarkdown(msg.md, m.note.Width))
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		cmd := m.handleMouse(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	store := m.list.Store

	switch m.list.Interaction() {
	case habitlist.Editing:
		switch msg.Type {
		case tea.KeyEnter:
			cmd := m.list.Editor.Commit(store)
			m.syncInput()
			return m, cmd
		case tea.KeyEsc:
			m.list.Editor.Cancel()
			m.syncInput()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.list.Editor.SetDraft(m.input.Value())
		return m, cmd

	case habitlist.Adding:
		switch msg.Type {
		case tea.KeyEnter:
			name := strings.TrimSpace(m.list.Form.Draft())
			cmd := m.list.Form.Submit(store)
			if cmd != nil {
				m.cursorName = name
			}
			m.syncInput()
			return m, cmd
		case tea.KeyEsc:
			m.list.Form.Cancel()
			m.syncInput()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.list.Form.SetDraft(m.input.Value())
		return m, cmd

	case habitlist.Reordering:
		switch {
		case key.Matches(msg, m.keys.Prev):
			m.dragStep(-1)
		case key.Matches(msg, m.keys.Next):
			m.dragStep(1)
		case key.Matches(msg, m.keys.Drop):
			return m, m.list.Drag.Drop(store)
		case key.Matches(msg, m.keys.Cancel):
			m.list.Drag.Cancel()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Preview):
		if m.noteFn == nil {
			return m, nil
		}
		m.showNote = !m.showNote
		m.resizeNote()
		if m.showNote {
			return m, m.loadNote()
		}
		return m, nil
	case key.Matches(msg, m.keys.Retry):
		if !m.enabled || store.State().Loading {
			return m, nil
		}
		return m, store.Load()
	}

	if !m.enabled {
		return m, nil
	}

	switch msg.String() {
	case "pgdown":
		if m.showNote {
			m.note.LineDown(max(1, m.note.Height-1))
		}
		return m, nil
	case "pgup":
		if m.showNote {
			m.note.LineUp(max(1, m.note.Height-1))
		}
		return m, nil
	}

	name, ok := m.selected()
	switch {
	case key.Matches(msg, m.keys.Prev):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Next):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Toggle):
		if ok {
			return m, m.list.Toggle(name)
		}
	case key.Matches(msg, m.keys.Edit):
		if ok && m.list.BeginEdit(name) {
			return m, m.focusInput(name, "")
		}
	case key.Matches(msg, m.keys.Add):
		if m.list.OpenForm() {
			return m, m.focusInput("", "New habit")
		}
	case key.Matches(msg, m.keys.Remove):
		if ok {
			return m, m.list.Remove(name)
		}
	case key.Matches(msg, m.keys.Move):
		m.list.StartDrag(m.cursor)
	}
	return m, nil
}

func (m appModel) quit() (tea.Model, tea.Cmd) {
	m.list.Reset()
	if m.statePath != "" {
		if err := saveUIState(m.statePath, uiState{CursorHabit: m.cursorName, ShowNote: m.showNote}); err != nil {
			m.log.Warn("save tui state", "err", err)
		}
	}
	return m, tea.Quit
}

func (m *appModel) selected() (string, bool) {
	seq := m.list.Ordered()
	if m.cursor < 0 || m.cursor >= len(seq) {
		return "", false
	}
	return seq[m.cursor].Name, true
}

func (m *appModel) moveCursor(delta int) {
	seq := m.list.Ordered()
	if len(seq) == 0 {
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, len(seq)-1)
	m.cursorName = seq[m.cursor].Name
}

// syncCursor re-resolves the cursor after the snapshot changed.
func (m *appModel) syncCursor() {
	seq := m.list.Ordered()
	if len(seq) == 0 {
		m.cursor = 0
		return
	}
	if i := habitlist.IndexOf(seq, m.cursorName); i >= 0 {
		m.cursor = i
	}
	m.cursor = clamp(m.cursor, 0, len(seq)-1)
	m.cursorName = seq[m.cursor].Name
}

// dragStep moves the keyboard drag target by delta.
func (m *appModel) dragStep(delta int) {
	st := m.list.Drag.State()
	cur := st.Source
	if st.Phase == habitlist.PhaseDragOver {
		cur = st.Target
	}
	n := len(m.list.Ordered())
	if n == 0 {
		return
	}
	m.list.Drag.Enter(clamp(cur+delta, 0, n-1))
}

func (m *appModel) focusInput(value, placeholder string) tea.Cmd {
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

// syncInput blurs the text field once no text gesture is active.
func (m *appModel) syncInput() {
	switch m.list.Interaction() {
	case habitlist.Editing, habitlist.Adding:
		return
	}
	m.input.Blur()
	m.input.Reset()
}

func (m appModel) loadNote() tea.Cmd {
	fn := m.noteFn
	if fn == nil {
		return nil
	}
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		md, err := fn(ctx)
		return noteLoadedMsg{md: md, err: err}
	}
}

func (m *appModel) resizeNote() {
	m.note.Width = max(20, m.width-2)
	h := m.height - len(m.layout().lines) - 4
	m.note.Height = max(3, h)
}

func (m appModel) week() model.Week {
	if wk := m.list.Store.State().Data; wk != nil {
		return wk.Week()
	}
	return model.CurrentWeek(m.now())
}

func (m appModel) layout() layout {
	st := m.list.Store.State()
	in := layoutInput{
		width:    m.width,
		week:     m.week(),
		seq:      m.list.Ordered(),
		cursor:   m.cursor,
		drag:     m.list.Drag.State(),
		loading:  st.Loading,
		disabled: !m.enabled,
	}
	if st.Data == nil && st.Err != nil && !st.Loading {
		in.loadErr = st.Err.Message()
	}
	if m.list.Editor.Editing() {
		in.editing = m.list.Editor.Original()
		in.editView = m.input.View()
	}
	if m.list.Form.Expanded() {
		in.adding = true
		in.addView = glyphAdd() + " " + m.input.View()
	}
	return computeLayout(in)
}

func (m appModel) View() string {
	lay := m.layout()
	var b strings.Builder
	b.WriteString(strings.Join(lay.lines, "\n"))

	// Mutation failures keep the snapshot; the message sits under the list.
	if st := m.list.Store.State(); st.Err != nil && st.Data != nil {
		b.WriteString("\n\n")
		b.WriteString(styleError().Render(st.Err.Message()))
	}

	if m.showNote {
		b.WriteString("\n\n")
		switch {
		case m.noteErr != "":
			b.WriteString(styleError().Render("Failed to load note: " + m.noteErr))
		case m.noteMD == "":
			b.WriteString(styleMuted().Render("No weekly note yet."))
		default:
			b.WriteString(m.note.View())
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m appModel) statusLine() string {
	switch m.list.Interaction() {
	case habitlist.Reordering:
		seq := m.list.Ordered()
		st := m.list.Drag.State()
		line := "Moving"
		if st.Source >= 0 && st.Source < len(seq) {
			line += " " + seq[st.Source].Name
		}
		if st.Phase == habitlist.PhaseDragOver && st.Target >= 0 && st.Target < len(seq) {
			line += " " + glyphDropMarker() + " " + seq[st.Target].Name
		}
		return lipgloss.JoinVertical(lipgloss.Left, styleMuted().Render(line), m.help.View(dragKeys{m.keys}))
	case habitlist.Editing, habitlist.Adding:
		return m.help.View(inputKeys{m.keys})
	}
	return m.help.View(m.keys)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
