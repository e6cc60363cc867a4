package tui

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"planner-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

type fakeClient struct {
	mu    sync.Mutex
	week  *model.WeeklyHabits
	calls []string

	fetchErr error
	errs     map[string]error
}

func newFakeClient(habits ...model.Habit) *fakeClient {
	wk := model.NewWeeklyHabits(model.Week{Year: 2024, Number: 5})
	for i := range habits {
		h := habits[i]
		wk.Habits[h.Name] = &h
	}
	return &fakeClient{week: wk, errs: map[string]error{}}
}

func abcd() *fakeClient {
	return newFakeClient(
		model.Habit{Name: "A", Order: 0},
		model.Habit{Name: "B", Order: 1},
		model.Habit{Name: "C", Order: 2},
		model.Habit{Name: "D", Order: 3},
	)
}

func exerciseReadMeditate() *fakeClient {
	return newFakeClient(
		model.Habit{Name: "Exercise", Order: 0},
		model.Habit{Name: "Read", Order: 1},
		model.Habit{Name: "Meditate", Completed: true, Order: 2},
	)
}

func (c *fakeClient) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *fakeClient) setFetchErr(err error) {
	c.mu.Lock()
	c.fetchErr = err
	c.mu.Unlock()
}

func (c *fakeClient) FetchCurrentWeek(ctx context.Context) (*model.WeeklyHabits, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "fetch")
	if c.fetchErr != nil {
		return nil, c.fetchErr
	}
	return c.week.Clone(), nil
}

func (c *fakeClient) ToggleHabit(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "toggle "+name)
	if err := c.errs["toggle"]; err != nil {
		return err
	}
	h, ok := c.week.Habits[name]
	if !ok {
		return model.ErrHabitNotFound
	}
	h.Completed = !h.Completed
	return nil
}

func (c *fakeClient) AddHabit(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "add "+name)
	if !c.week.Has(name) {
		c.week.Habits[name] = &model.Habit{Name: name, Order: c.week.NextOrder()}
	}
	return nil
}

func (c *fakeClient) RemoveHabit(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "remove "+name)
	if !c.week.Has(name) {
		return model.ErrHabitNotFound
	}
	delete(c.week.Habits, name)
	return nil
}

func (c *fakeClient) ReorderHabits(ctx context.Context, names []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, fmt.Sprintf("reorder %v", names))
	for i, n := range names {
		if h, ok := c.week.Habits[n]; ok {
			h.Order = i
		}
	}
	return nil
}

func newTestModel(t *testing.T, c *fakeClient) appModel {
	t.Helper()
	m := newModel(Options{Client: c, HabitTracker: true, Timeout: time.Second})
	m.width = 80
	m.height = 24
	return m
}

// started returns a model that has completed its initial load.
func started(t *testing.T, c *fakeClient) appModel {
	t.Helper()
	m := newTestModel(t, c)
	m = settle(t, m, m.Init())
	if m.list.Store.State().Data == nil {
		t.Fatalf("expected habits after init; got err %v", m.list.Store.State().Err)
	}
	return m
}

// settle runs cmd and feeds the resulting messages back into m until nothing
// is left, expanding batches the way the bubbletea runtime does.
func settle(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for i := 0; len(queue) > 0; i++ {
		if i > 50 {
			t.Fatalf("command chain did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		next, nextCmd := m.Update(msg)
		m = next.(appModel)
		queue = append(queue, nextCmd)
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press sends one key and returns the command it produced without running it.
func press(m appModel, k string) (appModel, tea.Cmd) {
	next, cmd := m.Update(keyMsg(k))
	return next.(appModel), cmd
}

// typeText sends s rune by rune. Cursor blink commands are dropped.
func typeText(m appModel, s string) appModel {
	for _, r := range s {
		m, _ = press(m, string(r))
	}
	return m
}

func click(m appModel, action tea.MouseAction, x, y int) (appModel, tea.Cmd) {
	btn := tea.MouseButtonLeft
	if action == tea.MouseActionRelease {
		btn = tea.MouseButtonNone
	}
	next, cmd := m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: btn})
	return next.(appModel), cmd
}

// pill returns the hit box of the habit called name.
func pill(t *testing.T, m appModel, name string) hitBox {
	t.Helper()
	lay := m.layout()
	seq := m.list.Ordered()
	for _, h := range lay.pills {
		if seq[h.index].Name == name {
			return h
		}
	}
	t.Fatalf("no pill for %q", name)
	return hitBox{}
}

func plainView(m appModel) string {
	return ansi.Strip(m.View())
}
