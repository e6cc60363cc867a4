package habitlist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"planner-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

var errBackendDown = errors.New("backend down")

// fakeClient is an in-memory backend that records every call.
type fakeClient struct {
	mu    sync.Mutex
	week  *model.WeeklyHabits
	calls []string

	fetchErr    error
	errs        map[string]error // per operation: "toggle", "add", ...
	removeFails int              // remove fails this many times before succeeding
}

func newFakeClient(habits ...model.Habit) *fakeClient {
	wk := model.NewWeeklyHabits(model.Week{Year: 2024, Number: 5})
	for _, h := range habits {
		wk.Habits[h.Name] = &h
	}
	return &fakeClient{week: wk, errs: map[string]error{}}
}

func (c *fakeClient) record(call string) {
	c.calls = append(c.calls, call)
}

func (c *fakeClient) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *fakeClient) FetchCurrentWeek(ctx context.Context) (*model.WeeklyHabits, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("fetch")
	if c.fetchErr != nil {
		return nil, c.fetchErr
	}
	return c.week.Clone(), nil
}

func (c *fakeClient) ToggleHabit(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("toggle " + name)
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
	c.record("add " + name)
	if err := c.errs["add"]; err != nil {
		return err
	}
	if c.week.Has(name) {
		return nil
	}
	c.week.Habits[name] = &model.Habit{Name: name, Order: c.week.NextOrder()}
	return nil
}

func (c *fakeClient) RemoveHabit(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("remove " + name)
	if c.removeFails > 0 {
		c.removeFails--
		return errBackendDown
	}
	if err := c.errs["remove"]; err != nil {
		return err
	}
	if !c.week.Has(name) {
		return model.ErrHabitNotFound
	}
	delete(c.week.Habits, name)
	return nil
}

func (c *fakeClient) ReorderHabits(ctx context.Context, names []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record(fmt.Sprintf("reorder %v", names))
	if err := c.errs["reorder"]; err != nil {
		return err
	}
	for i, n := range names {
		if h, ok := c.week.Habits[n]; ok {
			h.Order = i
		}
	}
	return nil
}

// renamingClient adds atomic renames to fakeClient.
type renamingClient struct {
	*fakeClient
}

func (c renamingClient) RenameHabit(ctx context.Context, oldName, newName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("rename " + oldName + " " + newName)
	h, ok := c.week.Habits[oldName]
	if !ok {
		return model.ErrHabitNotFound
	}
	delete(c.week.Habits, oldName)
	h.Name = newName
	c.week.Habits[newName] = h
	return nil
}

type updater interface {
	Update(tea.Msg) tea.Cmd
}

// settle runs cmd and feeds every resulting message back into u until no
// command is left, as the bubbletea runtime would.
func settle(t *testing.T, u updater, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 20 {
			t.Fatalf("command chain did not settle")
		}
		cmd = u.Update(cmd())
	}
}

// loaded returns a store holding the fake's current snapshot.
func loaded(t *testing.T, c Client, opts ...Option) *Store {
	t.Helper()
	s := NewStore(c, opts...)
	settle(t, s, s.Load())
	if s.State().Data == nil {
		t.Fatalf("expected snapshot after load; got err %v", s.State().Err)
	}
	return s
}

func exerciseReadMeditate() *fakeClient {
	return newFakeClient(
		model.Habit{Name: "Exercise", Order: 0},
		model.Habit{Name: "Read", Order: 1},
		model.Habit{Name: "Meditate", Completed: true, Order: 2},
	)
}
