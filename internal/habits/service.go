package habits

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"planner-cli/internal/habitlist"
	"planner-cli/internal/markdown"
	"planner-cli/internal/model"
)

var (
	_ habitlist.Client  = (*Service)(nil)
	_ habitlist.Renamer = (*Service)(nil)
)

type ServiceOption func(*Service)

// WithClock overrides time.Now when resolving the current week.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// Service serializes all reads and writes of a repository. Each mutation
// loads the week, applies the change, and saves it back.
type Service struct {
	mu   sync.Mutex
	repo Repository
	now  func() time.Time
	log  *slog.Logger
}

func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo: repo,
		now:  time.Now,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the repository when it holds resources (an open database).
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.repo.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Service) CurrentWeek() model.Week {
	return model.CurrentWeek(s.now())
}

// Week returns the habits of wk. A week with nothing stored starts with the
// previous week's habit names, all incomplete; it is not written until the
// first mutation.
func (s *Service) Week(ctx context.Context, wk model.Week) (*model.WeeklyHabits, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, wk)
}

// Note returns the weekly note markdown for wk. Repositories that don't keep
// notes get one rendered from the habits.
func (s *Service) Note(ctx context.Context, wk model.Week) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ns, ok := s.repo.(noteSource); ok {
		b, err := ns.RawNote(ctx, wk)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, ErrWeekNotFound) {
			return nil, err
		}
	}
	wh, err := s.load(ctx, wk)
	if err != nil {
		return nil, err
	}
	return RenderNote(wh), nil
}

func (s *Service) Toggle(ctx context.Context, wk model.Week, name string) error {
	return s.mutate(ctx, wk, func(wh *model.WeeklyHabits) (bool, error) {
		h, ok := wh.Habits[name]
		if !ok {
			return false, fmt.Errorf("%q: %w", name, model.ErrHabitNotFound)
		}
		h.Completed = !h.Completed
		return true, nil
	})
}

// Add appends name after the last habit. Adding an existing name is a no-op.
func (s *Service) Add(ctx context.Context, wk model.Week, name string) error {
	name, err := model.NormalizeName(name)
	if err != nil {
		return err
	}
	return s.mutate(ctx, wk, func(wh *model.WeeklyHabits) (bool, error) {
		if wh.Has(name) {
			return false, nil
		}
		wh.Habits[name] = &model.Habit{Name: name, Order: wh.NextOrder()}
		return true, nil
	})
}

func (s *Service) Remove(ctx context.Context, wk model.Week, name string) error {
	return s.mutate(ctx, wk, func(wh *model.WeeklyHabits) (bool, error) {
		if !wh.Has(name) {
			return false, fmt.Errorf("%q: %w", name, model.ErrHabitNotFound)
		}
		delete(wh.Habits, name)
		return true, nil
	})
}

// Reorder assigns order positionally from names. Unknown names are skipped;
// habits missing from names keep their relative order after the listed ones.
func (s *Service) Reorder(ctx context.Context, wk model.Week, names []string) error {
	return s.mutate(ctx, wk, func(wh *model.WeeklyHabits) (bool, error) {
		listed := map[string]bool{}
		next := 0
		for _, name := range names {
			h, ok := wh.Habits[name]
			if !ok || listed[name] {
				continue
			}
			listed[name] = true
			h.Order = next
			next++
		}
		for _, h := range byOrder(wh) {
			if listed[h.Name] {
				continue
			}
			wh.Habits[h.Name].Order = next
			next++
		}
		return true, nil
	})
}

// Rename changes a habit's name in place, keeping completion and order.
func (s *Service) Rename(ctx context.Context, wk model.Week, oldName, newName string) error {
	newName, err := model.NormalizeName(newName)
	if err != nil {
		return err
	}
	return s.mutate(ctx, wk, func(wh *model.WeeklyHabits) (bool, error) {
		h, ok := wh.Habits[oldName]
		if !ok {
			return false, fmt.Errorf("%q: %w", oldName, model.ErrHabitNotFound)
		}
		if newName == oldName {
			return false, nil
		}
		if wh.Has(newName) {
			return false, fmt.Errorf("%q: %w", newName, model.ErrHabitExists)
		}
		delete(wh.Habits, oldName)
		h.Name = newName
		wh.Habits[newName] = h
		return true, nil
	})
}

// habitlist.Client for the current week.

func (s *Service) FetchCurrentWeek(ctx context.Context) (*model.WeeklyHabits, error) {
	return s.Week(ctx, s.CurrentWeek())
}

func (s *Service) ToggleHabit(ctx context.Context, name string) error {
	return s.Toggle(ctx, s.CurrentWeek(), name)
}

func (s *Service) AddHabit(ctx context.Context, name string) error {
	return s.Add(ctx, s.CurrentWeek(), name)
}

func (s *Service) RemoveHabit(ctx context.Context, name string) error {
	return s.Remove(ctx, s.CurrentWeek(), name)
}

func (s *Service) ReorderHabits(ctx context.Context, names []string) error {
	return s.Reorder(ctx, s.CurrentWeek(), names)
}

func (s *Service) RenameHabit(ctx context.Context, oldName, newName string) error {
	return s.Rename(ctx, s.CurrentWeek(), oldName, newName)
}

func (s *Service) mutate(ctx context.Context, wk model.Week, fn func(wh *model.WeeklyHabits) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wh, err := s.load(ctx, wk)
	if err != nil {
		return err
	}
	changed, err := fn(wh)
	if err != nil || !changed {
		return err
	}
	if err := s.repo.Save(ctx, wh); err != nil {
		return fmt.Errorf("save %s: %w", wk, err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, wk model.Week) (*model.WeeklyHabits, error) {
	if !wk.Valid() {
		return nil, fmt.Errorf("invalid week %s", wk)
	}
	wh, err := s.repo.Load(ctx, wk)
	if err == nil {
		return wh, nil
	}
	if !errors.Is(err, ErrWeekNotFound) {
		return nil, fmt.Errorf("load %s: %w", wk, err)
	}

	wh = model.NewWeeklyHabits(wk)
	prev, err := s.repo.Load(ctx, wk.Prev())
	if err != nil {
		if !errors.Is(err, ErrWeekNotFound) {
			s.log.Warn("previous week unreadable; starting empty", "week", wk.Prev(), "err", err)
		}
		return wh, nil
	}
	for i, h := range byOrder(prev) {
		wh.Habits[h.Name] = &model.Habit{Name: h.Name, Order: i}
	}
	s.log.Debug("carried habits over", "from", prev.Week(), "to", wk, "count", len(wh.Habits))
	return wh, nil
}

// byOrder returns copies sorted by Order, then name, ignoring completion.
func byOrder(wh *model.WeeklyHabits) []model.Habit {
	out := make([]model.Habit, 0, len(wh.Habits))
	for _, h := range wh.Habits {
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// tasks lists the habits as note tasks: incomplete first, then by order.
func tasks(wh *model.WeeklyHabits) []markdown.Task {
	seq := habitlist.Order(wh)
	out := make([]markdown.Task, len(seq))
	for i, h := range seq {
		out[i] = markdown.Task{Checked: h.Completed, Text: h.Name}
	}
	return out
}

// RenderNote renders a fresh weekly note holding only the habits of wh.
func RenderNote(wh *model.WeeklyHabits) []byte {
	return markdown.NewNote(wh.Week().Title(), tasks(wh))
}
