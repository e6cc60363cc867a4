package habitlist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"planner-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

const defaultRenameRetries = 2

// State is what views read from the store.
type State struct {
	Data    *model.WeeklyHabits
	Loading bool
	Err     *Error
}

// LoadedMsg carries the result of a Load command.
type LoadedMsg struct {
	gen  uint64
	week *model.WeeklyHabits
	err  error
}

// MutatedMsg carries the result of a mutation command.
type MutatedMsg struct {
	Op  Op
	Err error
}

type Option func(*Store)

// WithTimeout bounds every backend call. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRenameRetries sets how many times a failed remove is retried when a
// rename falls back to add+remove.
func WithRenameRetries(n int) Option {
	return func(s *Store) {
		if n >= 0 {
			s.renameRetries = n
		}
	}
}

// Store owns the canonical snapshot of the current week. It never patches the
// snapshot locally: every successful mutation is followed by a fresh load.
//
// Store is not safe for concurrent use; call it from the event loop only.
type Store struct {
	client        Client
	timeout       time.Duration
	renameRetries int
	log           *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	state   State
	gen     uint64 // last issued load
	applied uint64 // last load whose result was applied
	closed  bool
}

func NewStore(c Client, opts ...Option) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		client:        c,
		renameRetries: defaultRenameRetries,
		log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		ctx:           ctx,
		cancel:        cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) State() State { return s.state }

// Ordered is Order applied to the current snapshot.
func (s *Store) Ordered() []model.Habit { return Order(s.state.Data) }

// Close cancels in-flight requests. Results arriving afterwards are ignored
// and no further commands are issued.
func (s *Store) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
}

func (s *Store) Closed() bool { return s.closed }

// Load fetches the current week.
func (s *Store) Load() tea.Cmd {
	if s.closed {
		return nil
	}
	s.gen++
	gen := s.gen
	s.state.Loading = true
	return func() tea.Msg {
		ctx, cancel := s.callContext()
		defer cancel()
		wk, err := s.client.FetchCurrentWeek(ctx)
		return LoadedMsg{gen: gen, week: wk, err: err}
	}
}

func (s *Store) Toggle(name string) tea.Cmd {
	return s.mutate(OpToggle, func(ctx context.Context) error {
		return s.client.ToggleHabit(ctx, name)
	})
}

// Add returns nil for a blank name.
func (s *Store) Add(name string) tea.Cmd {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return s.mutate(OpAdd, func(ctx context.Context) error {
		return s.client.AddHabit(ctx, name)
	})
}

func (s *Store) Remove(name string) tea.Cmd {
	return s.mutate(OpRemove, func(ctx context.Context) error {
		return s.client.RemoveHabit(ctx, name)
	})
}

// Rename returns nil when newName is blank or equal to oldName. A newName
// that already exists in the snapshot is refused without a backend call.
func (s *Store) Rename(oldName, newName string) tea.Cmd {
	newName = strings.TrimSpace(newName)
	if s.closed || newName == "" || newName == oldName {
		return nil
	}
	if s.state.Data.Has(newName) {
		err := fmt.Errorf("rename %q to %q: %w", oldName, newName, model.ErrHabitExists)
		return func() tea.Msg { return MutatedMsg{Op: OpRename, Err: err} }
	}
	if r, ok := s.client.(Renamer); ok {
		return s.mutate(OpRename, func(ctx context.Context) error {
			return r.RenameHabit(ctx, oldName, newName)
		})
	}
	retries := s.renameRetries
	return s.mutate(OpRename, func(ctx context.Context) error {
		return addThenRemove(ctx, s.client, oldName, newName, retries)
	})
}

// Reorder sends the full list of names in the desired order.
func (s *Store) Reorder(names []string) tea.Cmd {
	names = append([]string(nil), names...)
	return s.mutate(OpReorder, func(ctx context.Context) error {
		return s.client.ReorderHabits(ctx, names)
	})
}

// Update applies a LoadedMsg or MutatedMsg. It returns the follow-up load
// after a successful mutation.
func (s *Store) Update(msg tea.Msg) tea.Cmd {
	if s.closed {
		return nil
	}
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.gen <= s.applied {
			s.log.Debug("dropping stale load", "gen", msg.gen, "applied", s.applied)
			return nil
		}
		s.applied = msg.gen
		if msg.gen == s.gen {
			s.state.Loading = false
		}
		if msg.err != nil {
			s.state.Data = nil
			s.state.Err = newError(OpLoad, msg.err)
			s.log.Warn("load habits failed", "err", msg.err, "kind", s.state.Err.Kind)
			return nil
		}
		s.state.Data = msg.week
		s.state.Err = nil
	case MutatedMsg:
		if msg.Err != nil {
			s.state.Err = newError(msg.Op, msg.Err)
			s.log.Warn("habit mutation failed", "op", msg.Op, "err", msg.Err, "kind", s.state.Err.Kind)
			return nil
		}
		return s.Load()
	}
	return nil
}

func (s *Store) mutate(op Op, fn func(ctx context.Context) error) tea.Cmd {
	if s.closed {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := s.callContext()
		defer cancel()
		return MutatedMsg{Op: op, Err: fn(ctx)}
	}
}

func (s *Store) callContext() (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(s.ctx, s.timeout)
	}
	return context.WithCancel(s.ctx)
}

// addThenRemove renames without backend support. The old name is only removed
// once the new one exists; a failed remove is retried on its own so the new
// habit is never added twice. A not-found remove means the old one is gone.
func addThenRemove(ctx context.Context, c Client, oldName, newName string, retries int) error {
	if err := c.AddHabit(ctx, newName); err != nil {
		return err
	}
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		err = c.RemoveHabit(ctx, oldName)
		if err == nil || errors.Is(err, model.ErrHabitNotFound) {
			return nil
		}
		if ctx.Err() != nil {
			break
		}
	}
	return fmt.Errorf("remove %q after adding %q: %w", oldName, newName, err)
}
