// Package habitlist holds the state machine behind the weekly habit list: the
// canonical snapshot (Store), its display ordering (Order), and the transient
// gestures layered on top of it (Drag, Editor, AddForm).
//
// Everything here runs on the bubbletea event loop. Backend I/O happens only
// inside the tea.Cmd values returned by the Store; results come back as
// messages that must be passed to Store.Update (or List.Update).
package habitlist

import (
	"context"

	"planner-cli/internal/model"
)

// Client is the request/response boundary to the habit backend for the
// current week. Implementations hold no list state.
type Client interface {
	FetchCurrentWeek(ctx context.Context) (*model.WeeklyHabits, error)
	ToggleHabit(ctx context.Context, name string) error
	AddHabit(ctx context.Context, name string) error
	RemoveHabit(ctx context.Context, name string) error
	// ReorderHabits assigns order positionally, following names.
	ReorderHabits(ctx context.Context, names []string) error
}

// Renamer is implemented by clients that can rename a habit atomically,
// keeping its completion and order.
type Renamer interface {
	RenameHabit(ctx context.Context, oldName, newName string) error
}
