// Package tui is the interactive weekly habit view: habits are drawn as pills
// (incomplete first, then completed), and keyboard and mouse input drive the
// habitlist gestures.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"planner-cli/internal/habitlist"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Client habitlist.Client

	// Note returns the current weekly note markdown for the preview pane.
	// Nil disables the preview.
	Note func(ctx context.Context) (string, error)

	// HabitTracker is the weekly view's habit_tracker switch. When false
	// nothing is loaded and the list is not shown.
	HabitTracker bool

	// StateDir holds tui_state.json. Empty disables state persistence.
	StateDir string

	Timeout time.Duration
	Glyphs  string
	Theme   string
	Logger  *slog.Logger
}

func Run(opts Options) error {
	if opts.Client == nil {
		return errors.New("tui: nil client")
	}
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)
	applyGlyphPreference(opts.Glyphs)

	m := newModel(opts)
	defer m.list.Store.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
