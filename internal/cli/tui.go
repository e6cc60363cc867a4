package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"planner-cli/internal/tui"

	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, app *App) error {
	// The alt screen owns the terminal; logs go to PLANNER_DEBUG_LOG or nowhere.
	log, closeLog, err := tuiLogger()
	if err != nil {
		return writeErr(cmd, err)
	}
	defer closeLog()

	b, err := openBackend(app, log)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer b.close()
	stateDir, err := app.configDir()
	if err != nil {
		return writeErr(cmd, err)
	}

	opts := tui.Options{
		Client: b.client(),
		Note: func(ctx context.Context) (string, error) {
			wk, err := b.currentWeek(ctx)
			if err != nil {
				return "", err
			}
			md, err := b.note(ctx, wk)
			return string(md), err
		},
		HabitTracker: b.cfg.WeeklyView.EnabledComponents.HabitTracker,
		StateDir:     stateDir,
		Timeout:      app.Timeout,
		Logger:       log,
	}
	if t := b.cfg.TUI; t != nil {
		opts.Glyphs = t.Glyphs
		opts.Theme = t.Theme
	}
	return tui.Run(opts)
}

func tuiLogger() (*slog.Logger, func(), error) {
	path := strings.TrimSpace(os.Getenv("PLANNER_DEBUG_LOG"))
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	log := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return log, func() { _ = f.Close() }, nil
}
