package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"planner-cli/internal/format"
	"planner-cli/internal/habitlist"
	"planner-cli/internal/model"

	"github.com/spf13/cobra"
)

// weekOut is the output shape of every habits command: the week's habits in
// display order (incomplete first).
type weekOut struct {
	Week   string        `json:"week"`
	Habits []model.Habit `json:"habits"`
}

func newWeekOut(wh *model.WeeklyHabits) weekOut {
	seq := habitlist.Order(wh)
	if seq == nil {
		seq = []model.Habit{}
	}
	return weekOut{Week: wh.Week().Key(), Habits: seq}
}

func (w weekOut) Text() string {
	var b strings.Builder
	b.WriteString(w.Week)
	for _, h := range w.Habits {
		mark := " "
		if h.Completed {
			mark = "x"
		}
		fmt.Fprintf(&b, "\n[%s] %s", mark, h.Name)
	}
	return b.String()
}

func newHabitsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habits",
		Short: "List and change this week's habits",
	}

	cmd.AddCommand(newHabitsListCmd(app))
	cmd.AddCommand(newHabitsToggleCmd(app))
	cmd.AddCommand(newHabitsAddCmd(app))
	cmd.AddCommand(newHabitsRemoveCmd(app))
	cmd.AddCommand(newHabitsRenameCmd(app))
	cmd.AddCommand(newHabitsReorderCmd(app))

	return cmd
}

func newHabitsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the current week's habits (incomplete first)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHabits(cmd, app, nil, "planner habits add <name>")
		},
	}
}

func newHabitsToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <name>",
		Short: "Flip a habit between done and not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHabits(cmd, app, func(ctx context.Context, c habitClient) error {
				return c.ToggleHabit(ctx, args[0])
			})
		},
	}
}

func newHabitsAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a habit to the current week (no-op if it exists)",
		Example: strings.TrimSpace(`
planner habits add Exercise
planner habits add "Read 20 pages"
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return writeErr(cmd, model.ErrHabitNameEmpty)
			}
			return runHabits(cmd, app, func(ctx context.Context, c habitClient) error {
				return c.AddHabit(ctx, name)
			})
		},
	}
}

func newHabitsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a habit from the current week",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHabits(cmd, app, func(ctx context.Context, c habitClient) error {
				return c.RemoveHabit(ctx, args[0])
			})
		},
	}
}

func newHabitsRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a habit, keeping its state and position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			newName := strings.TrimSpace(args[1])
			if newName == "" {
				return writeErr(cmd, model.ErrHabitNameEmpty)
			}
			return runHabits(cmd, app, func(ctx context.Context, c habitClient) error {
				return c.RenameHabit(ctx, args[0], newName)
			})
		},
	}
}

func newHabitsReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <name>...",
		Short: "Set the habit order (names not listed keep their relative order, after the listed ones)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHabits(cmd, app, func(ctx context.Context, c habitClient) error {
				return c.ReorderHabits(ctx, args)
			})
		},
	}
}

// runHabits applies mutate (if any) and prints the freshly fetched week.
func runHabits(cmd *cobra.Command, app *App, mutate func(ctx context.Context, c habitClient) error, hints ...string) error {
	b, err := openBackend(app, cliLogger(cmd))
	if err != nil {
		return writeErr(cmd, err)
	}
	defer b.close()
	ctx, cancel := app.callContext(cmd)
	defer cancel()

	c := b.client()
	if mutate != nil {
		if err := mutate(ctx, c); err != nil {
			return writeErr(cmd, err)
		}
	}
	wh, err := c.FetchCurrentWeek(ctx)
	if err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, format.Envelope{Data: newWeekOut(wh), Hints: hints})
}

func cliLogger(cmd *cobra.Command) *slog.Logger {
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
}
