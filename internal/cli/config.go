package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"planner-cli/internal/config"
	"planner-cli/internal/format"

	"github.com/spf13/cobra"
)

type configOut struct {
	Path             string `json:"path"`
	WorkspaceRoot    string `json:"workspace_root"`
	Backend          string `json:"backend"`
	RemoteURL        string `json:"remote_url,omitempty"`
	WeeklyDir        string `json:"weekly_dir,omitempty"`
	WeeklyNameFormat string `json:"weekly_name_format"`
	HabitTracker     bool   `json:"habit_tracker"`
	GitAutoCommit    bool   `json:"git_autocommit"`
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change planner settings",
	}

	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigPathCmd(app))
	cmd.AddCommand(newConfigSetWorkspaceCmd(app))
	cmd.AddCommand(newConfigSetBackendCmd(app))
	cmd.AddCommand(newConfigSetGitAutoCommitCmd(app))

	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration (file + flags + env)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.configPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := app.loadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			out := configOut{
				Path:             path,
				WorkspaceRoot:    cfg.WorkspaceRoot,
				Backend:          cfg.Backend,
				RemoteURL:        cfg.RemoteURL,
				WeeklyNameFormat: cfg.PeriodicNotes.WeeklyNameFormat,
				HabitTracker:     cfg.WeeklyView.EnabledComponents.HabitTracker,
				GitAutoCommit:    cfg.Git.AutoCommit,
			}
			if cfg.WorkspaceRoot != "" {
				out.WeeklyDir = cfg.WeeklyDir()
			}
			var hints []string
			if err := cfg.Validate(); err != nil {
				hints = append(hints, err.Error())
			}
			return writeOut(cmd, app, format.Envelope{Data: out, Hints: hints})
		},
	}
}

func newConfigPathCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.configPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: map[string]any{"path": path}})
		},
	}
}

func newConfigSetWorkspaceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-workspace <dir>",
		Short: "Set the notes workspace (must be an existing, writable directory)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := strings.TrimSpace(args[0])
			if dir == "" {
				return writeErr(cmd, errors.New("missing workspace directory"))
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return writeErr(cmd, err)
			}
			abs = filepath.Clean(abs)
			if err := config.ValidateWorkspacePath(abs); err != nil {
				return writeErr(cmd, fmt.Errorf("invalid workspace %s: %w", abs, err))
			}
			return updateConfig(cmd, app, func(cfg *config.Config) {
				cfg.WorkspaceRoot = abs
			}, "planner habits list")
		},
	}
}

func newConfigSetBackendCmd(app *App) *cobra.Command {
	var remote string

	cmd := &cobra.Command{
		Use:   "set-backend <markdown|sqlite|http>",
		Short: "Choose where habits are stored",
		Example: strings.TrimSpace(`
planner config set-backend sqlite
planner config set-backend http --remote-url http://localhost:8080
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.ToLower(strings.TrimSpace(args[0]))
			switch name {
			case config.BackendMarkdown, config.BackendSQLite, config.BackendHTTP:
			default:
				return writeErr(cmd, fmt.Errorf("unknown backend %q (want markdown|sqlite|http)", name))
			}
			return updateConfig(cmd, app, func(cfg *config.Config) {
				cfg.Backend = name
				if r := strings.TrimSpace(remote); r != "" {
					cfg.RemoteURL = r
				}
			})
		},
	}
	cmd.Flags().StringVar(&remote, "remote-url", "", "Planner server URL (http backend)")
	return cmd
}

func newConfigSetGitAutoCommitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-git-autocommit <on|off>",
		Short: "Commit weekly notes after each habit change (markdown backend in a git repo)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var on bool
			switch strings.ToLower(strings.TrimSpace(args[0])) {
			case "on", "true", "yes":
				on = true
			case "off", "false", "no":
			default:
				return writeErr(cmd, fmt.Errorf("expected on or off, got %q", args[0]))
			}
			return updateConfig(cmd, app, func(cfg *config.Config) {
				cfg.Git.AutoCommit = on
			})
		},
	}
}

// updateConfig edits the config file itself; flag and env overrides are not
// written back.
func updateConfig(cmd *cobra.Command, app *App, edit func(cfg *config.Config), hints ...string) error {
	path, err := app.configPath()
	if err != nil {
		return writeErr(cmd, err)
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return writeErr(cmd, err)
	}
	edit(cfg)
	if cfg.Backend == config.BackendHTTP && strings.TrimSpace(cfg.RemoteURL) == "" {
		return writeErr(cmd, errors.New("backend http requires --remote-url"))
	}
	if err := config.SaveFile(path, cfg); err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, format.Envelope{
		Data: map[string]any{
			"path":           path,
			"workspace_root": cfg.WorkspaceRoot,
			"backend":        cfg.Backend,
		},
		Hints: hints,
	})
}
