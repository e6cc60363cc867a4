package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"planner-cli/internal/config"
	"planner-cli/internal/format"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigDir  string
	Workspace  string
	Backend    string
	Remote     string
	PrettyJSON bool
	Format     string
	Timeout    time.Duration
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "planner",
		Short:        "Weekly planner: habit tracker TUI + CLI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive weekly view
  planner

  # Point the planner at a notes workspace
  planner config set-workspace ~/notes

  # Scriptable commands
  planner habits list
  planner habits toggle Exercise

  # Print this week's note
  planner week --markdown
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", envOr("PLANNER_CONFIG_DIR", ""), "Config directory (default ~/.notedown/planner)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("PLANNER_WORKSPACE", ""), "Notes workspace root (overrides workspace_root in config)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", envOr("PLANNER_BACKEND", ""), "Habit backend (markdown|sqlite|http)")
	cmd.PersistentFlags().StringVar(&app.Remote, "remote", envOr("PLANNER_REMOTE", ""), "Planner server URL for the http backend")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("PLANNER_FORMAT", "json"), "Output format (json|edn|yaml|text)")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", defaultTimeout, "Timeout per backend call")

	cmd.AddCommand(newHabitsCmd(app))
	cmd.AddCommand(newWeekCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// configDir resolves --config-dir, then PLANNER_CONFIG_DIR, then the default.
func (app *App) configDir() (string, error) {
	if d := strings.TrimSpace(app.ConfigDir); d != "" {
		return d, nil
	}
	return config.Dir()
}

func (app *App) configPath() (string, error) {
	dir, err := app.configDir()
	if err != nil {
		return "", err
	}
	return config.FileIn(dir), nil
}

// loadConfig reads the config file and applies flag/env overrides.
func (app *App) loadConfig() (*config.Config, error) {
	path, err := app.configPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(app.Workspace); v != "" {
		cfg.WorkspaceRoot = v
	}
	if v := strings.TrimSpace(app.Backend); v != "" {
		cfg.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(app.Remote); v != "" {
		cfg.RemoteURL = v
		if strings.TrimSpace(app.Backend) == "" {
			cfg.Backend = config.BackendHTTP
		}
	}
	return cfg, nil
}

// refreshFromEnv re-reads env-backed flags that were not given on the
// command line (used after loading a .env file).
func (app *App) refreshFromEnv(cmd *cobra.Command) {
	flags := cmd.Flags()
	for _, f := range []struct {
		flag, env string
		dst       *string
	}{
		{"config-dir", "PLANNER_CONFIG_DIR", &app.ConfigDir},
		{"workspace", "PLANNER_WORKSPACE", &app.Workspace},
		{"backend", "PLANNER_BACKEND", &app.Backend},
		{"remote", "PLANNER_REMOTE", &app.Remote},
	} {
		if flags.Changed(f.flag) {
			continue
		}
		if v := os.Getenv(f.env); v != "" {
			*f.dst = v
		}
	}
}

const defaultTimeout = 10 * time.Second

// callContext bounds one command's backend calls by --timeout.
func (app *App) callContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	t := app.Timeout
	if t <= 0 {
		t = defaultTimeout
	}
	return context.WithTimeout(cmd.Context(), t)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
