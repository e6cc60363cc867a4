package cli

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"planner-cli/internal/server"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured habit backend over HTTP",
		Long: strings.TrimSpace(`
Serve the configured markdown or sqlite backend as a JSON API, so other
planners can use it with --backend http --remote <url>.

Settings can also come from a .env file in the working directory
(PLANNER_ADDR, PLANNER_WORKSPACE, PLANNER_BACKEND, PLANNER_CONFIG_DIR).
`),
		Example: strings.TrimSpace(`
planner serve --addr 127.0.0.1:8080
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return writeErr(cmd, err)
			}
			app.refreshFromEnv(cmd)
			if !cmd.Flags().Changed("addr") {
				addr = envOr("PLANNER_ADDR", addr)
			}

			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			b, err := openBackend(app, log)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.close()
			if b.svc == nil {
				return writeErr(cmd, errors.New("serve needs a local backend (markdown or sqlite), not http"))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := server.New(b.svc, log).ListenAndServe(ctx, addr); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Environment file to load before starting")
	return cmd
}
