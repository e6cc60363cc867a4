package cli

import (
	"fmt"
	"strings"

	"planner-cli/internal/format"
	"planner-cli/internal/model"

	"github.com/spf13/cobra"
)

func newWeekCmd(app *App) *cobra.Command {
	var key string
	var year, number int
	var asMarkdown bool

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show a week's habits (default: the current week)",
		Example: strings.TrimSpace(`
planner week
planner week --key 2024-W05
planner week --year 2024 --week 5 --markdown
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(app, cliLogger(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.close()
			ctx, cancel := app.callContext(cmd)
			defer cancel()

			var wk model.Week
			switch {
			case strings.TrimSpace(key) != "":
				if wk, err = model.ParseWeek(strings.TrimSpace(key)); err != nil {
					return writeErr(cmd, err)
				}
			case year != 0 || number != 0:
				wk = model.Week{Year: year, Number: number}
				if !wk.Valid() {
					return writeErr(cmd, fmt.Errorf("invalid week %d of %d", number, year))
				}
			default:
				if wk, err = b.currentWeek(ctx); err != nil {
					return writeErr(cmd, err)
				}
			}

			if asMarkdown {
				md, err := b.note(ctx, wk)
				if err != nil {
					return writeErr(cmd, err)
				}
				_, err = cmd.OutOrStdout().Write(md)
				return err
			}

			wh, err := b.week(ctx, wk)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: newWeekOut(wh)})
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "ISO week as YYYY-Www")
	cmd.Flags().IntVar(&year, "year", 0, "ISO week-numbering year")
	cmd.Flags().IntVar(&number, "week", 0, "ISO week number (1-53)")
	cmd.Flags().BoolVar(&asMarkdown, "markdown", false, "Print the weekly note markdown instead")
	cmd.MarkFlagsRequiredTogether("year", "week")
	cmd.MarkFlagsMutuallyExclusive("key", "year")
	return cmd
}
