package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alexanderramin/timesheet/internal/cli/formatter"
	"github.com/alexanderramin/timesheet/internal/domain"
	"github.com/alexanderramin/timesheet/internal/worktime"
	"github.com/spf13/cobra"
)

func newSubmitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "submit FILE",
		Short: "Save a YAML batch of work logs in one transaction",
		Long: `Save a YAML batch of work logs. Entries with an id update that entry,
entries without one are created. The whole batch is rejected if any entry
fails ordering, overlap, or the daily cap. FILE may be - for stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, entries, err := readBatch(args[0], cmd.InOrStdin(), app.User)
			if err != nil {
				return err
			}
			if userID == "" {
				return fmt.Errorf("no user set: add user: to the file or pass --user")
			}

			res, err := app.Entries.SaveBatch(cmd.Context(), userID, entries)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %d created, %d updated\n",
				formatter.StyleGreen.Render("✔"), res.Created, res.Updated)
			fmt.Fprint(out, formatter.FormatEntryList(entries))
			return nil
		},
	}
}

func newCheckCmd(app *App) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Validate a YAML batch without saving it",
		Long: `Run the batch rules over FILE without touching storage: each entry's
ordering, overlaps within the batch, then every date's total against the
daily cap. With --watch the check re-runs whenever FILE is saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			out := cmd.OutOrStdout()

			if !watch {
				r, err := checkBatch(app, path, cmd.InOrStdin(), out)
				if err != nil {
					return err
				}
				if !r.Valid() {
					return fmt.Errorf("batch rejected: %s", r.Kind)
				}
				return nil
			}

			if path == "-" {
				return fmt.Errorf("--watch needs a file, not stdin")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			rerun := func() {
				if _, err := checkBatch(app, path, nil, out); err != nil {
					fmt.Fprintln(out, formatter.StyleRed.Render("✖ "+err.Error()))
				}
			}
			rerun()
			fmt.Fprintln(out, formatter.Dim("watching "+path+", Ctrl-C to stop"))
			return watchFile(ctx, path, watchDebounce, func() {
				fmt.Fprintln(out)
				rerun()
			})
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-check whenever FILE changes")

	return cmd
}

// checkBatch reads and validates a batch file, printing the per-date report.
// A rejected batch is reported through the Result, not the error.
func checkBatch(app *App, path string, stdin io.Reader, out io.Writer) (worktime.Result, error) {
	_, entries, err := readBatch(path, stdin, app.User)
	if err != nil {
		return worktime.Result{}, err
	}

	values := make([]domain.TimeEntry, len(entries))
	for i, e := range entries {
		values[i] = *e
	}
	r := app.Validator.ValidateSubmission(values)
	fmt.Fprint(out, formatter.FormatCheckResult(values, app.Validator.CapMinutes(), r))
	return r, nil
}
