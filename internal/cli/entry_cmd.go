package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/timesheet/internal/cli/formatter"
	"github.com/alexanderramin/timesheet/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newAddCmd(app *App) *cobra.Command {
	var in entryInput
	var bizType, bizCode string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a work segment",
		Example: `  timesheet add --start 09:00 --end 12:30 --type DEV --code D01 --desc "review"
  timesheet add --date 2024-05-02 --start 13:00 --end 17:00`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			userID, err := app.requireUser()
			if err != nil {
				return err
			}
			if bizType != "" || bizCode != "" {
				in.Category = bizType + "/" + bizCode
			}

			if !in.complete() {
				if !app.interactive() {
					return fmt.Errorf("--start and --end are required")
				}
				if in.Date == "" {
					in.Date = domain.DateKey(app.today())
				}
				if err := promptEntry(ctx, app, &in); err != nil {
					return err
				}
			}

			e, err := app.buildEntry(userID, in)
			if err != nil {
				return err
			}
			if err := app.Entries.Create(ctx, e); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEntrySaved("Logged", e))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Date, "date", "", "Work date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&in.Start, "start", "", "Start time HH:MM")
	cmd.Flags().StringVar(&in.End, "end", "", "End time HH:MM")
	cmd.Flags().StringVar(&bizType, "type", "", "Work type, e.g. DEV")
	cmd.Flags().StringVar(&bizCode, "code", "", "Work code, e.g. D01")
	cmd.Flags().StringVar(&in.Desc, "desc", "", "Description")

	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var in entryInput
	var bizType, bizCode string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a logged work segment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			userID, err := app.requireUser()
			if err != nil {
				return err
			}
			e, err := app.Entries.GetByID(ctx, userID, args[0])
			if err != nil {
				return fmt.Errorf("loading work log %s: %w", args[0], err)
			}

			if err := applyEdits(cmd.Flags(), e, in, bizType, bizCode); err != nil {
				return err
			}

			if err := app.Entries.Update(ctx, e); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEntrySaved("Updated", e))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Date, "date", "", "New work date YYYY-MM-DD")
	cmd.Flags().StringVar(&in.Start, "start", "", "New start time HH:MM")
	cmd.Flags().StringVar(&in.End, "end", "", "New end time HH:MM")
	cmd.Flags().StringVar(&bizType, "type", "", "New work type")
	cmd.Flags().StringVar(&bizCode, "code", "", "New work code")
	cmd.Flags().StringVar(&in.Desc, "desc", "", "New description")

	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "rm [ID]",
		Short: "Remove a work segment, or a whole day with --date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			userID, err := app.requireUser()
			if err != nil {
				return err
			}

			switch {
			case len(args) == 1 && date != "":
				return fmt.Errorf("pass either an ID or --date, not both")
			case len(args) == 1:
				if err := app.Entries.Delete(ctx, userID, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed work log %s\n", args[0])
			case date != "":
				d, err := domain.ParseDate(date)
				if err != nil {
					return fmt.Errorf("--date: %w", err)
				}
				n, err := app.Entries.DeleteDay(ctx, userID, d)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d work logs on %s\n", n, domain.DateKey(d))
			default:
				return fmt.Errorf("an ID or --date is required")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Remove every entry on this date (YYYY-MM-DD)")

	return cmd
}

func newListCmd(app *App) *cobra.Command {
	var from, to string
	var days int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work logs in a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := app.requireUser()
			if err != nil {
				return err
			}
			end, err := app.dateFlag("to", to)
			if err != nil {
				return err
			}
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}
			start := end.AddDate(0, 0, -(days - 1))
			if from != "" {
				if start, err = app.dateFlag("from", from); err != nil {
					return err
				}
			}

			entries, err := app.Entries.ListRange(cmd.Context(), userID, start, end)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEntryList(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date YYYY-MM-DD (default --days before --to)")
	cmd.Flags().StringVar(&to, "to", "", "Last date YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&days, "days", 7, "Days to show when --from is not set")

	return cmd
}

func newDayCmd(app *App) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "day [DATE]",
		Short: "Show one day's entries and remaining time under the cap",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			userID, err := app.requireUser()
			if err != nil {
				return err
			}

			var day *domain.DaySummary
			if id != "" {
				if len(args) > 0 {
					return fmt.Errorf("pass either DATE or --id, not both")
				}
				day, err = app.Entries.DayOf(ctx, userID, id)
			} else {
				value := ""
				if len(args) > 0 {
					value = args[0]
				}
				d, derr := app.dateFlag("date", value)
				if derr != nil {
					return derr
				}
				day, err = app.Entries.Day(ctx, userID, d)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDay(day))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Show the day of this work log")

	return cmd
}

// applyEdits overwrites the fields of e whose flags were set explicitly.
func applyEdits(flags *pflag.FlagSet, e *domain.TimeEntry, in entryInput, bizType, bizCode string) error {
	var err error
	if flags.Changed("date") {
		if e.Date, err = domain.ParseDate(in.Date); err != nil {
			return fmt.Errorf("--date: %w", err)
		}
	}
	if flags.Changed("start") {
		if e.Start, err = domain.ParseClock(in.Start); err != nil {
			return fmt.Errorf("--start: %w", err)
		}
	}
	if flags.Changed("end") {
		if e.End, err = domain.ParseClock(in.End); err != nil {
			return fmt.Errorf("--end: %w", err)
		}
	}
	if flags.Changed("type") {
		e.BizType = bizType
	}
	if flags.Changed("code") {
		e.BizCode = bizCode
	}
	if flags.Changed("desc") {
		e.Description = in.Desc
	}
	return nil
}

// buildEntry parses raw input into an unsaved entry for userID.
func (a *App) buildEntry(userID string, in entryInput) (*domain.TimeEntry, error) {
	date, err := a.dateFlag("date", in.Date)
	if err != nil {
		return nil, err
	}
	start, err := domain.ParseClock(in.Start)
	if err != nil {
		return nil, fmt.Errorf("--start: %w", err)
	}
	end, err := domain.ParseClock(in.End)
	if err != nil {
		return nil, fmt.Errorf("--end: %w", err)
	}
	bizType, bizCode, _ := strings.Cut(in.Category, "/")
	return &domain.TimeEntry{
		UserID:      userID,
		Date:        date,
		Start:       start,
		End:         end,
		BizType:     bizType,
		BizCode:     bizCode,
		Description: in.Desc,
	}, nil
}
