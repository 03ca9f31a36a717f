package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/timesheet/internal/domain"
	"github.com/alexanderramin/timesheet/internal/httpapi"
	"github.com/alexanderramin/timesheet/internal/service"
	"github.com/alexanderramin/timesheet/internal/worktime"
	"github.com/spf13/cobra"
)

// App holds the services and settings used by CLI commands.
type App struct {
	Entries   service.EntryService
	WorkTypes service.WorkTypeService
	Validator *worktime.Validator

	// User is the default owner for entries; the --user flag overrides it.
	User     string
	HTTPAddr string

	// Metrics and Logger are handed to the HTTP server by `serve`.
	Metrics *httpapi.Metrics
	Logger  *slog.Logger

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewRootCmd creates the top-level "timesheet" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "timesheet",
		Short:         "Work-time log with overlap and daily-cap checks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&app.User, "user", "u", app.User, "User the entries belong to")

	root.AddCommand(
		newAddCmd(app),
		newEditCmd(app),
		newRemoveCmd(app),
		newListCmd(app),
		newDayCmd(app),
		newSubmitCmd(app),
		newCheckCmd(app),
		newTypesCmd(app),
		newServeCmd(app),
	)

	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) today() time.Time {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	return domain.TruncateDate(now())
}

func (a *App) requireUser() (string, error) {
	if a.User == "" {
		return "", fmt.Errorf("no user set: pass --user or set TIMESHEET_USER")
	}
	return a.User, nil
}

// dateFlag parses a YYYY-MM-DD flag value, falling back to today when empty.
func (a *App) dateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return a.today(), nil
	}
	d, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}
