package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/timesheet/internal/cli/formatter"
	"github.com/alexanderramin/timesheet/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// entryInput holds the raw text of an entry as typed on the command line or
// into the interactive form.
type entryInput struct {
	Date     string
	Start    string
	End      string
	Category string // "TYPE/CODE"
	Desc     string
}

// complete reports whether the fields needed to build an entry are present.
func (in *entryInput) complete() bool {
	return in.Start != "" && in.End != ""
}

func timesheetHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// entryForm prompts for the fields of an entry, prefilled from in.
// The category select is offered only when work types are known.
func entryForm(in *entryInput, types []domain.WorkType) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Date (YYYY-MM-DD)").
			Value(&in.Date).
			Validate(validateDate),
		huh.NewInput().
			Title("Start (HH:MM)").
			Placeholder("09:00").
			Value(&in.Start).
			Validate(validateClock),
		huh.NewInput().
			Title("End (HH:MM)").
			Placeholder("17:00").
			Value(&in.End).
			Validate(validateClock),
	}
	if len(types) > 0 {
		opts := []huh.Option[string]{huh.NewOption("(none)", "")}
		for _, t := range types {
			opts = append(opts, huh.NewOption(fmt.Sprintf("%s/%s  %s", t.BizType, t.BizCode, t.BizName), t.BizType+"/"+t.BizCode))
		}
		fields = append(fields, huh.NewSelect[string]().
			Title("Work type").
			Options(opts...).
			Value(&in.Category))
	}
	fields = append(fields, huh.NewInput().
		Title("Description").
		Value(&in.Desc))

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(timesheetHuhTheme()).
		WithShowHelp(false)
}

// promptEntry fills the missing fields of in through the interactive form.
func promptEntry(ctx context.Context, app *App, in *entryInput) error {
	var types []domain.WorkType
	if app.WorkTypes != nil {
		// A failed lookup only drops the select.
		types, _ = app.WorkTypes.List(ctx)
	}
	return entryForm(in, types).RunWithContext(ctx)
}

func validateClock(s string) error {
	if _, err := domain.ParseClock(s); err != nil {
		return fmt.Errorf("use HH:MM format")
	}
	return nil
}

func validateDate(s string) error {
	if _, err := domain.ParseDate(s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}
