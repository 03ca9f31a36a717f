package cli

import (
	"fmt"

	"github.com/alexanderramin/timesheet/internal/cli/formatter"
	"github.com/alexanderramin/timesheet/internal/domain"
	"github.com/spf13/cobra"
)

func newTypesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List work types",
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := app.WorkTypes.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWorkTypes(types))
			return nil
		},
	}

	cmd.AddCommand(newTypesAddCmd(app))

	return cmd
}

func newTypesAddCmd(app *App) *cobra.Command {
	var wt domain.WorkType

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a work type",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.WorkTypes.Create(cmd.Context(), wt); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added work type %s\n", formatter.Category(wt.BizType, wt.BizCode))
			return nil
		},
	}

	cmd.Flags().StringVar(&wt.BizType, "type", "", "Work type, e.g. DEV")
	cmd.Flags().StringVar(&wt.BizCode, "code", "", "Work code, e.g. D01")
	cmd.Flags().StringVar(&wt.BizName, "name", "", "Display name")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
