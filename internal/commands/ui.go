package commands

import (
	"github.com/spf13/cobra"

	"github.com/balkashynov/lifetrack/internal/tui"
)

func newUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive checklist",
		Args:  cobra.NoArgs,
		RunE: a.withApp(func(cmd *cobra.Command, args []string) error {
			day, err := a.date()
			if err != nil {
				return err
			}
			return tui.RunChecklistTUI(cmd.Context(), a.tracker, tui.Options{
				Date:  day,
				Today: a.today,
			})
		}),
	}
}
