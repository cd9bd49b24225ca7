package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/avance/internal/app"
	"github.com/alexanderramin/avance/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newDashboardCmd(a *App) *cobra.Command {
	var macro string
	var today time.Time

	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Show completion, status and upcoming deadlines",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var req app.DashboardRequest
			if macro != "" {
				id, err := resolveMacroID(ctx, a, macro)
				if err != nil {
					return err
				}
				req.MacroProjectID = &id
			}
			if !today.IsZero() {
				req.Now = &today
			}
			d, err := a.Progress.Dashboard(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDashboard(d))
			return nil
		},
	}

	cmd.Flags().StringVarP(&macro, "macro", "m", "", "Only projects of this macro-project")
	dateVar(cmd.Flags(), &today, "today", "Evaluate deadlines as of this date")
	return cmd
}
