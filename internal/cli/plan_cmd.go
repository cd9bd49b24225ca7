package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/avance/internal/cli/formatter"
	"github.com/alexanderramin/avance/internal/importer"
	"github.com/spf13/cobra"
)

func newPlanCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Import or export a project plan file (YAML or JSON)",
	}
	cmd.AddCommand(newPlanImportCmd(a), newPlanExportCmd(a))
	return cmd
}

func newPlanImportCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Create a project and its activities from a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := importer.LoadPlan(args[0])
			if err != nil {
				return err
			}
			res, err := a.Plans.ImportPlan(cmd.Context(), plan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported project %s with %d %s\n",
				res.Project.Name, res.ActivityCount, pluralize(res.ActivityCount, "activity", "activities"))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatNotices(res.Notices))
			return nil
		},
	}
}

func newPlanExportCmd(a *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export PROJECT",
		Short: "Write a project as a YAML plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, a, args[0])
			if err != nil {
				return err
			}
			plan, err := a.Plans.ExportPlan(ctx, id)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return importer.WritePlan(w, plan)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}
