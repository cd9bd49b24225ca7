package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/avance/internal/app"
	"github.com/alexanderramin/avance/internal/cli/formatter"
	"github.com/alexanderramin/avance/internal/replication"
	"github.com/spf13/cobra"
)

// copyFlags are shared by `copy` and `activity copy`.
type copyFlags struct {
	to         string
	noChildren bool
	noComments bool
}

func (f *copyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.to, "to", "", "Destination project (defaults to the source project)")
	cmd.Flags().BoolVar(&f.noChildren, "no-children", false, "Copy only the selected activities, not their sub-activities")
	cmd.Flags().BoolVar(&f.noComments, "no-comments", false, "Leave comments out of the copies")
}

func (f *copyFlags) options() replication.Options {
	return replication.Options{IncludeChildren: !f.noChildren, IncludeComments: !f.noComments}
}

func newCopyCmd(a *App) *cobra.Command {
	var from string
	var ids []string
	var f copyFlags

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy activities between projects",
		Example: "  avance copy --from Bridge --to Tunnel --ids design,permits\n" +
			"  avance copy --from Bridge --ids 3f2a9c1e --no-comments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCopy(cmd, a, from, ids, f)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Source project")
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "Activities to copy (names or IDs, comma separated)")
	f.register(cmd)
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("ids")
	return cmd
}

func newActivityCopyCmd(a *App, project *string) *cobra.Command {
	var f copyFlags

	cmd := &cobra.Command{
		Use:   "copy ACTIVITY...",
		Short: "Copy activities with their sub-activities",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCopy(cmd, a, *project, args, f)
		},
	}

	f.register(cmd)
	return cmd
}

func runCopy(cmd *cobra.Command, a *App, from string, inputs []string, f copyFlags) error {
	ctx := cmd.Context()
	sourceID, err := projectFlag(ctx, a, from)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		id, err := resolveActivityID(ctx, a, sourceID, in)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	if sourceID == "" {
		if sourceID, err = activityProject(ctx, a, ids[0]); err != nil {
			return err
		}
	}
	destID := sourceID
	if f.to != "" {
		if destID, err = resolveProjectID(ctx, a, f.to); err != nil {
			return err
		}
	}

	res, err := a.Copy.Copy(ctx, app.CopyRequest{
		SourceProjectID: sourceID,
		ActivityIDs:     ids,
		DestProjectID:   destID,
		Options:         f.options(),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Copied %d %s\n", len(res.Copies), pluralize(len(res.Copies), "activity", "activities"))
	for _, c := range res.Copies {
		fmt.Fprintf(out, "  %s %s\n", formatter.TruncID(c.ID), c.Name)
	}
	return nil
}

func activityProject(ctx context.Context, a *App, id string) (string, error) {
	act, err := a.Activities.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return act.ProjectID, nil
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
