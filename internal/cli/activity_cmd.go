package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/avance/internal/app"
	"github.com/alexanderramin/avance/internal/cli/formatter"
	"github.com/alexanderramin/avance/internal/domain"
	"github.com/spf13/cobra"
)

func newActivityCmd(a *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:     "activity",
		Aliases: []string{"activities", "act"},
		Short:   "Manage a project's activities",
	}
	cmd.PersistentFlags().StringVarP(&project, "project", "p", "", "Project name or ID")

	cmd.AddCommand(
		newActivityAddCmd(a, &project),
		newActivityEditCmd(a, &project),
		newActivityRemoveCmd(a, &project),
		newActivityListCmd(a, &project),
		newActivityShowCmd(a, &project),
		newActivityReorderCmd(a, &project),
		newActivityMoveCmd(a, &project),
		newActivityCopyCmd(a, &project),
	)
	return cmd
}

// activityFields are the flags shared by add and edit.
type activityFields struct {
	name     string
	kind     string
	start    time.Time
	end      time.Time
	parent   string
	root     bool
	approved bool
	progress int
	comment  string
}

func (f *activityFields) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.name, "name", "n", "", "Activity name")
	fs.StringVarP(&f.kind, "kind", "k", string(domain.KindContinuous), "continuous, meeting or points")
	dateVar(fs, &f.start, "start", "Start date (YYYY-MM-DD)")
	dateVar(fs, &f.end, "end", "End date (YYYY-MM-DD); meetings use the start date")
	fs.StringVar(&f.parent, "parent", "", "Parent activity (makes this a sub-activity)")
	fs.BoolVar(&f.approved, "approved", false, "Mark a continuous activity or meeting as done")
	fs.IntVar(&f.progress, "progress", 0, "Progress percentage of a points activity")
	fs.StringVarP(&f.comment, "comment", "c", "", "Free-text comment")
}

func newActivityAddCmd(a *App, project *string) *cobra.Command {
	var f activityFields

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an activity to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, a, *project)
			if err != nil {
				return err
			}
			kind, err := domain.ParseActivityKind(f.kind)
			if err != nil {
				return err
			}
			req := app.SaveActivityRequest{
				ProjectID:   projectID,
				Name:        f.name,
				Kind:        kind,
				StartDate:   f.start,
				EndDate:     f.end,
				Approved:    f.approved,
				ProgressPct: f.progress,
				Comment:     f.comment,
			}
			if req.EndDate.IsZero() {
				req.EndDate = req.StartDate
			}
			if f.parent != "" {
				parentID, err := resolveActivityID(ctx, a, projectID, f.parent)
				if err != nil {
					return err
				}
				req.ParentID = &parentID
			}
			res, err := a.Activities.Save(ctx, req)
			if err != nil {
				return err
			}
			printSaveResult(cmd.OutOrStdout(), "Created", res)
			return nil
		},
	}

	f.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func newActivityEditCmd(a *App, project *string) *cobra.Command {
	var f activityFields

	cmd := &cobra.Command{
		Use:   "edit ACTIVITY",
		Short: "Edit an activity; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := projectFlag(ctx, a, *project)
			if err != nil {
				return err
			}
			id, err := resolveActivityID(ctx, a, projectID, args[0])
			if err != nil {
				return err
			}
			cur, err := a.Activities.GetByID(ctx, id)
			if err != nil {
				return err
			}

			req := app.SaveActivityRequest{
				ID:          cur.ID,
				ProjectID:   cur.ProjectID,
				ParentID:    cur.ParentID,
				Name:        cur.Name,
				Kind:        cur.Kind,
				StartDate:   cur.StartDate,
				EndDate:     cur.EndDate,
				Approved:    cur.Approved,
				ProgressPct: cur.ProgressPct,
				Comment:     cur.Comment,
			}
			changed := cmd.Flags().Changed
			if changed("name") {
				req.Name = f.name
			}
			if changed("kind") {
				if req.Kind, err = domain.ParseActivityKind(f.kind); err != nil {
					return err
				}
			}
			if changed("start") {
				req.StartDate = f.start
				if !changed("end") && req.EndDate.Before(f.start) {
					req.EndDate = f.start
				}
			}
			if changed("end") {
				req.EndDate = f.end
			}
			if changed("approved") {
				req.Approved = f.approved
			}
			if changed("progress") {
				req.ProgressPct = f.progress
			}
			if changed("comment") {
				req.Comment = f.comment
			}
			switch {
			case f.root:
				req.ParentID = nil
			case f.parent != "":
				parentID, err := resolveActivityID(ctx, a, cur.ProjectID, f.parent)
				if err != nil {
					return err
				}
				req.ParentID = &parentID
			}

			res, err := a.Activities.Save(ctx, req)
			if err != nil {
				return err
			}
			printSaveResult(cmd.OutOrStdout(), "Updated", res)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&f.root, "root", false, "Detach from the parent activity")
	cmd.MarkFlagsMutuallyExclusive("parent", "root")
	return cmd
}

func printSaveResult(w io.Writer, verb string, res *app.SaveActivityResult) {
	a := res.Activity
	fmt.Fprintf(w, "%s activity %s %s  %s\n", verb, formatter.Bold(a.Name), formatter.TruncID(a.ID),
		formatter.Dim(formatter.DateRange(a.StartDate, a.EndDate)))
	fmt.Fprint(w, formatter.FormatNotices(res.Notices))
}

func newActivityRemoveCmd(a *App, project *string) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm ACTIVITY",
		Aliases: []string{"remove"},
		Short:   "Remove an activity; its sub-activities become roots",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := projectFlag(ctx, a, *project)
			if err != nil {
				return err
			}
			id, err := resolveActivityID(ctx, a, projectID, args[0])
			if err != nil {
				return err
			}
			act, err := a.Activities.GetByID(ctx, id)
			if err != nil {
				return err
			}
			ok, err := confirm(cmd, a, yes, fmt.Sprintf("Remove activity %q?", act.Name))
			if err != nil || !ok {
				return err
			}
			if err := a.Activities.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed activity %s\n", act.Name)
			return nil
		},
	}

	addYesFlag(cmd, &yes)
	return cmd
}

func newActivityListCmd(a *App, project *string) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List a project's activities in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, a, *project)
			if err != nil {
				return err
			}
			return printActivities(ctx, cmd.OutOrStdout(), a, projectID)
		},
	}
}

func printActivities(ctx context.Context, w io.Writer, a *App, projectID string) error {
	views, err := a.Activities.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}
	if len(views) == 0 {
		fmt.Fprintln(w, "No activities found.")
		return nil
	}
	fmt.Fprint(w, formatter.RenderActivityTree(views))
	return nil
}

func newActivityShowCmd(a *App, project *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show ACTIVITY",
		Short: "Show one activity with its derived progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := projectFlag(ctx, a, *project)
			if err != nil {
				return err
			}
			id, err := resolveActivityID(ctx, a, projectID, args[0])
			if err != nil {
				return err
			}
			act, err := a.Activities.GetByID(ctx, id)
			if err != nil {
				return err
			}
			pct, err := a.Activities.BranchProgress(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatActivity(act, pct))
			return nil
		},
	}
}

func newActivityReorderCmd(a *App, project *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder [ACTIVITY...]",
		Short: "Order chronologically, or in the given order when activities are listed",
		Long: "Without arguments the project's activities are ordered by start date, each root\n" +
			"followed by its sub-activities. With arguments every activity of the project must\n" +
			"be listed once; sub-activities stay right after their parent.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, a, *project)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				err = a.Activities.ReorderChronologically(ctx, projectID)
			} else {
				ids := make([]string, 0, len(args))
				for _, arg := range args {
					id, err := resolveActivityID(ctx, a, projectID, arg)
					if err != nil {
						return err
					}
					ids = append(ids, id)
				}
				err = a.Activities.ApplyManualOrder(ctx, projectID, ids)
			}
			if err != nil {
				return err
			}
			return printActivities(ctx, cmd.OutOrStdout(), a, projectID)
		},
	}
}

func newActivityMoveCmd(a *App, project *string) *cobra.Command {
	var position int

	cmd := &cobra.Command{
		Use:   "move ACTIVITY",
		Short: "Move an activity to a 1-based position in the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, a, *project)
			if err != nil {
				return err
			}
			id, err := resolveActivityID(ctx, a, projectID, args[0])
			if err != nil {
				return err
			}
			views, err := a.Activities.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			ids, err := moveTo(views, id, position)
			if err != nil {
				return err
			}
			if err := a.Activities.ApplyManualOrder(ctx, projectID, ids); err != nil {
				return err
			}
			return printActivities(ctx, cmd.OutOrStdout(), a, projectID)
		},
	}

	cmd.Flags().IntVar(&position, "to", 0, "Target position (1 is first)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// moveTo returns the list's IDs with id moved to position (1-based, clamped).
func moveTo(views []app.ActivityView, id string, position int) ([]string, error) {
	ids := make([]string, 0, len(views))
	found := false
	for _, v := range views {
		if v.Activity.ID == id {
			found = true
			continue
		}
		ids = append(ids, v.Activity.ID)
	}
	if !found {
		return nil, fmt.Errorf("activity %s: %w", id, domain.ErrNotFound)
	}
	idx := min(max(position-1, 0), len(ids))
	ids = append(ids[:idx], append([]string{id}, ids[idx:]...)...)
	return ids, nil
}
