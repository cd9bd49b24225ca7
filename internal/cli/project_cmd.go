package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/avance/internal/cli/formatter"
	"github.com/alexanderramin/avance/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectEditCmd(app),
		newProjectRemoveCmd(app),
	)
	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var responsible, macro string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := &domain.Project{Name: args[0], Responsible: responsible}
			if macro != "" {
				id, err := resolveMacroID(ctx, app, macro)
				if err != nil {
					return err
				}
				p.MacroProjectID = &id
			}
			if err := app.Projects.Create(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s %s\n", formatter.Bold(p.Name), formatter.TruncID(p.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&responsible, "responsible", "r", "", "Person responsible for the project")
	cmd.Flags().StringVarP(&macro, "macro", "m", "", "Macro-project name or ID")
	_ = cmd.MarkFlagRequired("responsible")
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var macro string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var macroID *string
			if macro != "" {
				id, err := resolveMacroID(ctx, app, macro)
				if err != nil {
					return err
				}
				macroID = &id
			}
			projects, err := app.Projects.List(ctx, macroID)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}
			names, err := macroNames(ctx, app)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects, names))
			return nil
		},
	}

	cmd.Flags().StringVarP(&macro, "macro", "m", "", "Only projects of this macro-project")
	return cmd
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "show PROJECT",
		Aliases: []string{"inspect"},
		Short:   "Show a project's progress and activities",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			out, err := renderProject(ctx, app, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func renderProject(ctx context.Context, app *App, id string) (string, error) {
	p, err := app.Projects.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	summary, err := app.Progress.ProjectSummary(ctx, id)
	if err != nil {
		return "", err
	}
	views, err := app.Activities.ListByProject(ctx, id)
	if err != nil {
		return "", err
	}
	names, err := macroNames(ctx, app)
	if err != nil {
		return "", err
	}
	return formatter.FormatProject(p, names[domain.StrValue(p.MacroProjectID)], *summary, views), nil
}

func newProjectEditCmd(app *App) *cobra.Command {
	var name, responsible, macro string
	var noMacro bool

	cmd := &cobra.Command{
		Use:   "edit PROJECT",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				p.Name = name
			}
			if cmd.Flags().Changed("responsible") {
				p.Responsible = responsible
			}
			switch {
			case noMacro:
				p.MacroProjectID = nil
			case macro != "":
				macroID, err := resolveMacroID(ctx, app, macro)
				if err != nil {
					return err
				}
				p.MacroProjectID = &macroID
			}
			if err := app.Projects.Update(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s\n", formatter.Bold(p.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVarP(&responsible, "responsible", "r", "", "New responsible")
	cmd.Flags().StringVarP(&macro, "macro", "m", "", "Assign to this macro-project")
	cmd.Flags().BoolVar(&noMacro, "no-macro", false, "Remove the macro-project assignment")
	cmd.MarkFlagsMutuallyExclusive("macro", "no-macro")
	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm PROJECT",
		Aliases: []string{"remove"},
		Short:   "Remove a project and all of its activities",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, id)
			if err != nil {
				return err
			}
			ok, err := confirm(cmd, app, yes, fmt.Sprintf("Remove project %q and all its activities?", p.Name))
			if err != nil || !ok {
				return err
			}
			if err := app.Projects.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", p.Name)
			return nil
		},
	}

	addYesFlag(cmd, &yes)
	return cmd
}

// macroNames maps macro-project IDs to names.
func macroNames(ctx context.Context, app *App) (map[string]string, error) {
	macros, err := app.Macros.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(macros))
	for _, m := range macros {
		out[m.ID] = m.Name
	}
	return out, nil
}
