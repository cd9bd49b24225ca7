package cli

import (
	"fmt"

	"github.com/alexanderramin/avance/internal/cli/formatter"
	"github.com/alexanderramin/avance/internal/domain"
	"github.com/spf13/cobra"
)

func newMacroCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "macro",
		Aliases: []string{"macros"},
		Short:   "Manage macro-projects",
	}

	cmd.AddCommand(
		newMacroAddCmd(app),
		newMacroListCmd(app),
		newMacroEditCmd(app),
		newMacroRemoveCmd(app),
	)
	return cmd
}

func newMacroAddCmd(app *App) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a macro-project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := &domain.MacroProject{Name: args[0], Description: description}
			if err := app.Macros.Create(cmd.Context(), m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created macro-project %s %s\n", formatter.Bold(m.Name), formatter.TruncID(m.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	return cmd
}

func newMacroListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List macro-projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			macros, err := app.Macros.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(macros) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No macro-projects found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatMacroList(macros))
			return nil
		},
	}
}

func newMacroEditCmd(app *App) *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "edit MACRO",
		Short: "Rename or describe a macro-project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveMacroID(ctx, app, args[0])
			if err != nil {
				return err
			}
			m, err := app.Macros.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				m.Name = name
			}
			if cmd.Flags().Changed("description") {
				m.Description = description
			}
			if err := app.Macros.Update(ctx, m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated macro-project %s\n", formatter.Bold(m.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	return cmd
}

func newMacroRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm MACRO",
		Aliases: []string{"remove"},
		Short:   "Remove a macro-project; its projects are kept unassigned",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveMacroID(ctx, app, args[0])
			if err != nil {
				return err
			}
			m, err := app.Macros.GetByID(ctx, id)
			if err != nil {
				return err
			}
			ok, err := confirm(cmd, app, yes, fmt.Sprintf("Remove macro-project %q?", m.Name))
			if err != nil || !ok {
				return err
			}
			if err := app.Macros.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed macro-project %s\n", m.Name)
			return nil
		},
	}

	addYesFlag(cmd, &yes)
	return cmd
}
