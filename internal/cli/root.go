package cli

import (
	"github.com/alexanderramin/avance/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services CLI commands run against.
type App struct {
	Macros     service.MacroProjectService
	Projects   service.ProjectService
	Activities service.ActivityService
	Progress   service.ProgressService
	Copy       service.CopyService
	Snapshots  service.SnapshotService
	Plans      service.PlanService

	// ServeAddr is the default listen address of `serve`.
	ServeAddr string

	// IsInteractive reports whether stdin is a terminal. Destructive
	// commands refuse to run without --yes when it returns false.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil uses a huh form.
	Confirm func(title string) (bool, error)
}

// NewRootCmd creates the top-level "avance" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "avance",
		Short:         "Track project progress across macro-projects and activities",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMacroCmd(app),
		newProjectCmd(app),
		newActivityCmd(app),
		newCopyCmd(app),
		newDashboardCmd(app),
		newSnapshotCmd(app),
		newPlanCmd(app),
		newServeCmd(app),
		newBrowseCmd(app),
	)

	return root
}
