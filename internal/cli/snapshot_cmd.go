package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newSnapshotCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"snap"},
		Short:   "Export, import and replicate the whole store",
	}
	cmd.AddCommand(
		newSnapshotExportCmd(a),
		newSnapshotImportCmd(a),
		newSnapshotPushCmd(a),
		newSnapshotPullCmd(a),
		newSnapshotResetCmd(a),
	)
	return cmd
}

func newSnapshotExportCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write a snapshot to FILE (- for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.Snapshots.Export(cmd.Context())
			if err != nil {
				return err
			}
			if args[0] == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(args[0], data, 0o600); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bytes to %s\n", len(data), args[0])
			return nil
		},
	}
}

func newSnapshotImportCmd(a *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace every record with the snapshot in FILE (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}
			ok, err := confirm(cmd, a, yes, "Replace all macro-projects, projects and activities?")
			if err != nil || !ok {
				return err
			}
			if err := a.Snapshots.Import(cmd.Context(), data); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Snapshot imported.")
			return nil
		},
	}

	addYesFlag(cmd, &yes)
	return cmd
}

func newSnapshotPushCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload the current snapshot to the remote store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Snapshots.Push(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Snapshot pushed.")
			return nil
		},
	}
}

func newSnapshotPullCmd(a *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Replace the store with the remote snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(cmd, a, yes, "Replace local data with the remote snapshot?")
			if err != nil || !ok {
				return err
			}
			if err := a.Snapshots.Pull(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Snapshot pulled.")
			return nil
		},
	}

	addYesFlag(cmd, &yes)
	return cmd
}

func newSnapshotResetCmd(a *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every macro-project, project and activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(cmd, a, yes, "Delete ALL data?")
			if err != nil || !ok {
				return err
			}
			if err := a.Snapshots.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Store reset.")
			return nil
		},
	}

	addYesFlag(cmd, &yes)
	return cmd
}
