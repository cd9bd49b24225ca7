package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/avance/internal/web"
	"github.com/spf13/cobra"
)

func newServeCmd(a *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := web.NewServer(web.Services{
				Macros:     a.Macros,
				Projects:   a.Projects,
				Activities: a.Activities,
				Progress:   a.Progress,
				Copy:       a.Copy,
				Snapshots:  a.Snapshots,
			})
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", addr)
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", a.ServeAddr, "Listen address")
	return cmd
}
