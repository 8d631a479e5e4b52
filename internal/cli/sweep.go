package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomasbasham/cli-runtime/templates"
)

var (
	sweepLong = templates.LongDesc(`
		Delete every file whose lifetime has passed, without uploading
		anything.`)

	sweepExample = templates.Examples(`
		# Remove expired files from the configured server
		fileup sweep`)
)

func NewSweepCommand(o *FileupOptions) *cobra.Command {
	return &cobra.Command{
		Use:                   "sweep",
		DisableFlagsInUseLine: true,
		Short:                 "Delete expired files",
		Long:                  sweepLong,
		Example:               sweepExample,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.RunSweep(cmd.Context())
		},
	}
}

func (o *FileupOptions) RunSweep(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := o.newApp(o.ConfigPath)
	if err != nil {
		return err
	}
	defer application.Shutdown()

	removed, err := application.Sweep(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(o.Out, "Removed %d expired file(s)\n", removed)
	return nil
}
