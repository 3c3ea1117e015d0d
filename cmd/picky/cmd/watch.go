package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/picky/pkg/picky"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch every configured index's snapshot file and hot-swap on change",
		Long: `Loads every configured index and blocks, reloading an index's
posting store the moment its snapshot.db is rewritten on disk. Useful
for keeping a long-lived process (other than 'serve') current against
an external dump/rebuild pipeline.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd)
		},
	}
	return cmd
}

func runWatch(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine, err := picky.Open(ctx, configPath, picky.Options{SnapshotDir: snapshotDir})
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "watching indexes: %v\n", engine.Indexes())
	return engine.Watch(ctx)
}
