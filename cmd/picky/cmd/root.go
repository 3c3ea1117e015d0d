// Package cmd provides the CLI commands for picky.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/picky/internal/config"
	pickyerrors "github.com/Aman-CERP/picky/internal/errors"
	"github.com/Aman-CERP/picky/internal/logging"
	"github.com/Aman-CERP/picky/pkg/version"
)

var (
	debugMode      bool
	configPath     string
	snapshotDir    string
	loggingCleanup func()
)

// NewRootCmd creates the root command for the picky CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "picky",
		Short:   "A qualifier-driven posting-list search engine",
		Version: version.Version,
		Long: `picky resolves a query's qualifiers to the categories they may
match, enumerates allocations of search-term combinations in score
order, intersects their posting lists, and returns ranked ids under an
early-termination budget.`,
	}

	cmd.SetVersionTemplate("picky version {{.Version}}\n")

	// Errors are rendered by Execute via FormatForCLI instead of cobra's
	// own "Error: ..." line.
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	cmd.PersistentFlags().StringVar(&configPath, "config", config.GetUserConfigPath(), "Path to the index configuration YAML file")
	cmd.PersistentFlags().StringVar(&snapshotDir, "snapshot-dir", "", "Directory holding each index's snapshot.db (one subdirectory per index)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newDumpCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

func startLogging(_ *cobra.Command, _ []string) error {
	logCfg := logging.DefaultConfig()
	logCfg.WriteToStderr = false
	if debugMode {
		logCfg = logging.DebugConfig()
	}

	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return err
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command, rendering any returned error the way a
// terminal user expects: a concise message/hint/code block, or — under
// --debug — the fuller user-facing rendering with the error's full detail
// set.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		if debugMode {
			fmt.Fprintln(os.Stderr, pickyerrors.FormatForUser(err, true))
		} else {
			fmt.Fprint(os.Stderr, pickyerrors.FormatForCLI(err))
		}
	}
	return err
}
