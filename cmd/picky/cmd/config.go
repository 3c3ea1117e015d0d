package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/picky/configs"
	"github.com/Aman-CERP/picky/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and manage index configuration",
	}
	cmd.AddCommand(newConfigExampleCmd())
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigRestoreCmd())
	return cmd
}

func newConfigExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Print an example index configuration YAML file",
		Long: `Prints an annotated example of the --config file format: one
index declaring a plain text category, a partial-match category, a
similarity-match category, and a bucketed location category.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), configs.IndexConfigTemplate)
			return err
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the example configuration to --config",
		Long: `Writes the example index configuration to the --config path.
If a configuration already exists there, --force is required to
overwrite it; the existing file is backed up first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Back up and overwrite an existing configuration")
	return cmd
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", configPath)
	}

	backupPath, err := config.BackupConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to back up existing configuration: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(configs.IndexConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if backupPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "backed up existing configuration to %s\n", backupPath)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote example configuration to %s\n", configPath)
	return nil
}

func newConfigRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup-path>",
		Short: "Restore --config from a backup written by config init --force",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.RestoreConfig(configPath, args[0]); err != nil {
				return fmt.Errorf("failed to restore configuration: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored configuration from %s to %s\n", args[0], configPath)
			return nil
		},
	}
}
