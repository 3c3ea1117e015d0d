package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/picky/internal/config"
	"github.com/Aman-CERP/picky/pkg/picky"
)

type dumpOptions struct {
	index       string
	recordsPath string
}

// jsonRecord mirrors picky.Record with a JSON-friendly shape for the
// records file: one object per line's worth of fields, keyed by
// category/from name.
type jsonRecord struct {
	ID     uint32            `json:"id"`
	Fields map[string]string `json:"fields"`
}

func newDumpCmd() *cobra.Command {
	var opts dumpOptions

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Build an index's snapshot from a JSON records file",
		Long: `Reads a JSON array of {id, fields} records, runs the reference
ingest pipeline (tokenization, partial/similarity/bucketing expansion per
the index's configured categories), and writes the resulting snapshot
to <snapshot-dir>/<index>/snapshot.db.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDump(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.index, "index", "", "Index to build (required)")
	cmd.Flags().StringVar(&opts.recordsPath, "records", "", "Path to a JSON records file (required)")
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("records")

	return cmd
}

func runDump(cmd *cobra.Command, opts dumpOptions) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	idxCfg, ok := cfg.IndexByName(opts.index)
	if !ok {
		return fmt.Errorf("index %q not declared in %s", opts.index, configPath)
	}

	data, err := os.ReadFile(opts.recordsPath)
	if err != nil {
		return fmt.Errorf("failed to read records file: %w", err)
	}

	var jsonRecords []jsonRecord
	if err := json.Unmarshal(data, &jsonRecords); err != nil {
		return fmt.Errorf("failed to parse records file: %w", err)
	}

	records := make([]picky.Record, len(jsonRecords))
	for i, r := range jsonRecords {
		records[i] = picky.Record{ID: r.ID, Fields: r.Fields}
	}

	if err := picky.Build(idxCfg, records, snapshotDir); err != nil {
		return fmt.Errorf("failed to build snapshot: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to index %q\n", len(records), opts.index)
	return nil
}
