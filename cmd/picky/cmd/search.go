package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/picky/internal/output"
	"github.com/Aman-CERP/picky/pkg/picky"
)

type searchOptions struct {
	index  string
	limit  int
	offset int
	format string
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search a configured index by query text",
		Long: `Tokenizes the query, resolves each token's qualifiers, enumerates
allocations in descending score order, intersects their posting lists,
and returns ranked ids under the index's early-termination budget.

Examples:
  picky search --index products "title:red shoes"
  picky search --index products --format json "brand,title:nike"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd.Context(), cmd, query, opts)
		},
	}

	cmd.Flags().StringVar(&opts.index, "index", "", "Index to search (required)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 20, "Maximum number of ids to return")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "Number of leading results to skip")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	_ = cmd.MarkFlagRequired("index")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, query string, opts searchOptions) error {
	engine, err := picky.Open(ctx, configPath, picky.Options{SnapshotDir: snapshotDir})
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}

	result, err := engine.Search(ctx, opts.index, query, opts.limit, opts.offset)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	out := output.New(cmd.OutOrStdout())
	out.Statusf("🔍", "%d ids for %q (truncated: %t)", len(result.IDs), query, result.Truncated)
	for _, id := range result.IDs {
		out.Status("", fmt.Sprintf("%d", id))
	}
	return nil
}
