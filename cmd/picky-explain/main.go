// Package main provides the picky-explain command - an interactive
// allocation-frontier visualizer for a single query.
//
// Usage:
//
//	picky-explain --index <name> [flags] <query text>
//
// Flags:
//
//	    --config string            Path to the index configuration YAML file
//	    --snapshot-dir string      Directory holding each index's snapshot.db
//	    --index string             Index to query (required)
//	    --extra-allocations int    Allocations evaluated past sufficiency before
//	                               termination would fire (-1 disables the marker)
//	    --limit int                Requested result window size (default 20)
//	    --offset int                Requested result window offset
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/picky/internal/config"
	"github.com/Aman-CERP/picky/internal/search"
	"github.com/Aman-CERP/picky/pkg/picky"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath       string
		snapshotDir      string
		indexName        string
		extraAllocations int
		limit            int
		offset           int
	)

	cmd := &cobra.Command{
		Use:   "picky-explain <query text>",
		Short: "Step through one query's allocation frontier in score order",
		Long: `Runs a single query with early termination disabled, so every
allocation in score order is evaluated, then opens an interactive viewer
over the frontier: each allocation's score, the categories its
combinations came from, how many ids it contributed, and - given
--extra-allocations - whether the termination predicate would have
fired immediately after it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			queryText := strings.Join(args, " ")
			return runExplain(cmd.Context(), explainOptions{
				configPath:       configPath,
				snapshotDir:      snapshotDir,
				index:            indexName,
				extraAllocations: extraAllocations,
				limit:            limit,
				offset:           offset,
			}, queryText)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.GetUserConfigPath(), "Path to the index configuration YAML file")
	cmd.Flags().StringVar(&snapshotDir, "snapshot-dir", "", "Directory holding each index's snapshot.db")
	cmd.Flags().StringVar(&indexName, "index", "", "Index to query (required)")
	cmd.Flags().IntVar(&extraAllocations, "extra-allocations", -1, "Allocations evaluated past sufficiency before termination fires (-1 disables the marker)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Requested result window size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Requested result window offset")
	_ = cmd.MarkFlagRequired("index")

	return cmd
}

type explainOptions struct {
	configPath       string
	snapshotDir      string
	index            string
	extraAllocations int
	limit            int
	offset           int
}

func runExplain(ctx context.Context, opts explainOptions, queryText string) error {
	// Termination left nil: the viewer wants the full frontier, then
	// overlays where a hypothetical --extra-allocations budget would have
	// stopped evaluation, rather than actually stopping early itself.
	engine, err := picky.Open(ctx, opts.configPath, picky.Options{SnapshotDir: opts.snapshotDir})
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}

	result, err := engine.Search(ctx, opts.index, queryText, opts.limit, opts.offset)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	needed := opts.offset + opts.limit
	frontier := buildFrontier(result.Allocations, needed, opts.extraAllocations)
	model := newFrontierModel(queryText, opts.index, frontier, result.Truncated)

	program := tea.NewProgram(model)
	_, err = program.Run()
	return err
}

// frontierEntry is one allocation annotated with the running id count and
// whether the termination predicate would fire immediately after it, given
// a hypothetical extraAllocations budget.
type frontierEntry struct {
	index          int
	score          float64
	categories     []string
	idsCount       int
	cumulativeIDs  int
	terminatesHere bool
}

// buildFrontier replays the orchestrator's termination predicate
// (acc >= needed && evaluated >= extraAllocations+1) over the full
// allocation list, marking the first point past sufficiency it would
// have stopped at for the given extraAllocations budget. A negative
// extraAllocations disables the marker entirely.
func buildFrontier(summaries []search.AllocationSummary, needed, extraAllocations int) []frontierEntry {
	entries := make([]frontierEntry, len(summaries))
	cumulative := 0
	fired := false
	for i, s := range summaries {
		cumulative += s.IDsCount
		terminatesHere := !fired && extraAllocations >= 0 &&
			cumulative >= needed &&
			i+1 >= extraAllocations+1
		if terminatesHere {
			fired = true
		}
		entries[i] = frontierEntry{
			index:          i,
			score:          s.Score,
			categories:     s.Categories,
			idsCount:       s.IDsCount,
			cumulativeIDs:  cumulative,
			terminatesHere: terminatesHere,
		}
	}
	return entries
}
