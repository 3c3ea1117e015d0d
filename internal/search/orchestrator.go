// Package search consumes allocations in score order, collects ids,
// applies offset/limit, and applies the early-termination policy that
// bounds how many additional allocations past sufficiency get evaluated.
package search

import (
	"context"
	"log/slog"

	"github.com/Aman-CERP/picky/internal/alloc"
	"github.com/Aman-CERP/picky/internal/posting"
	"github.com/Aman-CERP/picky/internal/qualifier"
	"github.com/Aman-CERP/picky/internal/token"
)

// Termination configures the early-termination policy. A nil *Termination
// on Config means termination is off: every allocation is evaluated.
//
// ExtraAllocations = 0 is a distinct, valid configuration meaning "stop
// immediately once the requested slice is satisfiable" — it is not the
// same as the off state.
type Termination struct {
	ExtraAllocations int
}

// Config controls orchestrator defaults.
type Config struct {
	// DefaultLimit is used when a caller passes limit <= 0.
	DefaultLimit int

	// TerminateEarly is nil to disable early termination.
	TerminateEarly *Termination
}

// DefaultConfig returns the configuration the end-to-end scenarios assume:
// a default limit of 20, termination off.
func DefaultConfig() Config {
	return Config{DefaultLimit: 20}
}

// AllocationSummary reports one evaluated allocation, independent of
// whether its intersection was empty.
type AllocationSummary struct {
	Score      float64
	Categories []string
	IDsCount   int
}

// Result is the orchestrator's output for one query.
type Result struct {
	// IDs is the requested offset/limit window over the concatenated,
	// per-allocation descending id lists.
	IDs []posting.ID

	// Allocations summarizes every allocation that was evaluated, in
	// evaluation order.
	Allocations []AllocationSummary

	// Truncated is true when the query's context deadline expired before
	// enumeration completed.
	Truncated bool
}

// Orchestrator ties the qualifier resolver, allocation enumerator, and
// evaluator together into the top-k search procedure.
type Orchestrator struct {
	store    *posting.Store
	resolver *qualifier.Resolver
	config   Config
	logger   *slog.Logger
}

// New builds an Orchestrator. A nil logger falls back to slog.Default().
func New(store *posting.Store, resolver *qualifier.Resolver, cfg Config, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 20
	}
	return &Orchestrator{store: store, resolver: resolver, config: cfg, logger: logger}
}

// Search runs the full tokenize -> resolve -> enumerate -> evaluate ->
// terminate procedure for one query.
//
// limit <= 0 uses the configured default; offset < 0 is clamped to 0. An
// empty token stream (a malformed or blank query) is a non-error, empty
// result, per the error-handling policy: the query path never fails on
// user input.
func (o *Orchestrator) Search(ctx context.Context, queryText string, limit, offset int) Result {
	if limit <= 0 {
		limit = o.config.DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	tokens := token.Tokenize(queryText)
	if len(tokens) == 0 {
		return Result{}
	}

	allowed := make([][]posting.Category, len(tokens))
	for i, t := range tokens {
		allowed[i] = o.resolver.Resolve(t)
	}

	enumerator := alloc.NewEnumerator(tokens, allowed, o.store)

	var acc []posting.ID
	var summaries []AllocationSummary
	evaluated := 0
	truncated := false

	needed := offset + limit

evalLoop:
	for {
		select {
		case <-ctx.Done():
			truncated = true
			o.logger.Warn("search deadline exceeded", "query", queryText, "allocations_evaluated", evaluated)
			break evalLoop
		default:
		}

		allocation, ok := enumerator.Next()
		if !ok {
			break
		}

		ids := alloc.Evaluate(allocation, o.store)
		evaluated++
		if len(ids) > 0 {
			acc = append(acc, reverseIDs(ids)...)
		}
		summaries = append(summaries, AllocationSummary{
			Score:      allocation.Score,
			Categories: categoryNames(allocation),
			IDsCount:   len(ids),
		})

		if o.config.TerminateEarly != nil {
			if len(acc) >= needed && evaluated >= o.config.TerminateEarly.ExtraAllocations+1 {
				o.logger.Info("search terminated early", "query", queryText, "allocations_evaluated", evaluated)
				break
			}
		}
	}

	return Result{
		IDs:         window(acc, offset, limit),
		Allocations: summaries,
		Truncated:   truncated,
	}
}

func categoryNames(a alloc.Allocation) []string {
	names := make([]string, len(a.Combinations))
	for i, c := range a.Combinations {
		names[i] = c.Category.Name
	}
	return names
}

// reverseIDs returns ids in descending order, leaving the input untouched.
func reverseIDs(ids []posting.ID) []posting.ID {
	out := make([]posting.ID, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}

// window slices acc[offset:offset+limit], clamped to acc's bounds.
func window(acc []posting.ID, offset, limit int) []posting.ID {
	if offset >= len(acc) {
		return nil
	}
	end := offset + limit
	if end > len(acc) {
		end = len(acc)
	}
	return acc[offset:end]
}
