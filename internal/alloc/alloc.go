// Package alloc enumerates and evaluates allocations: assignments of each
// query token to one category, chosen bundle, and the resulting id list.
package alloc

import (
	"github.com/Aman-CERP/picky/internal/posting"
	"github.com/Aman-CERP/picky/internal/token"
)

// Combination is a single (token, category, bundle) triple within an
// allocation.
type Combination struct {
	Token    token.Token
	Category posting.Category
	Kind     posting.Kind
}

// Allocation is one candidate assignment of every query token to a category,
// together with its total score.
type Allocation struct {
	// Combinations holds one entry per query token, in token order.
	Combinations []Combination

	// Score is the sum of category.Weight + bundle.WeightFor(token) across
	// every combination.
	Score float64
}

// CategoryIndices returns the allocation's category-index tuple, used as
// the deterministic tie-break key for equal-score allocations.
func (a Allocation) CategoryIndices() []int {
	idx := make([]int, len(a.Combinations))
	for i, c := range a.Combinations {
		idx[i] = c.Category.Index
	}
	return idx
}
