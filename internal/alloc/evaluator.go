package alloc

import (
	"github.com/Aman-CERP/picky/internal/intersect"
	"github.com/Aman-CERP/picky/internal/pool"
	"github.com/Aman-CERP/picky/internal/posting"
)

// Evaluate resolves one allocation's combinations into posting lists and
// returns their intersection, in ascending id order. An allocation whose
// intersection is empty returns a nil slice — the caller is still
// responsible for counting it as one evaluated allocation, since that
// distinction is what early termination observes.
//
// The per-combination list slice is drawn from a type-scoped pool: every
// allocation in a query's frontier needs one, and intersect.Of never
// retains it past the call, so the backing array is reused across
// allocations and queries rather than reallocated each time.
func Evaluate(a Allocation, store *posting.Store) []posting.ID {
	if len(a.Combinations) == 0 {
		return nil
	}

	listsPtr := pool.Obtain(func() *[][]posting.ID {
		s := make([][]posting.ID, 0, len(a.Combinations))
		return &s
	})
	defer pool.Release(listsPtr)

	*listsPtr = (*listsPtr)[:0]
	for _, c := range a.Combinations {
		*listsPtr = append(*listsPtr, idsForCombination(c, store))
	}
	return intersect.Of(*listsPtr, intersect.Hint{})
}

// idsForCombination resolves one combination's id list. Exact and partial
// bundles are looked up directly; a similarity choice is a token-rewriting
// layer in front of the exact bundle — the chosen token's phonetic siblings
// are resolved through the exact bundle and their id lists unioned
// ascending.
func idsForCombination(c Combination, store *posting.Store) []posting.ID {
	if c.Kind != posting.Similarity {
		return store.IDsFor(c.Category, c.Kind, c.Token.Text)
	}

	sim := c.Category.SimilarityBundle()
	if sim == nil {
		return nil
	}
	siblings := sim.Similar(c.Token.Text)
	if len(siblings) == 0 {
		return nil
	}

	lists := make([][]posting.ID, 0, len(siblings))
	for _, sibling := range siblings {
		if ids := store.IDsFor(c.Category, posting.Exact, sibling); len(ids) > 0 {
			lists = append(lists, ids)
		}
	}
	return unionAscending(lists)
}

// unionAscending merges any number of sorted ascending id lists into one
// sorted ascending, deduplicated list.
func unionAscending(lists [][]posting.ID) []posting.ID {
	switch len(lists) {
	case 0:
		return nil
	case 1:
		return append([]posting.ID(nil), lists[0]...)
	}

	indices := make([]int, len(lists))
	var out []posting.ID
	for {
		var minVal posting.ID
		found := false
		for i, l := range lists {
			if indices[i] >= len(l) {
				continue
			}
			if !found || l[indices[i]] < minVal {
				minVal = l[indices[i]]
				found = true
			}
		}
		if !found {
			break
		}
		if len(out) == 0 || out[len(out)-1] != minVal {
			out = append(out, minVal)
		}
		for i, l := range lists {
			if indices[i] < len(l) && l[indices[i]] == minVal {
				indices[i]++
			}
		}
	}
	return out
}
