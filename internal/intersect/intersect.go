// Package intersect computes the intersection of sorted ascending id lists,
// the primitive the allocation evaluator folds posting lists through.
package intersect

import "github.com/Aman-CERP/picky/internal/posting"

// Hint carries optional pruning hints. The in-memory implementation accepts
// and ignores them: there is no beneficial pruning for a full-set
// intersection, but the signature leaves room for a backend that can use
// them (e.g. an on-disk posting store with skip lists).
type Hint struct {
	// Limit is the caller's requested result-count ceiling, if any.
	Limit int
	// Offset is the caller's requested result-count skip, if any.
	Offset int
}

// Of returns the sorted, deduplicated intersection of lists. Each input
// list must already be sorted ascending and free of duplicates; the result
// inherits that shape.
//
// Algorithm: sort the lists by length ascending, then fold them in that
// order, starting from the smallest, through a two-pointer merge of two
// ascending lists. The smallest list
// bounds the final result size, so folding outward from it keeps every
// intermediate result small.
func Of(lists [][]posting.ID, _ Hint) []posting.ID {
	for _, l := range lists {
		if len(l) == 0 {
			return nil
		}
	}
	if len(lists) == 0 {
		return nil
	}
	if len(lists) == 1 {
		return append([]posting.ID(nil), lists[0]...)
	}

	ordered := make([][]posting.ID, len(lists))
	copy(ordered, lists)
	sortBySizeAscending(ordered)

	acc := ordered[0]
	for i := 1; i < len(ordered); i++ {
		acc = twoPointerIntersect(acc, ordered[i])
		if len(acc) == 0 {
			return nil
		}
	}
	return acc
}

func sortBySizeAscending(lists [][]posting.ID) {
	// Insertion sort: the input list count is small (one per query token),
	// so this avoids pulling in sort.Slice's reflection-based overhead.
	for i := 1; i < len(lists); i++ {
		for j := i; j > 0 && len(lists[j-1]) > len(lists[j]); j-- {
			lists[j-1], lists[j] = lists[j], lists[j-1]
		}
	}
}

func twoPointerIntersect(a, b []posting.ID) []posting.ID {
	out := make([]posting.ID, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}
