package alloc

import (
	"container/heap"
	"fmt"
	"strings"

	"github.com/Aman-CERP/picky/internal/posting"
	"github.com/Aman-CERP/picky/internal/token"
)

// candidate is one (category, bundle kind, score) choice for a single
// token, part of that token's descending-sorted score vector.
type candidate struct {
	category posting.Category
	kind     posting.Kind
	score    float64
}

// Enumerator lazily yields allocations in non-increasing score order using
// a best-first frontier: a priority queue seeded with the all-top-choice
// allocation and expanded by swapping one token's choice to its next-worse,
// so the product space of category assignments never has to be
// materialized.
type Enumerator struct {
	tokens     []token.Token
	vectors    [][]candidate
	frontier   frontier
	visited    map[string]bool
	exhausted  bool
	unsatisfiable bool
}

// NewEnumerator builds an Enumerator for tokens against store, given each
// token's resolved allowed-category set (from the qualifier resolver, in
// token order).
//
// For each token and each allowed category, the best-matching bundle is
// precomputed: exact if the token has a weight entry there, else partial,
// else similarity; a category with none of the three is dropped from that
// token's vector. A token left with an empty vector makes the whole query
// unsatisfiable — the product space is empty, so the enumerator yields no
// allocations.
func NewEnumerator(tokens []token.Token, allowed [][]posting.Category, store *posting.Store) *Enumerator {
	vectors := make([][]candidate, len(tokens))
	unsatisfiable := false
	for i, t := range tokens {
		vectors[i] = buildVector(t, allowed[i], store)
		if len(vectors[i]) == 0 {
			unsatisfiable = true
		}
	}

	e := &Enumerator{
		tokens:        tokens,
		vectors:       vectors,
		visited:       make(map[string]bool),
		unsatisfiable: unsatisfiable,
	}
	if !unsatisfiable && len(tokens) > 0 {
		start := make([]int, len(tokens))
		e.pushState(start)
	}
	if len(tokens) == 0 {
		e.exhausted = true
	}
	return e
}

func buildVector(t token.Token, categories []posting.Category, store *posting.Store) []candidate {
	var vec []candidate
	for _, c := range categories {
		kind, weight, ok := bestBundle(t, c, store)
		if !ok {
			continue
		}
		vec = append(vec, candidate{category: c, kind: kind, score: c.Weight + weight})
	}
	sortCandidatesDescending(vec)
	return vec
}

// bestBundle applies the exact > partial > similarity precedence.
func bestBundle(t token.Token, c posting.Category, store *posting.Store) (posting.Kind, float64, bool) {
	if w, ok := store.WeightFor(c, posting.Exact, t.Text); ok {
		return posting.Exact, w, true
	}
	if w, ok := store.WeightFor(c, posting.Partial, t.Text); ok {
		return posting.Partial, w, true
	}
	if w, ok := store.WeightFor(c, posting.Similarity, t.Text); ok {
		return posting.Similarity, w, true
	}
	return 0, 0, false
}

func sortCandidatesDescending(vec []candidate) {
	for i := 1; i < len(vec); i++ {
		for j := i; j > 0 && less(vec[j], vec[j-1]); j-- {
			vec[j-1], vec[j] = vec[j], vec[j-1]
		}
	}
}

// less reports whether a should sort before b within a per-token vector:
// higher score first, category index ascending breaks ties.
func less(a, b candidate) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.category.Index < b.category.Index
}

// Next returns the next allocation in non-increasing score order, or false
// once the product space is exhausted (or was unsatisfiable from the
// start).
func (e *Enumerator) Next() (Allocation, bool) {
	if e.exhausted || e.frontier.Len() == 0 {
		e.exhausted = true
		return Allocation{}, false
	}

	top := heap.Pop(&e.frontier).(*frontierNode)
	for i := range top.state {
		next := make([]int, len(top.state))
		copy(next, top.state)
		next[i]++
		if next[i] >= len(e.vectors[i]) {
			continue
		}
		e.pushState(next)
	}

	combos := make([]Combination, len(top.state))
	for i, choiceIdx := range top.state {
		cand := e.vectors[i][choiceIdx]
		combos[i] = Combination{Token: e.tokens[i], Category: cand.category, Kind: cand.kind}
	}
	return Allocation{Combinations: combos, Score: top.score}, true
}

func (e *Enumerator) pushState(state []int) {
	key := stateKey(state)
	if e.visited[key] {
		return
	}
	e.visited[key] = true

	var score float64
	indices := make([]int, len(state))
	for i, choiceIdx := range state {
		score += e.vectors[i][choiceIdx].score
		indices[i] = e.vectors[i][choiceIdx].category.Index
	}
	heap.Push(&e.frontier, &frontierNode{state: state, score: score, categoryIndices: indices})
}

func stateKey(state []int) string {
	var b strings.Builder
	for i, v := range state {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", v)
	}
	return b.String()
}

// frontierNode is one entry in the best-first priority queue: a choice
// index per token, its total score, and the category-index tuple used to
// break score ties deterministically.
type frontierNode struct {
	state           []int
	score           float64
	categoryIndices []int
}

// frontier implements container/heap.Interface as a max-heap on score, with
// lexicographic category-index comparison as the tie-break.
type frontier []*frontierNode

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	a, b := f[i], f[j]
	if a.score != b.score {
		return a.score > b.score
	}
	return lexicographicLess(a.categoryIndices, b.categoryIndices)
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) {
	*f = append(*f, x.(*frontierNode))
}

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return item
}

func lexicographicLess(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
