// Package qualifier maps user-supplied qualifier strings to the set of
// categories a query token is allowed to match.
package qualifier

import (
	"github.com/Aman-CERP/picky/internal/posting"
	"github.com/Aman-CERP/picky/internal/token"
)

// Resolver resolves tokens against a fixed, ordered list of categories.
type Resolver struct {
	categories []posting.Category
	byAlias    map[string][]posting.Category
}

// New builds a Resolver over categories, indexing their aliases.
func New(categories []posting.Category) *Resolver {
	byAlias := make(map[string][]posting.Category)
	for _, c := range categories {
		for _, alias := range c.CategoryAliases() {
			byAlias[alias] = append(byAlias[alias], c)
		}
	}
	return &Resolver{categories: categories, byAlias: byAlias}
}

// Resolve computes the allowed category set for t.
//
// If t carries explicit qualifiers, the result is the union of categories
// whose alias list contains any of them — nil if none match, meaning the
// token is unsatisfiable and must contribute zero allocations. Otherwise
// every category in the index is allowed.
func (r *Resolver) Resolve(t token.Token) []posting.Category {
	if len(t.Qualifiers) == 0 {
		return r.categories
	}

	seen := make(map[int]bool, len(r.categories))
	var allowed []posting.Category
	for _, q := range t.Qualifiers {
		for _, c := range r.byAlias[q] {
			idx := c.CategoryIndex()
			if seen[idx] {
				continue
			}
			seen[idx] = true
			allowed = append(allowed, c)
		}
	}
	return allowed
}
