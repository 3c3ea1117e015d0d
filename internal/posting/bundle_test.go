package posting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TS01: Put keeps a token's id list sorted ascending regardless of
// insertion order.
func TestMapBundle_PutKeepsSortedAscending(t *testing.T) {
	// Given: an empty exact bundle
	b := NewMapBundle(Exact)

	// When: ids are inserted out of order
	b.Put("hello", 5, 1.0)
	b.Put("hello", 1, 1.0)
	b.Put("hello", 3, 1.0)

	// Then: IDsFor returns them ascending
	assert.Equal(t, []ID{1, 3, 5}, b.IDsFor("hello"))
}

// TS02: Put is idempotent on duplicate ids.
func TestMapBundle_PutDeduplicates(t *testing.T) {
	// Given: an empty exact bundle
	b := NewMapBundle(Exact)

	// When: the same id is inserted twice
	b.Put("hello", 1, 1.0)
	b.Put("hello", 1, 1.0)

	// Then: it appears once
	assert.Equal(t, []ID{1}, b.IDsFor("hello"))
}

// TS03: An unknown token yields an empty, not-nil-panicking result.
func TestMapBundle_UnknownTokenEmpty(t *testing.T) {
	// Given: an empty exact bundle
	b := NewMapBundle(Exact)

	// When: looking up a token never inserted
	ids := b.IDsFor("missing")

	// Then: the result is empty
	assert.Empty(t, ids)

	_, ok := b.WeightFor("missing")
	assert.False(t, ok)
}

// TS04: Similarity bundle resolves siblings excluding the queried token,
// bounded by k.
func TestSimilarityMapBundle_SimilarExcludesSelfAndBoundsK(t *testing.T) {
	// Given: a similarity bundle with four tokens sharing one phonetic code
	b := NewSimilarityMapBundle(2)
	b.PutCode("smith", "S530")
	b.PutCode("smyth", "S530")
	b.PutCode("smithe", "S530")
	b.PutCode("smeeth", "S530")

	// When: resolving siblings of "smith"
	siblings := b.Similar("smith")

	// Then: "smith" itself is excluded and the result is bounded by k
	require.Len(t, siblings, 2)
	assert.NotContains(t, siblings, "smith")
}

// TS05: A token with no phonetic code has no siblings.
func TestSimilarityMapBundle_UnknownTokenNoSiblings(t *testing.T) {
	// Given: a similarity bundle with no entries
	b := NewSimilarityMapBundle(5)

	// When: resolving siblings of a token never registered
	siblings := b.Similar("ghost")

	// Then: the result is empty
	assert.Empty(t, siblings)
}
