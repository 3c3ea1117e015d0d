package ingest

import (
	"testing"

	"github.com/Aman-CERP/picky/internal/config"
	"github.com/Aman-CERP/picky/internal/posting"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TS01: Build indexes field words into the exact bundle, one posting per
// record per word.
func TestBuild_IndexesExactWords(t *testing.T) {
	cfg := config.Index{Name: "products", Categories: []config.Category{
		{Name: "title", Weight: 1.0},
	}}
	records := []Record{
		{ID: 1, Fields: map[string]string{"title": "Red Running Shoes"}},
		{ID: 2, Fields: map[string]string{"title": "Blue Shoes"}},
	}

	idx, err := NewBuilder(cfg).Build(records)
	require.NoError(t, err)

	require.Len(t, idx.Categories, 1)
	title := idx.Categories[0]
	assert.Equal(t, []posting.ID{1, 2}, title.Exact().IDsFor("shoes"))
	assert.Equal(t, []posting.ID{1}, title.Exact().IDsFor("red"))
}

// TS02: A partial strategy indexes substrings within the configured range.
func TestBuild_IndexesPartialSubstrings(t *testing.T) {
	cfg := config.Index{Name: "products", Categories: []config.Category{
		{Name: "title", Weight: 1.0, Partial: &config.PartialStrategy{Enabled: true, From: 3, To: 4}},
	}}
	records := []Record{{ID: 1, Fields: map[string]string{"title": "shoes"}}}

	idx, err := NewBuilder(cfg).Build(records)
	require.NoError(t, err)

	title := idx.Categories[0]
	require.NotNil(t, title.Partial())
	assert.Equal(t, []posting.ID{1}, title.Partial().IDsFor("sho"))
	assert.Equal(t, []posting.ID{1}, title.Partial().IDsFor("hoes"))
	assert.Empty(t, title.Partial().IDsFor("zz"))
}

// TS03: A similarity strategy groups phonetically similar words and
// resolves siblings back through the exact bundle's own tokens.
func TestBuild_GroupsPhoneticSiblings(t *testing.T) {
	cfg := config.Index{Name: "products", Categories: []config.Category{
		{Name: "brand", Weight: 1.0, Similarity: &config.SimilarityStrategy{Enabled: true, N: 5}},
	}}
	records := []Record{
		{ID: 1, Fields: map[string]string{"brand": "smith"}},
		{ID: 2, Fields: map[string]string{"brand": "smyth"}},
	}

	idx, err := NewBuilder(cfg).Build(records)
	require.NoError(t, err)

	brand := idx.Categories[0]
	require.NotNil(t, brand.SimilarityBundle())
	siblings := brand.SimilarityBundle().Similar("smith")
	assert.Equal(t, []string{"smyth"}, siblings)
}

// TS04: A category with a From alias reads a different record field.
func TestBuild_FromAliasesAnotherField(t *testing.T) {
	cfg := config.Index{Name: "products", Categories: []config.Category{
		{Name: "search_title", From: "title", Weight: 1.0},
	}}
	records := []Record{{ID: 1, Fields: map[string]string{"title": "Widget"}}}

	idx, err := NewBuilder(cfg).Build(records)
	require.NoError(t, err)

	assert.Equal(t, []posting.ID{1}, idx.Categories[0].Exact().IDsFor("widget"))
}

// TS05: A bucketed (Location) category indexes the record's rounded
// bucket token rather than tokenized words.
func TestBuild_BucketsNumericColumn(t *testing.T) {
	cfg := config.Index{Name: "stores", Categories: []config.Category{
		config.Location("distance_km", 5.0, 2),
	}}
	records := []Record{
		{ID: 1, Fields: map[string]string{"distance_km": "11"}},
		{ID: 2, Fields: map[string]string{"distance_km": "9"}},
	}

	idx, err := NewBuilder(cfg).Build(records)
	require.NoError(t, err)

	cat := idx.Categories[0]
	token := bucketExactToken(11, 5.0)
	assert.Contains(t, cat.Exact().IDsFor(token), posting.ID(1))
}

// TS06: A non-numeric value under a bucketed category is a build error.
func TestBuild_RejectsNonNumericBucketValue(t *testing.T) {
	cfg := config.Index{Name: "stores", Categories: []config.Category{
		config.Location("distance_km", 5.0, 2),
	}}
	records := []Record{{ID: 1, Fields: map[string]string{"distance_km": "far away"}}}

	_, err := NewBuilder(cfg).Build(records)
	assert.Error(t, err)
}
