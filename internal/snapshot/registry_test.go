package snapshot

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TS01: LoadRegistry loads every source concurrently and makes each
// reachable by name.
func TestLoadRegistry_LoadsAllSources(t *testing.T) {
	dir := t.TempDir()

	productsPath := filepath.Join(dir, "products.db")
	require.NoError(t, Dump(buildFixtureIndex(), productsPath))

	other := buildFixtureIndex()
	other.Name = "reviews"
	reviewsPath := filepath.Join(dir, "reviews.db")
	require.NoError(t, Dump(other, reviewsPath))

	reg, err := LoadRegistry(context.Background(), []Source{
		{Name: "products", Path: productsPath},
		{Name: "reviews", Path: reviewsPath},
	})
	require.NoError(t, err)

	assert.NotNil(t, reg.Handle("products"))
	assert.NotNil(t, reg.Handle("reviews"))
	assert.Nil(t, reg.Handle("missing"))
	assert.ElementsMatch(t, []string{"products", "reviews"}, reg.Names())
}

// TS02: LoadRegistry surfaces the first failure when one source can't load.
func TestLoadRegistry_FailsOnBadSource(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadRegistry(context.Background(), []Source{
		{Name: "missing", Path: filepath.Join(dir, "nope.db")},
	})
	require.Error(t, err)
}

// TS03: SourcesFromDir builds the conventional <dir>/<index>/snapshot.db
// layout.
func TestSourcesFromDir_BuildsConventionalPaths(t *testing.T) {
	sources := SourcesFromDir("/data/snapshots", []string{"products", "reviews"})

	require.Len(t, sources, 2)
	assert.Equal(t, "/data/snapshots/products/snapshot.db", sources[0].Path)
	assert.Equal(t, "/data/snapshots/reviews/snapshot.db", sources[1].Path)
}
