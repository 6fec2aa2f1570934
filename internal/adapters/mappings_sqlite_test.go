package adapters

import (
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"linkie-web/internal/types"
)

func openTestSQLiteStore(t *testing.T, namespace string) *SQLiteMappingsStore {
	t.Helper()
	store, err := OpenSQLiteMappingsStore(filepath.Join(t.TempDir(), "mappings.db"), namespace)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleClasses(t *testing.T) []types.Class {
	t.Helper()
	var file types.MappingsFile
	require.NoError(t, yaml.Unmarshal([]byte(sampleYarnMappings), &file))
	return ClassesFromFile(file)
}

func TestSQLiteMappingsStoreRoundTrip(t *testing.T) {
	store := openTestSQLiteStore(t, "yarn")
	classes := sampleClasses(t)

	assert.False(t, store.HasVersion("1.20.1"))
	require.NoError(t, store.ImportClasses(t.Context(), "1.20.1", classes))
	assert.True(t, store.HasVersion("1.20.1"))

	loaded, err := store.LoadClasses(t.Context(), "1.20.1")
	require.NoError(t, err)
	if diff := cmp.Diff(classes, loaded); diff != "" {
		t.Fatalf("loaded classes mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteMappingsStoreQueryFailureSurfacesAsInternal(t *testing.T) {
	store := openTestSQLiteStore(t, "yarn")
	require.NoError(t, store.ImportClasses(t.Context(), "1.20.1", sampleClasses(t)))
	require.NoError(t, store.Close())

	assert.True(t, store.HasVersion("1.20.1"))
	assert.True(t, store.HasVersion("1.19.4"))

	provider := NewMappingsProvider("yarn", "1.20.1", store, "")
	assert.False(t, provider.IsEmpty())
	_, err := provider.Get(t.Context())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
}

func TestSQLiteMappingsStoreImportReplacesVersion(t *testing.T) {
	store := openTestSQLiteStore(t, "yarn")
	classes := sampleClasses(t)
	require.NoError(t, store.ImportClasses(t.Context(), "1.20.1", classes))
	require.NoError(t, store.ImportClasses(t.Context(), "1.20.1", classes[:1]))
	require.NoError(t, store.ImportClasses(t.Context(), "1.19.4", classes))

	loaded, err := store.LoadClasses(t.Context(), "1.20.1")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)

	versions, err := store.Versions(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"1.19.4", "1.20.1"}, versions)
}

func TestSQLiteMappingsStoreScopesByNamespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.db")
	yarn, err := OpenSQLiteMappingsStore(path, "yarn")
	require.NoError(t, err)
	defer yarn.Close()
	require.NoError(t, yarn.ImportClasses(t.Context(), "1.20.1", sampleClasses(t)))

	mojmap, err := OpenSQLiteMappingsStore(path, "mojmap")
	require.NoError(t, err)
	defer mojmap.Close()
	assert.False(t, mojmap.HasVersion("1.20.1"))

	_, err = mojmap.LoadClasses(t.Context(), "1.20.1")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}
