package app

import (
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkie-web/internal/types"
)

const (
	fixtureCatalog = "../../fixtures/catalog.yaml"
	fixtureDeps    = "../../fixtures/deps"
)

func newFixtureService(t *testing.T) *Service {
	t.Helper()
	service, err := NewService(t.Context(), Config{
		CatalogPath: fixtureCatalog,
		DepsDir:     fixtureDeps,
	})
	require.NoError(t, err)
	t.Cleanup(service.Close)
	return service
}

// ----------------------------------------------------------------------------
// Search
// ----------------------------------------------------------------------------

func TestServiceSearchDefaultsToNewestVersion(t *testing.T) {
	service := newFixtureService(t)
	result, err := service.Search(t.Context(), SearchRequest{
		Namespace:    "yarn",
		Query:        "net.minecraft.entity.Entity",
		AllowClasses: true,
		Limit:        100,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Entries)
	first := result.Entries[0]
	assert.Equal(t, types.EntryKindClass, first.MemberType)
	assert.Equal(t, "net/minecraft/class_1297", first.Intermediary)
	assert.Equal(t, "bfj", first.Obf)
}

func TestServiceSearchTranslatesField(t *testing.T) {
	service := newFixtureService(t)
	result, err := service.Search(t.Context(), SearchRequest{
		Namespace:          "yarn",
		TranslateNamespace: "mojmap",
		Query:              "Entity#world",
		AllowFields:        true,
		Limit:              5,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Entries)

	first := result.Entries[0]
	assert.Equal(t, types.EntryKindField, first.MemberType)
	assert.Equal(t, "world", first.Named)
	require.NotNil(t, first.Translated)
	assert.Equal(t, "level", first.Translated.Named)
	assert.Equal(t, "net/minecraft/world/entity/Entity", first.Translated.OwnerIntermediary)
}

func TestServiceSearchTranslatesMethodByDescriptor(t *testing.T) {
	service := newFixtureService(t)
	result, err := service.Search(t.Context(), SearchRequest{
		Namespace:          "yarn",
		TranslateNamespace: "mojmap",
		Version:            "1.20.1",
		Query:              "getWorld",
		AllowMethods:       true,
		Limit:              100,
	})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	require.NotNil(t, result.Entries[0].Translated)
	assert.Equal(t, "level", result.Entries[0].Translated.Named)
	assert.Equal(t, "()Lcmm;", result.Entries[0].Translated.DescObf)
}

func TestServiceSearchErrors(t *testing.T) {
	service := newFixtureService(t)
	tests := []struct {
		name string
		req  SearchRequest
		code errbuilder.ErrCode
	}{
		{name: "unknown namespace", req: SearchRequest{Namespace: "quilt", Query: "Entity", AllowClasses: true, Limit: 10}, code: errbuilder.CodeNotFound},
		{name: "limit too large", req: SearchRequest{Namespace: "yarn", Query: "Entity", AllowClasses: true, Limit: 1001}, code: errbuilder.CodeInvalidArgument},
		{name: "zero limit", req: SearchRequest{Namespace: "yarn", Query: "Entity", AllowClasses: true}, code: errbuilder.CodeInvalidArgument},
		{name: "nothing allowed", req: SearchRequest{Namespace: "yarn", Query: "Entity", Limit: 10}, code: errbuilder.CodeInvalidArgument},
		{name: "empty query", req: SearchRequest{Namespace: "yarn", Query: " ", AllowClasses: true, Limit: 10}, code: errbuilder.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Search(t.Context(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.code, errbuilder.CodeOf(err))
		})
	}
}

func TestServiceWithoutCatalog(t *testing.T) {
	service, err := NewService(t.Context(), Config{})
	require.NoError(t, err)
	_, err = service.Namespaces(t.Context())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))

	_, err = service.Versions(t.Context())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
}

func TestNewServiceRejectsBothDependencySources(t *testing.T) {
	_, err := NewService(t.Context(), Config{DepsDir: fixtureDeps, DepsURL: "http://localhost:1"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

// ----------------------------------------------------------------------------
// Namespaces and sources
// ----------------------------------------------------------------------------

func TestServiceNamespaces(t *testing.T) {
	service := newFixtureService(t)
	entries, err := service.Namespaces(t.Context())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	yarn := entries[0]
	assert.Equal(t, "yarn", yarn.ID)
	assert.True(t, yarn.SupportsSource)
	assert.False(t, yarn.SupportsAT)
	want := []types.VersionInfo{{Version: "1.20.1", Stable: true}, {Version: "1.19.4", Stable: true}}
	if diff := cmp.Diff(want, yarn.Versions); diff != "" {
		t.Fatalf("yarn versions mismatch (-want +got):\n%s", diff)
	}

	mojmap := entries[1]
	assert.Equal(t, "mojmap", mojmap.ID)
	require.Len(t, mojmap.Versions, 3)
	assert.Equal(t, "23w14a", mojmap.Versions[2].Version)
	assert.False(t, mojmap.Versions[2].Stable)
}

func TestServiceSource(t *testing.T) {
	service := newFixtureService(t)
	result, err := service.Source(t.Context(), SourceRequest{
		Namespace: "yarn",
		Version:   "1.20.1",
		Class:     "net.minecraft.entity.Entity",
	})
	require.NoError(t, err)
	assert.Contains(t, result.Text, "public abstract class Entity")
	assert.Equal(t, filepath.Join("..", "..", "fixtures", "sources", "yarn", "1.20.1", "net", "minecraft", "entity", "Entity.java"), result.Path)
}

func TestServiceSourceErrors(t *testing.T) {
	service := newFixtureService(t)
	tests := []struct {
		name string
		req  SourceRequest
		code errbuilder.ErrCode
	}{
		{name: "missing class", req: SourceRequest{Namespace: "yarn", Version: "1.20.1", Class: "net/minecraft/world/World"}, code: errbuilder.CodeNotFound},
		{name: "no sources", req: SourceRequest{Namespace: "mojmap", Version: "1.20.1", Class: "net/minecraft/world/entity/Entity"}, code: errbuilder.CodeNotFound},
		{name: "empty provider", req: SourceRequest{Namespace: "mojmap", Version: "23w14a", Class: "a"}, code: errbuilder.CodeNotFound},
		{name: "unknown namespace", req: SourceRequest{Namespace: "quilt", Version: "1.20.1", Class: "a"}, code: errbuilder.CodeNotFound},
		{name: "traversal", req: SourceRequest{Namespace: "yarn", Version: "1.20.1", Class: "../../secret"}, code: errbuilder.CodeInvalidArgument},
		{name: "missing fields", req: SourceRequest{Namespace: "yarn"}, code: errbuilder.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Source(t.Context(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.code, errbuilder.CodeOf(err))
		})
	}
}

// ----------------------------------------------------------------------------
// Loader versions
// ----------------------------------------------------------------------------

func TestServiceVersions(t *testing.T) {
	service := newFixtureService(t)
	versions, err := service.Versions(t.Context())
	require.NoError(t, err)
	want := map[string][]types.VersionInfo{
		"fabric": {{Version: "1.20.1", Stable: true}, {Version: "1.19.4", Stable: true}},
		"forge":  {{Version: "1.20.1", Stable: true}, {Version: "1.19.4", Stable: true}},
	}
	if diff := cmp.Diff(want, versions); diff != "" {
		t.Fatalf("versions mismatch (-want +got):\n%s", diff)
	}
}

func TestServiceLoaderVersions(t *testing.T) {
	service := newFixtureService(t)
	versions, err := service.LoaderVersions(t.Context(), "fabric")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "1.20.1", versions[0].Version)
	assert.Equal(t, "net.fabricmc.fabric-api:fabric-api:0.86.0+1.20.1", versions[0].Blocks["fabric-api"].Dependencies[0].Value)
	assert.Equal(t, "1.19.4", versions[1].Version)
	assert.Equal(t, "net.fabricmc.fabric-api:fabric-api:0.87.0+1.19.4", versions[1].Blocks["fabric-api"].Dependencies[0].Value)

	_, err = service.LoaderVersions(t.Context(), "quilt")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestServiceAllLoaderVersions(t *testing.T) {
	service := newFixtureService(t)
	all, err := service.AllLoaderVersions(t.Context())
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Contains(t, all, "fabric")
	assert.Contains(t, all, "forge")
	assert.True(t, IsAllLoaders(" ALL "))
	assert.False(t, IsAllLoaders("fabric"))
}

// ----------------------------------------------------------------------------
// Licenses and import
// ----------------------------------------------------------------------------

func TestServiceOSSLicenses(t *testing.T) {
	service := newFixtureService(t)
	entries, err := service.OSSLicenses()
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestServiceImportMappings(t *testing.T) {
	database := filepath.Join(t.TempDir(), "mappings.db")
	service := &Service{}
	result, err := service.ImportMappings(t.Context(), ImportMappingsRequest{
		Namespace: "Yarn",
		Version:   "1.20.1",
		InputPath: "../../fixtures/mappings/yarn/1.20.1.yaml",
		Database:  database,
	})
	require.NoError(t, err)
	assert.Equal(t, ImportMappingsResult{Namespace: "yarn", Version: "1.20.1", Classes: 4, Members: 5}, result)

	_, err = service.ImportMappings(t.Context(), ImportMappingsRequest{Namespace: "yarn", Version: "1.20.1", InputPath: "absent.yaml", Database: database})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	_, err = service.ImportMappings(t.Context(), ImportMappingsRequest{Version: "1.20.1"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestNewServiceRejectsUnknownVersionScheme(t *testing.T) {
	_, err := NewService(t.Context(), Config{VersionScheme: "semver"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestNewServiceDebScheme(t *testing.T) {
	service, err := NewService(t.Context(), Config{CatalogPath: fixtureCatalog, VersionScheme: types.VersionSchemeDeb})
	require.NoError(t, err)
	defer service.Close()
	entries, err := service.Namespaces(t.Context())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "1.20.1", entries[0].Versions[0].Version)
}
