package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"linkie-web/internal/core"
	"linkie-web/internal/ports"
	"linkie-web/internal/shared"
	"linkie-web/internal/types"
)

type registeredNamespace struct {
	namespace types.Namespace
	store     ports.MappingsStorePort
	sources   string
	closer    func() error
}

// CatalogRegistry is the namespace registry described by a catalog
// yaml file. Namespaces keep their catalog order.
type CatalogRegistry struct {
	Path       string
	Comparator core.VersionComparator

	mu         sync.RWMutex
	namespaces []registeredNamespace
	providers  map[string]*MappingsProvider
}

func NewCatalogRegistry(path string, comparator core.VersionComparator) *CatalogRegistry {
	return &CatalogRegistry{
		Path:       path,
		Comparator: comparator,
		providers:  map[string]*MappingsProvider{},
	}
}

// LoadCatalogFile parses a catalog file without touching mapping stores.
func LoadCatalogFile(path string) (types.CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.CatalogFile{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("catalog file not found").
			WithCause(err)
	}
	var catalog types.CatalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return types.CatalogFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse catalog yaml").
			WithCause(err)
	}
	return catalog, nil
}

// Reload re-reads the catalog and rediscovers versions. Cached
// containers are dropped.
func (r *CatalogRegistry) Reload(ctx context.Context) error {
	catalog, err := LoadCatalogFile(r.Path)
	if err != nil {
		return err
	}
	seen := map[string]bool{}
	var namespaces []registeredNamespace
	fail := func(err error) error {
		closeNamespaces(namespaces)
		return err
	}
	for _, entry := range catalog.Namespaces {
		id := shared.NormalizeID(entry.ID)
		if id == "" {
			return fail(errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("catalog namespace id must be set"))
		}
		if seen[id] {
			return fail(errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("duplicate namespace in catalog: %s", id)))
		}
		seen[id] = true
		registered, err := r.register(ctx, id, entry)
		if err != nil {
			return fail(err)
		}
		namespaces = append(namespaces, registered)
	}

	r.mu.Lock()
	previous := r.namespaces
	r.namespaces = namespaces
	r.providers = map[string]*MappingsProvider{}
	r.mu.Unlock()
	closeNamespaces(previous)

	log.Ctx(ctx).Info().Int("namespaces", len(namespaces)).Str("catalog", r.Path).Msg("catalog loaded")
	return nil
}

func (r *CatalogRegistry) register(ctx context.Context, id string, entry types.NamespaceCatalogEntry) (registeredNamespace, error) {
	assert.NotEmpty(ctx, id, "namespace id must be normalized before registration")
	base := filepath.Dir(r.Path)
	mappings := resolveCatalogPath(base, entry.Mappings)
	registered := registeredNamespace{sources: resolveCatalogPath(base, entry.Sources)}
	var discovered []string
	switch entry.Backend {
	case "", types.MappingsBackendYAML:
		store := NewYAMLMappingsStore(mappings)
		registered.store = store
		if len(entry.Versions) == 0 {
			versions, err := store.DiscoverVersions()
			if err != nil {
				return registeredNamespace{}, err
			}
			discovered = versions
		}
	case types.MappingsBackendSQLite:
		store, err := OpenSQLiteMappingsStore(mappings, id)
		if err != nil {
			return registeredNamespace{}, err
		}
		registered.store = store
		registered.closer = store.Close
		if len(entry.Versions) == 0 {
			versions, err := store.Versions(ctx)
			if err != nil {
				store.Close()
				return registeredNamespace{}, err
			}
			discovered = versions
		}
	default:
		return registeredNamespace{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported mappings backend for %s: %s", id, entry.Backend))
	}

	versions := entry.Versions
	if len(versions) == 0 {
		versions = r.sortDescending(discovered)
	}
	defaultVersion := strings.TrimSpace(entry.DefaultVersion)
	if defaultVersion == "" && len(versions) > 0 {
		defaultVersion = versions[0]
	}
	registered.namespace = types.Namespace{
		ID:             id,
		DefaultVersion: defaultVersion,
		Versions:       slices.Clone(versions),
		Capabilities:   entry.Supports,
	}
	return registered, nil
}

// resolveCatalogPath anchors relative catalog paths at the catalog's
// directory.
func resolveCatalogPath(base string, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// sortDescending orders discovered versions newest first. Ids the
// comparator cannot parse go last in lexical order.
func (r *CatalogRegistry) sortDescending(versions []string) []string {
	sorted := slices.Clone(versions)
	slices.SortStableFunc(sorted, func(a, b string) int {
		va, errA := r.Comparator.Parse(a)
		vb, errB := r.Comparator.Parse(b)
		switch {
		case errA != nil && errB != nil:
			return strings.Compare(a, b)
		case errA != nil:
			return 1
		case errB != nil:
			return -1
		}
		return r.Comparator.Compare(vb, va)
	})
	return sorted
}

func (r *CatalogRegistry) Namespace(id string) (types.Namespace, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := shared.NormalizeID(id)
	for _, registered := range r.namespaces {
		if registered.namespace.ID == needle {
			return registered.namespace, true
		}
	}
	return types.Namespace{}, false
}

func (r *CatalogRegistry) Namespaces() []types.Namespace {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.Namespace, 0, len(r.namespaces))
	for _, registered := range r.namespaces {
		out = append(out, registered.namespace)
	}
	return out
}

func (r *CatalogRegistry) Provider(namespaceID string, version string) (ports.MappingsProviderPort, error) {
	id := shared.NormalizeID(namespaceID)
	key := id + "@" + version

	r.mu.Lock()
	defer r.mu.Unlock()
	if provider, ok := r.providers[key]; ok {
		return provider, nil
	}
	for _, registered := range r.namespaces {
		if registered.namespace.ID != id {
			continue
		}
		if !registered.namespace.HasVersion(version) {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("namespace %s has no version %s", id, version))
		}
		provider := NewMappingsProvider(id, version, registered.store, registered.sources)
		r.providers[key] = provider
		return provider, nil
	}
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("namespace not found: %s", namespaceID))
}

// Close releases database handles held by sqlite-backed namespaces.
func (r *CatalogRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	closeNamespaces(r.namespaces)
	r.namespaces = nil
	r.providers = map[string]*MappingsProvider{}
}

func closeNamespaces(namespaces []registeredNamespace) {
	for _, registered := range namespaces {
		if registered.closer == nil {
			continue
		}
		if err := registered.closer(); err != nil {
			log.Warn().Err(err).Str("namespace", registered.namespace.ID).Msg("failed to close mappings store")
		}
	}
}

var _ ports.NamespaceRegistryPort = (*CatalogRegistry)(nil)
