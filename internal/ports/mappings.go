package ports

import (
	"context"

	"linkie-web/internal/types"
)

// NamespaceRegistryPort is the process-scoped set of registered namespaces.
type NamespaceRegistryPort interface {
	Namespace(id string) (types.Namespace, bool)
	Namespaces() []types.Namespace
	Provider(namespaceID string, version string) (MappingsProviderPort, error)
}

// MappingsProviderPort yields the container of one (namespace, version)
// pair. Get may block on I/O; the returned container must not be mutated.
type MappingsProviderPort interface {
	Version() string
	IsEmpty() bool
	Get(ctx context.Context) (*types.MappingsContainer, error)
	SourcePath(className string) (string, error)
}

// MappingsStorePort loads raw classes for a version from a storage backend.
type MappingsStorePort interface {
	LoadClasses(ctx context.Context, version string) ([]types.Class, error)
	HasVersion(version string) bool
}

type ScoringEnginePort interface {
	Query(ctx context.Context, container *types.MappingsContainer, text string, filter types.TypeFilter, limit int) (types.QueryResult, error)
}
