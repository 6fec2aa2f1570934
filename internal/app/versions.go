package app

import (
	"context"
	"strings"

	"linkie-web/internal/core"
	"linkie-web/internal/types"
)

// Versions lists the stable versions of every loader.
func (s *Service) Versions(ctx context.Context) (map[string][]types.VersionInfo, error) {
	source, err := s.dependencies()
	if err != nil {
		return nil, err
	}
	components, err := source.Components(ctx)
	if err != nil {
		return nil, err
	}
	return core.NewLoaderVersionResolver(s.Comparator).ListVersions(ctx, components), nil
}

// LoaderVersions resolves the version table of one loader.
func (s *Service) LoaderVersions(ctx context.Context, loader string) ([]types.LoaderVersion, error) {
	source, err := s.dependencies()
	if err != nil {
		return nil, err
	}
	components, err := source.Components(ctx)
	if err != nil {
		return nil, err
	}
	return core.NewLoaderVersionResolver(s.Comparator).Resolve(ctx, loader, components)
}

// AllLoaderVersions resolves every loader against the same snapshot.
func (s *Service) AllLoaderVersions(ctx context.Context) (map[string][]types.LoaderVersion, error) {
	source, err := s.dependencies()
	if err != nil {
		return nil, err
	}
	components, err := source.Components(ctx)
	if err != nil {
		return nil, err
	}
	return core.NewLoaderVersionResolver(s.Comparator).ResolveAll(ctx, components), nil
}

func IsAllLoaders(loader string) bool {
	return strings.EqualFold(strings.TrimSpace(loader), core.AllLoaders)
}
