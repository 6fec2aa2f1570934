package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"linkie-web/internal/types"
)

// AllLoaders is the loader id that selects every loader at once.
const AllLoaders = "all"

// LoaderVersionResolver builds per-loader stable version tables from
// dependency records. Every call recomputes from its input alone.
type LoaderVersionResolver struct {
	Comparator VersionComparator
}

func NewLoaderVersionResolver(comparator VersionComparator) LoaderVersionResolver {
	return LoaderVersionResolver{Comparator: comparator}
}

type stableVersion struct {
	id     string
	stable bool
	parsed StructuredVersion
}

type snapshotDeclaration struct {
	component string
	record    types.DependencyRecord
}

// Loaders returns the loaders named by components, in discovery order.
func Loaders(components []types.DependencyComponent) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, component := range components {
		for _, record := range component.Records {
			loader := normalizeLoader(record.Loader)
			if loader == "" {
				continue
			}
			if _, ok := seen[loader]; ok {
				continue
			}
			seen[loader] = struct{}{}
			out = append(out, loader)
		}
	}
	return out
}

// ListVersions returns every loader's stable versions in discovery order.
func (r LoaderVersionResolver) ListVersions(ctx context.Context, components []types.DependencyComponent) map[string][]types.VersionInfo {
	cache := newVersionCache(r.Comparator)
	out := map[string][]types.VersionInfo{}
	for _, loader := range Loaders(components) {
		stables, _ := discover(ctx, cache, loader, components)
		infos := make([]types.VersionInfo, 0, len(stables))
		for _, version := range stables {
			infos = append(infos, types.VersionInfo{Version: version.id, Stable: version.stable})
		}
		out[loader] = infos
	}
	return out
}

// Resolve builds the version table of one loader.
func (r LoaderVersionResolver) Resolve(ctx context.Context, loader string, components []types.DependencyComponent) ([]types.LoaderVersion, error) {
	normalized := normalizeLoader(loader)
	if normalized == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no loader specified")
	}
	if !containsString(Loaders(components), normalized) {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown loader: %s", normalized))
	}
	cache := newVersionCache(r.Comparator)
	return r.resolveLoader(ctx, cache, normalized, components), nil
}

// ResolveAll builds the version table of every loader.
func (r LoaderVersionResolver) ResolveAll(ctx context.Context, components []types.DependencyComponent) map[string][]types.LoaderVersion {
	cache := newVersionCache(r.Comparator)
	out := map[string][]types.LoaderVersion{}
	for _, loader := range Loaders(components) {
		out[loader] = r.resolveLoader(ctx, cache, loader, components)
	}
	return out
}

func (r LoaderVersionResolver) resolveLoader(ctx context.Context, cache *versionCache, loader string, components []types.DependencyComponent) []types.LoaderVersion {
	stables, snapshots := discover(ctx, cache, loader, components)

	table := make([]types.LoaderVersion, len(stables))
	index := make(map[string]int, len(stables))
	for i, version := range stables {
		table[i] = types.LoaderVersion{Version: version.id, Stable: version.stable}
		index[version.id] = i
	}

	direct := map[int]map[string]struct{}{}
	for _, component := range components {
		for _, record := range component.Records {
			if normalizeLoader(record.Loader) != loader {
				continue
			}
			if _, snapshot := SplitSnapshot(record.Version); snapshot {
				continue
			}
			i, ok := index[record.Version]
			if !ok {
				continue
			}
			attachBlock(&table[i], component.Name, record)
			if direct[i] == nil {
				direct[i] = map[string]struct{}{}
			}
			direct[i][component.Name] = struct{}{}
		}
	}

	for _, declaration := range snapshots {
		base, _ := SplitSnapshot(declaration.record.Version)
		parsedBase, err := cache.parse(base)
		if err != nil {
			log.Ctx(ctx).Debug().
				Str("loader", loader).
				Str("component", declaration.component).
				Str("version", declaration.record.Version).
				Msg("skipping unparseable snapshot version")
			continue
		}
		lower, upper := snapshotBracket(cache, stables, parsedBase)
		for i := min(lower, upper) + 1; i < max(lower, upper); i++ {
			if _, ok := direct[i][declaration.component]; ok {
				continue
			}
			attachBlock(&table[i], declaration.component, declaration.record)
		}
	}
	return table
}

// snapshotBracket returns the index of the first stable version below
// base (n when none) and the index of the last stable version at or above
// base (-1 when none). Indices follow discovery order, not sorted order.
func snapshotBracket(cache *versionCache, stables []stableVersion, base StructuredVersion) (int, int) {
	upper := -1
	lower := len(stables)
	for i, version := range stables {
		if cache.compare(version.parsed, base) >= 0 {
			upper = i
		}
	}
	for i, version := range stables {
		if cache.compare(version.parsed, base) < 0 {
			lower = i
			break
		}
	}
	return lower, upper
}

// discover collects the loader's distinct stable versions in order of first
// appearance, and its snapshot declarations. Unparseable identifiers are
// dropped.
func discover(ctx context.Context, cache *versionCache, loader string, components []types.DependencyComponent) ([]stableVersion, []snapshotDeclaration) {
	var stables []stableVersion
	var snapshots []snapshotDeclaration
	seen := map[string]struct{}{}
	for _, component := range components {
		for _, record := range component.Records {
			if normalizeLoader(record.Loader) != loader {
				continue
			}
			if _, snapshot := SplitSnapshot(record.Version); snapshot {
				snapshots = append(snapshots, snapshotDeclaration{component: component.Name, record: record})
				continue
			}
			if _, ok := seen[record.Version]; ok {
				continue
			}
			parsed, err := cache.parse(record.Version)
			if err != nil {
				log.Ctx(ctx).Debug().
					Str("loader", loader).
					Str("component", component.Name).
					Str("version", record.Version).
					Msg("skipping unparseable version")
				continue
			}
			seen[record.Version] = struct{}{}
			stables = append(stables, stableVersion{id: record.Version, stable: record.Stable, parsed: parsed})
		}
	}
	return stables, snapshots
}

func attachBlock(version *types.LoaderVersion, component string, record types.DependencyRecord) {
	if version.Blocks == nil {
		version.Blocks = map[string]types.DependencyBlock{}
	}
	version.Blocks[component] = types.DependencyBlock{
		Mavens:       nonNilMavens(record.Mavens),
		Dependencies: nonNilDependencies(record.Dependencies),
		Stable:       record.Stable,
	}
}

// SortedLoaders returns the keys of a loader map in lexical order.
func SortedLoaders[T any](values map[string]T) []string {
	out := make([]string, 0, len(values))
	for loader := range values {
		out = append(out, loader)
	}
	sort.Strings(out)
	return out
}

func normalizeLoader(loader string) string {
	return strings.ToLower(strings.TrimSpace(loader))
}

func nonNilMavens(values []types.MavenRepository) []types.MavenRepository {
	if values == nil {
		return []types.MavenRepository{}
	}
	return values
}

func nonNilDependencies(values []types.DependencyCoordinate) []types.DependencyCoordinate {
	if values == nil {
		return []types.DependencyCoordinate{}
	}
	return values
}
