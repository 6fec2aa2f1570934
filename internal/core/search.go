package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"linkie-web/internal/ports"
	"linkie-web/internal/types"
)

const (
	MinSearchLimit     = 1
	MaxSearchLimit     = 1000
	DefaultSearchLimit = 100
)

type SearchRequest struct {
	Namespace          string
	TranslateNamespace string
	Version            string
	Query              string
	Types              types.TypeFilter
	Limit              int
}

type SearchDispatcher struct {
	Registry ports.NamespaceRegistryPort
	Engine   ports.ScoringEnginePort
}

func NewSearchDispatcher(registry ports.NamespaceRegistryPort, engine ports.ScoringEnginePort) SearchDispatcher {
	return SearchDispatcher{Registry: registry, Engine: engine}
}

func (d SearchDispatcher) Search(ctx context.Context, req SearchRequest) (types.SearchResultEntries, error) {
	if d.Registry == nil || d.Engine == nil {
		return types.SearchResultEntries{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("search requires namespace registry and scoring engine")
	}
	if req.Limit < MinSearchLimit || req.Limit > MaxSearchLimit {
		return types.SearchResultEntries{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("limit must be between %d and %d", MinSearchLimit, MaxSearchLimit))
	}
	if req.Types.Empty() {
		return types.SearchResultEntries{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one of classes, methods or fields must be allowed")
	}
	query := NormalizeQuery(req.Query)
	if query == "" {
		return types.SearchResultEntries{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no query specified")
	}

	namespace, err := d.namespace(req.Namespace)
	if err != nil {
		return types.SearchResultEntries{}, err
	}
	var translateNamespace *types.Namespace
	if strings.TrimSpace(req.TranslateNamespace) != "" {
		resolved, err := d.namespace(req.TranslateNamespace)
		if err != nil {
			return types.SearchResultEntries{}, err
		}
		translateNamespace = &resolved
	}

	candidates := CandidateVersions(namespace, translateNamespace)
	version, err := selectVersion(ctx, namespace, translateNamespace, candidates, strings.TrimSpace(req.Version))
	if err != nil {
		return types.SearchResultEntries{}, err
	}

	source, provider, err := d.container(ctx, namespace.ID, version)
	if err != nil {
		return types.SearchResultEntries{}, err
	}
	result, err := d.Engine.Query(ctx, source, query, req.Types, req.Limit)
	if err != nil {
		return types.SearchResultEntries{}, err
	}
	entries := Take(result.Entries, req.Limit)

	out := types.SearchResultEntries{Entries: []types.SearchResultRecord{}, Fuzzy: result.Fuzzy}
	if translateNamespace == nil {
		for entry := range entries {
			record, ok := FormatEntry(source, entry)
			if !ok {
				continue
			}
			out.Entries = append(out.Entries, record)
		}
		log.Ctx(ctx).Debug().
			Str("namespace", namespace.ID).
			Str("version", version).
			Int("results", len(out.Entries)).
			Msg("search completed")
		return out, nil
	}

	// The target is pinned to the source provider's concrete version so
	// both containers describe the same release.
	target, _, err := d.container(ctx, translateNamespace.ID, provider.Version())
	if err != nil {
		return types.SearchResultEntries{}, err
	}
	translated := 0
	for translation := range Translate(source, target, entries) {
		record, ok := FormatTranslation(source, target, translation)
		if !ok {
			continue
		}
		if record.Translated != nil {
			translated++
		}
		out.Entries = append(out.Entries, record)
	}
	log.Ctx(ctx).Debug().
		Str("namespace", namespace.ID).
		Str("translate", translateNamespace.ID).
		Str("version", version).
		Int("results", len(out.Entries)).
		Int("translated", translated).
		Msg("search completed")
	return out, nil
}

// NormalizeQuery accepts dotted and hash separated queries.
func NormalizeQuery(query string) string {
	replacer := strings.NewReplacer(".", "/", "#", "/")
	return replacer.Replace(strings.TrimSpace(query))
}

// CandidateVersions is namespace's version list, intersected with the
// translation namespace's when one is given. Registration order is kept.
func CandidateVersions(namespace types.Namespace, translate *types.Namespace) []string {
	if translate == nil {
		return append([]string(nil), namespace.Versions...)
	}
	var out []string
	for _, version := range namespace.Versions {
		if translate.HasVersion(version) {
			out = append(out, version)
		}
	}
	return out
}

// DefaultVersion prefers the source default, then the translation
// default, then the first candidate.
func DefaultVersion(namespace types.Namespace, translate *types.Namespace, candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	if containsString(candidates, namespace.DefaultVersion) {
		return namespace.DefaultVersion, true
	}
	if translate != nil && containsString(candidates, translate.DefaultVersion) {
		return translate.DefaultVersion, true
	}
	return candidates[0], true
}

func selectVersion(ctx context.Context, namespace types.Namespace, translate *types.Namespace, candidates []string, requested string) (string, error) {
	if requested != "" && containsString(candidates, requested) {
		return requested, nil
	}
	fallback, ok := DefaultVersion(namespace, translate, candidates)
	if !ok {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no versions available for %s", namespace.ID))
	}
	if requested != "" {
		log.Ctx(ctx).Debug().
			Str("namespace", namespace.ID).
			Str("requested", requested).
			Str("version", fallback).
			Msg("requested version unavailable, using default")
	}
	return fallback, nil
}

func (d SearchDispatcher) namespace(id string) (types.Namespace, error) {
	normalized := strings.ToLower(strings.TrimSpace(id))
	if normalized == "" {
		return types.Namespace{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no namespace specified")
	}
	namespace, ok := d.Registry.Namespace(normalized)
	if !ok {
		return types.Namespace{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no namespace found for %s", normalized))
	}
	return namespace, nil
}

func (d SearchDispatcher) container(ctx context.Context, namespaceID string, version string) (*types.MappingsContainer, ports.MappingsProviderPort, error) {
	provider, err := d.Registry.Provider(namespaceID, version)
	if err != nil {
		return nil, nil, err
	}
	if provider.IsEmpty() {
		return nil, nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no mappings found for %s %s", namespaceID, version))
	}
	container, err := provider.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	if container == nil {
		return nil, nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no mappings found for %s %s", namespaceID, version))
	}
	return container, provider, nil
}

func containsString(values []string, value string) bool {
	if value == "" {
		return false
	}
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}
