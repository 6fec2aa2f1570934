package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"linkie-web/internal/types"
)

// Namespaces lists every registered namespace in registration order.
func (s *Service) Namespaces(ctx context.Context) ([]types.NamespaceEntry, error) {
	registry, err := s.registry()
	if err != nil {
		return nil, err
	}
	namespaces := registry.Namespaces()
	entries := make([]types.NamespaceEntry, 0, len(namespaces))
	for _, namespace := range namespaces {
		versions := make([]types.VersionInfo, 0, len(namespace.Versions))
		for _, version := range namespace.Versions {
			versions = append(versions, types.VersionInfo{
				Version: version,
				Stable:  s.Comparator.IsStable(version),
			})
		}
		entries = append(entries, types.NamespaceEntry{
			ID:                       namespace.ID,
			Versions:                 versions,
			SupportsAT:               namespace.Capabilities.AT,
			SupportsAW:               namespace.Capabilities.AW,
			SupportsMixin:            namespace.Capabilities.Mixin,
			SupportsFieldDescription: namespace.Capabilities.FieldDescription,
			SupportsSource:           namespace.Capabilities.Source,
		})
	}
	log.Ctx(ctx).Debug().Int("namespaces", len(entries)).Msg("namespaces listed")
	return entries, nil
}

// Source returns the decompiled source of a class.
func (s *Service) Source(ctx context.Context, req SourceRequest) (SourceResult, error) {
	registry, err := s.registry()
	if err != nil {
		return SourceResult{}, err
	}
	if strings.TrimSpace(req.Namespace) == "" || strings.TrimSpace(req.Version) == "" || strings.TrimSpace(req.Class) == "" {
		return SourceResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("namespace, version and class are required")
	}
	namespace, ok := registry.Namespace(req.Namespace)
	if !ok {
		return SourceResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no namespace found for %s", req.Namespace))
	}
	provider, err := registry.Provider(namespace.ID, req.Version)
	if err != nil {
		return SourceResult{}, err
	}
	if provider.IsEmpty() {
		return SourceResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no provider found for %s", req.Version))
	}
	path, err := provider.SourcePath(req.Class)
	if err != nil {
		return SourceResult{}, err
	}
	if _, err := os.Stat(path); err != nil {
		return SourceResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no source found for %s", req.Class)).
			WithCause(err)
	}
	text, err := s.Sources.ReadSource(path)
	if err != nil {
		return SourceResult{}, err
	}
	return SourceResult{
		Namespace: namespace.ID,
		Version:   provider.Version(),
		Path:      path,
		Text:      text,
	}, nil
}
