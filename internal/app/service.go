package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"linkie-web/internal/adapters"
	"linkie-web/internal/core"
	"linkie-web/internal/ports"
	"linkie-web/internal/types"
)

type Service struct {
	Registry     ports.NamespaceRegistryPort
	Engine       ports.ScoringEnginePort
	Dependencies ports.DependencyRecordSourcePort
	Licenses     ports.LicenseManifestPort
	Sources      ports.SourceFilePort
	Comparator   core.VersionComparator

	closers []func()
}

// NewService wires the adapters named by cfg. The catalog is loaded
// eagerly; dependency records load on first use.
func NewService(ctx context.Context, cfg Config) (*Service, error) {
	switch cfg.VersionScheme {
	case "", types.VersionSchemePep440, types.VersionSchemeDeb:
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported version scheme: %s", cfg.VersionScheme))
	}
	comparator := core.NewVersionComparator(cfg.VersionScheme)
	service := &Service{
		Engine:     adapters.NewTokenScoringEngine(),
		Licenses:   adapters.NewLicenseManifestAdapter(cfg.LicensesPath),
		Sources:    adapters.NewSourceFileAdapter(),
		Comparator: comparator,
	}
	if catalog := strings.TrimSpace(cfg.CatalogPath); catalog != "" {
		registry := adapters.NewCatalogRegistry(catalog, comparator)
		if err := registry.Reload(ctx); err != nil {
			return nil, err
		}
		service.Registry = registry
		service.closers = append(service.closers, registry.Close)
	}
	switch {
	case strings.TrimSpace(cfg.DepsDir) != "" && strings.TrimSpace(cfg.DepsURL) != "":
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("deps-dir and deps-url are mutually exclusive")
	case strings.TrimSpace(cfg.DepsDir) != "":
		service.Dependencies = adapters.NewDependencyFileSource(strings.TrimSpace(cfg.DepsDir))
	case strings.TrimSpace(cfg.DepsURL) != "":
		service.Dependencies = adapters.NewDependencyHTTPSource(cfg.DepsURL, cfg.HTTPTimeoutSec, cfg.HTTPRetries, cfg.HTTPRetryDelayMs)
	}
	return service, nil
}

// Refresher returns the dependency source when it supports reloading.
func (s *Service) Refresher() (ports.DependencyRefresherPort, bool) {
	refresher, ok := s.Dependencies.(ports.DependencyRefresherPort)
	return refresher, ok
}

func (s *Service) Close() {
	for _, closer := range s.closers {
		closer()
	}
	s.closers = nil
}

func (s *Service) registry() (ports.NamespaceRegistryPort, error) {
	if s.Registry == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("no namespace catalog configured")
	}
	return s.Registry, nil
}

func (s *Service) dependencies() (ports.DependencyRecordSourcePort, error) {
	if s.Dependencies == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("no dependency source configured")
	}
	return s.Dependencies, nil
}
