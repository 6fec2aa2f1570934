package adapters

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"linkie-web/internal/ports"
	"linkie-web/internal/types"
)

// MappingsProvider loads and caches the container of one namespace
// version. The container is built once and shared by all callers.
type MappingsProvider struct {
	Namespace       string
	VersionID       string
	Store           ports.MappingsStorePort
	SourcesTemplate string

	mu        sync.Mutex
	container *types.MappingsContainer
}

func NewMappingsProvider(namespace string, version string, store ports.MappingsStorePort, sourcesTemplate string) *MappingsProvider {
	return &MappingsProvider{
		Namespace:       namespace,
		VersionID:       version,
		Store:           store,
		SourcesTemplate: sourcesTemplate,
	}
}

func (p *MappingsProvider) Version() string {
	return p.VersionID
}

func (p *MappingsProvider) IsEmpty() bool {
	return p.Store == nil || !p.Store.HasVersion(p.VersionID)
}

func (p *MappingsProvider) Get(ctx context.Context) (*types.MappingsContainer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.container != nil {
		return p.container, nil
	}
	if p.Store == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no mappings store for %s", p.Namespace))
	}
	classes, err := p.Store.LoadClasses(ctx, p.VersionID)
	if err != nil {
		return nil, err
	}
	p.container = types.NewMappingsContainer(p.Namespace, p.VersionID, classes)
	log.Ctx(ctx).Info().
		Str("namespace", p.Namespace).
		Str("version", p.VersionID).
		Int("classes", len(classes)).
		Msg("mappings loaded")
	return p.container, nil
}

// SourcePath maps a class name (slash or dot separated) to its source
// file below the namespace source directory.
func (p *MappingsProvider) SourcePath(className string) (string, error) {
	if strings.TrimSpace(p.SourcesTemplate) == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("namespace %s has no sources", p.Namespace))
	}
	name := strings.TrimSpace(strings.ReplaceAll(className, ".", "/"))
	name = strings.TrimSuffix(name, "/java")
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "..") || strings.Contains(name, `\`) {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid class name: %s", className))
	}
	dir, err := expandTemplate(p.SourcesTemplate, p.VersionID)
	if err != nil {
		return "", err
	}
	if outer, _, ok := strings.Cut(name, "$"); ok {
		name = outer
	}
	return filepath.Join(dir, filepath.FromSlash(name)+".java"), nil
}

var _ ports.MappingsProviderPort = (*MappingsProvider)(nil)
