package app

import (
	"context"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"linkie-web/internal/adapters"
	"linkie-web/internal/shared"
	"linkie-web/internal/types"
)

// ImportMappings loads a yaml mapping file into a sqlite mapping store.
func (s *Service) ImportMappings(ctx context.Context, req ImportMappingsRequest) (ImportMappingsResult, error) {
	namespace := shared.NormalizeID(req.Namespace)
	version := strings.TrimSpace(req.Version)
	switch {
	case namespace == "":
		return ImportMappingsResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("namespace is required")
	case version == "":
		return ImportMappingsResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("version is required")
	case strings.TrimSpace(req.InputPath) == "":
		return ImportMappingsResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("input mappings file is required")
	case strings.TrimSpace(req.Database) == "":
		return ImportMappingsResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("database path is required")
	}

	data, err := os.ReadFile(req.InputPath)
	if err != nil {
		return ImportMappingsResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("mappings file not found").
			WithCause(err)
	}
	var file types.MappingsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return ImportMappingsResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse mappings yaml").
			WithCause(err)
	}
	classes := adapters.ClassesFromFile(file)

	store, err := adapters.OpenSQLiteMappingsStore(req.Database, namespace)
	if err != nil {
		return ImportMappingsResult{}, err
	}
	defer store.Close()
	if err := store.ImportClasses(ctx, version, classes); err != nil {
		return ImportMappingsResult{}, err
	}

	members := 0
	for _, class := range classes {
		members += len(class.Fields) + len(class.Methods)
	}
	log.Ctx(ctx).Info().
		Str("namespace", namespace).
		Str("version", version).
		Int("classes", len(classes)).
		Int("members", members).
		Msg("mappings imported")
	return ImportMappingsResult{
		Namespace: namespace,
		Version:   version,
		Classes:   len(classes),
		Members:   members,
	}, nil
}
