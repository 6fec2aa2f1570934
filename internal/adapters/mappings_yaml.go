package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"linkie-web/internal/ports"
	"linkie-web/internal/types"
)

// versionPlaceholder is substituted with a version id in catalog path
// templates.
const versionPlaceholder = "{version}"

// YAMLMappingsStore reads one yaml mapping file per version from a path
// template such as "mappings/yarn/{version}.yaml".
type YAMLMappingsStore struct {
	Template string
}

func NewYAMLMappingsStore(template string) YAMLMappingsStore {
	return YAMLMappingsStore{Template: template}
}

func (s YAMLMappingsStore) HasVersion(version string) bool {
	path, err := expandTemplate(s.Template, version)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (s YAMLMappingsStore) LoadClasses(ctx context.Context, version string) ([]types.Class, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := expandTemplate(s.Template, version)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("mappings file not found for %s", version)).
				WithCause(err)
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read mappings file").
			WithCause(err)
	}
	var file types.MappingsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid mappings file: %s", path)).
			WithCause(err)
	}
	return ClassesFromFile(file), nil
}

// DiscoverVersions globs the template with the version replaced by "*"
// and returns the matched version ids.
func (s YAMLMappingsStore) DiscoverVersions() ([]string, error) {
	prefix, suffix, ok := strings.Cut(filepath.ToSlash(s.Template), versionPlaceholder)
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("mappings template has no %s placeholder: %s", versionPlaceholder, s.Template))
	}
	matches, err := doublestar.FilepathGlob(strings.ReplaceAll(s.Template, versionPlaceholder, "*"))
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid mappings template").
			WithCause(err)
	}
	var versions []string
	for _, match := range matches {
		slashed := filepath.ToSlash(match)
		if !strings.HasPrefix(slashed, prefix) || !strings.HasSuffix(slashed, suffix) {
			continue
		}
		version := strings.TrimSuffix(strings.TrimPrefix(slashed, prefix), suffix)
		if version == "" || strings.Contains(version, "/") {
			continue
		}
		versions = append(versions, version)
	}
	return versions, nil
}

// ClassesFromFile converts the yaml layout into container classes.
func ClassesFromFile(file types.MappingsFile) []types.Class {
	classes := make([]types.Class, 0, len(file.Classes))
	for _, entry := range file.Classes {
		class := types.Class{
			IntermediaryName: entry.Intermediary,
			ObfMergedName:    entry.Obf,
			ObfClientName:    entry.ObfClient,
			ObfServerName:    entry.ObfServer,
			MappedName:       entry.Named,
		}
		for _, field := range entry.Fields {
			class.Fields = append(class.Fields, memberFromFile(types.MemberKindField, field))
		}
		for _, method := range entry.Methods {
			class.Methods = append(class.Methods, memberFromFile(types.MemberKindMethod, method))
		}
		classes = append(classes, class)
	}
	return classes
}

func memberFromFile(kind types.MemberKind, member types.MappingsFileMember) types.Member {
	return types.Member{
		Kind:             kind,
		IntermediaryName: member.Intermediary,
		ObfMergedName:    member.Obf,
		ObfClientName:    member.ObfClient,
		ObfServerName:    member.ObfServer,
		MappedName:       member.Named,
		IntermediaryDesc: member.Desc,
	}
}

func expandTemplate(template string, version string) (string, error) {
	if strings.TrimSpace(version) == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("version is empty")
	}
	if strings.ContainsAny(version, `/\`) || strings.Contains(version, "..") {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid version: %s", version))
	}
	return strings.ReplaceAll(template, versionPlaceholder, version), nil
}

var _ ports.MappingsStorePort = YAMLMappingsStore{}
