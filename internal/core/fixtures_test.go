package core

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"linkie-web/internal/ports"
	"linkie-web/internal/types"
)

// yarnClasses and mojmapClasses describe the same release under two
// namespaces: obfuscated names agree, everything else differs.
func yarnClasses() []types.Class {
	return []types.Class{
		{
			IntermediaryName: "net/minecraft/class_1297",
			ObfMergedName:    "a",
			ObfClientName:    "ca",
			ObfServerName:    "sa",
			MappedName:       "net/minecraft/entity/Entity",
			Fields: []types.Member{
				{Kind: types.MemberKindField, IntermediaryName: "field_6012", ObfMergedName: "b", MappedName: "age", IntermediaryDesc: "I"},
				{Kind: types.MemberKindField, IntermediaryName: "field_6013", ObfMergedName: "e", MappedName: "world", IntermediaryDesc: "Lnet/minecraft/class_1937;"},
			},
			Methods: []types.Member{
				{Kind: types.MemberKindMethod, IntermediaryName: "method_5773", ObfMergedName: "c", MappedName: "tick", IntermediaryDesc: "(Lnet/minecraft/class_1937;)V"},
				{Kind: types.MemberKindMethod, IntermediaryName: "method_5774", ObfMergedName: "c", MappedName: "tickTimes", IntermediaryDesc: "(I)V"},
			},
		},
		{
			IntermediaryName: "net/minecraft/class_1937",
			ObfMergedName:    "d",
			MappedName:       "net/minecraft/world/World",
		},
		{
			IntermediaryName: "net/minecraft/class_9999",
			MappedName:       "net/minecraft/Synthetic",
		},
	}
}

func mojmapClasses() []types.Class {
	return []types.Class{
		{
			IntermediaryName: "net/minecraft/world/level/Level",
			ObfMergedName:    "d",
			MappedName:       "net/minecraft/world/level/Level",
		},
		{
			IntermediaryName: "net/minecraft/world/entity/Entity",
			ObfMergedName:    "a",
			MappedName:       "net/minecraft/world/entity/Entity",
			Fields: []types.Member{
				{Kind: types.MemberKindField, IntermediaryName: "tickCount", ObfMergedName: "b", MappedName: "tickCount", IntermediaryDesc: "I"},
			},
			Methods: []types.Member{
				{Kind: types.MemberKindMethod, IntermediaryName: "tickRepeated", ObfMergedName: "c", MappedName: "tickRepeated", IntermediaryDesc: "(I)V"},
				{Kind: types.MemberKindMethod, IntermediaryName: "tick", ObfMergedName: "c", MappedName: "tick", IntermediaryDesc: "(Lnet/minecraft/world/level/Level;)V"},
			},
		},
	}
}

type fakeProvider struct {
	version   string
	container *types.MappingsContainer
}

func (p fakeProvider) Version() string { return p.version }

func (p fakeProvider) IsEmpty() bool { return p.container == nil }

func (p fakeProvider) Get(context.Context) (*types.MappingsContainer, error) {
	return p.container, nil
}

func (p fakeProvider) SourcePath(string) (string, error) { return "", nil }

type fakeRegistry struct {
	namespaces map[string]types.Namespace
	containers map[string]*types.MappingsContainer
}

func (r fakeRegistry) Namespace(id string) (types.Namespace, bool) {
	namespace, ok := r.namespaces[id]
	return namespace, ok
}

func (r fakeRegistry) Namespaces() []types.Namespace {
	var out []types.Namespace
	for _, namespace := range r.namespaces {
		out = append(out, namespace)
	}
	return out
}

func (r fakeRegistry) Provider(namespaceID string, version string) (ports.MappingsProviderPort, error) {
	if _, ok := r.namespaces[namespaceID]; !ok {
		return nil, errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg("unknown namespace")
	}
	return fakeProvider{version: version, container: r.containers[namespaceID+"@"+version]}, nil
}

// fakeEngine returns every allowed class and member of the container in
// declaration order, each scored by its position.
type fakeEngine struct {
	fuzzy  bool
	pulled *int
}

func (e fakeEngine) Query(_ context.Context, container *types.MappingsContainer, _ string, filter types.TypeFilter, _ int) (types.QueryResult, error) {
	var entries []types.MatchEntry
	for i := range container.Classes {
		class := &container.Classes[i]
		if filter.Classes {
			entries = append(entries, types.ClassEntry(class, 1))
		}
		if filter.Fields {
			for j := range class.Fields {
				entries = append(entries, types.MemberEntry(class, &class.Fields[j], 0.5))
			}
		}
		if filter.Methods {
			for j := range class.Methods {
				entries = append(entries, types.MemberEntry(class, &class.Methods[j], 0.25))
			}
		}
	}
	pulled := e.pulled
	return types.QueryResult{
		Entries: func(yield func(types.MatchEntry) bool) {
			for _, entry := range entries {
				if pulled != nil {
					*pulled++
				}
				if !yield(entry) {
					return
				}
			}
		},
		Fuzzy: e.fuzzy,
	}, nil
}

func newTestRegistry() fakeRegistry {
	return fakeRegistry{
		namespaces: map[string]types.Namespace{
			"yarn": {
				ID:             "yarn",
				DefaultVersion: "1.20.1",
				Versions:       []string{"1.20.1", "1.19.4", "1.18.2"},
			},
			"mojmap": {
				ID:             "mojmap",
				DefaultVersion: "1.20.2",
				Versions:       []string{"1.20.2", "1.19.4", "1.18.2"},
			},
		},
		containers: map[string]*types.MappingsContainer{
			"yarn@1.20.1":   types.NewMappingsContainer("yarn", "1.20.1", yarnClasses()),
			"yarn@1.19.4":   types.NewMappingsContainer("yarn", "1.19.4", yarnClasses()),
			"mojmap@1.19.4": types.NewMappingsContainer("mojmap", "1.19.4", mojmapClasses()),
		},
	}
}

func entryName(entry types.MatchEntry) string {
	if entry.Member != nil {
		return fmt.Sprintf("%s#%s", entry.Owner.IntermediaryName, entry.Member.IntermediaryName)
	}
	return entry.Owner.IntermediaryName
}
