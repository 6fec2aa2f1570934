package core

import (
	"iter"

	"linkie-web/internal/types"
)

// Translate resolves the counterpart of every entry in target using the
// obfuscated-merged name shared by both containers. Every source entry is
// yielded in order; Target is nil when no counterpart exists. Translate
// only reads the containers.
func Translate(source *types.MappingsContainer, target *types.MappingsContainer, entries iter.Seq[types.MatchEntry]) iter.Seq[types.Translation] {
	return func(yield func(types.Translation) bool) {
		if entries == nil {
			return
		}
		for entry := range entries {
			translated := translateEntry(source, target, entry)
			if !yield(types.Translation{Source: entry, Target: translated, Score: entry.Score}) {
				return
			}
		}
	}
}

func translateEntry(source *types.MappingsContainer, target *types.MappingsContainer, entry types.MatchEntry) *types.MatchEntry {
	if entry.Owner == nil {
		return nil
	}
	switch entry.Kind {
	case types.EntryKindClass:
		targetClass, ok := target.ClassByObfName(entry.Owner.ObfMergedName)
		if !ok {
			return nil
		}
		translated := types.ClassEntry(targetClass, entry.Score)
		return &translated
	case types.EntryKindField:
		if entry.Member == nil || entry.Member.ObfMergedName == "" {
			return nil
		}
		targetOwner, ok := target.ClassByObfName(entry.Owner.ObfMergedName)
		if !ok {
			return nil
		}
		field := findField(targetOwner, entry.Member.ObfMergedName)
		if field == nil {
			return nil
		}
		translated := types.MemberEntry(targetOwner, field, entry.Score)
		return &translated
	case types.EntryKindMethod:
		if entry.Member == nil || entry.Member.ObfMergedName == "" {
			return nil
		}
		targetOwner, ok := target.ClassByObfName(entry.Owner.ObfMergedName)
		if !ok {
			return nil
		}
		desc := ObfMergedDesc(source, entry.Member)
		method := findMethod(target, targetOwner, entry.Member.ObfMergedName, desc)
		if method == nil {
			return nil
		}
		translated := types.MemberEntry(targetOwner, method, entry.Score)
		return &translated
	default:
		return nil
	}
}

// findField returns the first declared field named obfName.
func findField(owner *types.Class, obfName string) *types.Member {
	for i := range owner.Fields {
		if owner.Fields[i].ObfMergedName == obfName {
			return &owner.Fields[i]
		}
	}
	return nil
}

// findMethod matches on name and on the descriptor recomputed against
// target, since overloads share a name.
func findMethod(target *types.MappingsContainer, owner *types.Class, obfName string, obfDesc string) *types.Member {
	for i := range owner.Methods {
		method := &owner.Methods[i]
		if method.ObfMergedName != obfName {
			continue
		}
		if ObfMergedDesc(target, method) == obfDesc {
			return method
		}
	}
	return nil
}
