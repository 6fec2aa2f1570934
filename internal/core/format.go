package core

import (
	"encoding/json"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"linkie-web/internal/types"
)

// FormatEntry projects entry into its wire record. Member descriptors are
// computed against container, the container the entry was taken from.
func FormatEntry(container *types.MappingsContainer, entry types.MatchEntry) (types.SearchResultRecord, bool) {
	if entry.Owner == nil {
		return types.SearchResultRecord{}, false
	}
	owner := entry.Owner
	switch entry.Kind {
	case types.EntryKindClass:
		return types.SearchResultRecord{
			Obf:          owner.ObfMergedName,
			Intermediary: owner.IntermediaryName,
			Named:        owner.MappedName,
			ObfClient:    owner.ObfClientName,
			ObfServer:    owner.ObfServerName,
			Score:        entry.Score,
			MemberType:   types.EntryKindClass,
		}, true
	case types.EntryKindField, types.EntryKindMethod:
		member := entry.Member
		if member == nil {
			return types.SearchResultRecord{}, false
		}
		return types.SearchResultRecord{
			OwnerObf:          owner.ObfMergedName,
			OwnerIntermediary: owner.IntermediaryName,
			OwnerNamed:        owner.MappedName,
			Obf:               member.ObfMergedName,
			Intermediary:      member.IntermediaryName,
			Named:             member.MappedName,
			DescObf:           ObfMergedDesc(container, member),
			DescIntermediary:  member.IntermediaryDesc,
			DescNamed:         MappedDesc(container, member),
			OwnerObfClient:    owner.ObfClientName,
			ObfClient:         member.ObfClientName,
			DescObfClient:     ObfClientDesc(container, member),
			OwnerObfServer:    owner.ObfServerName,
			ObfServer:         member.ObfServerName,
			DescObfServer:     ObfServerDesc(container, member),
			Score:             entry.Score,
			MemberType:        entry.Kind,
		}, true
	default:
		return types.SearchResultRecord{}, false
	}
}

// FormatTranslation formats the source entry and nests the translated
// counterpart when one was found.
func FormatTranslation(source *types.MappingsContainer, target *types.MappingsContainer, translation types.Translation) (types.SearchResultRecord, bool) {
	record, ok := FormatEntry(source, translation.Source)
	if !ok {
		return types.SearchResultRecord{}, false
	}
	if translation.Target == nil {
		return record, true
	}
	translated, ok := FormatEntry(target, *translation.Target)
	if ok {
		translated.Score = translation.Score
		record.Translated = &translated
	}
	return record, true
}

func EncodeSearchResultRecord(record types.SearchResultRecord) ([]byte, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode search result").
			WithCause(err)
	}
	return data, nil
}

func ParseSearchResultRecord(data []byte) (types.SearchResultRecord, error) {
	var record types.SearchResultRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return types.SearchResultRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid search result record").
			WithCause(err)
	}
	switch record.MemberType {
	case types.EntryKindClass, types.EntryKindField, types.EntryKindMethod:
	default:
		return types.SearchResultRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unknown search result kind")
	}
	return record, nil
}
