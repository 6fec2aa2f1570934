package core

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkie-web/internal/types"
)

func TestSearchLimitBounds(t *testing.T) {
	dispatcher := NewSearchDispatcher(newTestRegistry(), fakeEngine{})
	for _, limit := range []int{0, -1, 1001} {
		_, err := dispatcher.Search(t.Context(), SearchRequest{
			Namespace: "yarn", Query: "entity", Types: types.AllTypes(), Limit: limit,
		})
		require.Error(t, err)
		assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	}
}

func TestSearchNeverExceedsLimit(t *testing.T) {
	pulled := 0
	dispatcher := NewSearchDispatcher(newTestRegistry(), fakeEngine{pulled: &pulled})
	for _, limit := range []int{1, 2, 3, 1000} {
		pulled = 0
		result, err := dispatcher.Search(t.Context(), SearchRequest{
			Namespace: "yarn", Query: "entity", Types: types.AllTypes(), Limit: limit,
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(result.Entries), limit)
		assert.LessOrEqual(t, pulled, limit)
	}
}

func TestSearchUnknownNamespace(t *testing.T) {
	dispatcher := NewSearchDispatcher(newTestRegistry(), fakeEngine{})
	_, err := dispatcher.Search(t.Context(), SearchRequest{
		Namespace: "nope", Query: "x", Types: types.AllTypes(), Limit: 10,
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	_, err = dispatcher.Search(t.Context(), SearchRequest{
		Namespace: "yarn", TranslateNamespace: "nope", Query: "x", Types: types.AllTypes(), Limit: 10,
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestSearchRejectsEmptyFilterAndQuery(t *testing.T) {
	dispatcher := NewSearchDispatcher(newTestRegistry(), fakeEngine{})
	_, err := dispatcher.Search(t.Context(), SearchRequest{Namespace: "yarn", Query: "x", Limit: 10})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = dispatcher.Search(t.Context(), SearchRequest{Namespace: "yarn", Query: "  ", Types: types.AllTypes(), Limit: 10})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestSearchWithoutTranslation(t *testing.T) {
	dispatcher := NewSearchDispatcher(newTestRegistry(), fakeEngine{fuzzy: true})
	result, err := dispatcher.Search(t.Context(), SearchRequest{
		Namespace: "YARN", Query: "net.minecraft#Entity", Types: types.TypeFilter{Classes: true}, Limit: 10,
	})
	require.NoError(t, err)
	assert.True(t, result.Fuzzy)
	require.Len(t, result.Entries, 3)
	for _, record := range result.Entries {
		assert.Equal(t, types.EntryKindClass, record.MemberType)
		assert.Nil(t, record.Translated)
	}
}

func TestSearchExplicitVersionMissingContainer(t *testing.T) {
	dispatcher := NewSearchDispatcher(newTestRegistry(), fakeEngine{})
	_, err := dispatcher.Search(t.Context(), SearchRequest{
		Namespace: "yarn", Version: "1.18.2", Query: "x", Types: types.AllTypes(), Limit: 10,
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestSearchTranslationUsesSharedVersion(t *testing.T) {
	dispatcher := NewSearchDispatcher(newTestRegistry(), fakeEngine{})
	// yarn's default 1.20.1 is not shared with mojmap, mojmap's default
	// 1.20.2 is not shared with yarn, so the first shared version wins.
	result, err := dispatcher.Search(t.Context(), SearchRequest{
		Namespace: "yarn", TranslateNamespace: "mojmap", Query: "entity", Types: types.AllTypes(), Limit: 100,
	})
	require.NoError(t, err)

	var kinds []types.EntryKind
	translated := map[string]string{}
	for _, record := range result.Entries {
		kinds = append(kinds, record.MemberType)
		if record.Translated != nil {
			translated[record.Intermediary] = record.Translated.Intermediary
		}
	}
	wantKinds := []types.EntryKind{"c", "f", "f", "m", "m", "c", "c"}
	if diff := cmp.Diff(wantKinds, kinds); diff != "" {
		t.Fatalf("unexpected kinds (-want +got):\n%s", diff)
	}
	wantTranslated := map[string]string{
		"net/minecraft/class_1297": "net/minecraft/world/entity/Entity",
		"field_6012":               "tickCount",
		"method_5773":              "tick",
		"method_5774":              "tickRepeated",
		"net/minecraft/class_1937": "net/minecraft/world/level/Level",
	}
	if diff := cmp.Diff(wantTranslated, translated); diff != "" {
		t.Fatalf("unexpected translations (-want +got):\n%s", diff)
	}
}

func TestSearchTranslationExplicitVersionOutsideIntersection(t *testing.T) {
	dispatcher := NewSearchDispatcher(newTestRegistry(), fakeEngine{})
	result, err := dispatcher.Search(t.Context(), SearchRequest{
		Namespace: "yarn", TranslateNamespace: "mojmap", Version: "1.20.1",
		Query: "entity", Types: types.TypeFilter{Classes: true}, Limit: 1,
	})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	require.NotNil(t, result.Entries[0].Translated)
}

func TestCandidateVersions(t *testing.T) {
	registry := newTestRegistry()
	yarn := registry.namespaces["yarn"]
	mojmap := registry.namespaces["mojmap"]

	assert.Equal(t, []string{"1.20.1", "1.19.4", "1.18.2"}, CandidateVersions(yarn, nil))
	assert.Equal(t, []string{"1.19.4", "1.18.2"}, CandidateVersions(yarn, &mojmap))
}

func TestDefaultVersion(t *testing.T) {
	source := types.Namespace{ID: "a", DefaultVersion: "2", Versions: []string{"1", "2", "3"}}
	translate := types.Namespace{ID: "b", DefaultVersion: "3", Versions: []string{"3", "1"}}

	got, ok := DefaultVersion(source, nil, CandidateVersions(source, nil))
	require.True(t, ok)
	assert.Equal(t, "2", got)

	got, ok = DefaultVersion(source, &translate, CandidateVersions(source, &translate))
	require.True(t, ok)
	assert.Equal(t, "3", got)

	translate.DefaultVersion = "9"
	got, ok = DefaultVersion(source, &translate, CandidateVersions(source, &translate))
	require.True(t, ok)
	assert.Equal(t, "1", got)

	_, ok = DefaultVersion(source, &types.Namespace{ID: "c", Versions: []string{"7"}}, nil)
	assert.False(t, ok)
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "net/minecraft/Entity/tick", NormalizeQuery(" net.minecraft.Entity#tick "))
}
