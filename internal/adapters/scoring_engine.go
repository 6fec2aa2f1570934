package adapters

import (
	"context"
	"iter"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"linkie-web/internal/ports"
	"linkie-web/internal/types"
)

const (
	scoreExact      = 1.0
	scoreSimpleName = 0.95
	scoreSuffix     = 0.9
	scoreSubstring  = 0.5
	scoreFuzzy      = 0.1
)

// TokenScoringEngine ranks classes and members of a container against a
// slash separated query. Exact, suffix and substring matches are tried
// first; subsequence matches are only used when nothing else matched
// and mark the result as fuzzy.
type TokenScoringEngine struct{}

func NewTokenScoringEngine() TokenScoringEngine {
	return TokenScoringEngine{}
}

type scoredEntry struct {
	entry   types.MatchEntry
	ordinal int
}

func (e TokenScoringEngine) Query(ctx context.Context, container *types.MappingsContainer, text string, filter types.TypeFilter, limit int) (types.QueryResult, error) {
	if container == nil {
		return types.QueryResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no mappings container to query")
	}
	query := strings.ToLower(strings.Trim(strings.TrimSpace(text), "/"))
	if query == "" {
		return types.QueryResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no query specified")
	}
	ownerQuery, memberQuery := splitMemberQuery(query)

	exact := e.collect(container, query, ownerQuery, memberQuery, filter, matchName)
	fuzzy := false
	entries := exact
	if len(entries) == 0 {
		entries = e.collect(container, query, ownerQuery, memberQuery, filter, fuzzyName)
		fuzzy = len(entries) > 0
	}
	slices.SortStableFunc(entries, func(a, b scoredEntry) int {
		switch {
		case a.entry.Score > b.entry.Score:
			return -1
		case a.entry.Score < b.entry.Score:
			return 1
		}
		return a.ordinal - b.ordinal
	})
	log.Ctx(ctx).Debug().
		Str("namespace", container.Namespace).
		Str("query", query).
		Int("matches", len(entries)).
		Bool("fuzzy", fuzzy).
		Msg("query scored")

	return types.QueryResult{Entries: sortedEntries(entries, limit), Fuzzy: fuzzy}, nil
}

func sortedEntries(entries []scoredEntry, limit int) iter.Seq[types.MatchEntry] {
	return func(yield func(types.MatchEntry) bool) {
		for i, scored := range entries {
			if limit > 0 && i >= limit {
				return
			}
			if !yield(scored.entry) {
				return
			}
		}
	}
}

type nameScorer func(name string, query string) float64

func (e TokenScoringEngine) collect(container *types.MappingsContainer, query string, ownerQuery string, memberQuery string, filter types.TypeFilter, score nameScorer) []scoredEntry {
	var out []scoredEntry
	ordinal := 0
	for i := range container.Classes {
		class := &container.Classes[i]
		if filter.Classes {
			if s := bestScore(score, query, classNames(class)...); s > 0 {
				out = append(out, scoredEntry{entry: types.ClassEntry(class, s), ordinal: ordinal})
			}
		}
		ordinal++
		if !filter.Fields && !filter.Methods {
			continue
		}
		ownerScore := 1.0
		if ownerQuery != "" {
			ownerScore = bestScore(score, ownerQuery, classNames(class)...)
			if ownerScore == 0 {
				ordinal += len(class.Fields) + len(class.Methods)
				continue
			}
		}
		for _, group := range []struct {
			allowed bool
			members []types.Member
		}{{filter.Fields, class.Fields}, {filter.Methods, class.Methods}} {
			for j := range group.members {
				member := &group.members[j]
				if group.allowed {
					if s := bestScore(score, memberQuery, memberNames(member)...); s > 0 {
						out = append(out, scoredEntry{entry: types.MemberEntry(class, member, s*ownerScore), ordinal: ordinal})
					}
				}
				ordinal++
			}
		}
	}
	return out
}

// splitMemberQuery treats the last path segment as a member name and the
// rest as an owner class query.
func splitMemberQuery(query string) (string, string) {
	idx := strings.LastIndex(query, "/")
	if idx < 0 {
		return "", query
	}
	return query[:idx], query[idx+1:]
}

func classNames(class *types.Class) []string {
	return []string{class.IntermediaryName, class.MappedName, class.ObfMergedName, class.ObfClientName, class.ObfServerName}
}

func memberNames(member *types.Member) []string {
	return []string{member.IntermediaryName, member.MappedName, member.ObfMergedName, member.ObfClientName, member.ObfServerName}
}

func bestScore(score nameScorer, query string, names ...string) float64 {
	best := 0.0
	for _, name := range names {
		if name == "" {
			continue
		}
		if s := score(strings.ToLower(name), query); s > best {
			best = s
		}
	}
	return best
}

func matchName(name string, query string) float64 {
	switch {
	case name == query:
		return scoreExact
	case simpleName(name) == query:
		return scoreSimpleName
	case strings.HasSuffix(name, "/"+query):
		return scoreSuffix
	case strings.Contains(name, query):
		return scoreSubstring + 0.4*float64(len(query))/float64(len(name))
	}
	return 0
}

func fuzzyName(name string, query string) float64 {
	if !isSubsequence(query, name) {
		return 0
	}
	return scoreFuzzy + 0.3*float64(len(query))/float64(len(name))
}

func simpleName(name string) string {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

func isSubsequence(needle string, haystack string) bool {
	if needle == "" {
		return false
	}
	i := 0
	for j := 0; j < len(haystack) && i < len(needle); j++ {
		if haystack[j] == needle[i] {
			i++
		}
	}
	return i == len(needle)
}

var _ ports.ScoringEnginePort = TokenScoringEngine{}
