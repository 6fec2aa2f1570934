package types

import "iter"

// MatchEntry is a scored reference to a class (Member == nil) or to a
// member of Owner. Kind is the discriminant and always agrees with Member.
type MatchEntry struct {
	Kind   EntryKind
	Owner  *Class
	Member *Member
	Score  float64
}

func ClassEntry(class *Class, score float64) MatchEntry {
	return MatchEntry{Kind: EntryKindClass, Owner: class, Score: score}
}

func MemberEntry(owner *Class, member *Member, score float64) MatchEntry {
	kind := EntryKindField
	if member.Kind == MemberKindMethod {
		kind = EntryKindMethod
	}
	return MatchEntry{Kind: kind, Owner: owner, Member: member, Score: score}
}

// TypeFilter selects which entry kinds a query may return.
type TypeFilter struct {
	Classes bool
	Methods bool
	Fields  bool
}

func AllTypes() TypeFilter {
	return TypeFilter{Classes: true, Methods: true, Fields: true}
}

func (f TypeFilter) Empty() bool {
	return !f.Classes && !f.Methods && !f.Fields
}

func (f TypeFilter) Allows(kind EntryKind) bool {
	switch kind {
	case EntryKindClass:
		return f.Classes
	case EntryKindField:
		return f.Fields
	case EntryKindMethod:
		return f.Methods
	default:
		return false
	}
}

// QueryResult is the output of a scoring engine. Entries is ordered by
// relevance and may be produced lazily; Fuzzy is set when no exact token
// match was found.
type QueryResult struct {
	Entries iter.Seq[MatchEntry]
	Fuzzy   bool
}

// Translation pairs a source entry with its counterpart in the target
// container. Target is nil when no counterpart exists.
type Translation struct {
	Source MatchEntry
	Target *MatchEntry
	Score  float64
}
