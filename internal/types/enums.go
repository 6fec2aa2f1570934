package types

type EntryKind string

const (
	EntryKindClass  EntryKind = "c"
	EntryKindField  EntryKind = "f"
	EntryKindMethod EntryKind = "m"
)

type MemberKind string

const (
	MemberKindField  MemberKind = "field"
	MemberKindMethod MemberKind = "method"
)

type VersionScheme string

const (
	VersionSchemePep440 VersionScheme = "pep440"
	VersionSchemeDeb    VersionScheme = "deb"
)

type MappingsBackend string

const (
	MappingsBackendYAML   MappingsBackend = "yaml"
	MappingsBackendSQLite MappingsBackend = "sqlite"
)
