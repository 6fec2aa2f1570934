package types

type Capabilities struct {
	AT               bool `yaml:"at"`
	AW               bool `yaml:"aw"`
	Mixin            bool `yaml:"mixin"`
	FieldDescription bool `yaml:"field_description"`
	Source           bool `yaml:"source"`
}

// Namespace is a registered mapping scheme. Versions keep their
// registration order; nothing downstream re-sorts them.
type Namespace struct {
	ID             string
	DefaultVersion string
	Versions       []string
	Capabilities   Capabilities
}

func (n Namespace) HasVersion(version string) bool {
	for _, candidate := range n.Versions {
		if candidate == version {
			return true
		}
	}
	return false
}

type VersionInfo struct {
	Version string `json:"version"`
	Stable  bool   `json:"stable"`
}

// NamespaceCatalogEntry is one namespace declaration in the catalog file.
type NamespaceCatalogEntry struct {
	ID             string          `yaml:"id"`
	DefaultVersion string          `yaml:"default_version"`
	Versions       []string        `yaml:"versions,omitempty"`
	Supports       Capabilities    `yaml:"supports"`
	Backend        MappingsBackend `yaml:"backend,omitempty"`

	// Mappings is a path template containing "{version}" for the yaml
	// backend, or the database path for the sqlite backend. Relative paths
	// are resolved against the catalog file directory. When
	// Versions is empty the template is expanded with "*" and matched
	// as a glob to discover versions.
	Mappings string `yaml:"mappings"`

	// Sources is a directory template containing "{version}" under which
	// decompiled class sources live.
	Sources string `yaml:"sources,omitempty"`
}

type CatalogFile struct {
	Namespaces []NamespaceCatalogEntry `yaml:"namespaces"`
}
