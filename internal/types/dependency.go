package types

type MavenRepository struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

type DependencyCoordinate struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

// DependencyRecord is one component's declaration for a (loader, version)
// pair. Version may carry the snapshot suffix.
type DependencyRecord struct {
	Loader       string
	Version      string
	Component    string
	Stable       bool
	Mavens       []MavenRepository
	Dependencies []DependencyCoordinate
}

// DependencyComponent groups the records of one named component. Sources
// return components in a stable order.
type DependencyComponent struct {
	Name    string
	Records []DependencyRecord
}

type DependencyBlock struct {
	Mavens       []MavenRepository      `json:"mavens"`
	Dependencies []DependencyCoordinate `json:"dependencies"`
	Stable       bool                   `json:"stable"`
}

type LoaderVersion struct {
	Version string                     `json:"version"`
	Stable  bool                       `json:"stable"`
	Blocks  map[string]DependencyBlock `json:"blocks,omitempty"`
}

// DependencyFile is the yaml layout of one component's record file.
type DependencyFile struct {
	Component string                 `yaml:"component"`
	Versions  []DependencyFileRecord `yaml:"versions"`
}

type DependencyFileRecord struct {
	Loader       string                 `yaml:"loader"`
	Version      string                 `yaml:"version"`
	Stable       bool                   `yaml:"stable"`
	Mavens       []MavenRepository      `yaml:"mavens,omitempty"`
	Dependencies []DependencyCoordinate `yaml:"dependencies,omitempty"`
}

// DependencyBundle carries every component in one document, as served by
// a remote dependency endpoint.
type DependencyBundle struct {
	Components []DependencyFile `yaml:"components"`
}
