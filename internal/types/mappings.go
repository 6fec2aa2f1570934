package types

// Member is a field or method of a Class. Empty name fields are absent in
// the namespace the member was loaded from.
type Member struct {
	Kind             MemberKind
	IntermediaryName string
	ObfMergedName    string
	ObfClientName    string
	ObfServerName    string
	MappedName       string

	// IntermediaryDesc is the member descriptor expressed with intermediary
	// class names. Obfuscated and mapped descriptors are derived from it
	// against a specific container.
	IntermediaryDesc string
}

type Class struct {
	IntermediaryName string
	ObfMergedName    string
	ObfClientName    string
	ObfServerName    string
	MappedName       string
	Fields           []Member
	Methods          []Member
}

// MappingsContainer is an immutable snapshot of one namespace at one
// version. Build it with NewMappingsContainer and never mutate the
// classes afterwards.
type MappingsContainer struct {
	Namespace string
	Version   string
	Classes   []Class

	byIntermediary map[string]int
	byObfMerged    map[string]int
}

func NewMappingsContainer(namespace string, version string, classes []Class) *MappingsContainer {
	container := &MappingsContainer{
		Namespace:      namespace,
		Version:        version,
		Classes:        classes,
		byIntermediary: make(map[string]int, len(classes)),
		byObfMerged:    make(map[string]int, len(classes)),
	}
	for i := range classes {
		class := &classes[i]
		if _, ok := container.byIntermediary[class.IntermediaryName]; !ok {
			container.byIntermediary[class.IntermediaryName] = i
		}
		if class.ObfMergedName == "" {
			continue
		}
		if _, ok := container.byObfMerged[class.ObfMergedName]; !ok {
			container.byObfMerged[class.ObfMergedName] = i
		}
	}
	return container
}

func (c *MappingsContainer) ClassByObfName(name string) (*Class, bool) {
	if c == nil || name == "" {
		return nil, false
	}
	idx, ok := c.byObfMerged[name]
	if !ok {
		return nil, false
	}
	return &c.Classes[idx], true
}

func (c *MappingsContainer) ClassByIntermediaryName(name string) (*Class, bool) {
	if c == nil || name == "" {
		return nil, false
	}
	idx, ok := c.byIntermediary[name]
	if !ok {
		return nil, false
	}
	return &c.Classes[idx], true
}

func (c *MappingsContainer) Empty() bool {
	return c == nil || len(c.Classes) == 0
}

// MappingsFile is the on-disk yaml layout of one namespace version.
type MappingsFile struct {
	Classes []MappingsFileClass `yaml:"classes"`
}

type MappingsFileClass struct {
	Intermediary string               `yaml:"intermediary"`
	Obf          string               `yaml:"obf,omitempty"`
	ObfClient    string               `yaml:"obf_client,omitempty"`
	ObfServer    string               `yaml:"obf_server,omitempty"`
	Named        string               `yaml:"named,omitempty"`
	Fields       []MappingsFileMember `yaml:"fields,omitempty"`
	Methods      []MappingsFileMember `yaml:"methods,omitempty"`
}

type MappingsFileMember struct {
	Intermediary string `yaml:"intermediary"`
	Obf          string `yaml:"obf,omitempty"`
	ObfClient    string `yaml:"obf_client,omitempty"`
	ObfServer    string `yaml:"obf_server,omitempty"`
	Named        string `yaml:"named,omitempty"`
	Desc         string `yaml:"desc"`
}
