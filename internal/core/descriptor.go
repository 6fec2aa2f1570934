package core

import (
	"strings"

	"linkie-web/internal/types"
)

// classNameSelector picks one name of a class, reporting false when that
// name is absent in the container.
type classNameSelector func(class *types.Class) (string, bool)

func obfMergedName(class *types.Class) (string, bool) {
	return class.ObfMergedName, class.ObfMergedName != ""
}

func obfClientName(class *types.Class) (string, bool) {
	return class.ObfClientName, class.ObfClientName != ""
}

func obfServerName(class *types.Class) (string, bool) {
	return class.ObfServerName, class.ObfServerName != ""
}

func mappedName(class *types.Class) (string, bool) {
	return class.MappedName, class.MappedName != ""
}

// RemapDescriptor rewrites every object type reference (L...;) in an
// intermediary descriptor using the class table of container. References
// to classes the container does not know, or whose selected name is
// absent, are left untouched.
func RemapDescriptor(container *types.MappingsContainer, desc string, selector classNameSelector) string {
	if desc == "" || !strings.ContainsRune(desc, 'L') {
		return desc
	}
	var builder strings.Builder
	builder.Grow(len(desc))
	for i := 0; i < len(desc); i++ {
		ch := desc[i]
		if ch != 'L' {
			builder.WriteByte(ch)
			continue
		}
		end := strings.IndexByte(desc[i:], ';')
		if end < 0 {
			builder.WriteString(desc[i:])
			break
		}
		name := desc[i+1 : i+end]
		builder.WriteByte('L')
		builder.WriteString(remapClassName(container, name, selector))
		builder.WriteByte(';')
		i += end
	}
	return builder.String()
}

func remapClassName(container *types.MappingsContainer, name string, selector classNameSelector) string {
	class, ok := container.ClassByIntermediaryName(name)
	if !ok {
		return name
	}
	if remapped, ok := selector(class); ok {
		return remapped
	}
	return name
}

// ObfMergedDesc is the member descriptor relative to container's merged
// obfuscation. Empty when the member has no obfuscated name.
func ObfMergedDesc(container *types.MappingsContainer, member *types.Member) string {
	if member.ObfMergedName == "" {
		return ""
	}
	return RemapDescriptor(container, member.IntermediaryDesc, obfMergedName)
}

func ObfClientDesc(container *types.MappingsContainer, member *types.Member) string {
	if member.ObfClientName == "" {
		return ""
	}
	return RemapDescriptor(container, member.IntermediaryDesc, obfClientName)
}

func ObfServerDesc(container *types.MappingsContainer, member *types.Member) string {
	if member.ObfServerName == "" {
		return ""
	}
	return RemapDescriptor(container, member.IntermediaryDesc, obfServerName)
}

func MappedDesc(container *types.MappingsContainer, member *types.Member) string {
	return RemapDescriptor(container, member.IntermediaryDesc, mappedName)
}
