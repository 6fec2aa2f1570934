package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"

	"linkie-web/internal/types"
)

// SnapshotSuffix marks an unreleased version identifier.
const SnapshotSuffix = "-Snapshot"

// StructuredVersion is a parsed version identifier. Ordering only looks
// at the portion preceding the snapshot suffix.
type StructuredVersion struct {
	Raw      string
	Base     string
	Snapshot bool

	scheme types.VersionScheme
	deb    debversion.Version
	pep    pep440.Version
}

// VersionComparator orders version identifiers under one scheme. It holds
// no mutable state; memoisation lives in a per-call versionCache.
type VersionComparator struct {
	Scheme types.VersionScheme
}

func NewVersionComparator(scheme types.VersionScheme) VersionComparator {
	if scheme == "" {
		scheme = types.VersionSchemePep440
	}
	return VersionComparator{Scheme: scheme}
}

// SplitSnapshot strips the snapshot suffix from id.
func SplitSnapshot(id string) (string, bool) {
	if strings.HasSuffix(id, SnapshotSuffix) {
		return strings.TrimSuffix(id, SnapshotSuffix), true
	}
	return id, false
}

func (c VersionComparator) Parse(id string) (StructuredVersion, error) {
	base, snapshot := SplitSnapshot(strings.TrimSpace(id))
	if base == "" {
		return StructuredVersion{}, parseError(id, nil)
	}
	parsed := StructuredVersion{Raw: id, Base: base, Snapshot: snapshot, scheme: c.scheme()}
	switch parsed.scheme {
	case types.VersionSchemeDeb:
		v, err := debversion.NewVersion(base)
		if err != nil {
			return StructuredVersion{}, parseError(id, err)
		}
		parsed.deb = v
	case types.VersionSchemePep440:
		v, err := pep440.Parse(base)
		if err != nil {
			return StructuredVersion{}, parseError(id, err)
		}
		parsed.pep = v
	default:
		return StructuredVersion{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported version scheme: %s", parsed.scheme))
	}
	return parsed, nil
}

// Compare returns -1, 0 or 1. Both versions must come from Parse on a
// comparator of the same scheme.
func (c VersionComparator) Compare(a StructuredVersion, b StructuredVersion) int {
	switch c.scheme() {
	case types.VersionSchemeDeb:
		return a.deb.Compare(b.deb)
	default:
		return a.pep.Compare(b.pep)
	}
}

func (c VersionComparator) CompareStrings(a string, b string) (int, error) {
	v1, err := c.Parse(a)
	if err != nil {
		return 0, err
	}
	v2, err := c.Parse(b)
	if err != nil {
		return 0, err
	}
	return c.Compare(v1, v2), nil
}

// IsStable reports whether id parses and carries no snapshot suffix.
func (c VersionComparator) IsStable(id string) bool {
	parsed, err := c.Parse(id)
	if err != nil {
		return false
	}
	return !parsed.Snapshot
}

func (c VersionComparator) scheme() types.VersionScheme {
	if c.Scheme == "" {
		return types.VersionSchemePep440
	}
	return c.Scheme
}

func parseError(id string, cause error) error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid version identifier: %q", id))
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return builder
}

// versionCache memoizes parsed identifiers for the duration of one
// resolution. It is not safe for concurrent use and is never shared.
type versionCache struct {
	comparator VersionComparator
	parsed     map[string]StructuredVersion
	failed     map[string]error
}

func newVersionCache(comparator VersionComparator) *versionCache {
	return &versionCache{
		comparator: comparator,
		parsed:     map[string]StructuredVersion{},
		failed:     map[string]error{},
	}
}

func (c *versionCache) parse(id string) (StructuredVersion, error) {
	if parsed, ok := c.parsed[id]; ok {
		return parsed, nil
	}
	if err, ok := c.failed[id]; ok {
		return StructuredVersion{}, err
	}
	parsed, err := c.comparator.Parse(id)
	if err != nil {
		c.failed[id] = err
		return StructuredVersion{}, err
	}
	c.parsed[id] = parsed
	return parsed, nil
}

func (c *versionCache) compare(a StructuredVersion, b StructuredVersion) int {
	return c.comparator.Compare(a, b)
}
