package adapters

import (
	_ "embed"
	"encoding/xml"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"linkie-web/internal/ports"
	"linkie-web/internal/types"
)

//go:embed licenses.xml
var defaultLicenses []byte

// LicenseManifestAdapter reads the open source manifest from Path, or
// from the embedded manifest when Path is empty.
type LicenseManifestAdapter struct {
	Path string
}

func NewLicenseManifestAdapter(path string) LicenseManifestAdapter {
	return LicenseManifestAdapter{Path: strings.TrimSpace(path)}
}

func (a LicenseManifestAdapter) Licenses() ([]types.LicenseEntry, error) {
	data := defaultLicenses
	if a.Path != "" {
		raw, err := os.ReadFile(a.Path)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("license manifest not found").
				WithCause(err)
		}
		data = raw
	}
	return ParseLicenseManifest(data)
}

func ParseLicenseManifest(data []byte) ([]types.LicenseEntry, error) {
	var manifest types.LicenseManifest
	if err := xml.Unmarshal(data, &manifest); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse license manifest").
			WithCause(err)
	}
	entries := make([]types.LicenseEntry, 0, len(manifest.Entries))
	for _, entry := range manifest.Entries {
		entries = append(entries, types.LicenseEntry{
			Name:    strings.TrimSpace(entry.Name),
			License: strings.TrimSpace(entry.License),
			Link:    strings.TrimSpace(entry.Link),
		})
	}
	return entries, nil
}

var _ ports.LicenseManifestPort = LicenseManifestAdapter{}
