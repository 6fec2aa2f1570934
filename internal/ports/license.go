package ports

import "linkie-web/internal/types"

type LicenseManifestPort interface {
	Licenses() ([]types.LicenseEntry, error)
}

type SourceFilePort interface {
	ReadSource(path string) (string, error)
}
