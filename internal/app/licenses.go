package app

import "linkie-web/internal/types"

func (s *Service) OSSLicenses() ([]types.LicenseEntry, error) {
	return s.Licenses.Licenses()
}
