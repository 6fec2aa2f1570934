package app

import "linkie-web/internal/types"

// Config selects the adapters a Service is built from.
type Config struct {
	CatalogPath   string
	DepsDir       string
	DepsURL       string
	LicensesPath  string
	VersionScheme types.VersionScheme

	HTTPTimeoutSec   int
	HTTPRetries      int
	HTTPRetryDelayMs int
}

type SearchRequest struct {
	Namespace          string
	TranslateNamespace string
	Version            string
	Query              string
	AllowClasses       bool
	AllowMethods       bool
	AllowFields        bool
	Limit              int
}

type SourceRequest struct {
	Namespace string
	Version   string
	Class     string
}

type SourceResult struct {
	Namespace string
	Version   string
	Path      string
	Text      string
}

type ImportMappingsRequest struct {
	Namespace string
	Version   string
	InputPath string
	Database  string
}

type ImportMappingsResult struct {
	Namespace string
	Version   string
	Classes   int
	Members   int
}
