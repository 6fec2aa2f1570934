package types

import "encoding/xml"

// SearchResultRecord is the flat wire form of one search hit. Class
// records only populate o, i, n, h, l, z and t.
type SearchResultRecord struct {
	OwnerObf          string              `json:"a,omitempty"`
	OwnerIntermediary string              `json:"b,omitempty"`
	OwnerNamed        string              `json:"c,omitempty"`
	Obf               string              `json:"o,omitempty"`
	Intermediary      string              `json:"i"`
	Named             string              `json:"n,omitempty"`
	DescObf           string              `json:"d,omitempty"`
	DescIntermediary  string              `json:"e,omitempty"`
	DescNamed         string              `json:"f,omitempty"`
	OwnerObfClient    string              `json:"g,omitempty"`
	ObfClient         string              `json:"h,omitempty"`
	DescObfClient     string              `json:"j,omitempty"`
	OwnerObfServer    string              `json:"k,omitempty"`
	ObfServer         string              `json:"l,omitempty"`
	DescObfServer     string              `json:"m,omitempty"`
	Score             float64             `json:"z"`
	MemberType        EntryKind           `json:"t"`
	Translated        *SearchResultRecord `json:"x,omitempty"`
}

type SearchResultEntries struct {
	Entries []SearchResultRecord `json:"entries"`
	Fuzzy   bool                 `json:"fuzzy"`
}

type NamespaceEntry struct {
	ID                       string        `json:"id"`
	Versions                 []VersionInfo `json:"versions"`
	SupportsAT               bool          `json:"supportsAT"`
	SupportsAW               bool          `json:"supportsAW"`
	SupportsMixin            bool          `json:"supportsMixin"`
	SupportsFieldDescription bool          `json:"supportsFieldDescription"`
	SupportsSource           bool          `json:"supportsSource"`
}

type LicenseEntry struct {
	Name    string `xml:"name" json:"name"`
	License string `xml:"license" json:"license"`
	Link    string `xml:"link" json:"link"`
}

// LicenseManifest is the xml document listing bundled open source
// components.
type LicenseManifest struct {
	XMLName xml.Name       `xml:"oss"`
	Entries []LicenseEntry `xml:"entry"`
}
