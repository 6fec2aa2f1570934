package adapters

import (
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkie-web/internal/types"
)

func TestLicenseManifestEmbeddedDefault(t *testing.T) {
	entries, err := NewLicenseManifestAdapter("").Licenses()
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "zerolog", entries[0].Name)
	assert.Equal(t, "MIT License", entries[0].License)
}

func TestLicenseManifestTrimsText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "licenses.xml")
	writeFile(t, path, `<oss>
  <entry>
    <name>linkie-core</name>
    <license>
        Apache License 2.0
    </license>
    <link>https://github.com/linkie/linkie-core</link>
  </entry>
</oss>`)

	entries, err := NewLicenseManifestAdapter(path).Licenses()
	require.NoError(t, err)
	want := []types.LicenseEntry{{Name: "linkie-core", License: "Apache License 2.0", Link: "https://github.com/linkie/linkie-core"}}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Fatalf("license entries mismatch (-want +got):\n%s", diff)
	}
}

func TestLicenseManifestErrors(t *testing.T) {
	_, err := NewLicenseManifestAdapter(filepath.Join(t.TempDir(), "absent.xml")).Licenses()
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	_, err = ParseLicenseManifest([]byte("<oss><entry>"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestSourceFileAdapter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Entity.java")
	writeFile(t, path, "public class Entity {}\n")

	adapter := NewSourceFileAdapter()
	text, err := adapter.ReadSource(path)
	require.NoError(t, err)
	assert.Equal(t, "public class Entity {}\n", text)

	_, err = adapter.ReadSource(filepath.Join(t.TempDir(), "Missing.java"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}
