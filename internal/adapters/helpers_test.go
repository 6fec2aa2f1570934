package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleYarnMappings = `classes:
  - intermediary: net/minecraft/class_1297
    obf: a
    obf_client: ca
    obf_server: sa
    named: net/minecraft/entity/Entity
    fields:
      - intermediary: field_6002
        obf: b
        named: world
        desc: Lnet/minecraft/class_1937;
    methods:
      - intermediary: method_5773
        obf: c
        named: tick
        desc: ()V
  - intermediary: net/minecraft/class_1937
    obf: d
    named: net/minecraft/world/World
`

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
