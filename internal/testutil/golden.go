package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// UpdateGoldenEnv rewrites golden files instead of comparing when set.
const UpdateGoldenEnv = "GOLDEN_UPDATE"

// GoldenPath is where the golden file for name lives, relative to the package under test.
func GoldenPath(name string) string {
	return filepath.Join("testdata", name+".golden")
}

// GoldenString compares rendered output against testdata/<name>.golden.
func GoldenString(t *testing.T, name string, got string) {
	t.Helper()

	path := GoldenPath(name)
	if os.Getenv(UpdateGoldenEnv) != "" {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(got), 0644))
		return
	}

	want, err := os.ReadFile(path)
	require.NoError(t, err, "missing golden file %s; rerun with %s=1", path, UpdateGoldenEnv)
	assert.Equal(t, string(want), got, "output mismatch for %s", name)
}
