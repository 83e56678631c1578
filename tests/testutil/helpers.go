// Package testutil provides shared test helpers used across integration,
// e2e, and unit test packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// FakeNdk creates a directory that passes for an NDK root: it carries a
// source.properties with the given revision and nothing else.
func FakeNdk(t *testing.T, revision string) string {
	t.Helper()
	dir := t.TempDir()
	content := "Pkg.Desc = Android NDK\nPkg.Revision = " + revision + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "source.properties"), []byte(content), 0o644))
	return dir
}

// HeaderOnlyRecipe writes a declarative recipe with no build system and a
// single header-only module named after the recipe.
func HeaderOnlyRecipe(t *testing.T, dir string, name string, deps ...string) {
	t.Helper()
	content := "api_version: ndkports/v1\n" +
		"name: " + name + "\n" +
		"version: 1.0.0\n" +
		"license:\n  name: Apache-2.0\n  url: https://www.apache.org/licenses/LICENSE-2.0\n"
	if len(deps) > 0 {
		content += "dependencies:\n"
		for _, dep := range deps {
			content += "  - " + dep + "\n"
		}
	}
	content += "modules:\n  - name: " + name + "\n    header_only: true\n" +
		"build:\n  system: none\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(content), 0o644))
}
