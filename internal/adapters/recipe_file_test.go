package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndkports/internal/types"
)

const libpngRecipe = `api_version: ndkports/v1
name: libpng
version: 1.6.37
license:
  name: libpng license
  url: http://www.libpng.org/pub/png/src/libpng-LICENSE.txt
source:
  url: https://download.sourceforge.net/libpng/libpng-1.6.37.tar.gz
  sha256: daeb2620d829575513e35fecc83f0d3791a620b9b93d800b763542ece9390fb4
dependencies: [zlib]
modules:
  - name: png16
    dependencies: ["//zlib:z"]
build:
  system: cmake
  defines:
    PNG_TESTS: "OFF"
  libraries: [libpng16.so]
`

func TestRecipeFileAdapterLoadRecipe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "libpng.yaml")
	require.NoError(t, os.WriteFile(path, []byte(libpngRecipe), 0o644))

	recipe, err := NewRecipeFileAdapter().LoadRecipe(path)
	require.NoError(t, err)
	want := types.RecipeFile{
		APIVersion:   "ndkports/v1",
		Name:         "libpng",
		Version:      "1.6.37",
		License:      types.License{Name: "libpng license", URL: "http://www.libpng.org/pub/png/src/libpng-LICENSE.txt"},
		Source:       types.RecipeSource{URL: "https://download.sourceforge.net/libpng/libpng-1.6.37.tar.gz", SHA256: "daeb2620d829575513e35fecc83f0d3791a620b9b93d800b763542ece9390fb4"},
		Dependencies: []string{"zlib"},
		Modules:      []types.Module{{Name: "png16", Dependencies: []string{"//zlib:z"}}},
		Build: types.RecipeBuild{
			System:    types.BuildSystemCMake,
			Defines:   map[string]string{"PNG_TESTS": "OFF"},
			Libraries: []string{"libpng16.so"},
		},
		Path: path,
	}
	if diff := cmp.Diff(want, recipe); diff != "" {
		t.Fatalf("unexpected recipe (-want +got):\n%s", diff)
	}
}

func TestRecipeFileAdapterRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		msg     string
	}{
		{name: "unknown field", content: "name: zlib\nversoin: 1.2.11\n", msg: "failed to parse recipe yaml"},
		{name: "api version", content: "api_version: ndkports/v2\nname: zlib\n", msg: "unsupported recipe api_version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "zlib.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := NewRecipeFileAdapter().LoadRecipe(path)
			require.Error(t, err)
			assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestRecipeFileAdapterLoadRecipeDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "extra"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zlib.yml"), []byte("name: zlib\nversion: 1.2.11\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra", "libpng.yaml"), []byte(libpngRecipe), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "hidden.yaml"), []byte("bad: [\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# recipes\n"), 0o644))

	recipes, err := NewRecipeFileAdapter().LoadRecipeDir(dir)
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "libpng", recipes[0].Name)
	assert.Equal(t, "zlib", recipes[1].Name)

	_, err = NewRecipeFileAdapter().LoadRecipeDir("")
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
