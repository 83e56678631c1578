package adapters

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"ndkports/internal/ports"
	"ndkports/internal/types"
)

const recipeAPIVersion = "ndkports/v1"

// RecipeFileAdapter loads declarative recipes from YAML.
type RecipeFileAdapter struct{}

func NewRecipeFileAdapter() RecipeFileAdapter {
	return RecipeFileAdapter{}
}

func (a RecipeFileAdapter) LoadRecipe(path string) (types.RecipeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.RecipeFile{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("recipe file not found").
			WithCause(err)
	}
	var recipe types.RecipeFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&recipe); err != nil {
		return types.RecipeFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to parse recipe yaml %s", path)).
			WithCause(err)
	}
	if recipe.APIVersion != "" && recipe.APIVersion != recipeAPIVersion {
		return types.RecipeFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported recipe api_version %q in %s", recipe.APIVersion, path))
	}
	recipe.Path = path
	return recipe, nil
}

// LoadRecipeDir loads every *.yaml and *.yml file below dir in lexical
// path order.
func (a RecipeFileAdapter) LoadRecipeDir(dir string) ([]types.RecipeFile, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("recipe directory is empty")
	}
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to scan recipe directory").
			WithCause(err)
	}
	sort.Strings(paths)
	recipes := make([]types.RecipeFile, 0, len(paths))
	for _, path := range paths {
		recipe, err := a.LoadRecipe(path)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

var _ ports.RecipeFilePort = RecipeFileAdapter{}
