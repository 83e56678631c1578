package ports

import "ndkports/internal/types"

// RecipeFilePort loads declarative recipe files.
type RecipeFilePort interface {
	LoadRecipe(path string) (types.RecipeFile, error)
	LoadRecipeDir(dir string) ([]types.RecipeFile, error)
}
