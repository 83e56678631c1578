// Package recipes holds the recipe registry: the built-in ports plus any
// declarative recipe files loaded at startup.
package recipes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ndkports/internal/core"
	"ndkports/internal/ports"
)

// Registry maps recipe names to recipes. Names are unique.
type Registry struct {
	recipes map[string]core.Recipe
}

func NewRegistry() *Registry {
	return &Registry{recipes: map[string]core.Recipe{}}
}

func (r *Registry) Register(recipe core.Recipe) error {
	name := strings.TrimSpace(recipe.Spec().Name)
	if name == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("recipe name is required")
	}
	if _, exists := r.recipes[name]; exists {
		return errbuilder.New().
			WithCode(errbuilder.CodeAlreadyExists).
			WithMsg(fmt.Sprintf("duplicate recipe: %s", name))
	}
	r.recipes[name] = recipe
	return nil
}

func (r *Registry) Lookup(name string) (core.Recipe, bool) {
	recipe, ok := r.recipes[strings.TrimSpace(name)]
	return recipe, ok
}

// Names returns every registered name in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.recipes))
	for name := range r.recipes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadDir registers every recipe file under dir. A file may not redefine a
// built-in or another file's recipe.
func (r *Registry) LoadDir(loader ports.RecipeFilePort, dir string) error {
	files, err := loader.LoadRecipeDir(dir)
	if err != nil {
		return err
	}
	for _, file := range files {
		recipe, err := FromFile(file)
		if err != nil {
			return err
		}
		if err := r.Register(recipe); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeOf(err)).
				WithMsg(fmt.Sprintf("failed to register %s", file.Path)).
				WithCause(err)
		}
	}
	return nil
}

// Builtins returns a registry holding the ports shipped with ndkports.
func Builtins() *Registry {
	registry := NewRegistry()
	for _, recipe := range builtinRecipes() {
		if err := registry.Register(recipe); err != nil {
			panic(err)
		}
	}
	return registry
}

var _ core.RecipeLookup = (*Registry)(nil)
