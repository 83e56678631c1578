package app

import (
	"context"

	"ndkports/internal/core"
)

func (s Service) List(ctx context.Context, req ListRequest) (ListResult, error) {
	registry, err := s.registry(req.RecipesDir)
	if err != nil {
		return ListResult{}, err
	}
	names := registry.Names()
	result := ListResult{Recipes: make([]RecipeSummary, 0, len(names))}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return ListResult{}, err
		}
		recipe, _ := registry.Lookup(name)
		spec := recipe.Spec()
		summary := RecipeSummary{
			Name:         spec.Name,
			Version:      spec.Version,
			Dependencies: append([]string(nil), spec.Dependencies...),
		}
		if version, err := core.PrefabVersionOf(spec); err == nil {
			summary.PrefabVersion = version.String()
		}
		for _, module := range spec.Modules {
			summary.Modules = append(summary.Modules, module.Name)
		}
		result.Recipes = append(result.Recipes, summary)
	}
	return result, nil
}
