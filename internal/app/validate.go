package app

import (
	"context"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"

	"ndkports/internal/core"
	"ndkports/internal/policies"
	"ndkports/internal/types"
)

// Validate resolves the build order of req.Recipes without building. With
// no recipes named, every registered recipe is checked. The order defaults
// to topological.
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	orderName := strings.TrimSpace(req.Order)
	if orderName == "" {
		orderName = string(types.ScheduleOrderTopological)
	}
	order, err := policies.ParseScheduleOrder(orderName)
	if err != nil {
		return ValidateResult{}, err
	}
	registry, err := s.registry(req.RecipesDir)
	if err != nil {
		return ValidateResult{}, err
	}
	names := req.Recipes
	if len(names) == 0 {
		names = registry.Names()
	}
	scheduled, err := core.ScheduleRecipes(names, registry, order)
	if err != nil {
		return ValidateResult{}, err
	}
	result := ValidateResult{Order: make([]string, 0, len(scheduled))}
	for _, recipe := range scheduled {
		spec := recipe.Spec()
		assert.NotEmpty(ctx, spec.Name, "recipe name must be set")
		if _, err := core.PrefabVersionOf(spec); err != nil {
			return ValidateResult{}, err
		}
		result.Order = append(result.Order, spec.Name)
	}
	return result, nil
}
