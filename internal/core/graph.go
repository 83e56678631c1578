package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ndkports/internal/types"
)

// ScheduleRecipes resolves requested recipe names into the order they are
// built in. With ScheduleOrderAsGiven the caller's order is kept and no
// dependency checks happen here; a dependency listed after its dependent
// fails later, at configure time. With ScheduleOrderTopological the
// transitive dependencies are added and sorted before their dependents,
// keeping the requested order wherever the graph allows.
func ScheduleRecipes(names []string, lookup RecipeLookup, order types.ScheduleOrder) ([]Recipe, error) {
	requested, err := normalizeNames(names)
	if err != nil {
		return nil, err
	}
	switch order {
	case "", types.ScheduleOrderAsGiven:
		return resolveAsGiven(requested, lookup)
	case types.ScheduleOrderTopological:
		return resolveTopological(requested, lookup)
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported schedule order: %s", order))
	}
}

func normalizeNames(names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one recipe is required")
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("recipe name is empty")
		}
		if _, ok := seen[name]; ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(fmt.Sprintf("recipe %s requested more than once", name))
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}

func unknownRecipe(name string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("unknown recipe: %s", name))
}

func resolveAsGiven(names []string, lookup RecipeLookup) ([]Recipe, error) {
	out := make([]Recipe, 0, len(names))
	for _, name := range names {
		recipe, ok := lookup.Lookup(name)
		if !ok {
			return nil, unknownRecipe(name)
		}
		out = append(out, recipe)
	}
	return out, nil
}

type graphNode struct {
	name       string
	recipe     Recipe
	deps       []int
	dependents []int
}

func resolveTopological(names []string, lookup RecipeLookup) ([]Recipe, error) {
	index := map[string]int{}
	queue := append([]string(nil), names...)
	requiredBy := map[string]string{}
	for i, name := range queue {
		index[name] = i
	}

	nodes := []*graphNode{}
	for i := 0; i < len(queue); i++ {
		name := queue[i]
		recipe, ok := lookup.Lookup(name)
		if !ok {
			if i < len(names) {
				return nil, unknownRecipe(name)
			}
			return nil, &types.UnresolvedDependencyError{Name: name, RequiredBy: requiredBy[name]}
		}
		nodes = append(nodes, &graphNode{name: name, recipe: recipe})
		for _, dep := range recipe.Spec().Dependencies {
			if _, ok := index[dep]; ok {
				continue
			}
			index[dep] = len(queue)
			requiredBy[dep] = name
			queue = append(queue, dep)
		}
	}

	indegree := make([]int, len(nodes))
	for i, node := range nodes {
		seen := map[int]struct{}{}
		for _, dep := range node.recipe.Spec().Dependencies {
			j := index[dep]
			if _, dup := seen[j]; dup {
				continue
			}
			seen[j] = struct{}{}
			node.deps = append(node.deps, j)
			nodes[j].dependents = append(nodes[j].dependents, i)
			indegree[i]++
		}
	}

	done := make([]bool, len(nodes))
	out := make([]Recipe, 0, len(nodes))
	for len(out) < len(nodes) {
		next := -1
		for i := range nodes {
			if !done[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, &types.CyclicDependencyError{Cycle: findCycle(nodes, done)}
		}
		done[next] = true
		out = append(out, nodes[next].recipe)
		for _, dependent := range nodes[next].dependents {
			indegree[dependent]--
		}
	}
	return out, nil
}

// findCycle walks the unsorted remainder of the graph and returns the first
// cycle found, closed with its starting node.
func findCycle(nodes []*graphNode, done []bool) []string {
	const (
		white = iota
		gray
		black
	)
	color := make([]int, len(nodes))
	var stack []int
	var cycle []string

	var visit func(i int) bool
	visit = func(i int) bool {
		color[i] = gray
		stack = append(stack, i)
		for _, dep := range nodes[i].deps {
			if done[dep] {
				continue
			}
			switch color[dep] {
			case gray:
				start := 0
				for k, v := range stack {
					if v == dep {
						start = k
						break
					}
				}
				for _, v := range stack[start:] {
					cycle = append(cycle, nodes[v].name)
				}
				cycle = append(cycle, nodes[dep].name)
				return true
			case white:
				if visit(dep) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[i] = black
		return false
	}

	for i := range nodes {
		if done[i] || color[i] != white {
			continue
		}
		if visit(i) {
			return cycle
		}
	}
	return cycle
}
