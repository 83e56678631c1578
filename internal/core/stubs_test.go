package core

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"ndkports/internal/types"
)

// stubRecipe records its stages and can be told to fail one of them. Its
// install stage writes the artifacts of every non header-only module.
type stubRecipe struct {
	spec    types.PortSpec
	failAt  types.Stage
	failErr error
	noFiles bool

	mu     sync.Mutex
	stages []string
}

func newStub(name string, deps ...string) *stubRecipe {
	return &stubRecipe{spec: types.PortSpec{
		Name:         name,
		Version:      "1.0.0",
		Dependencies: deps,
		Modules:      []types.Module{{Name: name}},
	}}
}

func (s *stubRecipe) Spec() types.PortSpec {
	return s.spec
}

func (s *stubRecipe) record(stage types.Stage, bc *BuildContext) error {
	s.mu.Lock()
	s.stages = append(s.stages, string(stage)+":"+bc.Toolchain.Abi.Name)
	s.mu.Unlock()
	if s.failAt == stage {
		return s.failErr
	}
	return nil
}

func (s *stubRecipe) Configure(_ context.Context, bc *BuildContext) error {
	return s.record(types.StageConfigure, bc)
}

func (s *stubRecipe) Build(_ context.Context, bc *BuildContext) error {
	return s.record(types.StageBuild, bc)
}

func (s *stubRecipe) Install(_ context.Context, bc *BuildContext) error {
	if err := s.record(types.StageInstall, bc); err != nil {
		return err
	}
	if s.noFiles {
		return nil
	}
	libDir := filepath.Join(bc.InstallDir, "lib")
	if err := os.MkdirAll(libDir, 0o755); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(bc.InstallDir, "include"), 0o755); err != nil {
		return err
	}
	for _, module := range s.spec.Modules {
		if module.HeaderOnly {
			continue
		}
		if err := os.WriteFile(filepath.Join(libDir, module.ArtifactName()), []byte("ELF"), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (s *stubRecipe) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.stages...)
}

type mapLookup map[string]Recipe

func (m mapLookup) Lookup(name string) (Recipe, bool) {
	recipe, ok := m[name]
	return recipe, ok
}

func lookupOf(recipes ...*stubRecipe) mapLookup {
	out := mapLookup{}
	for _, recipe := range recipes {
		out[recipe.spec.Name] = recipe
	}
	return out
}

// countingSource counts fetches and extractions.
type countingSource struct {
	mu       sync.Mutex
	fetches  int
	extracts int
}

func (c *countingSource) Fetch(_ context.Context, url string, _ string, destDir string) (string, error) {
	c.mu.Lock()
	c.fetches++
	c.mu.Unlock()
	return filepath.Join(destDir, filepath.Base(url)), nil
}

func (c *countingSource) Extract(_ context.Context, _ string, destDir string) error {
	c.mu.Lock()
	c.extracts++
	c.mu.Unlock()
	return os.WriteFile(filepath.Join(destDir, "LICENSE"), []byte("license"), 0o644)
}
