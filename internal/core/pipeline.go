package core

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"ndkports/internal/ports"
	"ndkports/internal/types"
)

// Pipeline runs the extract, configure, build and install stages of a
// recipe for one ABI, stopping at the first failure.
type Pipeline struct {
	Source ports.SourcePort

	mu        sync.Mutex
	extracted map[string]*extraction
}

// extraction memoizes the extract stage, which is shared by every ABI of a
// port.
type extraction struct {
	once sync.Once
	err  error
}

func NewPipeline(source ports.SourcePort) *Pipeline {
	return &Pipeline{Source: source, extracted: map[string]*extraction{}}
}

type stageFunc func(ctx context.Context, recipe Recipe, bc *BuildContext) error

// Run returns nil or a *types.StageError naming the stage that failed.
func (p *Pipeline) Run(ctx context.Context, recipe Recipe, bc *BuildContext) error {
	spec := recipe.Spec()
	abi := bc.Toolchain.Abi.Name
	logger := log.Ctx(ctx).With().Str("port", spec.Name).Str("abi", abi).Logger()

	stages := []struct {
		stage types.Stage
		run   stageFunc
	}{
		{types.StageExtract, p.extract},
		{types.StageConfigure, configureStage},
		{types.StageBuild, buildStage},
		{types.StageInstall, installStage},
	}
	for _, step := range stages {
		if err := ctx.Err(); err != nil {
			return &types.StageError{Port: spec.Name, Abi: abi, Stage: step.stage, Err: err}
		}
		started := time.Now()
		logger.Info().Str("stage", string(step.stage)).Msg("stage started")
		if err := step.run(ctx, recipe, bc); err != nil {
			logger.Error().Err(err).Str("stage", string(step.stage)).Msg("stage failed")
			return &types.StageError{Port: spec.Name, Abi: abi, Stage: step.stage, Err: err}
		}
		logger.Debug().
			Str("stage", string(step.stage)).
			Dur("elapsed", time.Since(started)).
			Msg("stage finished")
	}
	return nil
}

func (p *Pipeline) extract(ctx context.Context, recipe Recipe, bc *BuildContext) error {
	name := recipe.Spec().Name
	p.mu.Lock()
	if p.extracted == nil {
		p.extracted = map[string]*extraction{}
	}
	state, ok := p.extracted[name]
	if !ok {
		state = &extraction{}
		p.extracted[name] = state
	}
	p.mu.Unlock()

	state.once.Do(func() {
		state.err = p.extractOnce(ctx, recipe, bc)
	})
	return state.err
}

func (p *Pipeline) extractOnce(ctx context.Context, recipe Recipe, bc *BuildContext) error {
	spec := recipe.Spec()
	archive := ""
	if spec.SourceURL != "" {
		if p.Source == nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("no source fetcher configured")
		}
		path, err := p.Source.Fetch(ctx, spec.SourceURL, spec.SourceSHA256, filepath.Join(bc.WorkingDir, "download"))
		if err != nil {
			return err
		}
		archive = path
	}
	if extractor, ok := recipe.(Extractor); ok {
		return extractor.Extract(ctx, bc, archive)
	}
	if err := os.MkdirAll(bc.SourceDir, 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create source directory").
			WithCause(err)
	}
	if archive == "" {
		log.Ctx(ctx).Debug().Str("port", spec.Name).Msg("no source url, using existing source directory")
		return nil
	}
	return p.Source.Extract(ctx, archive, bc.SourceDir)
}

func configureStage(ctx context.Context, recipe Recipe, bc *BuildContext) error {
	spec := recipe.Spec()
	for _, dep := range spec.Dependencies {
		if err := bc.RequireInstalled(dep, spec.Name); err != nil {
			return err
		}
	}
	// Output of an earlier run must not satisfy dependents of this one.
	if err := os.RemoveAll(bc.InstallDir); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to clear install directory").
			WithCause(err)
	}
	for _, dir := range []string{bc.BuildDir, bc.InstallDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create build directories").
				WithCause(err)
		}
	}
	if configurer, ok := recipe.(Configurer); ok {
		return configurer.Configure(ctx, bc)
	}
	return nil
}

func buildStage(ctx context.Context, recipe Recipe, bc *BuildContext) error {
	if builder, ok := recipe.(Builder); ok {
		return builder.Build(ctx, bc)
	}
	return nil
}

func installStage(ctx context.Context, recipe Recipe, bc *BuildContext) error {
	if installer, ok := recipe.(Installer); ok {
		if err := installer.Install(ctx, bc); err != nil {
			return err
		}
	}
	if err := VerifyArtifacts(recipe.Spec(), bc.InstallDir, bc.Toolchain.Abi.Name); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(bc.InstallDir, InstalledMarker), nil, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to mark install complete").
			WithCause(err)
	}
	return nil
}

// VerifyArtifacts checks that every non header-only module has its library
// in installDir/lib.
func VerifyArtifacts(spec types.PortSpec, installDir string, abi string) error {
	for _, module := range spec.Modules {
		if module.HeaderOnly {
			continue
		}
		path := filepath.Join(installDir, "lib", module.ArtifactName())
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return &types.MissingArtifactError{Port: spec.Name, Module: module.Name, Abi: abi, Path: path}
		}
	}
	return nil
}
