package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"ndkports/internal/core"
	"ndkports/internal/policies"
	"ndkports/internal/types"
)

const defaultMinSdk = 16

// Build runs the build matrix and packages every port whose ABIs all
// succeeded. A build failure is returned after the completed ports have
// been packaged.
func (s Service) Build(ctx context.Context, req BuildRequest) (BuildResult, error) {
	ndkPath := strings.TrimSpace(req.NdkPath)
	if ndkPath == "" {
		return BuildResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("ndk path is required")
	}
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return BuildResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	order, err := policies.ParseScheduleOrder(req.Order)
	if err != nil {
		return BuildResult{}, err
	}
	policy, err := policies.ParseFailurePolicy(req.FailurePolicy)
	if err != nil {
		return BuildResult{}, err
	}
	abis, err := types.ParseAbis(req.Abis)
	if err != nil {
		return BuildResult{}, err
	}
	registry, err := s.registry(req.RecipesDir)
	if err != nil {
		return BuildResult{}, err
	}

	driver := core.NewDriver(registry, s.Source, s.Process)
	report, built, runErr := driver.Run(ctx, core.Matrix{
		Recipes:        req.Recipes,
		Abis:           abis,
		MinSdk:         minSdkOrDefault(req.MinSdk),
		NdkPath:        ndkPath,
		OutputDir:      outputDir,
		Order:          order,
		Workers:        req.Workers,
		BuildJobs:      req.BuildJobs,
		Policy:         policy,
		ProcessTimeout: req.ProcessTimeout,
	})
	result := BuildResult{Report: report}
	s.recordRun(ctx, outputDir, report)
	if req.SkipPackage {
		return result, runErr
	}

	completed := map[string]bool{}
	for _, name := range report.CompletedPorts() {
		completed[name] = true
	}
	var toPackage []core.Recipe
	for _, recipe := range built {
		if completed[recipe.Spec().Name] {
			toPackage = append(toPackage, recipe)
		}
	}
	if len(toPackage) == 0 {
		return result, runErr
	}

	ndkMajor, err := s.NdkInfo.MajorVersion(ndkPath)
	if err != nil {
		if runErr != nil {
			return result, runErr
		}
		return result, err
	}
	packager := core.Packager{Recipes: registry, Tree: s.Tree, Pom: s.Pom, Archive: s.Archive}
	artifacts, err := packager.Package(ctx, core.PackageRequest{
		Recipes:   toPackage,
		Abis:      abis,
		MinSdk:    minSdkOrDefault(req.MinSdk),
		NdkMajor:  ndkMajor,
		OutputDir: outputDir,
		GroupID:   req.GroupID,
		Workers:   req.Workers,
	})
	if err == nil {
		result.Artifacts = artifacts
		err = s.recordArtifacts(outputDir, toPackage, artifacts)
	}
	if runErr != nil {
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("packaging completed ports failed")
		}
		return result, runErr
	}
	return result, err
}

func minSdkOrDefault(minSdk int) int {
	if minSdk <= 0 {
		return defaultMinSdk
	}
	return minSdk
}
