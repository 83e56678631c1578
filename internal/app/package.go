package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ndkports/internal/core"
	"ndkports/internal/types"
)

// Package packages install trees left by an earlier build. Recipes are
// packaged in the order given.
func (s Service) Package(ctx context.Context, req PackageRequest) (PackageResult, error) {
	ndkPath := strings.TrimSpace(req.NdkPath)
	if ndkPath == "" {
		return PackageResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("ndk path is required")
	}
	if len(req.Recipes) == 0 {
		return PackageResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one recipe is required")
	}
	abis, err := types.ParseAbis(req.Abis)
	if err != nil {
		return PackageResult{}, err
	}
	registry, err := s.registry(req.RecipesDir)
	if err != nil {
		return PackageResult{}, err
	}
	selected, err := core.ScheduleRecipes(req.Recipes, registry, types.ScheduleOrderAsGiven)
	if err != nil {
		return PackageResult{}, err
	}
	ndkMajor, err := s.NdkInfo.MajorVersion(ndkPath)
	if err != nil {
		return PackageResult{}, err
	}
	outputDir := strings.TrimSpace(req.OutputDir)
	packager := core.Packager{Recipes: registry, Tree: s.Tree, Pom: s.Pom, Archive: s.Archive}
	artifacts, err := packager.Package(ctx, core.PackageRequest{
		Recipes:   selected,
		Abis:      abis,
		MinSdk:    minSdkOrDefault(req.MinSdk),
		NdkMajor:  ndkMajor,
		OutputDir: outputDir,
		GroupID:   req.GroupID,
		Workers:   req.Workers,
	})
	if err != nil {
		return PackageResult{}, err
	}
	if err := s.recordArtifacts(outputDir, selected, artifacts); err != nil {
		return PackageResult{}, err
	}
	return PackageResult{Artifacts: artifacts}, nil
}
