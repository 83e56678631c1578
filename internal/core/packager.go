package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"ndkports/internal/ports"
	"ndkports/internal/types"
)

const (
	prefabSchemaVersion = 1
	defaultStl          = "c++_shared"
	projectURL          = "https://android.googlesource.com/platform/tools/ndkports"
)

type PackageRequest struct {
	Recipes   []Recipe
	Abis      []types.Abi
	MinSdk    int
	NdkMajor  int
	OutputDir string
	GroupID   string
	Stl       string
	Workers   int
}

// Packager turns per-ABI install trees into a prefab tree, a pom and an
// AAR for each recipe.
type Packager struct {
	Recipes RecipeLookup
	Tree    ports.PackageTreePort
	Pom     ports.PomPort
	Archive ports.ArchivePort
}

// Package packages every recipe in req. Results keep the request order.
func (p Packager) Package(ctx context.Context, req PackageRequest) ([]types.PackageArtifacts, error) {
	if strings.TrimSpace(req.OutputDir) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	if len(req.Abis) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one abi is required")
	}
	workers := req.Workers
	if workers <= 0 {
		workers = 1
	}

	results := make([]types.PackageArtifacts, len(req.Recipes))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i, recipe := range req.Recipes {
		i, recipe := i, recipe
		group.Go(func() error {
			artifacts, err := p.packageRecipe(groupCtx, recipe, req)
			if err != nil {
				return err
			}
			results[i] = artifacts
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p Packager) packageRecipe(ctx context.Context, recipe Recipe, req PackageRequest) (types.PackageArtifacts, error) {
	spec := recipe.Spec()
	workingDir := filepath.Join(req.OutputDir, spec.Name)
	logger := log.Ctx(ctx).With().Str("port", spec.Name).Logger()

	for _, abi := range req.Abis {
		if err := VerifyArtifacts(spec, installDirForAbi(workingDir, spec.Name, abi), abi.Name); err != nil {
			return types.PackageArtifacts{}, err
		}
	}
	version, err := PrefabVersionOf(spec)
	if err != nil {
		return types.PackageArtifacts{}, err
	}
	dependencies, err := p.pomDependencies(spec, req)
	if err != nil {
		return types.PackageArtifacts{}, err
	}

	aarDir := filepath.Join(workingDir, "aar")
	if err := os.RemoveAll(aarDir); err != nil {
		return types.PackageArtifacts{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to clean aar directory").
			WithCause(err)
	}
	prefabDir := filepath.Join(aarDir, "prefab")
	pkg := BuildPrefabPackage(spec, version, req, workingDir)
	if err := p.Tree.WritePackageTree(ctx, pkg, prefabDir); err != nil {
		return types.PackageArtifacts{}, err
	}

	mavenVersion := spec.EffectiveMavenVersion()
	groupID := groupIDOrDefault(req.GroupID)
	pomPath := filepath.Join(workingDir, fmt.Sprintf("%s-%s.pom", spec.Name, mavenVersion))
	if err := p.Pom.WritePom(pomPath, types.PomDocument{
		GroupID:      groupID,
		ArtifactID:   spec.Name,
		Version:      mavenVersion,
		Name:         spec.Name,
		Description:  fmt.Sprintf("The ndkports AAR for %s.", spec.Name),
		URL:          projectURL,
		License:      spec.License,
		Dependencies: dependencies,
	}); err != nil {
		return types.PackageArtifacts{}, err
	}

	licenseFile := filepath.Join(workingDir, "src", spec.EffectiveLicensePath())
	if _, err := os.Stat(licenseFile); err != nil {
		logger.Warn().Str("path", licenseFile).Msg("license file not found, packaging without it")
		licenseFile = ""
	}
	aarPath := filepath.Join(workingDir, fmt.Sprintf("%s-%s.aar", spec.Name, mavenVersion))
	if err := p.Archive.WriteAAR(ctx, types.AarLayout{
		Path:        aarPath,
		PackageName: AndroidPackageName(groupID, spec.Name),
		MinSdk:      req.MinSdk,
		PrefabDir:   prefabDir,
		LicenseFile: licenseFile,
	}); err != nil {
		return types.PackageArtifacts{}, err
	}
	logger.Info().Str("aar", aarPath).Msg("packaged")
	return types.PackageArtifacts{
		Port:      spec.Name,
		PrefabDir: prefabDir,
		AarPath:   aarPath,
		PomPath:   pomPath,
	}, nil
}

func (p Packager) pomDependencies(spec types.PortSpec, req PackageRequest) ([]types.PomDependency, error) {
	groupID := groupIDOrDefault(req.GroupID)
	local := map[string]Recipe{}
	for _, recipe := range req.Recipes {
		local[recipe.Spec().Name] = recipe
	}
	out := make([]types.PomDependency, 0, len(spec.Dependencies))
	for _, dep := range spec.Dependencies {
		recipe, ok := local[dep]
		if !ok && p.Recipes != nil {
			recipe, ok = p.Recipes.Lookup(dep)
		}
		if !ok {
			return nil, &types.UnresolvedDependencyError{Name: dep, RequiredBy: spec.Name}
		}
		out = append(out, types.PomDependency{
			GroupID:    groupID,
			ArtifactID: dep,
			Version:    recipe.Spec().EffectiveMavenVersion(),
		})
	}
	return out, nil
}

// BuildPrefabPackage describes the prefab tree for spec from its install
// directories under workingDir. Shared headers come from the first ABI.
func BuildPrefabPackage(spec types.PortSpec, version CMakeVersion, req PackageRequest, workingDir string) types.PrefabPackage {
	stl := req.Stl
	if stl == "" {
		stl = defaultStl
	}
	firstInstall := installDirForAbi(workingDir, spec.Name, req.Abis[0])
	pkg := types.PrefabPackage{
		Name:          spec.Name,
		Version:       version.String(),
		SchemaVersion: prefabSchemaVersion,
		Dependencies:  append([]string{}, spec.Dependencies...),
	}
	for _, module := range spec.Modules {
		pm := types.PrefabModule{
			Name:            module.Name,
			ExportLibraries: append([]string{}, module.Dependencies...),
			HeaderOnly:      module.HeaderOnly,
		}
		if !module.HeaderOnly {
			pm.LibraryName = module.LibraryName()
		}
		perAbiHeaders := module.IncludesPerAbi && !module.HeaderOnly
		if !perAbiHeaders {
			pm.IncludeDir = filepath.Join(firstInstall, "include")
		}
		if !module.HeaderOnly {
			for _, abi := range req.Abis {
				installDir := installDirForAbi(workingDir, spec.Name, abi)
				entry := types.PrefabAbi{
					Abi:     abi.Name,
					API:     abi.AdjustAPI(req.MinSdk),
					Ndk:     req.NdkMajor,
					Stl:     stl,
					Static:  module.Static,
					Library: filepath.Join(installDir, "lib", module.ArtifactName()),
				}
				if perAbiHeaders {
					entry.IncludeDir = filepath.Join(installDir, "include")
				}
				pm.Abis = append(pm.Abis, entry)
			}
		}
		pkg.Modules = append(pkg.Modules, pm)
	}
	return pkg
}

// AndroidPackageName is the manifest package of a port's AAR.
func AndroidPackageName(groupID string, name string) string {
	return groupIDOrDefault(groupID) + "." + strings.ReplaceAll(name, "-", "_")
}

func groupIDOrDefault(groupID string) string {
	if strings.TrimSpace(groupID) == "" {
		return types.DefaultGroupID
	}
	return groupID
}

func installDirForAbi(workingDir string, name string, abi types.Abi) string {
	return InstallDirForPort(name, workingDir, Toolchain{Abi: abi})
}
