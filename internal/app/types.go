package app

import (
	"time"

	"ndkports/internal/types"
)

type BuildRequest struct {
	Recipes        []string
	NdkPath        string
	OutputDir      string
	Abis           []string
	MinSdk         int
	Workers        int
	BuildJobs      int
	Order          string
	FailurePolicy  string
	ProcessTimeout time.Duration
	RecipesDir     string
	GroupID        string
	// SkipPackage stops after the build matrix.
	SkipPackage bool
}

type BuildResult struct {
	Report    types.RunReport
	Artifacts []types.PackageArtifacts
}

type PackageRequest struct {
	Recipes    []string
	NdkPath    string
	OutputDir  string
	Abis       []string
	MinSdk     int
	Workers    int
	RecipesDir string
	GroupID    string
}

type PackageResult struct {
	Artifacts []types.PackageArtifacts
}

type ListRequest struct {
	RecipesDir string
}

type RecipeSummary struct {
	Name          string
	Version       string
	PrefabVersion string
	Dependencies  []string
	Modules       []string
}

type ListResult struct {
	Recipes []RecipeSummary
}

type ValidateRequest struct {
	Recipes    []string
	Order      string
	RecipesDir string
}

type ValidateResult struct {
	Order []string
}

type InspectRequest struct {
	OutputDir string
}

// PortSummary folds the report lines of one port.
type PortSummary struct {
	Name      string
	Succeeded []string
	Failed    []string
	Skipped   []string
	AarPath   string
}

type InspectResult struct {
	Order []string
	Ports []PortSummary
	Pairs []types.PairResult
	// Packaged is false when no artifacts.manifest was found.
	Packaged bool
}

type PublishRequest struct {
	OutputDir string
	// RepoBackend is "file" (default) or "http".
	RepoBackend  string
	RepoDir      string
	RepoURL      string
	Username     string
	APIKey       string
	Workers      int
	TimeoutSec   int
	Retries      int
	RetryDelayMs int
	// Ports limits publishing to the named ports.
	Ports []string
}

type PublishResult struct {
	Published []string
}

type PruneRequest struct {
	OutputDir string
	// RepoDir defaults to <OutputDir>/maven.
	RepoDir  string
	KeepLast int
	KeepDays int
	Protect  []string
	DryRun   bool
}

type PruneResult struct {
	KeepCount   int
	DeleteCount int
	// Deleted lists the coordinates removed, or that would be removed on a
	// dry run.
	Deleted []string
	DryRun  bool
}
