package app

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"ndkports/internal/adapters"
	"ndkports/internal/ports"
	"ndkports/internal/types"
)

// Publish uploads the packages listed in the artifact manifest of an
// output directory to a maven repository. Coordinates come from each
// package's pom.
func (s Service) Publish(ctx context.Context, req PublishRequest) (PublishResult, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return PublishResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	repo, err := s.mavenRepo(outputDir, req)
	if err != nil {
		return PublishResult{}, err
	}
	packaged, err := s.Reports.ReadArtifactManifest(filepath.Join(outputDir, adapters.ArtifactManifestFile))
	if err != nil {
		return PublishResult{}, err
	}

	var artifacts []types.MavenArtifact
	var published []string
	for _, entry := range packaged {
		if len(req.Ports) > 0 && !slices.Contains(req.Ports, entry.Port) {
			continue
		}
		pom, err := s.Pom.ReadPom(entry.PomPath)
		if err != nil {
			return PublishResult{}, err
		}
		artifacts = append(artifacts, types.MavenArtifact{
			GroupID:    pom.GroupID,
			ArtifactID: pom.ArtifactID,
			Version:    pom.Version,
			Files:      []string{entry.AarPath, entry.PomPath},
		})
		published = append(published, pom.GroupID+":"+pom.ArtifactID+":"+pom.Version)
	}
	if len(artifacts) == 0 {
		return PublishResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("no packaged ports to publish")
	}
	if err := repo.Publish(ctx, artifacts); err != nil {
		return PublishResult{}, err
	}
	log.Ctx(ctx).Info().Int("packages", len(artifacts)).Msg("published packages")
	return PublishResult{Published: published}, nil
}

func (s Service) mavenRepo(outputDir string, req PublishRequest) (ports.MavenRepoPort, error) {
	if s.MavenRepo != nil {
		return s.MavenRepo, nil
	}
	backend := strings.ToLower(strings.TrimSpace(req.RepoBackend))
	if backend == "" {
		backend = "file"
	}
	switch backend {
	case "file":
		repoDir := strings.TrimSpace(req.RepoDir)
		if repoDir == "" {
			repoDir = filepath.Join(outputDir, "maven")
		}
		return adapters.NewMavenRepoFileAdapter(repoDir), nil
	case "http":
		endpoint := strings.TrimSpace(req.RepoURL)
		if endpoint == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("repo url is required for http backend")
		}
		return adapters.NewMavenRepoHTTPAdapter(endpoint, req.Username, req.APIKey, req.Workers, req.TimeoutSec, req.Retries, req.RetryDelayMs), nil
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported repo backend")
	}
}
