package app

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"ndkports/internal/adapters"
	"ndkports/internal/types"
)

// Prune removes released versions from a local maven repository according
// to a retention policy.
func (s Service) Prune(ctx context.Context, req PruneRequest) (PruneResult, error) {
	repoDir := strings.TrimSpace(req.RepoDir)
	if repoDir == "" {
		outputDir := strings.TrimSpace(req.OutputDir)
		if outputDir == "" {
			return PruneResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("repo dir or output directory is required")
		}
		repoDir = filepath.Join(outputDir, "maven")
	}
	if req.KeepLast <= 0 && req.KeepDays <= 0 && len(req.Protect) == 0 {
		return PruneResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("retention policy would delete every version; set keep-last, keep-days or protect")
	}
	repo := adapters.NewMavenRepoFileAdapter(repoDir)
	versions, err := repo.ListVersions(ctx)
	if err != nil {
		return PruneResult{}, err
	}
	policy := types.RetentionPolicy{
		KeepLast: req.KeepLast,
		KeepDays: req.KeepDays,
		Protect:  req.Protect,
		DryRun:   req.DryRun,
	}
	plan := BuildPrunePlan(versions, policy, timeNow(s.Clock))
	result := PruneResult{KeepCount: len(plan.Keep), DryRun: policy.DryRun}
	for _, version := range plan.Delete {
		result.Deleted = append(result.Deleted, version.Coordinate())
	}
	if policy.DryRun {
		result.DeleteCount = len(plan.Delete)
		return result, nil
	}
	for _, version := range plan.Delete {
		if err := repo.DeleteVersion(ctx, version); err != nil {
			return PruneResult{}, err
		}
		result.DeleteCount++
		log.Ctx(ctx).Info().Str("version", version.Coordinate()).Msg("pruned version")
	}
	return result, nil
}

func timeNow(clock func() time.Time) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock().UTC()
}
