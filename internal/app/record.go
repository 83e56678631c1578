package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"ndkports/internal/core"
	"ndkports/internal/types"
)

// recordRun writes build.report into outputDir. A failure here is logged
// and never masks the outcome of the build itself.
func (s Service) recordRun(ctx context.Context, outputDir string, report types.RunReport) {
	if len(report.Pairs) == 0 {
		return
	}
	if err := s.reportWriter(outputDir).WriteRunReport(report); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to write build report")
	}
}

// recordArtifacts writes the artifact manifest and the SBOM for the
// packaged recipes.
func (s Service) recordArtifacts(outputDir string, packaged []core.Recipe, artifacts []types.PackageArtifacts) error {
	if err := s.reportWriter(outputDir).WriteArtifactManifest(artifacts); err != nil {
		return err
	}
	if s.SBOM == nil {
		return nil
	}
	specs := make([]types.PortSpec, 0, len(packaged))
	for _, recipe := range packaged {
		specs = append(specs, recipe.Spec())
	}
	return s.SBOM.WriteSBOM(outputDir, timeNow(s.Clock).Format(time.RFC3339), specs)
}
