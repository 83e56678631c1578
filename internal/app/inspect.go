package app

import (
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ndkports/internal/adapters"
	"ndkports/internal/types"
)

// Inspect summarizes the records left in an output directory by the last
// build and package runs.
func (s Service) Inspect(req InspectRequest) (InspectResult, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	report, err := s.Reports.ReadRunReport(filepath.Join(outputDir, adapters.RunReportFile))
	if err != nil {
		return InspectResult{}, err
	}
	aars := map[string]string{}
	artifacts, err := s.Reports.ReadArtifactManifest(filepath.Join(outputDir, adapters.ArtifactManifestFile))
	packaged := err == nil
	if err != nil && errbuilder.CodeOf(err) != errbuilder.CodeNotFound {
		return InspectResult{}, err
	}
	for _, artifact := range artifacts {
		aars[artifact.Port] = artifact.AarPath
	}

	summaries := map[string]*PortSummary{}
	for _, name := range report.Order {
		summaries[name] = &PortSummary{Name: name, AarPath: aars[name]}
	}
	for _, pair := range report.Pairs {
		summary := summaries[pair.Port]
		switch pair.Status {
		case types.PairStatusSucceeded:
			summary.Succeeded = append(summary.Succeeded, pair.Abi)
		case types.PairStatusFailed:
			summary.Failed = append(summary.Failed, pair.Abi)
		case types.PairStatusSkipped:
			summary.Skipped = append(summary.Skipped, pair.Abi)
		}
	}
	result := InspectResult{Order: report.Order, Pairs: report.Pairs, Packaged: packaged}
	for _, name := range report.Order {
		result.Ports = append(result.Ports, *summaries[name])
	}
	return result, nil
}
