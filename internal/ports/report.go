package ports

import "ndkports/internal/types"

// ReportPort records the outcome of a run in the output directory.
type ReportPort interface {
	WriteRunReport(report types.RunReport) error
	WriteArtifactManifest(artifacts []types.PackageArtifacts) error
}

type ReportReaderPort interface {
	ReadRunReport(path string) (types.RunReport, error)
	ReadArtifactManifest(path string) ([]types.PackageArtifacts, error)
}
