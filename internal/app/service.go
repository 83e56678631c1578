package app

import (
	"strings"
	"time"

	"ndkports/internal/adapters"
	"ndkports/internal/ports"
	"ndkports/internal/recipes"
)

type Service struct {
	Process ports.ProcessPort
	Source  ports.SourcePort
	Recipes ports.RecipeFilePort
	Tree    ports.PackageTreePort
	Pom     ports.PomPort
	Archive ports.ArchivePort
	NdkInfo ports.NdkInfoPort
	SBOM    ports.SBOMPort
	Reports ports.ReportReaderPort

	// ReportWriter opens the run record writer for an output directory.
	ReportWriter func(outputDir string) ports.ReportPort

	// MavenRepo overrides the repository chosen by PublishRequest.
	MavenRepo ports.MavenRepoPort
	Clock     func() time.Time
}

func NewService() Service {
	return Service{
		Process:      adapters.NewProcessAdapter(),
		Source:       adapters.NewSourceAdapter(),
		Recipes:      adapters.NewRecipeFileAdapter(),
		Tree:         adapters.NewPrefabTreeAdapter(),
		Pom:          adapters.NewPomXMLAdapter(),
		Archive:      adapters.NewAarArchiveAdapter(),
		NdkInfo:      adapters.NewNdkInfoAdapter(),
		SBOM:         adapters.NewSBOMWriterAdapter(),
		Reports:      adapters.NewReportReaderAdapter(),
		ReportWriter: newReportFileWriter,
	}
}

func newReportFileWriter(outputDir string) ports.ReportPort {
	return adapters.NewReportFileAdapter(outputDir)
}

func (s Service) reportWriter(outputDir string) ports.ReportPort {
	if s.ReportWriter != nil {
		return s.ReportWriter(outputDir)
	}
	return newReportFileWriter(outputDir)
}

// registry returns the built-in recipes plus any recipe files in dir.
func (s Service) registry(dir string) (*recipes.Registry, error) {
	registry := recipes.Builtins()
	if dir = strings.TrimSpace(dir); dir == "" {
		return registry, nil
	}
	if err := registry.LoadDir(s.Recipes, dir); err != nil {
		return nil, err
	}
	return registry, nil
}
