package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ndkports/internal/ports"
	"ndkports/internal/types"
)

const (
	RunReportFile        = "build.report"
	ArtifactManifestFile = "artifacts.manifest"
)

// ReportFileAdapter writes run records into an output directory. Both files
// are line oriented with comma separated fields; the last field of a report
// line is free text.
type ReportFileAdapter struct {
	Dir string
}

func NewReportFileAdapter(dir string) ReportFileAdapter {
	return ReportFileAdapter{Dir: dir}
}

// WriteRunReport keeps the schedule order of the pairs:
//
//	port,abi,api,status,duration_ms,reason
func (a ReportFileAdapter) WriteRunReport(report types.RunReport) error {
	path, err := a.ensurePath(RunReportFile)
	if err != nil {
		return err
	}
	var lines []string
	for _, pair := range report.Pairs {
		reason := pair.Reason
		if pair.Err != nil {
			reason = pair.Err.Error()
		}
		lines = append(lines, fmt.Sprintf(
			"%s,%s,%d,%s,%d,%s",
			pair.Port,
			pair.Abi,
			pair.API,
			pair.Status,
			pair.Duration.Milliseconds(),
			singleLine(reason),
		))
	}
	return writeLines(path, lines)
}

// WriteArtifactManifest lists one port per line, sorted by port:
//
//	port,prefab_dir,aar,pom
func (a ReportFileAdapter) WriteArtifactManifest(artifacts []types.PackageArtifacts) error {
	path, err := a.ensurePath(ArtifactManifestFile)
	if err != nil {
		return err
	}
	ordered := append([]types.PackageArtifacts(nil), artifacts...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Port < ordered[j].Port
	})
	var lines []string
	for _, artifact := range ordered {
		lines = append(lines, fmt.Sprintf("%s,%s,%s,%s", artifact.Port, artifact.PrefabDir, artifact.AarPath, artifact.PomPath))
	}
	return writeLines(path, lines)
}

func (a ReportFileAdapter) ensurePath(filename string) (string, error) {
	if strings.TrimSpace(a.Dir) == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is empty")
	}
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	return filepath.Join(a.Dir, filename), nil
}

func writeLines(path string, lines []string) error {
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to write %s", filepath.Base(path))).
			WithCause(err)
	}
	return nil
}

func singleLine(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

var _ ports.ReportPort = ReportFileAdapter{}
