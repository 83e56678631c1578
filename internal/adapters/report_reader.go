package adapters

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ndkports/internal/ports"
	"ndkports/internal/types"
)

type ReportReaderAdapter struct{}

func NewReportReaderAdapter() ReportReaderAdapter {
	return ReportReaderAdapter{}
}

// ReadRunReport parses a build.report. The schedule order is rebuilt from
// the first line of each port; failure messages come back as Reason.
func (a ReportReaderAdapter) ReadRunReport(path string) (types.RunReport, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return types.RunReport{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("%s not found", RunReportFile)).
			WithCause(err)
	}
	report := types.RunReport{}
	seen := map[string]bool{}
	for n, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, ",", 6)
		if len(parts) != 6 {
			return types.RunReport{}, invalidRecord(RunReportFile, n+1)
		}
		api, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return types.RunReport{}, invalidRecord(RunReportFile, n+1)
		}
		millis, err := strconv.ParseInt(strings.TrimSpace(parts[4]), 10, 64)
		if err != nil {
			return types.RunReport{}, invalidRecord(RunReportFile, n+1)
		}
		status := types.PairStatus(strings.TrimSpace(parts[3]))
		switch status {
		case types.PairStatusSucceeded, types.PairStatusFailed, types.PairStatusSkipped:
		default:
			return types.RunReport{}, invalidRecord(RunReportFile, n+1)
		}
		port := strings.TrimSpace(parts[0])
		if !seen[port] {
			seen[port] = true
			report.Order = append(report.Order, port)
		}
		report.Pairs = append(report.Pairs, types.PairResult{
			Port:     port,
			Abi:      strings.TrimSpace(parts[1]),
			API:      api,
			Status:   status,
			Reason:   strings.TrimSpace(parts[5]),
			Duration: time.Duration(millis) * time.Millisecond,
		})
	}
	return report, nil
}

func (a ReportReaderAdapter) ReadArtifactManifest(path string) ([]types.PackageArtifacts, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("%s not found", ArtifactManifestFile)).
			WithCause(err)
	}
	var artifacts []types.PackageArtifacts
	for n, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 4 {
			return nil, invalidRecord(ArtifactManifestFile, n+1)
		}
		artifacts = append(artifacts, types.PackageArtifacts{
			Port:      strings.TrimSpace(parts[0]),
			PrefabDir: strings.TrimSpace(parts[1]),
			AarPath:   strings.TrimSpace(parts[2]),
			PomPath:   strings.TrimSpace(parts[3]),
		})
	}
	return artifacts, nil
}

func invalidRecord(file string, line int) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid %s format at line %d", file, line))
}

var _ ports.ReportReaderPort = ReportReaderAdapter{}
