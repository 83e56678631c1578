package adapters

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndkports/internal/types"
)

func sampleRunReport() types.RunReport {
	return types.RunReport{
		Order: []string{"openssl", "curl"},
		Pairs: []types.PairResult{
			{Port: "openssl", Abi: "arm64-v8a", API: 21, Status: types.PairStatusSucceeded, Duration: 1500 * time.Millisecond},
			{Port: "openssl", Abi: "x86", API: 16, Status: types.PairStatusFailed, Err: errors.New("make failed,\nexit 2")},
			{Port: "curl", Abi: "arm64-v8a", API: 21, Status: types.PairStatusSkipped, Reason: "run stopped after failure"},
		},
	}
}

func TestReportFileAdapterWritesRunReport(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewReportFileAdapter(dir).WriteRunReport(sampleRunReport()))

	data, err := os.ReadFile(filepath.Join(dir, RunReportFile))
	require.NoError(t, err)
	want := strings.Join([]string{
		"openssl,arm64-v8a,21,succeeded,1500,",
		"openssl,x86,16,failed,0,make failed, exit 2",
		"curl,arm64-v8a,21,skipped,0,run stopped after failure",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Fatalf("unexpected build.report (-want +got):\n%s", diff)
	}
}

func TestReportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewReportFileAdapter(dir).WriteRunReport(sampleRunReport()))

	report, err := NewReportReaderAdapter().ReadRunReport(filepath.Join(dir, RunReportFile))
	require.NoError(t, err)
	assert.Equal(t, []string{"openssl", "curl"}, report.Order)
	require.Len(t, report.Pairs, 3)
	assert.Equal(t, 1500*time.Millisecond, report.Pairs[0].Duration)
	assert.Equal(t, types.PairStatusFailed, report.Pairs[1].Status)
	assert.Equal(t, "make failed, exit 2", report.Pairs[1].Reason)
	assert.Len(t, report.Failed(), 1)
}

func TestReportFileAdapterSortsArtifactManifest(t *testing.T) {
	dir := t.TempDir()
	artifacts := []types.PackageArtifacts{
		{Port: "openssl", PrefabDir: "/out/openssl/aar/prefab", AarPath: "/out/openssl/openssl-1.1.1g.aar", PomPath: "/out/openssl/openssl-1.1.1g.pom"},
		{Port: "curl", PrefabDir: "/out/curl/aar/prefab", AarPath: "/out/curl/curl-7.66.0.aar", PomPath: "/out/curl/curl-7.66.0.pom"},
	}
	require.NoError(t, NewReportFileAdapter(dir).WriteArtifactManifest(artifacts))

	got, err := NewReportReaderAdapter().ReadArtifactManifest(filepath.Join(dir, ArtifactManifestFile))
	require.NoError(t, err)
	want := []types.PackageArtifacts{artifacts[1], artifacts[0]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected manifest (-want +got):\n%s", diff)
	}
}

func TestReportFileAdapterRequiresDir(t *testing.T) {
	err := NewReportFileAdapter(" ").WriteRunReport(types.RunReport{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output directory is empty")
}

func TestReportReaderRejectsMalformedLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "too few fields", content: "openssl,arm64-v8a,21\n"},
		{name: "bad api", content: "openssl,arm64-v8a,new,succeeded,1,\n"},
		{name: "bad duration", content: "openssl,arm64-v8a,21,succeeded,fast,\n"},
		{name: "unknown status", content: "openssl,arm64-v8a,21,done,1,\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), RunReportFile)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := NewReportReaderAdapter().ReadRunReport(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestReportReaderMissingFile(t *testing.T) {
	_, err := NewReportReaderAdapter().ReadArtifactManifest(filepath.Join(t.TempDir(), ArtifactManifestFile))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "artifacts.manifest not found")
}
