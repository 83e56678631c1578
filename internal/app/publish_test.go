package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndkports/internal/types"
)

type recordingRepo struct {
	artifacts []types.MavenArtifact
}

func (r *recordingRepo) Publish(_ context.Context, artifacts []types.MavenArtifact) error {
	r.artifacts = append(r.artifacts, artifacts...)
	return nil
}

func buildForPublish(t *testing.T) (Service, string) {
	t.Helper()
	service, _, ndk := newTestService(t)
	out := t.TempDir()
	_, err := service.Build(t.Context(), BuildRequest{
		Recipes:   []string{"openssl", "curl"},
		NdkPath:   ndk,
		OutputDir: out,
		Abis:      []string{"arm64-v8a"},
		MinSdk:    21,
	})
	require.NoError(t, err)
	return service, out
}

func TestPublishToFileRepository(t *testing.T) {
	service, out := buildForPublish(t)

	result, err := service.Publish(t.Context(), PublishRequest{OutputDir: out})
	require.NoError(t, err)
	want := []string{
		"com.android.ndk.thirdparty:curl:7.66.0",
		"com.android.ndk.thirdparty:openssl:1.1.1g",
	}
	if diff := cmp.Diff(want, result.Published); diff != "" {
		t.Fatalf("unexpected published packages (-want +got):\n%s", diff)
	}

	versionDir := filepath.Join(out, "maven", "com", "android", "ndk", "thirdparty", "curl", "7.66.0")
	assert.FileExists(t, filepath.Join(versionDir, "curl-7.66.0.aar"))
	assert.FileExists(t, filepath.Join(versionDir, "curl-7.66.0.aar.sha1"))
	assert.FileExists(t, filepath.Join(versionDir, "curl-7.66.0.pom"))

	// Publishing the same files again is a no-op.
	_, err = service.Publish(t.Context(), PublishRequest{OutputDir: out})
	require.NoError(t, err)
}

func TestPublishRejectsChangedRelease(t *testing.T) {
	service, out := buildForPublish(t)
	repoDir := t.TempDir()
	_, err := service.Publish(t.Context(), PublishRequest{OutputDir: out, RepoDir: repoDir})
	require.NoError(t, err)

	aar := filepath.Join(out, "openssl", "openssl-1.1.1g.aar")
	require.NoError(t, os.WriteFile(aar, []byte("rebuilt"), 0o644))
	_, err = service.Publish(t.Context(), PublishRequest{OutputDir: out, RepoDir: repoDir})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeAlreadyExists, errbuilder.CodeOf(err))
}

func TestPublishFiltersPorts(t *testing.T) {
	service, out := buildForPublish(t)
	repo := &recordingRepo{}
	service.MavenRepo = repo

	result, err := service.Publish(t.Context(), PublishRequest{OutputDir: out, Ports: []string{"openssl"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"com.android.ndk.thirdparty:openssl:1.1.1g"}, result.Published)
	require.Len(t, repo.artifacts, 1)
	want := types.MavenArtifact{
		GroupID:    "com.android.ndk.thirdparty",
		ArtifactID: "openssl",
		Version:    "1.1.1g",
		Files: []string{
			filepath.Join(out, "openssl", "openssl-1.1.1g.aar"),
			filepath.Join(out, "openssl", "openssl-1.1.1g.pom"),
		},
	}
	if diff := cmp.Diff(want, repo.artifacts[0]); diff != "" {
		t.Fatalf("unexpected artifact (-want +got):\n%s", diff)
	}

	_, err = service.Publish(t.Context(), PublishRequest{OutputDir: out, Ports: []string{"zlib"}})
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestPublishValidation(t *testing.T) {
	tests := []struct {
		name string
		req  PublishRequest
		msg  string
	}{
		{name: "output dir", req: PublishRequest{}, msg: "output directory is required"},
		{name: "backend", req: PublishRequest{OutputDir: "out", RepoBackend: "ftp"}, msg: "unsupported repo backend"},
		{name: "http url", req: PublishRequest{OutputDir: "out", RepoBackend: "http"}, msg: "repo url is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService().Publish(t.Context(), tt.req)
			require.Error(t, err)
			assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestPublishWithoutManifest(t *testing.T) {
	_, err := NewService().Publish(t.Context(), PublishRequest{OutputDir: t.TempDir()})
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}
