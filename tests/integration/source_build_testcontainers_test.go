//go:build integration

package integration

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"ndkports/internal/app"
	"ndkports/tests/testutil"
)

// fakeNdkBuild stands in for ndk-build: it drops libfoo.so into
// local/<APP_ABI> under the working directory.
const fakeNdkBuild = `#!/bin/sh
for arg in "$@"; do
  case "$arg" in
    APP_ABI=*) abi="${arg#APP_ABI=}" ;;
  esac
done
mkdir -p "local/$abi"
printf 'ELF' > "local/$abi/libfoo.so"
`

const fooRecipe = `api_version: ndkports/v1
name: foo
version: 1.2.3b
license:
  name: MIT
  url: https://opensource.org/licenses/MIT
source:
  url: %s/foo-1.2.3b.tar.gz
  sha256: %s
modules:
  - name: foo
build:
  system: ndk-build
  android_mk: Android.mk
  headers:
    - include
`

func TestBuildFromServedSourceWithTestcontainers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers e2e in short mode")
	}
	ctx := t.Context()
	root := t.TempDir()

	archivePath := filepath.Join(root, "foo-1.2.3b.tar.gz")
	require.NoError(t, writeSourceArchive(archivePath))
	sum, err := fileSHA256(archivePath)
	require.NoError(t, err)

	endpoint, cleanup := startSourceServer(ctx, t, archivePath)
	t.Cleanup(cleanup)

	recipesDir := filepath.Join(root, "recipes")
	require.NoError(t, os.MkdirAll(recipesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(recipesDir, "foo.yaml"),
		[]byte(fmt.Sprintf(fooRecipe, endpoint, sum)), 0o644))

	ndk := testutil.FakeNdk(t, "21.4.7075529")
	require.NoError(t, os.WriteFile(filepath.Join(ndk, "ndk-build"), []byte(fakeNdkBuild), 0o755))

	outputDir := filepath.Join(root, "out")
	result, err := app.NewService().Build(ctx, app.BuildRequest{
		Recipes:    []string{"foo"},
		NdkPath:    ndk,
		OutputDir:  outputDir,
		Abis:       []string{"arm64-v8a", "x86_64"},
		MinSdk:     21,
		Workers:    2,
		RecipesDir: recipesDir,
	})
	require.NoError(t, err)
	require.Len(t, result.Artifacts, 1)

	aarPath := filepath.Join(outputDir, "foo", "foo-1.2.3b.aar")
	entries := readZip(t, aarPath)
	assert.Contains(t, entries, "prefab/modules/foo/include/foo.h")
	assert.Contains(t, entries, "prefab/modules/foo/libs/android.arm64-v8a/libfoo.so")
	assert.Contains(t, entries, "prefab/modules/foo/libs/android.x86_64/libfoo.so")
	assert.Contains(t, entries, "META-INF/LICENSE")

	var prefab struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	require.NoError(t, json.Unmarshal(entries["prefab/prefab.json"], &prefab))
	assert.Equal(t, "foo", prefab.Name)
	assert.Equal(t, "1.2.3.2", prefab.Version)

	var abi struct {
		Abi string `json:"abi"`
		API int    `json:"api"`
		Ndk int    `json:"ndk"`
	}
	require.NoError(t, json.Unmarshal(entries["prefab/modules/foo/libs/android.arm64-v8a/abi.json"], &abi))
	assert.Equal(t, "arm64-v8a", abi.Abi)
	assert.Equal(t, 21, abi.API)
	assert.Equal(t, 21, abi.Ndk)
}

func startSourceServer(ctx context.Context, t *testing.T, archivePath string) (string, func()) {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "python:3.12-alpine",
		ExposedPorts: []string{"8080/tcp"},
		Files: []testcontainers.ContainerFile{{
			HostFilePath:      archivePath,
			ContainerFilePath: "/srv/" + filepath.Base(archivePath),
			FileMode:          0o644,
		}},
		Cmd:        []string{"python", "-m", "http.server", "8080", "--directory", "/srv"},
		WaitingFor: wait.ForListeningPort("8080/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "8080/tcp")
	require.NoError(t, err)

	endpoint := fmt.Sprintf("http://%s:%s", host, port.Port())
	cleanup := func() {
		_ = container.Terminate(ctx)
	}
	return endpoint, cleanup
}

func writeSourceArchive(path string) error {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	files := map[string]string{
		"foo-1.2.3b/include/foo.h": "int foo(void);\n",
		"foo-1.2.3b/LICENSE":       "MIT\n",
		"foo-1.2.3b/Android.mk":    "include $(CLEAR_VARS)\n",
	}
	for _, dir := range []string{"foo-1.2.3b/", "foo-1.2.3b/include/"} {
		if err := tw.WriteHeader(&tar.Header{Name: dir, Typeflag: tar.TypeDir, Mode: 0o755}); err != nil {
			return err
		}
	}
	for _, name := range []string{"foo-1.2.3b/include/foo.h", "foo-1.2.3b/LICENSE", "foo-1.2.3b/Android.mk"} {
		body := files[name]
		if err := tw.WriteHeader(&tar.Header{Name: name, Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(body))}); err != nil {
			return err
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			return err
		}
	}
	if err := tw.Close(); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func fileSHA256(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func readZip(t *testing.T, path string) map[string][]byte {
	t.Helper()
	reader, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()
	entries := map[string][]byte{}
	for _, file := range reader.File {
		rc, err := file.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		entries[file.Name] = data
	}
	return entries
}
