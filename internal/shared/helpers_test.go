package shared

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFileCreatesParents(t *testing.T) {
	src := filepath.Join(t.TempDir(), "configure")
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\n"), 0o755))
	dst := filepath.Join(t.TempDir(), "a", "b", "configure")

	require.NoError(t, CopyFile(src, dst))
	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestCopyTreeKeepsSymlinks(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "include", "openssl"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "include", "openssl", "ssl.h"), []byte("ssl"), 0o644))
	require.NoError(t, os.Symlink("ssl.h", filepath.Join(src, "include", "openssl", "tls.h")))
	dst := t.TempDir()

	require.NoError(t, CopyTree(src, dst))
	assert.FileExists(t, filepath.Join(dst, "include", "openssl", "ssl.h"))
	link, err := os.Readlink(filepath.Join(dst, "include", "openssl", "tls.h"))
	require.NoError(t, err)
	assert.Equal(t, "ssl.h", link)
}

func TestCopyMatching(t *testing.T) {
	src := t.TempDir()
	for _, name := range []string{"libcrypto.so", "libssl.so", "libssl.a", "README"} {
		require.NoError(t, os.WriteFile(filepath.Join(src, name), []byte(name), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(src, "engines.so"), 0o755))
	dst := t.TempDir()

	copied, err := CopyMatching(src, dst, []string{"*.so", " README "})
	require.NoError(t, err)
	assert.Equal(t, []string{"README", "libcrypto.so", "libssl.so"}, copied)
	assert.NoFileExists(t, filepath.Join(dst, "libssl.a"))
}

func TestHTTPStatusError(t *testing.T) {
	assert.EqualError(t, HTTPStatusError(404, "https://example.com/x.tar.gz"), "status=404 url=https://example.com/x.tar.gz")
}
