package adapters

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ndkports/internal/ports"
	"ndkports/internal/types"
)

const androidManifestTemplate = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android"
    package="%s"
    android:versionCode="1"
    android:versionName="1.0">
    <uses-sdk android:minSdkVersion="%d" />
</manifest>
`

// aarModTime pins every entry's timestamp so identical inputs produce
// identical archives.
var aarModTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// AarArchiveAdapter zips the manifest, the prefab tree, the license and an
// empty classes.jar into an AAR.
type AarArchiveAdapter struct{}

func NewAarArchiveAdapter() AarArchiveAdapter {
	return AarArchiveAdapter{}
}

func (a AarArchiveAdapter) WriteAAR(ctx context.Context, layout types.AarLayout) error {
	if layout.Path == "" || layout.PackageName == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("aar path and package name are required")
	}
	if info, err := os.Stat(layout.PrefabDir); err != nil || !info.IsDir() {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("prefab directory not found: %s", layout.PrefabDir))
	}
	if err := os.MkdirAll(filepath.Dir(layout.Path), 0o755); err != nil {
		return archiveError("failed to create aar directory", err)
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	manifest := fmt.Sprintf(androidManifestTemplate, layout.PackageName, layout.MinSdk)
	if err := writeZipEntry(w, "AndroidManifest.xml", bytes.NewReader([]byte(manifest))); err != nil {
		return err
	}
	classes, err := emptyJar()
	if err != nil {
		return err
	}
	if err := writeZipEntry(w, "classes.jar", bytes.NewReader(classes)); err != nil {
		return err
	}
	if layout.LicenseFile != "" {
		license, err := os.Open(layout.LicenseFile)
		if err != nil {
			return archiveError("failed to open license file", err)
		}
		err = writeZipEntry(w, "META-INF/LICENSE", license)
		license.Close()
		if err != nil {
			return err
		}
	}
	if err := zipTree(ctx, w, layout.PrefabDir, "prefab"); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return archiveError("failed to finish aar", err)
	}
	if err := os.WriteFile(layout.Path, buf.Bytes(), 0o644); err != nil {
		return archiveError("failed to write aar", err)
	}
	return nil
}

// zipTree adds every regular file under root with its path prefixed by
// prefix. WalkDir visits entries in lexical order.
func zipTree(ctx context.Context, w *zip.Writer, root string, prefix string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return archiveError("failed to walk prefab tree", err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return archiveError("failed to resolve prefab path", err)
		}
		file, err := os.Open(path)
		if err != nil {
			return archiveError("failed to open prefab file", err)
		}
		defer file.Close()
		return writeZipEntry(w, prefix+"/"+filepath.ToSlash(rel), file)
	})
}

func writeZipEntry(w *zip.Writer, name string, r io.Reader) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: aarModTime,
	}
	header.SetMode(0o644)
	writer, err := w.CreateHeader(header)
	if err != nil {
		return archiveError(fmt.Sprintf("failed to add %s", name), err)
	}
	if _, err := io.Copy(writer, r); err != nil {
		return archiveError(fmt.Sprintf("failed to write %s", name), err)
	}
	return nil
}

// emptyJar is a jar with no entries, standing in for compiled classes.
func emptyJar() ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	if err := w.Close(); err != nil {
		return nil, archiveError("failed to build classes.jar", err)
	}
	return buf.Bytes(), nil
}

func archiveError(msg string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(msg).
		WithCause(err)
}

var _ ports.ArchivePort = AarArchiveAdapter{}
