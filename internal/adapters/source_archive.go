package adapters

import (
	"archive/tar"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/ulikunitz/xz"

	"ndkports/internal/ports"
)

// SourceAdapter fetches source archives and unpacks them with the
// equivalent of tar --strip-components=1.
type SourceAdapter struct {
	HTTP httpRetryConfig
}

func NewSourceAdapter() SourceAdapter {
	return SourceAdapter{HTTP: normalizeHTTPConfig(0, 0, 0)}
}

// NewSourceAdapterWithRetry sets the download timeout in seconds, retry
// count and base retry delay in milliseconds. Zero keeps the default.
func NewSourceAdapterWithRetry(timeoutSec int, retries int, delayMs int) SourceAdapter {
	return SourceAdapter{HTTP: normalizeHTTPConfig(timeoutSec, retries, delayMs)}
}

func (a SourceAdapter) Extract(ctx context.Context, archive string, destDir string) error {
	file, err := os.Open(archive)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("source archive not found").
			WithCause(err)
	}
	defer file.Close()

	reader, err := decompressor(archive, file)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create source directory").
			WithCause(err)
	}

	root, err := filepath.EvalSymlinks(destDir)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to resolve source directory").
			WithCause(err)
	}

	files := 0
	tr := tar.NewReader(reader)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read source archive").
				WithCause(err)
		}
		rel, ok := stripFirstComponent(header.Name)
		if !ok {
			continue
		}
		target := filepath.Join(destDir, rel)
		if !withinDir(destDir, target) {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("archive entry escapes source directory: %s", header.Name))
		}
		if err := checkEntryTarget(root, destDir, header, target); err != nil {
			return err
		}
		if err := writeTarEntry(tr, header, destDir, target); err != nil {
			return err
		}
		if header.Typeflag == tar.TypeReg {
			files++
		}
	}
	log.Ctx(ctx).Debug().Str("archive", archive).Int("files", files).Msg("extracted source")
	return nil
}

func decompressor(name string, r io.Reader) (io.Reader, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to open gzip archive").
				WithCause(err)
		}
		return gz, nil
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to open xz archive").
				WithCause(err)
		}
		return xr, nil
	case strings.HasSuffix(lower, ".tar.bz2"), strings.HasSuffix(lower, ".tbz2"):
		return bzip2.NewReader(r), nil
	case strings.HasSuffix(lower, ".tar"):
		return r, nil
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported archive format: %s", filepath.Base(name)))
	}
}

// stripFirstComponent drops the archive's wrapping directory. Entries
// without a second component are skipped.
func stripFirstComponent(name string) (string, bool) {
	clean := strings.TrimPrefix(filepath.ToSlash(name), "./")
	_, rest, ok := strings.Cut(clean, "/")
	rest = strings.Trim(rest, "/")
	if !ok || rest == "" {
		return "", false
	}
	return filepath.FromSlash(rest), true
}

func withinDir(dir string, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// resolvesWithin follows the symlinks of the deepest existing ancestor of
// path and reports whether the result lies inside root. root must already
// be a resolved path.
func resolvesWithin(root string, path string) (bool, error) {
	existing := path
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			break
		}
		existing = parent
	}
	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return false, err
	}
	return withinDir(root, resolved), nil
}

func escapeError(header *tar.Header) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("archive entry escapes source directory: %s", header.Name))
}

// checkEntryTarget rejects entries that would be written through a symlink
// leading out of the source tree, and link entries pointing out of it.
func checkEntryTarget(root string, destDir string, header *tar.Header, target string) error {
	check := filepath.Dir(target)
	if header.Typeflag == tar.TypeDir {
		check = target
	}
	ok, err := resolvesWithin(root, check)
	if err != nil {
		return extractError(target, err)
	}
	if !ok {
		return escapeError(header)
	}
	switch header.Typeflag {
	case tar.TypeSymlink:
		linkTarget := header.Linkname
		if !filepath.IsAbs(linkTarget) {
			linkTarget = filepath.Join(filepath.Dir(target), linkTarget)
		}
		if !withinDir(destDir, linkTarget) {
			return escapeError(header)
		}
	case tar.TypeLink:
		source, ok := hardLinkSource(destDir, header)
		if !ok {
			return escapeError(header)
		}
		inside, err := resolvesWithin(root, source)
		if err != nil {
			return extractError(target, err)
		}
		if !inside {
			return escapeError(header)
		}
	}
	return nil
}

// hardLinkSource maps a hard link's Linkname, an archive path, onto the
// extracted tree.
func hardLinkSource(destDir string, header *tar.Header) (string, bool) {
	rel, ok := stripFirstComponent(header.Linkname)
	if !ok {
		return "", false
	}
	source := filepath.Join(destDir, rel)
	return source, withinDir(destDir, source)
}

// removeExisting clears a previous entry at target so the new one is never
// written through an old symlink.
func removeExisting(target string) error {
	info, err := os.Lstat(target)
	if err != nil || info.IsDir() {
		return nil
	}
	return os.Remove(target)
}

func writeTarEntry(tr *tar.Reader, header *tar.Header, destDir string, target string) error {
	switch header.Typeflag {
	case tar.TypeDir:
		if err := os.MkdirAll(target, 0o755); err != nil {
			return extractError(target, err)
		}
	case tar.TypeSymlink:
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return extractError(target, err)
		}
		_ = os.Remove(target)
		if err := os.Symlink(header.Linkname, target); err != nil {
			return extractError(target, err)
		}
	case tar.TypeLink:
		source, _ := hardLinkSource(destDir, header)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return extractError(target, err)
		}
		if err := removeExisting(target); err != nil {
			return extractError(target, err)
		}
		if err := os.Link(source, target); err != nil {
			return extractError(target, err)
		}
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return extractError(target, err)
		}
		if err := removeExisting(target); err != nil {
			return extractError(target, err)
		}
		mode := os.FileMode(header.Mode).Perm()
		if mode == 0 {
			mode = 0o644
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
		if err != nil {
			return extractError(target, err)
		}
		written, err := io.Copy(out, tr)
		closeErr := out.Close()
		if err != nil {
			return extractError(target, err)
		}
		if closeErr != nil {
			return extractError(target, closeErr)
		}
		if written != header.Size {
			return extractError(target, fmt.Errorf("size mismatch: expected %d, wrote %d", header.Size, written))
		}
	}
	return nil
}

func extractError(target string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("failed to extract %s", target)).
		WithCause(err)
}

var _ ports.SourcePort = SourceAdapter{}
