package adapters

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ndkports/internal/ports"
	"ndkports/internal/shared"
	"ndkports/internal/types"
)

// MavenRepoFileAdapter publishes into a maven repository on the local
// filesystem. Released versions are immutable: publishing a file that
// already exists with different content fails.
type MavenRepoFileAdapter struct {
	Dir string
}

func NewMavenRepoFileAdapter(dir string) MavenRepoFileAdapter {
	return MavenRepoFileAdapter{Dir: dir}
}

func (a MavenRepoFileAdapter) Publish(ctx context.Context, artifacts []types.MavenArtifact) error {
	if strings.TrimSpace(a.Dir) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("maven repository directory is empty")
	}
	for _, artifact := range artifacts {
		if err := ctx.Err(); err != nil {
			return err
		}
		dir, err := mavenArtifactPath(artifact)
		if err != nil {
			return err
		}
		targetDir := filepath.Join(a.Dir, filepath.FromSlash(dir))
		for _, file := range artifact.Files {
			if err := publishLocalFile(file, filepath.Join(targetDir, filepath.Base(file))); err != nil {
				return err
			}
		}
		if err := refreshMavenMetadata(filepath.Dir(targetDir), artifact.GroupID, artifact.ArtifactID, time.Now()); err != nil {
			return err
		}
	}
	return nil
}

func publishLocalFile(src string, dst string) error {
	sum, err := fileSHA1(src)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("failed to read artifact %s", filepath.Base(src))).
			WithCause(err)
	}
	if existing, err := fileSHA1(dst); err == nil {
		if existing == sum {
			return nil
		}
		return errbuilder.New().
			WithCode(errbuilder.CodeAlreadyExists).
			WithMsg(fmt.Sprintf("%s already published with different content", filepath.Base(dst)))
	}
	if err := shared.CopyFile(src, dst); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to publish %s", filepath.Base(dst))).
			WithCause(err)
	}
	if err := os.WriteFile(dst+".sha1", []byte(sum+"\n"), 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to write checksum for %s", filepath.Base(dst))).
			WithCause(err)
	}
	return nil
}

// mavenArtifactPath is <group as path>/<artifact>/<version>, slash
// separated.
func mavenArtifactPath(artifact types.MavenArtifact) (string, error) {
	group := strings.TrimSpace(artifact.GroupID)
	id := strings.TrimSpace(artifact.ArtifactID)
	version := strings.TrimSpace(artifact.Version)
	if group == "" || id == "" || version == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("maven coordinates are incomplete")
	}
	for _, part := range append(strings.Split(group, "."), id, version) {
		if part == "" || part == ".." || strings.ContainsAny(part, `/\`) {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid maven coordinates %s:%s:%s", group, id, version))
		}
	}
	return path.Join(strings.ReplaceAll(group, ".", "/"), id, version), nil
}

func fileSHA1(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	hash := sha1.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

var _ ports.MavenRepoPort = MavenRepoFileAdapter{}

// ListVersions returns every version directory holding a pom. The
// directory's modification time stands in for the publication time.
func (a MavenRepoFileAdapter) ListVersions(ctx context.Context) ([]types.MavenVersion, error) {
	root := strings.TrimSpace(a.Dir)
	if root == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("maven repository directory is empty")
	}
	var versions []types.MavenVersion
	err := filepath.WalkDir(root, func(current string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(d.Name()) != ".pom" {
			return nil
		}
		versionDir := filepath.Dir(current)
		rel, err := filepath.Rel(root, versionDir)
		if err != nil {
			return err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) < 3 {
			return nil
		}
		info, err := os.Stat(versionDir)
		if err != nil {
			return err
		}
		versions = append(versions, types.MavenVersion{
			GroupID:     strings.Join(parts[:len(parts)-2], "."),
			ArtifactID:  parts[len(parts)-2],
			Version:     parts[len(parts)-1],
			PublishedAt: info.ModTime().UTC(),
		})
		return filepath.SkipDir
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to scan maven repository").
			WithCause(err)
	}
	return versions, nil
}

func (a MavenRepoFileAdapter) DeleteVersion(ctx context.Context, version types.MavenVersion) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir, err := mavenArtifactPath(types.MavenArtifact{
		GroupID:    version.GroupID,
		ArtifactID: version.ArtifactID,
		Version:    version.Version,
	})
	if err != nil {
		return err
	}
	versionDir := filepath.Join(a.Dir, filepath.FromSlash(dir))
	if err := os.RemoveAll(versionDir); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to delete " + version.Coordinate()).
			WithCause(err)
	}
	return refreshMavenMetadata(filepath.Dir(versionDir), version.GroupID, version.ArtifactID, time.Now())
}

var _ ports.MavenRepoAdminPort = MavenRepoFileAdapter{}
