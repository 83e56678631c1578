package ports

import (
	"context"

	"ndkports/internal/types"
)

// PackageTreePort writes a prefab package tree to prefabDir.
type PackageTreePort interface {
	WritePackageTree(ctx context.Context, pkg types.PrefabPackage, prefabDir string) error
}

type PomPort interface {
	WritePom(path string, doc types.PomDocument) error
	ReadPom(path string) (types.PomDocument, error)
}

// ArchivePort assembles the distributable AAR.
type ArchivePort interface {
	WriteAAR(ctx context.Context, layout types.AarLayout) error
}

// NdkInfoPort reads metadata from an NDK installation.
type NdkInfoPort interface {
	MajorVersion(ndkRoot string) (int, error)
}
