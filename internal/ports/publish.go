package ports

import (
	"context"

	"ndkports/internal/types"
)

// MavenRepoPort stores artifacts under the standard maven repository
// layout.
type MavenRepoPort interface {
	Publish(ctx context.Context, artifacts []types.MavenArtifact) error
}

// MavenRepoAdminPort lists and removes released versions.
type MavenRepoAdminPort interface {
	ListVersions(ctx context.Context) ([]types.MavenVersion, error)
	DeleteVersion(ctx context.Context, version types.MavenVersion) error
}
