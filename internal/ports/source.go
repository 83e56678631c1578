package ports

import "context"

// SourcePort downloads and unpacks source archives.
type SourcePort interface {
	// Fetch makes the archive at url available under destDir and returns
	// its local path. Local paths are returned unchanged.
	Fetch(ctx context.Context, url string, sha256 string, destDir string) (string, error)
	// Extract unpacks archive into destDir, dropping the single top-level
	// directory.
	Extract(ctx context.Context, archive string, destDir string) error
}
