package types

// MavenArtifact is one versioned artifact and the files uploaded for it.
type MavenArtifact struct {
	GroupID    string
	ArtifactID string
	Version    string
	Files      []string
}
