package types

import "time"

// MavenVersion is one released version directory in a maven repository.
type MavenVersion struct {
	GroupID     string
	ArtifactID  string
	Version     string
	PublishedAt time.Time
}

func (v MavenVersion) Coordinate() string {
	return v.GroupID + ":" + v.ArtifactID + ":" + v.Version
}

// RetentionPolicy selects the versions a prune keeps. A version is kept
// when any rule matches it.
type RetentionPolicy struct {
	KeepLast int
	KeepDays int
	// Protect lists artifact ids, or artifact:version pairs, that are
	// never pruned.
	Protect []string
	DryRun  bool
}

type PrunePlan struct {
	Keep   []MavenVersion
	Delete []MavenVersion
}
