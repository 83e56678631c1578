package app

import (
	"sort"
	"strings"
	"time"

	"ndkports/internal/core"
	"ndkports/internal/types"
)

// BuildPrunePlan splits versions into those the policy keeps and those it
// deletes. KeepLast applies per artifact, newest first.
func BuildPrunePlan(versions []types.MavenVersion, policy types.RetentionPolicy, now time.Time) types.PrunePlan {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	normalized := normalizeRetentionPolicy(policy)
	protected := normalizeSet(normalized.Protect)

	keep := map[string]struct{}{}
	grouped := map[string][]types.MavenVersion{}
	for _, version := range versions {
		if isProtected(version, protected) {
			keep[version.Coordinate()] = struct{}{}
		}
		if normalized.KeepDays > 0 && !version.PublishedAt.IsZero() {
			cutoff := now.AddDate(0, 0, -normalized.KeepDays)
			if !version.PublishedAt.Before(cutoff) {
				keep[version.Coordinate()] = struct{}{}
			}
		}
		group := version.GroupID + ":" + version.ArtifactID
		grouped[group] = append(grouped[group], version)
	}

	if normalized.KeepLast > 0 {
		for _, group := range grouped {
			sorted := append([]types.MavenVersion(nil), group...)
			sort.SliceStable(sorted, func(i, j int) bool {
				if !sorted[i].PublishedAt.Equal(sorted[j].PublishedAt) {
					return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
				}
				return newerVersion(sorted[i].Version, sorted[j].Version)
			})
			limit := min(normalized.KeepLast, len(sorted))
			for i := 0; i < limit; i++ {
				keep[sorted[i].Coordinate()] = struct{}{}
			}
		}
	}

	var plan types.PrunePlan
	for _, version := range versions {
		if _, ok := keep[version.Coordinate()]; ok {
			plan.Keep = append(plan.Keep, version)
		} else {
			plan.Delete = append(plan.Delete, version)
		}
	}
	return plan
}

// newerVersion orders versions that share a publication time. Versions
// that parse as CMake versions compare numerically, the rest lexically.
func newerVersion(a string, b string) bool {
	va, errA := core.ParseCMakeVersion(a)
	vb, errB := core.ParseCMakeVersion(b)
	if errA == nil && errB == nil {
		if c := va.Compare(vb); c != 0 {
			return c > 0
		}
	}
	return a > b
}

func normalizeRetentionPolicy(policy types.RetentionPolicy) types.RetentionPolicy {
	normalized := policy
	if normalized.KeepLast < 0 {
		normalized.KeepLast = 0
	}
	if normalized.KeepDays < 0 {
		normalized.KeepDays = 0
	}
	return normalized
}

func normalizeSet(values []string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, value := range values {
		key := strings.ToLower(strings.TrimSpace(value))
		if key == "" {
			continue
		}
		set[key] = struct{}{}
	}
	return set
}

func isProtected(version types.MavenVersion, protected map[string]struct{}) bool {
	artifact := strings.ToLower(version.ArtifactID)
	if _, ok := protected[artifact]; ok {
		return true
	}
	_, ok := protected[artifact+":"+strings.ToLower(version.Version)]
	return ok
}
