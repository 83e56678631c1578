package app

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"ndkports/internal/types"
)

const thirdParty = "com.android.ndk.thirdparty"

func TestBuildPrunePlanKeepLastPerArtifact(t *testing.T) {
	now := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)
	versions := []types.MavenVersion{
		{GroupID: thirdParty, ArtifactID: "curl", Version: "7.65.0", PublishedAt: now.Add(-2 * time.Hour)},
		{GroupID: thirdParty, ArtifactID: "curl", Version: "7.66.0", PublishedAt: now.Add(-1 * time.Hour)},
		{GroupID: thirdParty, ArtifactID: "openssl", Version: "1.1.1f", PublishedAt: now.Add(-3 * time.Hour)},
		{GroupID: thirdParty, ArtifactID: "openssl", Version: "1.1.1g", PublishedAt: now.Add(-30 * time.Minute)},
	}
	plan := BuildPrunePlan(versions, types.RetentionPolicy{KeepLast: 1}, now)

	require.ElementsMatch(t, []string{"7.66.0", "1.1.1g"}, versionStrings(plan.Keep))
	require.ElementsMatch(t, []string{"7.65.0", "1.1.1f"}, versionStrings(plan.Delete))
}

func TestBuildPrunePlanKeepDays(t *testing.T) {
	now := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)
	versions := []types.MavenVersion{
		{GroupID: thirdParty, ArtifactID: "zlib", Version: "1.2.11", PublishedAt: now.AddDate(0, 0, -1)},
		{GroupID: thirdParty, ArtifactID: "zlib", Version: "1.2.8", PublishedAt: now.AddDate(0, 0, -10)},
	}
	plan := BuildPrunePlan(versions, types.RetentionPolicy{KeepDays: 3}, now)

	require.ElementsMatch(t, []string{"1.2.11"}, versionStrings(plan.Keep))
	require.ElementsMatch(t, []string{"1.2.8"}, versionStrings(plan.Delete))
}

func TestBuildPrunePlanProtect(t *testing.T) {
	now := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -30)
	versions := []types.MavenVersion{
		{GroupID: thirdParty, ArtifactID: "jsoncpp", Version: "1.8.4", PublishedAt: old},
		{GroupID: thirdParty, ArtifactID: "curl", Version: "7.65.0", PublishedAt: old},
		{GroupID: thirdParty, ArtifactID: "curl", Version: "7.64.0", PublishedAt: old},
	}
	policy := types.RetentionPolicy{Protect: []string{"JsonCpp", "curl:7.65.0"}}
	plan := BuildPrunePlan(versions, policy, now)

	require.ElementsMatch(t, []string{"1.8.4", "7.65.0"}, versionStrings(plan.Keep))
	require.ElementsMatch(t, []string{"7.64.0"}, versionStrings(plan.Delete))
}

func TestBuildPrunePlanTieBreaksOnVersion(t *testing.T) {
	now := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)
	same := now.Add(-1 * time.Hour)
	versions := []types.MavenVersion{
		{GroupID: thirdParty, ArtifactID: "openssl", Version: "1.1.1d", PublishedAt: same},
		{GroupID: thirdParty, ArtifactID: "openssl", Version: "1.1.1g", PublishedAt: same},
		{GroupID: thirdParty, ArtifactID: "openssl", Version: "1.1.0l", PublishedAt: same},
	}
	plan := BuildPrunePlan(versions, types.RetentionPolicy{KeepLast: 1}, now)
	if diff := cmp.Diff([]string{"1.1.1g"}, versionStrings(plan.Keep)); diff != "" {
		t.Fatalf("unexpected kept versions (-want +got):\n%s", diff)
	}
}

func versionStrings(items []types.MavenVersion) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Version)
	}
	return out
}
