package adapters

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/ZanzyTHEbar/errbuilder-go"
	mvn "github.com/masahiro331/go-mvn-version"
)

const mavenMetadataFile = "maven-metadata.xml"

type mavenMetadata struct {
	XMLName    xml.Name        `xml:"metadata"`
	GroupID    string          `xml:"groupId"`
	ArtifactID string          `xml:"artifactId"`
	Versioning mavenVersioning `xml:"versioning"`
}

type mavenVersioning struct {
	Latest      string   `xml:"latest"`
	Release     string   `xml:"release,omitempty"`
	Versions    []string `xml:"versions>version"`
	LastUpdated string   `xml:"lastUpdated"`
}

// refreshMavenMetadata rewrites <artifactDir>/maven-metadata.xml from the
// version directories present. The file is removed once no versions are
// left.
func refreshMavenMetadata(artifactDir string, groupID string, artifactID string, now time.Time) error {
	versions, err := listVersionDirs(artifactDir)
	if err != nil {
		return err
	}
	path := filepath.Join(artifactDir, mavenMetadataFile)
	if len(versions) == 0 {
		_ = os.Remove(path)
		_ = os.Remove(path + ".sha1")
		return nil
	}
	sort.Slice(versions, func(i, j int) bool {
		return compareMavenVersions(versions[i], versions[j]) < 0
	})
	newest := versions[len(versions)-1]
	release := ""
	for i := len(versions) - 1; i >= 0; i-- {
		if !isMavenPreRelease(versions[i]) {
			release = versions[i]
			break
		}
	}
	doc := mavenMetadata{
		GroupID:    groupID,
		ArtifactID: artifactID,
		Versioning: mavenVersioning{
			Latest:      newest,
			Release:     release,
			Versions:    versions,
			LastUpdated: now.UTC().Format("20060102150405"),
		},
	}
	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode maven metadata").
			WithCause(err)
	}
	out := append([]byte(xml.Header), data...)
	out = append(out, '\n')
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write maven metadata").
			WithCause(err)
	}
	sum, err := fileSHA1(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to checksum maven metadata").
			WithCause(err)
	}
	if err := os.WriteFile(path+".sha1", []byte(sum+"\n"), 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write maven metadata checksum").
			WithCause(err)
	}
	return nil
}

func listVersionDirs(artifactDir string) ([]string, error) {
	entries, err := os.ReadDir(artifactDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read artifact directory").
			WithCause(err)
	}
	var versions []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		poms, _ := filepath.Glob(filepath.Join(artifactDir, entry.Name(), "*.pom"))
		if len(poms) > 0 {
			versions = append(versions, entry.Name())
		}
	}
	return versions, nil
}

// compareMavenVersions orders versions the way Maven's ComparableVersion
// does: 1.1.10 is newer than 1.1.1g and 7.66.0-alpha-1 precedes 7.66.0.
// Strings it cannot parse fall back to a plain string compare.
func compareMavenVersions(a string, b string) int {
	va, errA := mvn.NewVersion(a)
	vb, errB := mvn.NewVersion(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	switch c := va.Compare(vb); {
	case c < 0:
		return -1
	case c > 0:
		return 1
	default:
		return 0
	}
}

var mavenPreReleaseQualifiers = map[string]struct{}{
	"alpha":     {},
	"beta":      {},
	"milestone": {},
	"rc":        {},
	"cr":        {},
	"snapshot":  {},
	"preview":   {},
}

// isMavenPreRelease reports whether version carries a pre-release
// qualifier. The short forms a, b and m only count when a number follows
// them directly (1.0b2), so OpenSSL style letter releases such as 1.1.1a
// stay releases.
func isMavenPreRelease(version string) bool {
	tokens := splitMavenTokens(strings.ToLower(version))
	for i, token := range tokens {
		if _, ok := mavenPreReleaseQualifiers[token.text]; ok {
			return true
		}
		switch token.text {
		case "a", "b", "m":
			if i+1 < len(tokens) && tokens[i+1].numeric && !tokens[i+1].separated {
				return true
			}
		}
	}
	return false
}

type mavenToken struct {
	text    string
	numeric bool
	// separated is set when a '.' or '-' precedes the token.
	separated bool
}

func splitMavenTokens(version string) []mavenToken {
	var tokens []mavenToken
	var current []rune
	separated := false
	numeric := false
	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, mavenToken{text: string(current), numeric: numeric, separated: separated})
			current = current[:0]
			separated = false
		}
	}
	for _, r := range version {
		if r == '.' || r == '-' || r == '_' {
			flush()
			separated = true
			continue
		}
		digit := unicode.IsDigit(r)
		if len(current) > 0 && digit != numeric {
			flush()
		}
		numeric = digit
		current = append(current, r)
	}
	flush()
	return tokens
}
