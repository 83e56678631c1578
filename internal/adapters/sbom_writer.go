package adapters

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ndkports/internal/ports"
	"ndkports/internal/types"
)

const (
	SBOMFile             = "ndkports.sbom.json"
	DefaultSBOMNamespace = "https://android.googlesource.com/platform/tools/ndkports/spdx"
)

// SBOMWriterAdapter writes an SPDX 2.3 document describing the packaged
// ports and the dependency edges between them.
type SBOMWriterAdapter struct {
	NamespaceBase string
}

func NewSBOMWriterAdapter() SBOMWriterAdapter {
	return SBOMWriterAdapter{NamespaceBase: DefaultSBOMNamespace}
}

func (a SBOMWriterAdapter) namespaceBase() string {
	if base := strings.TrimRight(strings.TrimSpace(a.NamespaceBase), "/"); base != "" {
		return base
	}
	return DefaultSBOMNamespace
}

type spdxCreationInfo struct {
	Created  string   `json:"created"`
	Creators []string `json:"creators"`
}

type spdxPackage struct {
	SPDXID           string         `json:"SPDXID"`
	Name             string         `json:"name"`
	VersionInfo      string         `json:"versionInfo"`
	DownloadLocation string         `json:"downloadLocation"`
	LicenseConcluded string         `json:"licenseConcluded"`
	LicenseDeclared  string         `json:"licenseDeclared"`
	LicenseComments  string         `json:"licenseComments,omitempty"`
	Supplier         string         `json:"supplier"`
	Checksums        []spdxChecksum `json:"checksums,omitempty"`
}

type spdxChecksum struct {
	Algorithm string `json:"algorithm"`
	Value     string `json:"checksumValue"`
}

type spdxRelationship struct {
	SpdxElementID      string `json:"spdxElementId"`
	RelationshipType   string `json:"relationshipType"`
	RelatedSpdxElement string `json:"relatedSpdxElement"`
}

type spdxDocument struct {
	SPDXVersion       string             `json:"SPDXVersion"`
	DataLicense       string             `json:"dataLicense"`
	SPDXID            string             `json:"SPDXID"`
	Name              string             `json:"name"`
	DocumentNamespace string             `json:"documentNamespace"`
	CreationInfo      spdxCreationInfo   `json:"creationInfo"`
	Packages          []spdxPackage      `json:"packages"`
	Relationships     []spdxRelationship `json:"relationships"`
	DocumentDescribes []string           `json:"documentDescribes"`
}

// WriteSBOM writes outputDir/ndkports.sbom.json. License names are free
// text in recipes, so they land in licenseComments and the SPDX license
// fields stay NOASSERTION.
func (a SBOMWriterAdapter) WriteSBOM(outputDir string, createdAt string, specs []types.PortSpec) error {
	if strings.TrimSpace(outputDir) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is empty")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	ordered := append([]types.PortSpec(nil), specs...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Name < ordered[j].Name
	})
	created := strings.TrimSpace(createdAt)
	if created == "" {
		created = time.Now().UTC().Format(time.RFC3339)
	}

	ids := map[string]string{}
	for _, spec := range ordered {
		ids[spec.Name] = spdxPackageID(spec.Name, spec.Version)
	}
	names := make([]string, 0, len(ordered))
	for _, spec := range ordered {
		names = append(names, spec.Name)
	}
	seed := strings.Join(names, ",") + "@" + created
	hash := sha256.Sum256([]byte(seed))

	doc := spdxDocument{
		SPDXVersion:       "SPDX-2.3",
		DataLicense:       "CC0-1.0",
		SPDXID:            "SPDXRef-DOCUMENT",
		Name:              fmt.Sprintf("ndkports %s", strings.Join(names, " ")),
		DocumentNamespace: fmt.Sprintf("%s/%s", a.namespaceBase(), hex.EncodeToString(hash[:8])),
		CreationInfo: spdxCreationInfo{
			Created:  created,
			Creators: []string{"Tool: ndkports"},
		},
		Packages:          []spdxPackage{},
		Relationships:     []spdxRelationship{},
		DocumentDescribes: []string{},
	}
	for _, spec := range ordered {
		id := ids[spec.Name]
		pkg := spdxPackage{
			SPDXID:           id,
			Name:             spec.Name,
			VersionInfo:      spec.Version,
			DownloadLocation: "NOASSERTION",
			LicenseConcluded: "NOASSERTION",
			LicenseDeclared:  "NOASSERTION",
			Supplier:         "NOASSERTION",
		}
		if spec.SourceURL != "" {
			pkg.DownloadLocation = spec.SourceURL
		}
		if spec.License.Name != "" {
			pkg.LicenseComments = spec.License.Name
		}
		if spec.SourceSHA256 != "" {
			pkg.Checksums = []spdxChecksum{{Algorithm: "SHA256", Value: strings.ToLower(spec.SourceSHA256)}}
		}
		doc.Packages = append(doc.Packages, pkg)
		doc.DocumentDescribes = append(doc.DocumentDescribes, id)
		doc.Relationships = append(doc.Relationships, spdxRelationship{
			SpdxElementID:      "SPDXRef-DOCUMENT",
			RelationshipType:   "DESCRIBES",
			RelatedSpdxElement: id,
		})
		for _, dep := range spec.Dependencies {
			depID, ok := ids[dep]
			if !ok {
				continue
			}
			doc.Relationships = append(doc.Relationships, spdxRelationship{
				SpdxElementID:      id,
				RelationshipType:   "DEPENDS_ON",
				RelatedSpdxElement: depID,
			})
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to marshal sbom payload").
			WithCause(err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, SBOMFile), data, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write sbom file").
			WithCause(err)
	}
	return nil
}

func spdxPackageID(name string, version string) string {
	seed := fmt.Sprintf("%s@%s", name, version)
	hash := sha256.Sum256([]byte(seed))
	return "SPDXRef-Package-" + hex.EncodeToString(hash[:8])
}

var _ ports.SBOMPort = SBOMWriterAdapter{}
