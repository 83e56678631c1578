package adapters

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ndkports/internal/ports"
	"ndkports/internal/types"
)

const (
	pomNamespace      = "http://maven.apache.org/POM/4.0.0"
	pomXSINamespace   = "http://www.w3.org/2001/XMLSchema-instance"
	pomSchemaLocation = "http://maven.apache.org/POM/4.0.0 http://maven.apache.org/xsd/maven-4.0.0.xsd"
	pomDeveloperName  = "The Android Open Source Project"
)

type PomXMLAdapter struct{}

func NewPomXMLAdapter() PomXMLAdapter {
	return PomXMLAdapter{}
}

type pomProject struct {
	XMLName        xml.Name        `xml:"project"`
	Xmlns          string          `xml:"xmlns,attr"`
	XmlnsXSI       string          `xml:"xmlns:xsi,attr"`
	SchemaLocation string          `xml:"xsi:schemaLocation,attr"`
	ModelVersion   string          `xml:"modelVersion"`
	GroupID        string          `xml:"groupId"`
	ArtifactID     string          `xml:"artifactId"`
	Version        string          `xml:"version"`
	Packaging      string          `xml:"packaging"`
	Name           string          `xml:"name"`
	Description    string          `xml:"description"`
	URL            string          `xml:"url"`
	Licenses       []pomLicense    `xml:"licenses>license"`
	Developers     []pomDeveloper  `xml:"developers>developer"`
	SCM            pomSCM          `xml:"scm"`
	Dependencies   []pomDependency `xml:"dependencies>dependency,omitempty"`
}

type pomLicense struct {
	Name         string `xml:"name"`
	URL          string `xml:"url"`
	Distribution string `xml:"distribution"`
}

type pomDeveloper struct {
	Name string `xml:"name"`
}

type pomSCM struct {
	URL        string `xml:"url"`
	Connection string `xml:"connection"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Type       string `xml:"type"`
}

func (a PomXMLAdapter) WritePom(path string, doc types.PomDocument) error {
	if strings.TrimSpace(doc.ArtifactID) == "" || strings.TrimSpace(doc.Version) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("pom requires artifact id and version")
	}
	project := pomProject{
		Xmlns:          pomNamespace,
		XmlnsXSI:       pomXSINamespace,
		SchemaLocation: pomSchemaLocation,
		ModelVersion:   "4.0.0",
		GroupID:        doc.GroupID,
		ArtifactID:     doc.ArtifactID,
		Version:        doc.Version,
		Packaging:      "aar",
		Name:           doc.Name,
		Description:    doc.Description,
		URL:            doc.URL,
		Licenses: []pomLicense{{
			Name:         doc.License.Name,
			URL:          doc.License.URL,
			Distribution: "repo",
		}},
		Developers: []pomDeveloper{{Name: pomDeveloperName}},
		SCM: pomSCM{
			URL:        doc.URL,
			Connection: "scm:git:" + doc.URL,
		},
	}
	for _, dep := range doc.Dependencies {
		project.Dependencies = append(project.Dependencies, pomDependency{
			GroupID:    dep.GroupID,
			ArtifactID: dep.ArtifactID,
			Version:    dep.Version,
			Type:       "aar",
		})
	}

	data, err := xml.MarshalIndent(project, "", "  ")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode pom").
			WithCause(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create pom directory").
			WithCause(err)
	}
	out := append([]byte(xml.Header), data...)
	out = append(out, '\n')
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write pom").
			WithCause(err)
	}
	return nil
}

// ReadPom reads back the coordinates, license and dependencies of a pom.
func (a PomXMLAdapter) ReadPom(path string) (types.PomDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.PomDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("pom not found").
			WithCause(err)
	}
	var project pomProject
	if err := xml.Unmarshal(data, &project); err != nil {
		return types.PomDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse pom " + filepath.Base(path)).
			WithCause(err)
	}
	doc := types.PomDocument{
		GroupID:     strings.TrimSpace(project.GroupID),
		ArtifactID:  strings.TrimSpace(project.ArtifactID),
		Version:     strings.TrimSpace(project.Version),
		Name:        project.Name,
		Description: project.Description,
		URL:         project.URL,
	}
	if len(project.Licenses) > 0 {
		doc.License = types.License{Name: project.Licenses[0].Name, URL: project.Licenses[0].URL}
	}
	for _, dep := range project.Dependencies {
		doc.Dependencies = append(doc.Dependencies, types.PomDependency{
			GroupID:    dep.GroupID,
			ArtifactID: dep.ArtifactID,
			Version:    dep.Version,
		})
	}
	if doc.GroupID == "" || doc.ArtifactID == "" || doc.Version == "" {
		return types.PomDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("pom " + filepath.Base(path) + " is missing maven coordinates")
	}
	return doc, nil
}

var _ ports.PomPort = PomXMLAdapter{}
