package types

import "strings"

const (
	DefaultLicensePath = "LICENSE"
	DefaultGroupID     = "com.android.ndk.thirdparty"
)

type License struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

// Module is one library exported by a port. Its artifact in the install
// tree is lib<name>.so, or lib<name>.a when Static is set.
type Module struct {
	Name           string   `yaml:"name"`
	IncludesPerAbi bool     `yaml:"includes_per_abi"`
	HeaderOnly     bool     `yaml:"header_only"`
	Static         bool     `yaml:"static"`
	Dependencies   []string `yaml:"dependencies"`
}

func (m Module) ArtifactName() string {
	if m.Static {
		return "lib" + m.Name + ".a"
	}
	return "lib" + m.Name + ".so"
}

func (m Module) LibraryName() string {
	return "lib" + m.Name
}

// PortSpec is the static description of one third-party library.
type PortSpec struct {
	Name          string
	Version       string
	PrefabVersion string
	MavenVersion  string
	LicensePath   string
	License       License
	Dependencies  []string
	Modules       []Module
	SourceURL     string
	SourceSHA256  string
}

// EffectiveMavenVersion falls back to Version when no maven version is set.
func (p PortSpec) EffectiveMavenVersion() string {
	if v := strings.TrimSpace(p.MavenVersion); v != "" {
		return v
	}
	return p.Version
}

// EffectivePrefabVersion returns the string the prefab version is parsed from.
func (p PortSpec) EffectivePrefabVersion() string {
	if v := strings.TrimSpace(p.PrefabVersion); v != "" {
		return v
	}
	return p.Version
}

func (p PortSpec) EffectiveLicensePath() string {
	if v := strings.TrimSpace(p.LicensePath); v != "" {
		return v
	}
	return DefaultLicensePath
}

// RecipeFile is the YAML form of a declarative port.
type RecipeFile struct {
	APIVersion    string       `yaml:"api_version"`
	Name          string       `yaml:"name"`
	Version       string       `yaml:"version"`
	PrefabVersion string       `yaml:"prefab_version"`
	MavenVersion  string       `yaml:"maven_version"`
	LicensePath   string       `yaml:"license_path"`
	License       License      `yaml:"license"`
	Source        RecipeSource `yaml:"source"`
	Dependencies  []string     `yaml:"dependencies"`
	Modules       []Module     `yaml:"modules"`
	Build         RecipeBuild  `yaml:"build"`

	// Path is the file the recipe was loaded from.
	Path string `yaml:"-"`
}

type RecipeSource struct {
	URL    string `yaml:"url"`
	SHA256 string `yaml:"sha256"`
}

// RecipeBuild selects a build-system family and its parameters. Argument
// strings are Go templates; see buildsys.Expand for the available helpers.
type RecipeBuild struct {
	System        BuildSystem       `yaml:"system"`
	ConfigureArgs []string          `yaml:"configure_args"`
	BuildArgs     []string          `yaml:"build_args"`
	InstallArgs   []string          `yaml:"install_args"`
	Env           map[string]string `yaml:"env"`
	Generator     string            `yaml:"generator"`
	BuildType     string            `yaml:"build_type"`
	Defines       map[string]string `yaml:"defines"`
	ApplicationMk string            `yaml:"application_mk"`
	AndroidMk     string            `yaml:"android_mk"`
	Headers       []string          `yaml:"headers"`
	Libraries     []string          `yaml:"libraries"`
}

func (r RecipeFile) PortSpec() PortSpec {
	return PortSpec{
		Name:          strings.TrimSpace(r.Name),
		Version:       strings.TrimSpace(r.Version),
		PrefabVersion: r.PrefabVersion,
		MavenVersion:  r.MavenVersion,
		LicensePath:   r.LicensePath,
		License:       r.License,
		Dependencies:  append([]string(nil), r.Dependencies...),
		Modules:       append([]Module(nil), r.Modules...),
		SourceURL:     strings.TrimSpace(r.Source.URL),
		SourceSHA256:  strings.TrimSpace(r.Source.SHA256),
	}
}
