package types

// PrefabPackage is the in-memory form of a prefab package tree before it
// is written to disk.
type PrefabPackage struct {
	Name          string
	Version       string
	SchemaVersion int
	Dependencies  []string
	Modules       []PrefabModule
}

type PrefabModule struct {
	Name            string
	LibraryName     string
	ExportLibraries []string
	HeaderOnly      bool
	// IncludeDir is copied to modules/<name>/include when set.
	IncludeDir string
	Abis       []PrefabAbi
}

type PrefabAbi struct {
	Abi    string
	API    int
	Ndk    int
	Stl    string
	Static bool
	// Library is the artifact copied into libs/android.<abi>/.
	Library string
	// IncludeDir is copied to libs/android.<abi>/include when set.
	IncludeDir string
}

// PomDocument carries the maven coordinates written to the pom.
type PomDocument struct {
	GroupID      string
	ArtifactID   string
	Version      string
	Name         string
	Description  string
	URL          string
	License      License
	Dependencies []PomDependency
}

type PomDependency struct {
	GroupID    string
	ArtifactID string
	Version    string
}

// AarLayout describes the archive to assemble for one port.
type AarLayout struct {
	Path        string
	PackageName string
	MinSdk      int
	PrefabDir   string
	LicenseFile string
}
