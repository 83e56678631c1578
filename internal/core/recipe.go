package core

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ndkports/internal/ports"
	"ndkports/internal/types"
)

// Recipe is the build definition of one third-party library. Stage
// behavior is supplied by optionally implementing Extractor, Configurer,
// Builder and Installer; a missing configure, build or install stage
// succeeds without doing anything.
type Recipe interface {
	Spec() types.PortSpec
}

// Extractor replaces the default archive extraction. archive is empty when
// the port has no source URL.
type Extractor interface {
	Extract(ctx context.Context, bc *BuildContext, archive string) error
}

type Configurer interface {
	Configure(ctx context.Context, bc *BuildContext) error
}

type Builder interface {
	Build(ctx context.Context, bc *BuildContext) error
}

type Installer interface {
	Install(ctx context.Context, bc *BuildContext) error
}

// RecipeLookup finds recipes by name.
type RecipeLookup interface {
	Lookup(name string) (Recipe, bool)
}

// BuildContext carries everything one (port, abi) pipeline needs.
type BuildContext struct {
	Toolchain  Toolchain
	WorkingDir string
	SourceDir  string
	BuildDir   string
	InstallDir string
	// Jobs is the parallelism handed to the underlying build tool.
	Jobs           int
	ProcessTimeout time.Duration
	Process        ports.ProcessPort
}

// NewBuildContext lays out the directories for name under outputDir.
func NewBuildContext(outputDir string, name string, toolchain Toolchain) *BuildContext {
	workingDir := filepath.Join(outputDir, name)
	return &BuildContext{
		Toolchain:  toolchain,
		WorkingDir: workingDir,
		SourceDir:  filepath.Join(workingDir, "src"),
		BuildDir:   filepath.Join(workingDir, "build", toolchain.Abi.Name),
		InstallDir: InstallDirForPort(name, workingDir, toolchain),
		Jobs:       1,
	}
}

// InstallDirFor is the install directory of another port for this ABI.
func (bc *BuildContext) InstallDirFor(name string) string {
	return InstallDirForPort(name, bc.WorkingDir, bc.Toolchain)
}

// InstalledMarker is written into an install directory once the install
// stage and the artifact check of that port succeeded for the ABI.
const InstalledMarker = ".ndkports-installed"

// RequireInstalled fails unless name completed its install stage for this
// ABI. An install directory left behind by a failed run does not count.
func (bc *BuildContext) RequireInstalled(name string, requiredBy string) error {
	marker := filepath.Join(bc.InstallDirFor(name), InstalledMarker)
	if info, err := os.Stat(marker); err == nil && !info.IsDir() {
		return nil
	}
	return &types.UnresolvedDependencyError{Name: name, RequiredBy: requiredBy, Abi: bc.Toolchain.Abi.Name}
}

// Exec runs a tool with the toolchain environment overlaid by env.
func (bc *BuildContext) Exec(ctx context.Context, dir string, args []string, env map[string]string) error {
	if bc.Process == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("no process runner configured")
	}
	merged := bc.Toolchain.Env()
	for key, value := range env {
		merged[key] = value
	}
	return bc.Process.Run(ctx, ports.ProcessRequest{
		Args:       args,
		Dir:        dir,
		Env:        merged,
		PathPrefix: bc.Toolchain.SearchPath(),
		Timeout:    bc.ProcessTimeout,
	})
}
