package buildsys

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ndkports/internal/core"
	"ndkports/internal/shared"
)

var defaultLibraryPatterns = []string{"lib*.so", "lib*.a"}

// NdkBuild drives ndk-build for one ABI at a time. Makefiles are resolved
// relative to the source directory.
type NdkBuild struct {
	ApplicationMk string
	AndroidMk     string
	// Headers are source-relative directories copied into <install>/include.
	Headers   []string
	BuildArgs []string
	Env       map[string]string
	// Libraries are glob patterns for the outputs copied into <install>/lib.
	Libraries []string
}

// Configure stages public headers. ndk-build has no separate configure step.
func (n NdkBuild) Configure(ctx context.Context, bc *core.BuildContext) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	includeDir := filepath.Join(bc.InstallDir, "include")
	if err := os.MkdirAll(includeDir, 0o755); err != nil {
		return ndkBuildError("failed to create include directory", err)
	}
	for _, header := range n.Headers {
		src := filepath.Join(bc.SourceDir, header)
		if err := shared.CopyTree(src, includeDir); err != nil {
			return ndkBuildError(fmt.Sprintf("failed to copy headers from %s", header), err)
		}
	}
	return nil
}

func (n NdkBuild) Build(ctx context.Context, bc *core.BuildContext) error {
	env, err := ExpandEnv(bc, n.Env)
	if err != nil {
		return err
	}
	extra, err := Expand(bc, n.BuildArgs)
	if err != nil {
		return err
	}
	args := []string{
		bc.Toolchain.NdkBuild(),
		"NDK_PROJECT_PATH=.",
		"APP_ABI=" + bc.Toolchain.Abi.Name,
		"APP_PLATFORM=android-" + strconv.Itoa(bc.Toolchain.API),
		"NDK_ALL_ABIS=" + bc.Toolchain.Abi.Name,
		"NDK_OUT=.",
		"NDK_LIBS_OUT=.",
		jobsArg(bc),
	}
	if n.ApplicationMk != "" {
		args = append(args, "NDK_APPLICATION_MK="+filepath.Join(bc.SourceDir, n.ApplicationMk))
	}
	if n.AndroidMk != "" {
		args = append(args, "APP_BUILD_SCRIPT="+filepath.Join(bc.SourceDir, n.AndroidMk))
	}
	return bc.Exec(ctx, bc.BuildDir, append(args, extra...), env)
}

// Install copies the built libraries out of <build>/local/<abi>.
func (n NdkBuild) Install(ctx context.Context, bc *core.BuildContext) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	patterns := n.Libraries
	if len(patterns) == 0 {
		patterns = defaultLibraryPatterns
	}
	libDir := filepath.Join(bc.InstallDir, "lib")
	if err := os.MkdirAll(libDir, 0o755); err != nil {
		return ndkBuildError("failed to create lib directory", err)
	}
	outDir := filepath.Join(bc.BuildDir, "local", bc.Toolchain.Abi.Name)
	if _, err := shared.CopyMatching(outDir, libDir, patterns); err != nil {
		return ndkBuildError(fmt.Sprintf("failed to install libraries from %s", outDir), err)
	}
	return nil
}

func ndkBuildError(msg string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(msg).
		WithCause(err)
}
