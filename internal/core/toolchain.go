package core

import (
	"fmt"
	"path/filepath"
	"runtime"

	"ndkports/internal/types"
)

// Toolchain is the resolved NDK toolchain for one (abi, api) pair.
type Toolchain struct {
	NdkPath string
	Abi     types.Abi
	API     int
	BinDir  string
	Sysroot string
}

// ResolveToolchain only constructs paths; a bad NDK root surfaces later as
// a tool failure.
func ResolveToolchain(ndkRoot string, abi types.Abi, api int) Toolchain {
	root := ndkRoot
	if abs, err := filepath.Abs(ndkRoot); err == nil {
		root = abs
	}
	prebuilt := filepath.Join(root, "toolchains", "llvm", "prebuilt", hostTag())
	return Toolchain{
		NdkPath: root,
		Abi:     abi,
		API:     api,
		BinDir:  filepath.Join(prebuilt, "bin"),
		Sysroot: filepath.Join(prebuilt, "sysroot"),
	}
}

func hostTag() string {
	return runtime.GOOS + "-x86_64"
}

// ClangTarget is the target triple including the API level, as used in the
// NDK's clang wrapper names.
func (t Toolchain) ClangTarget() string {
	return fmt.Sprintf("%s%d", t.Abi.ClangTriple, t.API)
}

func (t Toolchain) CC() string {
	return filepath.Join(t.BinDir, t.ClangTarget()+"-clang")
}

func (t Toolchain) CXX() string {
	return filepath.Join(t.BinDir, t.ClangTarget()+"-clang++")
}

func (t Toolchain) AR() string {
	return filepath.Join(t.BinDir, "llvm-ar")
}

func (t Toolchain) Ranlib() string {
	return filepath.Join(t.BinDir, "llvm-ranlib")
}

func (t Toolchain) Strip() string {
	return filepath.Join(t.BinDir, "llvm-strip")
}

func (t Toolchain) CMakeToolchainFile() string {
	return filepath.Join(t.NdkPath, "build", "cmake", "android.toolchain.cmake")
}

func (t Toolchain) NdkBuild() string {
	return filepath.Join(t.NdkPath, "ndk-build")
}

// Env is the overlay injected into child processes. PATH is handled
// separately through SearchPath.
func (t Toolchain) Env() map[string]string {
	return map[string]string{
		"ANDROID_NDK":      t.NdkPath,
		"ANDROID_NDK_HOME": t.NdkPath,
	}
}

// SearchPath lists the directories prepended to PATH for child processes.
func (t Toolchain) SearchPath() []string {
	return []string{t.BinDir}
}

// CompilerEnv is the conventional compiler variable set for configure-style
// builds.
func (t Toolchain) CompilerEnv() map[string]string {
	return map[string]string{
		"CC":     t.CC(),
		"CXX":    t.CXX(),
		"AR":     t.AR(),
		"RANLIB": t.Ranlib(),
		"STRIP":  t.Strip(),
	}
}

// InstallDirForPort is where a port's install stage for the toolchain's ABI
// writes, relative to another port's working directory.
func InstallDirForPort(name string, workingDir string, toolchain Toolchain) string {
	return filepath.Join(filepath.Dir(filepath.Clean(workingDir)), name, "install", toolchain.Abi.Name)
}
