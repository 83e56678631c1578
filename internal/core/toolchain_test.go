package core

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"ndkports/internal/types"
)

func TestInstallDirForPortEveryAbi(t *testing.T) {
	root := t.TempDir()
	workingDir := filepath.Join(root, "curl")
	for _, abi := range types.AllAbis() {
		t.Run(abi.Name, func(t *testing.T) {
			tc := ResolveToolchain(filepath.Join(root, "ndk"), abi, 21)
			got := InstallDirForPort("openssl", workingDir, tc)
			assert.Equal(t, filepath.Join(root, "openssl", "install", abi.Name), got)
		})
	}
}

func TestInstallDirForPortCleansWorkingDir(t *testing.T) {
	tc := ResolveToolchain("/ndk", types.AbiX86, 16)
	assert.Equal(t, filepath.Join("/out", "zlib", "install", "x86"), InstallDirForPort("zlib", "/out/curl/", tc))
}

func TestResolveToolchainPaths(t *testing.T) {
	ndk := t.TempDir()
	tc := ResolveToolchain(ndk, types.AbiArm, 19)

	assert.Equal(t, ndk, tc.NdkPath)
	assert.Equal(t, 19, tc.API)
	assert.Equal(t, filepath.Join(ndk, "toolchains", "llvm", "prebuilt", hostTag(), "bin"), tc.BinDir)
	assert.Equal(t, "armv7a-linux-androideabi19", tc.ClangTarget())
	assert.Equal(t, filepath.Join(tc.BinDir, "armv7a-linux-androideabi19-clang"), tc.CC())
	assert.Equal(t, filepath.Join(tc.BinDir, "armv7a-linux-androideabi19-clang++"), tc.CXX())
	assert.Equal(t, filepath.Join(tc.BinDir, "llvm-ar"), tc.AR())
	assert.Equal(t, filepath.Join(ndk, "build", "cmake", "android.toolchain.cmake"), tc.CMakeToolchainFile())
	assert.Equal(t, filepath.Join(ndk, "ndk-build"), tc.NdkBuild())
	assert.Equal(t, []string{tc.BinDir}, tc.SearchPath())
	assert.Equal(t, ndk, tc.Env()["ANDROID_NDK"])
	assert.Equal(t, tc.CC(), tc.CompilerEnv()["CC"])
}

func TestResolveToolchainMakesRootAbsolute(t *testing.T) {
	tc := ResolveToolchain("relative/ndk", types.AbiArm64, 21)
	assert.True(t, filepath.IsAbs(tc.NdkPath))
}

func TestAbiAdjustAPI(t *testing.T) {
	assert.Equal(t, 21, types.AbiArm64.AdjustAPI(16))
	assert.Equal(t, 16, types.AbiArm.AdjustAPI(16))
	assert.Equal(t, 28, types.AbiX86_64.AdjustAPI(28))
}
