package buildsys

import (
	"context"
	"sort"
	"strconv"

	"ndkports/internal/core"
)

const (
	defaultCMakeGenerator = "Ninja"
	defaultCMakeBuildType = "Release"
)

// CMake configures with the NDK's android.toolchain.cmake and builds and
// installs through cmake --build and cmake --install.
type CMake struct {
	Generator     string
	BuildType     string
	Defines       map[string]string
	ConfigureArgs []string
	BuildArgs     []string
	InstallArgs   []string
	Env           map[string]string
	Deps          []string
}

func (c CMake) env(bc *core.BuildContext) (map[string]string, error) {
	extra, err := ExpandEnv(bc, c.Env)
	if err != nil {
		return nil, err
	}
	return mergeMaps(DependencyEnv(bc, c.Deps), extra), nil
}

// defines merges the Android toolchain definitions with the recipe's own.
// Recipe values win.
func (c CMake) defines(bc *core.BuildContext) (map[string]string, error) {
	buildType := c.BuildType
	if buildType == "" {
		buildType = defaultCMakeBuildType
	}
	defines := map[string]string{
		"CMAKE_BUILD_TYPE":     buildType,
		"CMAKE_TOOLCHAIN_FILE": bc.Toolchain.CMakeToolchainFile(),
		"CMAKE_INSTALL_PREFIX": bc.InstallDir,
		"ANDROID_ABI":          bc.Toolchain.Abi.Name,
		"ANDROID_PLATFORM":     "android-" + strconv.Itoa(bc.Toolchain.API),
		"ANDROID_NDK":          bc.Toolchain.NdkPath,
	}
	if len(c.Deps) > 0 {
		roots := make([]string, 0, len(c.Deps))
		for _, dep := range c.Deps {
			roots = append(roots, bc.InstallDirFor(dep))
		}
		defines["CMAKE_FIND_ROOT_PATH"] = joinCMakeList(roots)
	}
	custom, err := ExpandEnv(bc, c.Defines)
	if err != nil {
		return nil, err
	}
	for key, value := range custom {
		defines[key] = value
	}
	return defines, nil
}

func (c CMake) Configure(ctx context.Context, bc *core.BuildContext) error {
	env, err := c.env(bc)
	if err != nil {
		return err
	}
	defines, err := c.defines(bc)
	if err != nil {
		return err
	}
	extra, err := Expand(bc, c.ConfigureArgs)
	if err != nil {
		return err
	}
	generator := c.Generator
	if generator == "" {
		generator = defaultCMakeGenerator
	}
	args := []string{"cmake", "-S", bc.SourceDir, "-B", bc.BuildDir, "-G", generator}
	args = append(args, definesArgs(defines)...)
	return bc.Exec(ctx, bc.BuildDir, append(args, extra...), env)
}

func (c CMake) Build(ctx context.Context, bc *core.BuildContext) error {
	env, err := c.env(bc)
	if err != nil {
		return err
	}
	extra, err := Expand(bc, c.BuildArgs)
	if err != nil {
		return err
	}
	args := []string{"cmake", "--build", bc.BuildDir, "--", jobsArg(bc)}
	if len(extra) > 0 {
		args = append([]string{"cmake", "--build", bc.BuildDir}, extra...)
		args = append(args, "--", jobsArg(bc))
	}
	return bc.Exec(ctx, bc.BuildDir, args, env)
}

func (c CMake) Install(ctx context.Context, bc *core.BuildContext) error {
	env, err := c.env(bc)
	if err != nil {
		return err
	}
	extra, err := Expand(bc, c.InstallArgs)
	if err != nil {
		return err
	}
	args := []string{"cmake", "--install", bc.BuildDir}
	return bc.Exec(ctx, bc.BuildDir, append(args, extra...), env)
}

// definesArgs renders -DKEY=VALUE in key order.
func definesArgs(defines map[string]string) []string {
	keys := make([]string, 0, len(defines))
	for key := range defines {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, key := range keys {
		args = append(args, "-D"+key+"="+defines[key])
	}
	return args
}

func joinCMakeList(values []string) string {
	out := ""
	for i, value := range values {
		if i > 0 {
			out += ";"
		}
		out += value
	}
	return out
}
