package buildsys

import (
	"context"
	"path/filepath"

	"ndkports/internal/core"
)

// Autoconf runs <source>/configure --host=<triple> --prefix=<install> in the
// build directory, then make and make install.
type Autoconf struct {
	ConfigureArgs []string
	BuildArgs     []string
	InstallArgs   []string
	Env           map[string]string
	// Deps are ports whose install trees are exposed through CPPFLAGS,
	// LDFLAGS and PKG_CONFIG_PATH.
	Deps []string
}

func (a Autoconf) env(bc *core.BuildContext) (map[string]string, error) {
	extra, err := ExpandEnv(bc, a.Env)
	if err != nil {
		return nil, err
	}
	return mergeMaps(bc.Toolchain.CompilerEnv(), DependencyEnv(bc, a.Deps), extra), nil
}

func (a Autoconf) Configure(ctx context.Context, bc *core.BuildContext) error {
	env, err := a.env(bc)
	if err != nil {
		return err
	}
	extra, err := Expand(bc, a.ConfigureArgs)
	if err != nil {
		return err
	}
	args := []string{
		filepath.Join(bc.SourceDir, "configure"),
		"--host=" + bc.Toolchain.Abi.Triple,
		"--prefix=" + bc.InstallDir,
	}
	return bc.Exec(ctx, bc.BuildDir, append(args, extra...), env)
}

func (a Autoconf) Build(ctx context.Context, bc *core.BuildContext) error {
	env, err := a.env(bc)
	if err != nil {
		return err
	}
	extra, err := Expand(bc, a.BuildArgs)
	if err != nil {
		return err
	}
	return bc.Exec(ctx, bc.BuildDir, append([]string{"make", jobsArg(bc)}, extra...), env)
}

func (a Autoconf) Install(ctx context.Context, bc *core.BuildContext) error {
	env, err := a.env(bc)
	if err != nil {
		return err
	}
	extra, err := Expand(bc, a.InstallArgs)
	if err != nil {
		return err
	}
	return bc.Exec(ctx, bc.BuildDir, append([]string{"make", "install"}, extra...), env)
}
