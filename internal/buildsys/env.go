// Package buildsys provides reusable configure, build and install stages for
// the build-system families ports use: autoconf, CMake and ndk-build.
package buildsys

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ndkports/internal/core"
)

// templateData is exposed to recipe argument templates, for example
// "--with-ssl={{ installDir \"openssl\" }}" or "android-{{ .Arch }}".
type templateData struct {
	Abi        string
	Arch       string
	Triple     string
	API        int
	Ndk        string
	Jobs       int
	SourceDir  string
	BuildDir   string
	InstallDir string
	WorkingDir string
}

func newTemplateData(bc *core.BuildContext) templateData {
	return templateData{
		Abi:        bc.Toolchain.Abi.Name,
		Arch:       bc.Toolchain.Abi.Arch,
		Triple:     bc.Toolchain.Abi.Triple,
		API:        bc.Toolchain.API,
		Ndk:        bc.Toolchain.NdkPath,
		Jobs:       bc.Jobs,
		SourceDir:  bc.SourceDir,
		BuildDir:   bc.BuildDir,
		InstallDir: bc.InstallDir,
		WorkingDir: bc.WorkingDir,
	}
}

// Expand renders every argument that contains a template action.
func Expand(bc *core.BuildContext, args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, nil
	}
	data := newTemplateData(bc)
	funcs := template.FuncMap{
		"installDir": bc.InstallDirFor,
	}
	out := make([]string, 0, len(args))
	for _, arg := range args {
		if !strings.Contains(arg, "{{") {
			out = append(out, arg)
			continue
		}
		tmpl, err := template.New("arg").Funcs(funcs).Option("missingkey=error").Parse(arg)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid argument template %q", arg)).
				WithCause(err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("failed to expand argument %q", arg)).
				WithCause(err)
		}
		out = append(out, buf.String())
	}
	return out, nil
}

// ExpandEnv renders the values of env.
func ExpandEnv(bc *core.BuildContext, env map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(env))
	for key, value := range env {
		expanded, err := Expand(bc, []string{value})
		if err != nil {
			return nil, err
		}
		out[key] = expanded[0]
	}
	return out, nil
}

// DependencyEnv points compilers, pkg-config and CMake at the install
// directories of deps for the current ABI. Nothing is set in the
// orchestrator's own environment.
func DependencyEnv(bc *core.BuildContext, deps []string) map[string]string {
	env := map[string]string{}
	var pkgconfig, prefixes, cppflags, ldflags []string
	for _, dep := range deps {
		root := bc.InstallDirFor(dep)
		includeDir := filepath.Join(root, "include")
		libDir := filepath.Join(root, "lib")
		prefixes = append(prefixes, root)
		if isDir(filepath.Join(libDir, "pkgconfig")) {
			pkgconfig = append(pkgconfig, filepath.Join(libDir, "pkgconfig"))
		}
		if isDir(includeDir) {
			cppflags = append(cppflags, "-I"+includeDir)
		}
		if isDir(libDir) {
			ldflags = append(ldflags, "-L"+libDir)
		}
	}
	sep := string(os.PathListSeparator)
	if len(pkgconfig) > 0 {
		env["PKG_CONFIG_PATH"] = strings.Join(pkgconfig, sep)
	}
	if len(prefixes) > 0 {
		env["CMAKE_PREFIX_PATH"] = strings.Join(prefixes, sep)
	}
	if len(cppflags) > 0 {
		env["CPPFLAGS"] = strings.Join(cppflags, " ")
	}
	if len(ldflags) > 0 {
		env["LDFLAGS"] = strings.Join(ldflags, " ")
	}
	return env
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func mergeMaps(maps ...map[string]string) map[string]string {
	out := map[string]string{}
	for _, m := range maps {
		for key, value := range m {
			out[key] = value
		}
	}
	return out
}

func jobsArg(bc *core.BuildContext) string {
	jobs := bc.Jobs
	if jobs <= 0 {
		jobs = 1
	}
	return fmt.Sprintf("-j%d", jobs)
}
