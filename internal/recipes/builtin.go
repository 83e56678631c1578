package recipes

import (
	"context"
	"path/filepath"
	"strconv"

	"ndkports/internal/buildsys"
	"ndkports/internal/core"
	"ndkports/internal/types"
)

func builtinRecipes() []core.Recipe {
	return []core.Recipe{
		newOpenSSL(),
		newCurl(),
		newJsonCpp(),
		newBoringSSL(),
		newNativeHelper(),
	}
}

// openssl uses its own Configure script, which takes an OpenSSL target
// name rather than a host triple.
type openssl struct {
	spec types.PortSpec
}

func newOpenSSL() openssl {
	return openssl{spec: types.PortSpec{
		Name:    "openssl",
		Version: "1.1.1g",
		License: types.License{
			Name: "Dual OpenSSL and SSLeay License",
			URL:  "https://www.openssl.org/source/license-openssl-ssleay.txt",
		},
		Modules: []types.Module{
			{Name: "crypto"},
			{Name: "ssl"},
		},
		SourceURL: "https://www.openssl.org/source/openssl-1.1.1g.tar.gz",
	}}
}

func (o openssl) Spec() types.PortSpec {
	return o.spec
}

func (o openssl) Configure(ctx context.Context, bc *core.BuildContext) error {
	args := []string{
		filepath.Join(bc.SourceDir, "Configure"),
		"android-" + bc.Toolchain.Abi.Arch,
		"-D__ANDROID_API__=" + strconv.Itoa(bc.Toolchain.API),
		"--prefix=" + bc.InstallDir,
		"--openssldir=" + bc.InstallDir,
		"shared",
	}
	return bc.Exec(ctx, bc.BuildDir, args, nil)
}

func (o openssl) Build(ctx context.Context, bc *core.BuildContext) error {
	jobs := bc.Jobs
	if jobs <= 0 {
		jobs = 1
	}
	return bc.Exec(ctx, bc.BuildDir, []string{"make", "-j" + strconv.Itoa(jobs), "SHLIB_EXT=.so"}, nil)
}

func (o openssl) Install(ctx context.Context, bc *core.BuildContext) error {
	return bc.Exec(ctx, bc.BuildDir, []string{"make", "install_sw", "SHLIB_EXT=.so"}, nil)
}

func newCurl() Declarative {
	spec := types.PortSpec{
		Name:        "curl",
		Version:     "7.66.0",
		LicensePath: "COPYING",
		License: types.License{
			Name: "The curl License",
			URL:  "https://curl.haxx.se/docs/copyright.html",
		},
		Dependencies: []string{"openssl"},
		Modules: []types.Module{
			{Name: "curl", Dependencies: []string{"//openssl:crypto", "//openssl:ssl"}},
		},
		SourceURL: "https://curl.haxx.se/download/curl-7.66.0.tar.gz",
	}
	return Declarative{spec: spec, stages: buildsys.Autoconf{
		ConfigureArgs: []string{
			"--disable-ntlm-wb",
			"--enable-ipv6",
			"--with-zlib",
			"--with-ca-path=/system/etc/security/cacerts",
			`--with-ssl={{ installDir "openssl" }}`,
		},
		Deps: spec.Dependencies,
	}}
}

func newJsonCpp() Declarative {
	spec := types.PortSpec{
		Name:    "jsoncpp",
		Version: "1.8.4",
		License: types.License{
			Name: "The JsonCpp License",
			URL:  "https://github.com/open-source-parsers/jsoncpp/blob/master/LICENSE",
		},
		Modules: []types.Module{
			{Name: "jsoncpp"},
		},
		SourceURL: "https://github.com/open-source-parsers/jsoncpp/archive/1.8.4.tar.gz",
	}
	return Declarative{spec: spec, stages: buildsys.CMake{
		Defines: map[string]string{
			"BUILD_SHARED_LIBS":                "ON",
			"BUILD_STATIC_LIBS":                "OFF",
			"JSONCPP_WITH_TESTS":               "OFF",
			"JSONCPP_WITH_POST_BUILD_UNITTEST": "OFF",
		},
	}}
}

// boringssl has no release tarballs; its sources are expected to be
// checked out into the port's source directory before the run.
func newBoringSSL() Declarative {
	spec := types.PortSpec{
		Name:        "boringssl",
		Version:     "20200911",
		LicensePath: "src/LICENSE",
		License: types.License{
			Name: "License",
			URL:  "https://boringssl.googlesource.com/boringssl/+/refs/heads/master/LICENSE",
		},
		Modules: []types.Module{
			{Name: "crypto"},
			{Name: "ssl"},
		},
	}
	return Declarative{spec: spec, stages: buildsys.NdkBuild{
		ApplicationMk: "src/Application.mk",
		AndroidMk:     "src/Android.mk",
		Headers:       []string{"src/include"},
	}}
}

func newNativeHelper() Declarative {
	spec := types.PortSpec{
		Name:        "nativehelper",
		Version:     "20201111",
		LicensePath: "NOTICE",
		License: types.License{
			Name: "License",
			URL:  "https://android.googlesource.com/platform/libnativehelper/+/refs/heads/master/NOTICE",
		},
		Modules: []types.Module{
			{Name: "nativehelper_header_only", HeaderOnly: true},
		},
	}
	return Declarative{spec: spec, stages: buildsys.CMake{}}
}
