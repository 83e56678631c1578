package recipes

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ndkports/internal/buildsys"
	"ndkports/internal/core"
	"ndkports/internal/types"
)

// stages is the configure/build/install surface shared by the build-system
// families.
type stages interface {
	core.Configurer
	core.Builder
	core.Installer
}

// Declarative is a recipe whose stages come from a build-system family.
type Declarative struct {
	spec   types.PortSpec
	stages stages
}

func (d Declarative) Spec() types.PortSpec {
	return d.spec
}

func (d Declarative) Configure(ctx context.Context, bc *core.BuildContext) error {
	if d.stages == nil {
		return nil
	}
	return d.stages.Configure(ctx, bc)
}

func (d Declarative) Build(ctx context.Context, bc *core.BuildContext) error {
	if d.stages == nil {
		return nil
	}
	return d.stages.Build(ctx, bc)
}

func (d Declarative) Install(ctx context.Context, bc *core.BuildContext) error {
	if d.stages == nil {
		return nil
	}
	return d.stages.Install(ctx, bc)
}

// FromFile turns a loaded recipe file into a recipe.
func FromFile(file types.RecipeFile) (Declarative, error) {
	spec := file.PortSpec()
	if err := validateSpec(spec); err != nil {
		if file.Path == "" {
			return Declarative{}, err
		}
		return Declarative{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid recipe %s", file.Path)).
			WithCause(err)
	}
	stages, err := stagesFor(spec, file.Build)
	if err != nil {
		return Declarative{}, err
	}
	return Declarative{spec: spec, stages: stages}, nil
}

func stagesFor(spec types.PortSpec, build types.RecipeBuild) (stages, error) {
	switch build.System {
	case types.BuildSystemAutoconf:
		return buildsys.Autoconf{
			ConfigureArgs: build.ConfigureArgs,
			BuildArgs:     build.BuildArgs,
			InstallArgs:   build.InstallArgs,
			Env:           build.Env,
			Deps:          spec.Dependencies,
		}, nil
	case types.BuildSystemCMake:
		return buildsys.CMake{
			Generator:     build.Generator,
			BuildType:     build.BuildType,
			Defines:       build.Defines,
			ConfigureArgs: build.ConfigureArgs,
			BuildArgs:     build.BuildArgs,
			InstallArgs:   build.InstallArgs,
			Env:           build.Env,
			Deps:          spec.Dependencies,
		}, nil
	case types.BuildSystemNdkBuild:
		return buildsys.NdkBuild{
			ApplicationMk: build.ApplicationMk,
			AndroidMk:     build.AndroidMk,
			Headers:       build.Headers,
			BuildArgs:     build.BuildArgs,
			Env:           build.Env,
			Libraries:     build.Libraries,
		}, nil
	case types.BuildSystemNone, "":
		return nil, nil
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported build system %q for %s", build.System, spec.Name))
	}
}

func validateSpec(spec types.PortSpec) error {
	if spec.Name == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("recipe name is required")
	}
	if spec.Version == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("recipe %s has no version", spec.Name))
	}
	if len(spec.Modules) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("recipe %s declares no modules", spec.Name))
	}
	seen := map[string]struct{}{}
	for _, module := range spec.Modules {
		name := strings.TrimSpace(module.Name)
		if name == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("recipe %s has a module without a name", spec.Name))
		}
		if _, ok := seen[name]; ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(fmt.Sprintf("recipe %s declares module %s twice", spec.Name, name))
		}
		seen[name] = struct{}{}
	}
	for _, dep := range spec.Dependencies {
		if strings.TrimSpace(dep) == spec.Name {
			return &types.CyclicDependencyError{Cycle: []string{spec.Name, spec.Name}}
		}
	}
	if _, err := core.PrefabVersionOf(spec); err != nil {
		return err
	}
	return nil
}
