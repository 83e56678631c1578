package core

import (
	"context"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"ndkports/internal/ports"
	"ndkports/internal/types"
)

// Matrix is one build run: every scheduled recipe for every ABI.
type Matrix struct {
	Recipes   []string
	Abis      []types.Abi
	MinSdk    int
	NdkPath   string
	OutputDir string
	Order     types.ScheduleOrder
	// Workers bounds how many (recipe, abi) pairs build at once.
	Workers int
	// BuildJobs is passed to make, ninja and ndk-build.
	BuildJobs      int
	Policy         types.FailurePolicy
	ProcessTimeout time.Duration
}

// Driver schedules the build matrix and runs the pipeline for each pair.
type Driver struct {
	Recipes  RecipeLookup
	Pipeline *Pipeline
	Process  ports.ProcessPort
}

func NewDriver(recipes RecipeLookup, source ports.SourcePort, process ports.ProcessPort) Driver {
	return Driver{
		Recipes:  recipes,
		Pipeline: NewPipeline(source),
		Process:  process,
	}
}

// Plan resolves the recipe order and the pair graph without running
// anything. A pair depends on the same ABI's pairs of every dependency
// scheduled before it.
func (d Driver) Plan(m Matrix) ([]Recipe, []PairTask, error) {
	if len(m.Abis) == 0 {
		return nil, nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one abi is required")
	}
	recipes, err := ScheduleRecipes(m.Recipes, d.Recipes, m.Order)
	if err != nil {
		return nil, nil, err
	}
	position := map[string]int{}
	for i, recipe := range recipes {
		position[recipe.Spec().Name] = i
	}
	tasks := make([]PairTask, 0, len(recipes)*len(m.Abis))
	for i, recipe := range recipes {
		for a, abi := range m.Abis {
			task := PairTask{Recipe: recipe, Abi: abi, API: abi.AdjustAPI(m.MinSdk)}
			for _, dep := range recipe.Spec().Dependencies {
				if j, ok := position[dep]; ok && j < i {
					task.Deps = append(task.Deps, j*len(m.Abis)+a)
				}
			}
			tasks = append(tasks, task)
		}
	}
	return recipes, tasks, nil
}

// Run builds the matrix. The returned error is the failure of the first
// failed pair in schedule order; the report always covers every pair.
func (d Driver) Run(ctx context.Context, m Matrix) (types.RunReport, []Recipe, error) {
	if strings.TrimSpace(m.NdkPath) == "" {
		return types.RunReport{}, nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("ndk path is required")
	}
	if strings.TrimSpace(m.OutputDir) == "" {
		return types.RunReport{}, nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	recipes, tasks, err := d.Plan(m)
	if err != nil {
		return types.RunReport{}, nil, err
	}
	pipeline := d.Pipeline
	if pipeline == nil {
		pipeline = NewPipeline(nil)
	}

	toolchains := map[string]Toolchain{}
	for _, abi := range m.Abis {
		toolchains[abi.Name] = ResolveToolchain(m.NdkPath, abi, abi.AdjustAPI(m.MinSdk))
	}
	buildJobs := m.BuildJobs
	if buildJobs <= 0 {
		buildJobs = 1
	}

	order := make([]string, 0, len(recipes))
	for _, recipe := range recipes {
		order = append(order, recipe.Spec().Name)
	}
	log.Ctx(ctx).Info().
		Strs("order", order).
		Int("pairs", len(tasks)).
		Int("workers", m.Workers).
		Str("policy", string(m.Policy)).
		Msg("starting build matrix")

	scheduler := Scheduler{Workers: m.Workers, Policy: m.Policy}
	pairs := scheduler.Run(ctx, tasks, func(ctx context.Context, task PairTask) error {
		bc := NewBuildContext(m.OutputDir, task.Recipe.Spec().Name, toolchains[task.Abi.Name])
		bc.Jobs = buildJobs
		bc.ProcessTimeout = m.ProcessTimeout
		bc.Process = d.Process
		return pipeline.Run(ctx, task.Recipe, bc)
	})

	report := types.RunReport{Order: order, Pairs: pairs}
	for _, pair := range pairs {
		if pair.Status == types.PairStatusFailed {
			return report, recipes, pair.Err
		}
	}
	if err := ctx.Err(); err != nil {
		return report, recipes, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("build cancelled").
			WithCause(err)
	}
	return report, recipes, nil
}
