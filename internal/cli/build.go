package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ndkports/internal/app"
	"ndkports/internal/types"
)

type buildOptions struct {
	NdkPath        string
	OutputDir      string
	Abis           []string
	MinSdk         int
	Jobs           int
	BuildJobs      int
	Order          string
	FailurePolicy  string
	ProcessTimeout time.Duration
	RecipesDir     string
	GroupID        string
	SkipPackage    bool
}

func newBuildCommand() *cobra.Command {
	opts := buildOptions{}
	cmd := &cobra.Command{
		Use:   "build [recipe...]",
		Short: "Build recipes for every ABI and package them as AARs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.NdkPath, "ndk", "", "Android NDK root")
	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", "out", "Output directory")
	cmd.Flags().StringSliceVar(&opts.Abis, "abi", nil, "ABIs to build (default all)")
	cmd.Flags().IntVar(&opts.MinSdk, "min-sdk", 16, "Minimum Android API level")
	cmd.Flags().IntVar(&opts.Jobs, "jobs", 1, "Number of (recipe, abi) pairs built concurrently")
	cmd.Flags().IntVar(&opts.BuildJobs, "build-jobs", 1, "Parallelism passed to make, ninja and ndk-build")
	cmd.Flags().StringVar(&opts.Order, "order", "as-given", "Recipe order: as-given or topological")
	cmd.Flags().StringVar(&opts.FailurePolicy, "failure-policy", "fail-fast", "Failure policy: fail-fast or keep-going")
	cmd.Flags().DurationVar(&opts.ProcessTimeout, "process-timeout", 0, "Timeout for each external tool (0 disables)")
	cmd.Flags().StringVar(&opts.RecipesDir, "recipes-dir", "", "Directory of declarative recipe files")
	cmd.Flags().StringVar(&opts.GroupID, "group-id", types.DefaultGroupID, "Maven group id of the packages")
	cmd.Flags().BoolVar(&opts.SkipPackage, "skip-package", false, "Stop after the build matrix")

	_ = viper.BindPFlag("ndk", cmd.Flags().Lookup("ndk"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("abis", cmd.Flags().Lookup("abi"))
	_ = viper.BindPFlag("min_sdk", cmd.Flags().Lookup("min-sdk"))
	_ = viper.BindPFlag("jobs", cmd.Flags().Lookup("jobs"))
	_ = viper.BindPFlag("build_jobs", cmd.Flags().Lookup("build-jobs"))
	_ = viper.BindPFlag("order", cmd.Flags().Lookup("order"))
	_ = viper.BindPFlag("failure_policy", cmd.Flags().Lookup("failure-policy"))
	_ = viper.BindPFlag("process_timeout", cmd.Flags().Lookup("process-timeout"))
	_ = viper.BindPFlag("recipes_dir", cmd.Flags().Lookup("recipes-dir"))
	_ = viper.BindPFlag("group_id", cmd.Flags().Lookup("group-id"))
	_ = viper.BindPFlag("skip_package", cmd.Flags().Lookup("skip-package"))

	return cmd
}

func runBuild(ctx context.Context, cmd *cobra.Command, recipes []string, opts buildOptions) error {
	service := newAppService()
	result, err := service.Build(ctx, app.BuildRequest{
		Recipes:        recipes,
		NdkPath:        resolveString(cmd, opts.NdkPath, "ndk", "ndk"),
		OutputDir:      resolveString(cmd, opts.OutputDir, "output", "output"),
		Abis:           resolveStrings(cmd, opts.Abis, "abis", "abi"),
		MinSdk:         resolveInt(cmd, opts.MinSdk, "min_sdk", "min-sdk"),
		Workers:        resolveInt(cmd, opts.Jobs, "jobs", "jobs"),
		BuildJobs:      resolveInt(cmd, opts.BuildJobs, "build_jobs", "build-jobs"),
		Order:          resolveString(cmd, opts.Order, "order", "order"),
		FailurePolicy:  resolveString(cmd, opts.FailurePolicy, "failure_policy", "failure-policy"),
		ProcessTimeout: resolveDuration(cmd, opts.ProcessTimeout, "process_timeout", "process-timeout"),
		RecipesDir:     resolveString(cmd, opts.RecipesDir, "recipes_dir", "recipes-dir"),
		GroupID:        resolveString(cmd, opts.GroupID, "group_id", "group-id"),
		SkipPackage:    resolveBool(cmd, opts.SkipPackage, "skip_package", "skip-package"),
	})
	printReport(result.Report)
	if err != nil {
		return err
	}
	for _, artifact := range result.Artifacts {
		fmt.Printf("packaged %s: %s\n", artifact.Port, artifact.AarPath)
	}
	return nil
}

func printReport(report types.RunReport) {
	for _, pair := range report.Pairs {
		switch pair.Status {
		case types.PairStatusFailed:
			fmt.Printf("%-8s %s/%s: %v\n", pair.Status, pair.Port, pair.Abi, pair.Err)
		case types.PairStatusSkipped:
			fmt.Printf("%-8s %s/%s: %s\n", pair.Status, pair.Port, pair.Abi, pair.Reason)
		default:
			fmt.Printf("%-8s %s/%s (%s)\n", pair.Status, pair.Port, pair.Abi, pair.Duration.Round(time.Millisecond))
		}
	}
}
