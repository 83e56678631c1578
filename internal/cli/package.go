package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ndkports/internal/app"
	"ndkports/internal/types"
)

type packageOptions struct {
	NdkPath    string
	OutputDir  string
	Abis       []string
	MinSdk     int
	Jobs       int
	RecipesDir string
	GroupID    string
}

func newPackageCommand() *cobra.Command {
	opts := packageOptions{}
	cmd := &cobra.Command{
		Use:   "package [recipe...]",
		Short: "Package the install output of an earlier build",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackage(cmd.Context(), cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.NdkPath, "ndk", "", "Android NDK root")
	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", "out", "Output directory")
	cmd.Flags().StringSliceVar(&opts.Abis, "abi", nil, "ABIs to package (default all)")
	cmd.Flags().IntVar(&opts.MinSdk, "min-sdk", 16, "Minimum Android API level")
	cmd.Flags().IntVar(&opts.Jobs, "jobs", 1, "Number of recipes packaged concurrently")
	cmd.Flags().StringVar(&opts.RecipesDir, "recipes-dir", "", "Directory of declarative recipe files")
	cmd.Flags().StringVar(&opts.GroupID, "group-id", types.DefaultGroupID, "Maven group id of the packages")

	_ = viper.BindPFlag("ndk", cmd.Flags().Lookup("ndk"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("abis", cmd.Flags().Lookup("abi"))
	_ = viper.BindPFlag("min_sdk", cmd.Flags().Lookup("min-sdk"))
	_ = viper.BindPFlag("jobs", cmd.Flags().Lookup("jobs"))
	_ = viper.BindPFlag("recipes_dir", cmd.Flags().Lookup("recipes-dir"))
	_ = viper.BindPFlag("group_id", cmd.Flags().Lookup("group-id"))

	return cmd
}

func runPackage(ctx context.Context, cmd *cobra.Command, recipes []string, opts packageOptions) error {
	service := newAppService()
	result, err := service.Package(ctx, app.PackageRequest{
		Recipes:    recipes,
		NdkPath:    resolveString(cmd, opts.NdkPath, "ndk", "ndk"),
		OutputDir:  resolveString(cmd, opts.OutputDir, "output", "output"),
		Abis:       resolveStrings(cmd, opts.Abis, "abis", "abi"),
		MinSdk:     resolveInt(cmd, opts.MinSdk, "min_sdk", "min-sdk"),
		Workers:    resolveInt(cmd, opts.Jobs, "jobs", "jobs"),
		RecipesDir: resolveString(cmd, opts.RecipesDir, "recipes_dir", "recipes-dir"),
		GroupID:    resolveString(cmd, opts.GroupID, "group_id", "group-id"),
	})
	if err != nil {
		return err
	}
	for _, artifact := range result.Artifacts {
		fmt.Printf("packaged %s: %s (%s)\n", artifact.Port, artifact.AarPath, artifact.PomPath)
	}
	return nil
}
