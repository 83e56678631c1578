package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ndkports/internal/app"
)

type pruneOptions struct {
	OutputDir string
	RepoDir   string
	KeepLast  int
	KeepDays  int
	Protect   []string
	DryRun    bool
}

func newPruneCommand() *cobra.Command {
	opts := pruneOptions{}
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Prune released versions from a local maven repository",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPrune(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", "out", "Output directory holding the default repository")
	cmd.Flags().StringVar(&opts.RepoDir, "repo-dir", "", "Local maven repository (default <output>/maven)")
	cmd.Flags().IntVar(&opts.KeepLast, "keep-last", 0, "Keep the last N versions of each artifact")
	cmd.Flags().IntVar(&opts.KeepDays, "keep-days", 0, "Keep versions published in the last N days")
	cmd.Flags().StringSliceVar(&opts.Protect, "protect", nil, "Never prune these artifacts or artifact:version pairs")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", true, "Only report prune actions without deleting")

	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("repo_dir", cmd.Flags().Lookup("repo-dir"))
	_ = viper.BindPFlag("keep_last", cmd.Flags().Lookup("keep-last"))
	_ = viper.BindPFlag("keep_days", cmd.Flags().Lookup("keep-days"))
	_ = viper.BindPFlag("protect", cmd.Flags().Lookup("protect"))
	_ = viper.BindPFlag("dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runPrune(ctx context.Context, cmd *cobra.Command, opts pruneOptions) error {
	service := newAppService()
	result, err := service.Prune(ctx, app.PruneRequest{
		OutputDir: resolveString(cmd, opts.OutputDir, "output", "output"),
		RepoDir:   resolveString(cmd, opts.RepoDir, "repo_dir", "repo-dir"),
		KeepLast:  resolveInt(cmd, opts.KeepLast, "keep_last", "keep-last"),
		KeepDays:  resolveInt(cmd, opts.KeepDays, "keep_days", "keep-days"),
		Protect:   resolveStrings(cmd, opts.Protect, "protect", "protect"),
		DryRun:    resolveBool(cmd, opts.DryRun, "dry_run", "dry-run"),
	})
	if err != nil {
		return err
	}
	verb := "deleted"
	if result.DryRun {
		verb = "would delete"
	}
	for _, coordinate := range result.Deleted {
		fmt.Printf("%s %s\n", verb, coordinate)
	}
	fmt.Printf("kept %d, %s %d\n", result.KeepCount, verb, result.DeleteCount)
	return nil
}
