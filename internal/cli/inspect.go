package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ndkports/internal/app"
	"ndkports/internal/types"
)

type inspectOptions struct {
	OutputDir string
	Verbose   bool
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize the last build and package run in an output directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", "out", "Output directory")
	cmd.Flags().BoolVar(&opts.Verbose, "pairs", false, "Print every (port, abi) pair")
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	return cmd
}

func runInspect(cmd *cobra.Command, opts inspectOptions) error {
	service := newAppService()
	result, err := service.Inspect(app.InspectRequest{
		OutputDir: resolveString(cmd, opts.OutputDir, "output", "output"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("build order: %s\n", strings.Join(result.Order, " "))
	for _, port := range result.Ports {
		fmt.Printf("- %s: %d succeeded, %d failed, %d skipped\n", port.Name, len(port.Succeeded), len(port.Failed), len(port.Skipped))
		if len(port.Failed) > 0 {
			fmt.Printf("  failed: %s\n", strings.Join(port.Failed, ", "))
		}
		if port.AarPath != "" {
			fmt.Printf("  aar: %s\n", port.AarPath)
		}
	}
	if !result.Packaged {
		fmt.Println("no artifacts.manifest; nothing was packaged")
	}
	if opts.Verbose {
		for _, pair := range result.Pairs {
			line := fmt.Sprintf("%s %s (api %d): %s", pair.Port, pair.Abi, pair.API, pair.Status)
			if pair.Status != types.PairStatusSucceeded && pair.Reason != "" {
				line += " - " + pair.Reason
			}
			fmt.Println(line)
		}
	}
	return nil
}
