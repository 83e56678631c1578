package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ndkports/internal/app"
)

type listOptions struct {
	RecipesDir string
}

func newListCommand() *cobra.Command {
	opts := listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available recipes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.RecipesDir, "recipes-dir", "", "Directory of declarative recipe files")
	_ = viper.BindPFlag("recipes_dir", cmd.Flags().Lookup("recipes-dir"))
	return cmd
}

func runList(ctx context.Context, cmd *cobra.Command, opts listOptions) error {
	service := newAppService()
	result, err := service.List(ctx, app.ListRequest{
		RecipesDir: resolveString(cmd, opts.RecipesDir, "recipes_dir", "recipes-dir"),
	})
	if err != nil {
		return err
	}
	for _, recipe := range result.Recipes {
		line := fmt.Sprintf("%s %s (prefab %s) modules: %s", recipe.Name, recipe.Version, recipe.PrefabVersion, strings.Join(recipe.Modules, ","))
		if len(recipe.Dependencies) > 0 {
			line += " depends: " + strings.Join(recipe.Dependencies, ",")
		}
		fmt.Println(line)
	}
	return nil
}
