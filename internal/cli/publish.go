package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ndkports/internal/app"
)

type publishOptions struct {
	OutputDir    string
	RepoBackend  string
	RepoDir      string
	RepoURL      string
	Username     string
	APIKey       string
	Workers      int
	TimeoutSec   int
	Retries      int
	RetryDelayMs int
}

func newPublishCommand() *cobra.Command {
	opts := publishOptions{}
	cmd := &cobra.Command{
		Use:   "publish [port...]",
		Short: "Publish packaged AARs and poms to a maven repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd.Context(), cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", "out", "Output directory of an earlier package run")
	cmd.Flags().StringVar(&opts.RepoBackend, "repo-backend", "file", "Repository backend (file or http)")
	cmd.Flags().StringVar(&opts.RepoDir, "repo-dir", "", "Local maven repository (file backend, default <output>/maven)")
	cmd.Flags().StringVar(&opts.RepoURL, "repo-url", "", "Maven repository URL (http backend)")
	cmd.Flags().StringVar(&opts.Username, "repo-user", "", "Username for basic auth (defaults to api)")
	cmd.Flags().StringVar(&opts.APIKey, "repo-api-key", "", "API key or password for basic auth")
	cmd.Flags().IntVar(&opts.Workers, "repo-workers", 4, "Concurrent upload workers (0 = default)")
	cmd.Flags().IntVar(&opts.TimeoutSec, "repo-timeout", 60, "HTTP timeout in seconds (0 = default)")
	cmd.Flags().IntVar(&opts.Retries, "repo-retries", 3, "Upload attempts per file (0 = default)")
	cmd.Flags().IntVar(&opts.RetryDelayMs, "repo-retry-delay-ms", 200, "Retry base delay in ms (0 = default)")

	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("repo_backend", cmd.Flags().Lookup("repo-backend"))
	_ = viper.BindPFlag("repo_dir", cmd.Flags().Lookup("repo-dir"))
	_ = viper.BindPFlag("repo_url", cmd.Flags().Lookup("repo-url"))
	_ = viper.BindPFlag("repo_user", cmd.Flags().Lookup("repo-user"))
	_ = viper.BindPFlag("repo_api_key", cmd.Flags().Lookup("repo-api-key"))
	_ = viper.BindPFlag("repo_workers", cmd.Flags().Lookup("repo-workers"))
	_ = viper.BindPFlag("repo_timeout_sec", cmd.Flags().Lookup("repo-timeout"))
	_ = viper.BindPFlag("repo_retries", cmd.Flags().Lookup("repo-retries"))
	_ = viper.BindPFlag("repo_retry_delay_ms", cmd.Flags().Lookup("repo-retry-delay-ms"))

	return cmd
}

func runPublish(ctx context.Context, cmd *cobra.Command, portNames []string, opts publishOptions) error {
	service := newAppService()
	result, err := service.Publish(ctx, app.PublishRequest{
		OutputDir:    resolveString(cmd, opts.OutputDir, "output", "output"),
		RepoBackend:  resolveString(cmd, opts.RepoBackend, "repo_backend", "repo-backend"),
		RepoDir:      resolveString(cmd, opts.RepoDir, "repo_dir", "repo-dir"),
		RepoURL:      resolveString(cmd, opts.RepoURL, "repo_url", "repo-url"),
		Username:     resolveString(cmd, opts.Username, "repo_user", "repo-user"),
		APIKey:       resolveString(cmd, opts.APIKey, "repo_api_key", "repo-api-key"),
		Workers:      resolveInt(cmd, opts.Workers, "repo_workers", "repo-workers"),
		TimeoutSec:   resolveInt(cmd, opts.TimeoutSec, "repo_timeout_sec", "repo-timeout"),
		Retries:      resolveInt(cmd, opts.Retries, "repo_retries", "repo-retries"),
		RetryDelayMs: resolveInt(cmd, opts.RetryDelayMs, "repo_retry_delay_ms", "repo-retry-delay-ms"),
		Ports:        portNames,
	})
	if err != nil {
		return err
	}
	for _, coordinate := range result.Published {
		fmt.Printf("published %s\n", coordinate)
	}
	return nil
}
