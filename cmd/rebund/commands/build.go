package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/rebund/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the project once and write the bundles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Build(cmd.Context(), buildOptions(cmd))
		},
	}
	addBuildFlags(cmd)
	return cmd
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Build the project and rebuild on every change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Watch(cmd.Context(), buildOptions(cmd))
		},
	}
	addBuildFlags(cmd)
	return cmd
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("dist", "d", "", "Output directory (overrides rebund.yaml)")
	cmd.Flags().IntP("concurrency", "j", 0, "Maximum number of requests running at once (default: number of CPUs)")
	cmd.Flags().String("cache", "", "Result cache backend: fs, sqlite, or memory (overrides rebund.yaml)")
	cmd.Flags().Bool("json", false, "Write logs and build events as JSON")
	cmd.Flags().BoolP("verbose", "v", false, "Print debug logs and every executed request")
	cmd.Flags().Bool("metrics", false, "Print collected metrics when done")
}

func buildOptions(cmd *cobra.Command) app.BuildOptions {
	dir, _ := cmd.Flags().GetString("dir")
	dist, _ := cmd.Flags().GetString("dist")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	cache, _ := cmd.Flags().GetString("cache")
	json, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")
	metrics, _ := cmd.Flags().GetBool("metrics")

	return app.BuildOptions{
		Dir:         dir,
		DistDir:     dist,
		Concurrency: concurrency,
		Cache:       cache,
		JSON:        json,
		Verbose:     verbose,
		Metrics:     metrics,
	}
}
