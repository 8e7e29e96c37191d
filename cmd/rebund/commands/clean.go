package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/rebund/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the result cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			all, _ := cmd.Flags().GetBool("all")

			return c.app.Clean(cmd.Context(), app.CleanOptions{
				Dir:  dir,
				Dist: all,
			})
		},
	}

	cmd.Flags().BoolP("all", "a", false, "Also remove the output directory")

	return cmd
}
