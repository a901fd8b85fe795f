package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <toolchain> <mode>",
		Short: "Build all manifest targets with the given toolchain and mode",
		Long: `Build compiles and archives every target declared in the manifest.

The toolchain is one of gcc, clang or msvc (subject to platform support),
the mode is debug or release. Objects whose preprocessed source and compile
command are unchanged since the previous run are skipped.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			serial, err := cmd.Flags().GetBool("serial")
			if err != nil {
				return err
			}
			return c.app.Build(cmd.Context(), args[0], args[1], serial)
		},
	}
	cmd.Flags().Bool("serial", false, "Build targets one at a time instead of concurrently")
	return cmd
}
