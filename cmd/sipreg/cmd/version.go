package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

const sipregVersion = "0.1.0"

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show sipreg version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "sipreg version %s\n", sipregVersion)
			if bi, ok := debug.ReadBuildInfo(); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "built with %s\n", bi.GoVersion)
			}
			return nil
		},
	}
}
