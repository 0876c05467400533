package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/livetl"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", livetl.Name, livetl.FullVersion())
			if livetl.BuildDate != "" {
				fmt.Fprintf(out, "  built:   %s\n", livetl.BuildDate)
			}
			fmt.Fprintf(out, "  go:      %s\n", runtime.Version())
		},
	}
}
