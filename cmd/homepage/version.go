package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "homepage %s\n", Version)
			fmt.Fprintln(out, "Homepage ticker and tooltip surface")
			fmt.Fprintln(out, "github.com/pders01/homepage")
		},
	}
}
