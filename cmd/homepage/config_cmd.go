package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/homepage/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var path string
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Write the default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := path
			if target == "" {
				target = config.DefaultPath()
			}
			if err := config.GenerateDefaultConfig(target); err != nil {
				return fmt.Errorf("generating config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", target)
			return nil
		},
	}
	generate.Flags().StringVarP(&path, "output", "o", "", "Where to write the file")

	cmd.AddCommand(generate)
	return cmd
}
