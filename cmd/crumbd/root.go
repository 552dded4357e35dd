package main

import (
	"github.com/spf13/cobra"

	"crumb/internal/config"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "crumbd",
		Short:         "Guided sourdough bake tracker",
		Long:          "crumbd serves the guided-bake API and manages its SQLite database.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "path to config file")

	root.AddCommand(newServeCommand())
	root.AddCommand(newConfigCommand())
	root.AddCommand(newBakesCommand())
	return root
}

// loadConfig resolves and validates configuration for a subcommand run.
func loadConfig(cmd *cobra.Command) (*config.Config, string, bool, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", false, err
	}
	return config.Load(path)
}
