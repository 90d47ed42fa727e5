package main

import (
	"github.com/spf13/cobra"

	"github.com/sceneq/sheldon"
)

func init() {
	rootCmd.AddCommand(newCleanCmd())
}

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove any installed source no longer referenced by the manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := newSettings()
			if err != nil {
				return err
			}
			config, err := sheldon.ParseManifest(settings.ConfigFile)
			if err != nil {
				return err
			}
			return sheldon.CleanCommand(settings, config, sheldon.DefaultLogger())
		},
	}
}
