package main

import (
	"github.com/spf13/cobra"

	"github.com/sceneq/sheldon"
)

func init() {
	rootCmd.AddCommand(newLockCmd())
}

func newLockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Install plugins and write a fresh lock file",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := newSettings()
			if err != nil {
				return err
			}
			config, err := sheldon.ParseManifest(settings.ConfigFile)
			if err != nil {
				return err
			}
			_, err = sheldon.LockCommand(settings, config, sheldon.DefaultLogger())
			return err
		},
	}
}
