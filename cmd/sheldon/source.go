package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sceneq/sheldon"
)

func init() {
	rootCmd.AddCommand(newSourceCmd())
}

func newSourceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "source",
		Short: "Print the shell script that sources every configured plugin",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := newSettings()
			if err != nil {
				return err
			}
			config, err := sheldon.ParseManifest(settings.ConfigFile)
			if err != nil {
				return err
			}
			script, err := sheldon.SourceCommand(settings, config, sheldon.DefaultLogger())
			if err != nil {
				return err
			}
			fmt.Print(script)
			return nil
		},
	}
}
