package main

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sceneq/sheldon"
)

var (
	configFile string
	dataDir    string
	reinstall  bool
	relock     bool
)

// version is overridden at build time with -ldflags, matching the
// pattern the rest of the pack uses for a CLI's own version string.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "sheldon",
	Short:         "A fast, configurable shell plugin manager",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	home, err := os.UserHomeDir()
	if err != nil {
		if u, uerr := user.Current(); uerr == nil {
			home = u.HomeDir
		}
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config-file", filepath.Join(home, ".sheldon", "plugins.toml"), "the manifest path")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", filepath.Join(home, ".local", "share", "sheldon"), "the directory sources are installed under")
	rootCmd.PersistentFlags().BoolVar(&reinstall, "reinstall", false, "set Settings.Reinstall (the installer still reuses sources already present)")
	rootCmd.PersistentFlags().BoolVar(&relock, "relock", false, "always relock, bypassing an existing lock file")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sheldon:", err)
		os.Exit(1)
	}
}

func newSettings() (*sheldon.Settings, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &sheldon.Settings{
		Version:    version,
		Home:       home,
		Root:       dataDir,
		ConfigFile: configFile,
		LockFile:   filepath.Join(filepath.Dir(configFile), "plugins.lock"),
		Reinstall:  reinstall,
		Relock:     relock,
	}, nil
}
