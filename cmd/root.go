package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/weatherboard/cmd/add"
	"github.com/tphakala/weatherboard/cmd/config"
	"github.com/tphakala/weatherboard/cmd/list"
	"github.com/tphakala/weatherboard/cmd/migrate"
	"github.com/tphakala/weatherboard/cmd/remove"
	"github.com/tphakala/weatherboard/cmd/serve"
	"github.com/tphakala/weatherboard/internal/buildinfo"
	"github.com/tphakala/weatherboard/internal/conf"
)

// RootCommand creates and returns the root command. Settings are loaded
// before any subcommand runs and shared through settings.
func RootCommand() *cobra.Command {
	settings := &conf.Settings{}
	var (
		configFile string
		debug      bool
	)

	rootCmd := &cobra.Command{
		Use:           "weatherboard",
		Short:         "City weather dashboard",
		Version:       buildinfo.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: search standard config paths)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug output")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := conf.Load(configFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("debug") {
			loaded.Debug = debug
		}
		*settings = *loaded
		return nil
	}

	rootCmd.AddCommand(
		serve.Command(settings),
		add.Command(settings),
		remove.Command(settings),
		list.Command(settings),
		config.Command(settings),
		migrate.Command(settings),
	)
	return rootCmd
}
