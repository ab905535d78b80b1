package config

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/weatherboard/internal/conf"
	"github.com/tphakala/weatherboard/internal/privacy"
)

// Command creates the config command that prints the effective settings.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if settings.ConfigFile != "" {
				cmd.Printf("# loaded from %s\n", settings.ConfigFile)
			}
			data, err := yaml.Marshal(Redact(settings))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// Redact returns a copy of settings with credentials masked.
func Redact(settings *conf.Settings) *conf.Settings {
	c := *settings
	c.Weather.APIKey = privacy.Mask(c.Weather.APIKey)
	c.Storage.MySQL.Password = privacy.Mask(c.Storage.MySQL.Password)
	c.MQTT.Password = privacy.Mask(c.MQTT.Password)
	c.Sentry.DSN = privacy.Mask(c.Sentry.DSN)
	return &c
}
