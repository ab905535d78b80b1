// env.go - Environment variable configuration and validation
package conf

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// envBinding holds metadata for environment variable bindings (internal use)
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "WEATHERBOARD_DEBUG", validateEnvBool},
		{"weather.apikey", "WEATHERBOARD_API_KEY", nil},
		{"weather.endpoint", "WEATHERBOARD_WEATHER_ENDPOINT", validateEnvURL},
		{"location.provider", "WEATHERBOARD_LOCATION_PROVIDER", validateEnvLocationProvider},
		{"location.latitude", "WEATHERBOARD_LATITUDE", validateEnvLatitude},
		{"location.longitude", "WEATHERBOARD_LONGITUDE", validateEnvLongitude},
		{"storage.type", "WEATHERBOARD_STORAGE_TYPE", validateEnvStorageType},
		{"storage.sqlite.path", "WEATHERBOARD_SQLITE_PATH", nil},
		{"storage.mysql.password", "WEATHERBOARD_MYSQL_PASSWORD", nil},
		{"webserver.listen", "WEATHERBOARD_LISTEN", nil},
		{"sentry.dsn", "WEATHERBOARD_SENTRY_DSN", nil},
		{"mqtt.broker", "WEATHERBOARD_MQTT_BROKER", validateEnvURL},
	}
}

// bindEnvVars sets up environment variable bindings with validation (internal)
func bindEnvVars(v *viper.Viper) error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := v.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate != nil {
			if envValue := os.Getenv(binding.EnvVar); envValue != "" {
				if err := binding.Validate(envValue); err != nil {
					warnings = append(warnings, fmt.Sprintf("Invalid %s value '%s': %v", binding.EnvVar, envValue, err))
				}
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}
	return nil
}

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("invalid boolean value '%s': must be true/false, 1/0, t/f", value)
	}
	return nil
}

func validateEnvLatitude(value string) error {
	lat, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid latitude: %w", err)
	}
	return validateLatitude(lat)
}

func validateEnvLongitude(value string) error {
	lng, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid longitude: %w", err)
	}
	return validateLongitude(lng)
}

func validateEnvURL(value string) error {
	return validateURL(value)
}

func validateEnvLocationProvider(value string) error {
	return validateOneOf("location provider", value, locationProviders)
}

func validateEnvStorageType(value string) error {
	return validateOneOf("storage type", value, storageTypes)
}
