// config.go: settings struct for weatherboard and functions to load and save it.
package conf

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var configFiles embed.FS

// MainSettings contains general application settings.
type MainSettings struct {
	Name     string // instance name, used as MQTT client id and page title
	TimeZone string // time zone for forecast day labels, "Local" or IANA name
}

// WeatherSettings contains weather provider settings.
type WeatherSettings struct {
	Provider   string        // weather provider, only "openweather" is supported
	APIKey     string        // OpenWeather API key, may reference ${ENV} variables
	APIKeyFile string        // file holding the API key, overrides APIKey
	Endpoint   string        // base URL of the 2.5 data API
	Language   string        // language for weather descriptions
	Timeout    time.Duration // timeout for a single provider request
	RateLimit  float64       // provider requests per second, 0 disables limiting
	Burst      int           // request burst size
	CacheTTL   time.Duration // how long fetched records are reused, 0 disables caching
}

// LocationSettings controls the startup location lookup.
type LocationSettings struct {
	Provider  string  // "static", "ip" or "none"
	Latitude  float64 // used by the static provider
	Longitude float64 // used by the static provider
	Endpoint  string  // IP geolocation endpoint used by the ip provider
}

// SQLiteSettings contains settings for the SQLite store.
type SQLiteSettings struct {
	Path string // path to the database file
}

// MySQLSettings contains settings for the MySQL store.
type MySQLSettings struct {
	Host         string
	Port         int
	Username     string
	Password     string
	PasswordFile string // file holding the password, overrides Password
	Database     string
}

// StorageSettings selects where the city list is persisted.
type StorageSettings struct {
	Type   string // "sqlite", "mysql" or "memory"
	Key    string // key holding the serialized city list
	SQLite SQLiteSettings
	MySQL  MySQLSettings
}

// WebServerSettings contains settings for the dashboard web server.
type WebServerSettings struct {
	Listen  string // listen address, e.g. ":8080"
	Metrics bool   // expose prometheus metrics on /metrics
}

// LoggingSettings contains log output settings.
type LoggingSettings struct {
	Level   string // debug, info, warn or error
	Console bool   // human-readable output on stdout
	File    string // JSON log file path, empty disables file output
}

// SentrySettings contains error telemetry settings.
type SentrySettings struct {
	Enabled bool
	DSN     string
}

// MQTTSettings contains settings for publishing city list changes.
type MQTTSettings struct {
	Enabled      bool
	Broker       string // e.g. "tcp://localhost:1883"
	Topic        string
	Username     string
	Password     string
	PasswordFile string // file holding the password, overrides Password
	Retain       bool
}

// Settings is the root configuration.
type Settings struct {
	Debug     bool
	Main      MainSettings
	Weather   WeatherSettings
	Location  LocationSettings
	Storage   StorageSettings
	WebServer WebServerSettings
	Logging   LoggingSettings
	Sentry    SentrySettings
	MQTT      MQTTSettings

	// ConfigFile is the file the settings were read from, runtime value
	ConfigFile string `yaml:"-" mapstructure:"-"`
}

// Load reads configFile, or config.yaml from the default config paths when
// configFile is empty, applies defaults and environment variables and
// validates the result. A default config file is created when none exists.
func Load(configFile string) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaultConfig(v)

	if err := bindEnvVars(v); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	} else if err := readDefaultConfig(v); err != nil {
		return nil, err
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}
	settings.ConfigFile = v.ConfigFileUsed()

	if err := resolveSecrets(settings); err != nil {
		return nil, err
	}
	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}
	return settings, nil
}

func readDefaultConfig(v *viper.Viper) error {
	v.SetConfigName("config")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		v.AddConfigPath(path)
	}

	err = v.ReadInConfig()
	if err == nil {
		return nil
	}
	var configFileNotFoundError viper.ConfigFileNotFoundError
	if !errors.As(err, &configFileNotFoundError) {
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	configPath := filepath.Join(configPaths[0], "config.yaml")
	if err := writeDefaultConfig(configPath); err != nil {
		return err
	}
	v.SetConfigFile(configPath)
	return v.ReadInConfig()
}

// writeDefaultConfig writes the embedded default config to configPath.
func writeDefaultConfig(configPath string) error {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		return fmt.Errorf("error reading embedded config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}
	fmt.Println("Created default config file at:", configPath)
	return nil
}

// GetDefaultConfigPaths returns the directories searched for config.yaml,
// most specific first.
func GetDefaultConfigPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error getting home directory: %w", err)
	}

	if runtime.GOOS == "windows" {
		return []string{
			filepath.Join(homeDir, "AppData", "Roaming", "weatherboard"),
			".",
		}, nil
	}
	return []string{
		filepath.Join(homeDir, ".config", "weatherboard"),
		"/etc/weatherboard",
		".",
	}, nil
}

// SaveYAML writes settings to path as YAML. The file is written to a
// temporary file first and then renamed into place.
func SaveYAML(path string, settings *Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("error writing temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("error closing temporary file: %w", err)
	}
	return os.Rename(tmpName, path)
}

// TimeLocation returns the time zone used for forecast day labels.
func (s *Settings) TimeLocation() (*time.Location, error) {
	switch s.Main.TimeZone {
	case "", "Local":
		return time.Local, nil
	default:
		return time.LoadLocation(s.Main.TimeZone)
	}
}
