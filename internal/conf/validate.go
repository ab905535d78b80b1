// validate.go: settings validation
package conf

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

var (
	weatherProviders  = []string{"openweather"}
	locationProviders = []string{"static", "ip", "none"}
	storageTypes      = []string{"sqlite", "mysql", "memory"}
)

// ErrMissingAPIKey is returned by RequireAPIKey when no provider key is set.
var ErrMissingAPIKey = errors.New("weather API key not configured, set weather.apikey or WEATHERBOARD_API_KEY")

// ValidateSettings checks the settings for values that would make the
// application misbehave. All problems are reported together.
func ValidateSettings(s *Settings) error {
	var errs []error

	if _, err := s.TimeLocation(); err != nil {
		errs = append(errs, fmt.Errorf("main.timezone: %w", err))
	}

	if err := validateOneOf("weather provider", s.Weather.Provider, weatherProviders); err != nil {
		errs = append(errs, err)
	}
	if err := validateURL(s.Weather.Endpoint); err != nil {
		errs = append(errs, fmt.Errorf("weather.endpoint: %w", err))
	}
	if s.Weather.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("weather.timeout must be positive, got %s", s.Weather.Timeout))
	}
	if s.Weather.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("weather.ratelimit cannot be negative, got %g", s.Weather.RateLimit))
	}
	if s.Weather.RateLimit > 0 && s.Weather.Burst < 1 {
		errs = append(errs, fmt.Errorf("weather.burst must be at least 1 when rate limiting, got %d", s.Weather.Burst))
	}
	if s.Weather.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("weather.cachettl cannot be negative, got %s", s.Weather.CacheTTL))
	}

	if err := validateOneOf("location provider", s.Location.Provider, locationProviders); err != nil {
		errs = append(errs, err)
	}
	if err := validateLatitude(s.Location.Latitude); err != nil {
		errs = append(errs, err)
	}
	if err := validateLongitude(s.Location.Longitude); err != nil {
		errs = append(errs, err)
	}
	if s.Location.Provider == "ip" {
		if err := validateURL(s.Location.Endpoint); err != nil {
			errs = append(errs, fmt.Errorf("location.endpoint: %w", err))
		}
	}

	if err := validateOneOf("storage type", s.Storage.Type, storageTypes); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(s.Storage.Key) == "" {
		errs = append(errs, errors.New("storage.key cannot be empty"))
	}
	switch s.Storage.Type {
	case "sqlite":
		if s.Storage.SQLite.Path == "" {
			errs = append(errs, errors.New("storage.sqlite.path cannot be empty"))
		}
	case "mysql":
		if s.Storage.MySQL.Host == "" || s.Storage.MySQL.Database == "" {
			errs = append(errs, errors.New("storage.mysql requires host and database"))
		}
		if s.Storage.MySQL.Port <= 0 || s.Storage.MySQL.Port > 65535 {
			errs = append(errs, fmt.Errorf("storage.mysql.port out of range: %d", s.Storage.MySQL.Port))
		}
	}

	if s.Sentry.Enabled && s.Sentry.DSN == "" {
		errs = append(errs, errors.New("sentry.dsn is required when sentry is enabled"))
	}

	if s.MQTT.Enabled {
		if err := validateURL(s.MQTT.Broker); err != nil {
			errs = append(errs, fmt.Errorf("mqtt.broker: %w", err))
		}
		if s.MQTT.Topic == "" {
			errs = append(errs, errors.New("mqtt.topic cannot be empty"))
		}
	}

	return errors.Join(errs...)
}

// RequireAPIKey returns ErrMissingAPIKey when the weather provider cannot be
// called.
func (s *Settings) RequireAPIKey() error {
	if strings.TrimSpace(s.Weather.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func validateOneOf(name, value string, allowed []string) error {
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q, expected one of %s", name, value, strings.Join(allowed, ", "))
	}
	return nil
}

func validateLatitude(lat float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got %g", lat)
	}
	return nil
}

func validateLongitude(lng float64) error {
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got %g", lng)
	}
	return nil
}

func validateURL(value string) error {
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("URL %q must include scheme and host", value)
	}
	return nil
}
