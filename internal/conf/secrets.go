package conf

import (
	"errors"
	"fmt"

	"github.com/tphakala/weatherboard/internal/secrets"
)

// resolveSecrets replaces credential settings with the values of their
// secret files or expanded ${ENV} references.
func resolveSecrets(s *Settings) error {
	fields := []struct {
		name     string
		filePath string
		value    *string
	}{
		{"weather.apikey", s.Weather.APIKeyFile, &s.Weather.APIKey},
		{"storage.mysql.password", s.Storage.MySQL.PasswordFile, &s.Storage.MySQL.Password},
		{"mqtt.password", s.MQTT.PasswordFile, &s.MQTT.Password},
		{"sentry.dsn", "", &s.Sentry.DSN},
	}

	var errs []error
	for _, f := range fields {
		resolved, err := secrets.Resolve(f.filePath, *f.value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.name, err))
			continue
		}
		*f.value = resolved
	}
	return errors.Join(errs...)
}
