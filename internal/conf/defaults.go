// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Default values shared with validation and tests.
const (
	DefaultStorageKey       = "weatherDashboardCities"
	DefaultOpenWeatherURL   = "https://api.openweathermap.org/data/2.5"
	DefaultIPLocateEndpoint = "http://ip-api.com/json"
)

// Sets default values for the configuration.
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("main.name", "Weatherboard")
	v.SetDefault("main.timezone", "Local")

	v.SetDefault("weather.provider", "openweather")
	v.SetDefault("weather.apikey", "")
	v.SetDefault("weather.apikeyfile", "")
	v.SetDefault("weather.endpoint", DefaultOpenWeatherURL)
	v.SetDefault("weather.language", "en")
	v.SetDefault("weather.timeout", 10*time.Second)
	v.SetDefault("weather.ratelimit", 1.0)
	v.SetDefault("weather.burst", 5)
	v.SetDefault("weather.cachettl", 10*time.Minute)

	v.SetDefault("location.provider", "ip")
	v.SetDefault("location.latitude", 0.0)
	v.SetDefault("location.longitude", 0.0)
	v.SetDefault("location.endpoint", DefaultIPLocateEndpoint)

	v.SetDefault("storage.type", "sqlite")
	v.SetDefault("storage.key", DefaultStorageKey)
	v.SetDefault("storage.sqlite.path", "weatherboard.db")
	v.SetDefault("storage.mysql.host", "localhost")
	v.SetDefault("storage.mysql.port", 3306)
	v.SetDefault("storage.mysql.username", "")
	v.SetDefault("storage.mysql.password", "")
	v.SetDefault("storage.mysql.passwordfile", "")
	v.SetDefault("storage.mysql.database", "weatherboard")

	v.SetDefault("webserver.listen", ":8080")
	v.SetDefault("webserver.metrics", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", "")

	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")

	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.topic", "weatherboard/cities")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.passwordfile", "")
	v.SetDefault("mqtt.retain", true)
}
