package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "debug: false\n")

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "openweather", settings.Weather.Provider)
	assert.Equal(t, DefaultOpenWeatherURL, settings.Weather.Endpoint)
	assert.Equal(t, 10*time.Second, settings.Weather.Timeout)
	assert.Equal(t, 10*time.Minute, settings.Weather.CacheTTL)
	assert.Equal(t, DefaultStorageKey, settings.Storage.Key)
	assert.Equal(t, "sqlite", settings.Storage.Type)
	assert.Equal(t, ":8080", settings.WebServer.Listen)
	assert.Equal(t, path, settings.ConfigFile)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
weather:
  apikey: file-key
  timeout: 3s
  cachettl: 0s
location:
  provider: static
  latitude: 60.1699
  longitude: 24.9384
storage:
  type: memory
  key: cities
`)

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", settings.Weather.APIKey)
	assert.Equal(t, 3*time.Second, settings.Weather.Timeout)
	assert.Zero(t, settings.Weather.CacheTTL)
	assert.Equal(t, "static", settings.Location.Provider)
	assert.InDelta(t, 60.1699, settings.Location.Latitude, 0.0001)
	assert.Equal(t, "memory", settings.Storage.Type)
	assert.Equal(t, "cities", settings.Storage.Key)
	require.NoError(t, settings.RequireAPIKey())
}

func TestLoad_WeatherSection(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "owm.key")
	require.NoError(t, os.WriteFile(keyFile, []byte("secret-from-file\n"), 0o600))
	path := writeConfig(t, `
weather:
  provider: openweather
  apikey: inline-key
  apikeyfile: `+keyFile+`
  endpoint: https://owm.example/data/2.5
  language: fi
  timeout: 4s
  ratelimit: 2.5
  burst: 3
  cachettl: 90s
`)

	settings, err := Load(path)
	require.NoError(t, err)

	w := settings.Weather
	assert.Equal(t, "openweather", w.Provider)
	assert.Equal(t, "secret-from-file", w.APIKey, "key file overrides the inline key")
	assert.Equal(t, keyFile, w.APIKeyFile)
	assert.Equal(t, "https://owm.example/data/2.5", w.Endpoint)
	assert.Equal(t, "fi", w.Language)
	assert.Equal(t, 4*time.Second, w.Timeout)
	assert.InDelta(t, 2.5, w.RateLimit, 0)
	assert.Equal(t, 3, w.Burst)
	assert.Equal(t, 90*time.Second, w.CacheTTL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("WEATHERBOARD_API_KEY", "env-key")
	t.Setenv("WEATHERBOARD_STORAGE_TYPE", "memory")
	path := writeConfig(t, "weather:\n  apikey: file-key\n")

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", settings.Weather.APIKey)
	assert.Equal(t, "memory", settings.Storage.Type)
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("WEATHERBOARD_LATITUDE", "123")
	path := writeConfig(t, "debug: false\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEATHERBOARD_LATITUDE")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestSaveYAML_RoundTrip(t *testing.T) {
	path := writeConfig(t, "weather:\n  apikey: round-trip\n  timeout: 4s\n")
	settings, err := Load(path)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, SaveYAML(out, settings))

	reloaded, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, "round-trip", reloaded.Weather.APIKey)
	assert.Equal(t, 4*time.Second, reloaded.Weather.Timeout)
	assert.Equal(t, settings.Storage, reloaded.Storage)
}

func TestEmbeddedDefaultConfigIsValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, writeDefaultConfig(path))

	settings, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Weatherboard", settings.Main.Name)
	assert.ErrorIs(t, settings.RequireAPIKey(), ErrMissingAPIKey)
}

func TestLoad_SecretsFromEnvReference(t *testing.T) {
	t.Setenv("WB_OWM_KEY", "env-key")
	path := writeConfig(t, "weather:\n  apikey: ${WB_OWM_KEY}\n")

	settings, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", settings.Weather.APIKey)
}

func TestLoad_SecretsFromFile(t *testing.T) {
	secretPath := filepath.Join(t.TempDir(), "mqtt_password")
	require.NoError(t, os.WriteFile(secretPath, []byte("broker-pass\n"), 0o600))

	path := writeConfig(t, "mqtt:\n  password: ignored\n  passwordfile: "+secretPath+"\n")

	settings, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "broker-pass", settings.MQTT.Password)
}

func TestLoad_MissingSecretReference(t *testing.T) {
	path := writeConfig(t, "weather:\n  apikey: ${WB_UNSET_SECRET_VARIABLE}\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weather.apikey")
	assert.Contains(t, err.Error(), "WB_UNSET_SECRET_VARIABLE")
}
