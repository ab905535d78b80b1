package mqtt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/weatherboard/internal/conf"
	"github.com/tphakala/weatherboard/internal/errors"
)

func TestConfigFromSettings(t *testing.T) {
	t.Parallel()

	settings := &conf.Settings{}
	settings.Main.Name = "weatherboard"
	settings.MQTT = conf.MQTTSettings{
		Enabled:  true,
		Broker:   "tcp://broker.local:1883",
		Topic:    "weatherboard/cities",
		Username: "user",
		Password: "secret",
		Retain:   true,
	}

	cfg := ConfigFromSettings(settings)
	assert.Equal(t, "tcp://broker.local:1883", cfg.Broker)
	assert.Equal(t, "weatherboard", cfg.ClientID)
	assert.Equal(t, "weatherboard/cities", cfg.Topic)
	assert.True(t, cfg.Retain)
	assert.Equal(t, 10*time.Second, cfg.PublishTimeout)
}

func TestClientInvalidBroker(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Broker = "://missing-scheme"
	c := NewClient(cfg, testLogger())

	err := c.Connect(t.Context())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
	assert.False(t, c.IsConnected())
}

func TestClientConnectCooldown(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Broker = "://missing-scheme"
	cfg.ReconnectCooldown = time.Hour
	c := NewClient(cfg, testLogger())

	require.Error(t, c.Connect(t.Context()))
	err := c.Connect(t.Context())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryLimit))
}

func TestClientPublishNotConnected(t *testing.T) {
	t.Parallel()

	c := NewClient(DefaultConfig(), testLogger())
	err := c.Publish(t.Context(), "t", []byte("{}"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryState))

	c.Disconnect()
}
