package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-gateway/internal/weather/providers"
)

func TestDefaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10, cfg.HTTPMaxConnections)
	assert.Equal(t, 3*time.Second, cfg.HTTPRequestTimeout)
	assert.Equal(t, 3*time.Second, cfg.HTTPConnectTimeout)
	assert.Equal(t, 3*time.Second, cfg.HTTPReadTimeout)
	assert.Equal(t, "london,uk", cfg.DefaultLocation)
	assert.Equal(t, 15*time.Minute, cfg.ProbeInterval)
	assert.Equal(t, providers.Endpoints{
		Aeris:          providers.AerisDefaultURL,
		VisualCrossing: providers.VisualCrossingDefaultURL,
		WeatherAPI:     providers.WeatherAPIDefaultURL,
	}, cfg.Endpoints())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RAPIDAPI_KEY", "secret")
	t.Setenv("HTTP_READ_TIMEOUT", "5s")
	t.Setenv("HTTP_MAX_CONNECTIONS", "4")
	t.Setenv("BREAKER_ENABLED", "false")
	t.Setenv("WEATHERAPI_URL", "http://localhost:9999")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://localhost:9999", cfg.Endpoints().WeatherAPI)

	httpCfg := cfg.HTTPClient()
	assert.Equal(t, "secret", httpCfg.APIKey)
	assert.Equal(t, 5*time.Second, httpCfg.ReadTimeout)
	assert.Equal(t, 3*time.Second, httpCfg.ConnectTimeout)
	assert.Equal(t, 4, httpCfg.MaxConnections)
	assert.False(t, httpCfg.Breaker.Enabled)
}

func TestInvalidValuesRejected(t *testing.T) {
	tests := map[string]string{
		"LOG_LEVEL":            "loud",
		"PORT":                 "http",
		"HTTP_MAX_CONNECTIONS": "0",
		"AERIS_URL":            "not a url",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := FromViper(viper.New())
			assert.Error(t, err)
		})
	}
}
