package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/i474232898/weather-gateway/internal/weather/providers"
)

type AppConfig struct {
	Port      string `mapstructure:"port" validate:"required,numeric"`
	LogLevel  string `mapstructure:"log_level" validate:"oneof=trace debug info warn error"`
	LogPretty bool   `mapstructure:"log_pretty"`

	// Credential sent to every provider in x-rapidapi-key.
	RapidAPIKey string `mapstructure:"rapidapi_key"`

	AerisURL          string `mapstructure:"aeris_url" validate:"required,url"`
	VisualCrossingURL string `mapstructure:"visualcrossing_url" validate:"required,url"`
	WeatherAPIURL     string `mapstructure:"weatherapi_url" validate:"required,url"`

	HTTPMaxConnections int           `mapstructure:"http_max_connections" validate:"gte=1"`
	HTTPRequestTimeout time.Duration `mapstructure:"http_request_timeout" validate:"gt=0"`
	HTTPConnectTimeout time.Duration `mapstructure:"http_connect_timeout" validate:"gt=0"`
	HTTPReadTimeout    time.Duration `mapstructure:"http_read_timeout" validate:"gt=0"`

	BreakerEnabled     bool          `mapstructure:"breaker_enabled"`
	BreakerMaxRequests uint32        `mapstructure:"breaker_max_requests" validate:"gte=1"`
	BreakerInterval    time.Duration `mapstructure:"breaker_interval" validate:"gte=0"`
	BreakerTimeout     time.Duration `mapstructure:"breaker_timeout" validate:"gte=0"`

	// ProbeInterval controls how often providers are health-probed (0 disables).
	ProbeInterval   time.Duration `mapstructure:"probe_interval" validate:"gte=0"`
	ProbeLocation   string        `mapstructure:"probe_location" validate:"required"`
	ProbeMaxHistory int           `mapstructure:"probe_max_history"` // 0 = unlimited
	ProbeMaxAge     time.Duration `mapstructure:"probe_max_age"`     // 0 = unlimited

	DefaultLocation string `mapstructure:"default_location" validate:"required"`
	GeoIPURL        string `mapstructure:"geoip_url" validate:"required,url"`
	GeocoderAPIKey  string `mapstructure:"geocoder_api_key"`
}

var defaults = map[string]any{
	"port":                 "8080",
	"log_level":            "info",
	"log_pretty":           false,
	"rapidapi_key":         "",
	"aeris_url":            providers.AerisDefaultURL,
	"visualcrossing_url":   providers.VisualCrossingDefaultURL,
	"weatherapi_url":       providers.WeatherAPIDefaultURL,
	"http_max_connections": 10,
	"http_request_timeout": "3s",
	"http_connect_timeout": "3s",
	"http_read_timeout":    "3s",
	"breaker_enabled":      true,
	"breaker_max_requests": 5,
	"breaker_interval":     "1m",
	"breaker_timeout":      "2m",
	"probe_interval":       "15m",
	"probe_location":       "london,uk",
	"probe_max_history":    20,
	"probe_max_age":        "24h",
	"default_location":     "london,uk",
	"geoip_url":            "http://ip-api.com/json",
	"geocoder_api_key":     "",
}

var validate = validator.New()

// Load reads configuration from .env and the environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}
	return FromViper(viper.New())
}

// FromViper binds defaults and environment variables into v and decodes them.
// Keys map to upper-case environment names (http_read_timeout -> HTTP_READ_TIMEOUT).
func FromViper(v *viper.Viper) (*AppConfig, error) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// HTTPClient builds the shared outbound HTTP configuration.
func (c *AppConfig) HTTPClient() *providers.HTTPClientConfig {
	return &providers.HTTPClientConfig{
		APIKey:         c.RapidAPIKey,
		MaxConnections: c.HTTPMaxConnections,
		RequestTimeout: c.HTTPRequestTimeout,
		ConnectTimeout: c.HTTPConnectTimeout,
		ReadTimeout:    c.HTTPReadTimeout,
		Breaker: providers.BreakerConfig{
			Enabled:     c.BreakerEnabled,
			MaxRequests: c.BreakerMaxRequests,
			Interval:    c.BreakerInterval,
			Timeout:     c.BreakerTimeout,
		},
	}
}

// Endpoints returns the configured provider base URLs.
func (c *AppConfig) Endpoints() providers.Endpoints {
	return providers.Endpoints{
		Aeris:          c.AerisURL,
		VisualCrossing: c.VisualCrossingURL,
		WeatherAPI:     c.WeatherAPIURL,
	}
}
