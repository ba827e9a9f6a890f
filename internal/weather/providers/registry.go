package providers

import "github.com/i474232898/weather-gateway/internal/weather"

// Endpoints holds the upstream base URLs; empty values use the defaults.
type Endpoints struct {
	Aeris          string
	VisualCrossing string
	WeatherAPI     string
}

// All returns the closed set of provider variants in registration order.
func All(httpCfg *HTTPClientConfig, endpoints Endpoints) []weather.Provider {
	return []weather.Provider{
		NewAerisProvider(httpCfg, endpoints.Aeris),
		NewVisualCrossingProvider(httpCfg, endpoints.VisualCrossing),
		NewWeatherAPIProvider(httpCfg, endpoints.WeatherAPI),
	}
}
