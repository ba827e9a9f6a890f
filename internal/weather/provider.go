package weather

import (
	"context"
	"time"
)

// Provider abstracts an upstream weather source (Aeris, VisualCrossing, WeatherAPI).
// Failures are returned as *ProviderError.
type Provider interface {
	Name() string
	MaxForecastHorizonDays() int
	CurrentWeather(ctx context.Context, location string) (Weather, error)
	// WeatherByDate expects date at midnight UTC of the requested calendar day.
	WeatherByDate(ctx context.Context, date time.Time, location string) (Weather, error)
}
