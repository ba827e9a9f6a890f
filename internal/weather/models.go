package weather

import (
	"fmt"
	"time"
)

// DateLayout is the canonical request date pattern (yyyy-MM-dd).
const DateLayout = "2006-01-02"

// CurrentDate is the date sentinel meaning "today, current conditions".
const CurrentDate = "current"

// TimeOfDay is a wall-clock time without date or zone.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ClockOf keeps the wall-clock part of t in t's own location.
func ClockOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// MarshalText renders HH:MM:SS; used by the json, xml and yaml encoders alike.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := time.Parse("15:04:05", string(b))
	if err != nil {
		return fmt.Errorf("invalid time of day %q: %w", string(b), err)
	}
	*t = ClockOf(parsed)
	return nil
}

// Weather is the canonical record every provider is normalized into.
// Fields a provider does not supply stay at their zero value; units are
// provider-native and never converted.
type Weather struct {
	Location             string     `json:"location" xml:"location" yaml:"location"`
	Temperature          float64    `json:"temperature" xml:"temperature" yaml:"temperature"`
	WindSpeed            float64    `json:"windSpeed" xml:"windSpeed" yaml:"windSpeed"`
	WindDirectionDegrees int        `json:"windDirectionDegrees" xml:"windDirectionDegrees" yaml:"windDirectionDegrees"`
	Pressure             int        `json:"pressure" xml:"pressure" yaml:"pressure"`
	Sunrise              *TimeOfDay `json:"sunrise,omitempty" xml:"sunrise,omitempty" yaml:"sunrise,omitempty"`
	Sunset               *TimeOfDay `json:"sunset,omitempty" xml:"sunset,omitempty" yaml:"sunset,omitempty"`
	Description          string     `json:"description" xml:"description" yaml:"description"`
}

// Descriptor is the static identity of a provider variant.
type Descriptor struct {
	Name                   string `json:"name"`
	MaxForecastHorizonDays int    `json:"maxForecastHorizonDays"`
}
