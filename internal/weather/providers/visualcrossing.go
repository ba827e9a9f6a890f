package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/i474232898/weather-gateway/internal/weather"
)

const (
	VisualCrossingName       = "visualCrossingWeather"
	VisualCrossingDefaultURL = "https://visual-crossing-weather.p.rapidapi.com"
	visualCrossingHost       = "visual-crossing-weather.p.rapidapi.com"
	visualCrossingHorizon    = 12
	visualCrossingBadLoc     = 999
)

// VisualCrossingProvider implements weather.Provider for Visual Crossing.
// One forecast document carries both the current conditions block and the
// daily values; the two operations differ only in how it is read.
type VisualCrossingProvider struct {
	baseURL string
	fetch   *fetcher
}

func NewVisualCrossingProvider(httpCfg *HTTPClientConfig, baseURL string) *VisualCrossingProvider {
	if baseURL == "" {
		baseURL = VisualCrossingDefaultURL
	}
	return &VisualCrossingProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetch:   newFetcher(VisualCrossingName, visualCrossingHost, httpCfg),
	}
}

func (p *VisualCrossingProvider) Name() string { return VisualCrossingName }

func (p *VisualCrossingProvider) MaxForecastHorizonDays() int { return visualCrossingHorizon }

func (p *VisualCrossingProvider) CurrentWeather(ctx context.Context, location string) (weather.Weather, error) {
	body, err := p.forecast(ctx, "current", location)
	if err != nil {
		return weather.Weather{}, err
	}
	return ParseVisualCrossingCurrent(body)
}

func (p *VisualCrossingProvider) WeatherByDate(ctx context.Context, date time.Time, location string) (weather.Weather, error) {
	body, err := p.forecast(ctx, "forecast", location)
	if err != nil {
		return weather.Weather{}, err
	}
	return ParseVisualCrossingByDate(body, date)
}

func (p *VisualCrossingProvider) forecast(ctx context.Context, endpoint, location string) ([]byte, error) {
	query := url.Values{}
	query.Set("location", location)
	query.Set("aggregateHours", "24")
	query.Set("contentType", "json")
	query.Set("shortColumnNames", "0")
	query.Set("unitGroup", "us")
	return p.fetch.get(ctx, endpoint, p.baseURL+"/forecast", query)
}

// visualCrossingPlace checks the error envelope and returns the sole entry of
// the locations mapping.
func visualCrossingPlace(body []byte) (gjson.Result, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return gjson.Result{}, unexpected(VisualCrossingName, err)
	}

	if code := doc.Get("errorCode"); code.Exists() {
		if code.Type == gjson.Number && code.Num == visualCrossingBadLoc {
			return gjson.Result{}, wrongLocation(VisualCrossingName, code.Raw)
		}
		return gjson.Result{}, unexpected(VisualCrossingName, fmt.Errorf("provider error code %s", code.Raw))
	}

	locations, err := object(doc, "locations")
	if err != nil {
		return gjson.Result{}, unexpected(VisualCrossingName, err)
	}
	var place gjson.Result
	locations.ForEach(func(_, value gjson.Result) bool {
		place = value
		return false
	})
	if !place.Exists() {
		return gjson.Result{}, unexpected(VisualCrossingName, missing("locations.*"))
	}
	if !place.IsObject() {
		return gjson.Result{}, unexpected(VisualCrossingName, wrongType("locations.*", place))
	}
	return place, nil
}

// ParseVisualCrossingCurrent normalizes the currentConditions block.
func ParseVisualCrossingCurrent(body []byte) (weather.Weather, error) {
	place, err := visualCrossingPlace(body)
	if err != nil {
		return weather.Weather{}, err
	}
	w, err := readVisualCrossingCurrent(place)
	if err != nil {
		return weather.Weather{}, unexpected(VisualCrossingName, err)
	}
	return w, nil
}

func readVisualCrossingCurrent(place gjson.Result) (weather.Weather, error) {
	var w weather.Weather

	current, err := object(place, "currentConditions")
	if err != nil {
		return w, err
	}

	if w.Location, err = str(place, "name"); err != nil {
		return w, err
	}
	if w.Temperature, err = number(current, "temp"); err != nil {
		return w, err
	}
	if w.WindSpeed, err = number(current, "wspd"); err != nil {
		return w, err
	}
	if w.WindDirectionDegrees, err = truncated(current, "wdir"); err != nil {
		return w, err
	}
	if w.Description, err = str(current, "icon"); err != nil {
		return w, err
	}
	// Absent or null sea-level pressure is reported as 0.
	if v := current.Get("sealevelpressure"); v.Exists() && v.Type != gjson.Null {
		if w.Pressure, err = truncated(current, "sealevelpressure"); err != nil {
			return w, err
		}
	}
	if w.Sunrise, err = isoClock(current, "sunrise"); err != nil {
		return w, err
	}
	if w.Sunset, err = isoClock(current, "sunset"); err != nil {
		return w, err
	}
	return w, nil
}

// ParseVisualCrossingByDate normalizes the daily values entry whose
// datetimeStr falls on day. Daily entries carry no sun times.
func ParseVisualCrossingByDate(body []byte, day time.Time) (weather.Weather, error) {
	place, err := visualCrossingPlace(body)
	if err != nil {
		return weather.Weather{}, err
	}
	w, found, err := readVisualCrossingDay(place, day)
	if err != nil {
		return weather.Weather{}, unexpected(VisualCrossingName, err)
	}
	if !found {
		return weather.Weather{}, noDataForDate(VisualCrossingName, day)
	}
	return w, nil
}

func readVisualCrossingDay(place gjson.Result, day time.Time) (weather.Weather, bool, error) {
	var w weather.Weather

	values, err := array(place, "values")
	if err != nil {
		return w, false, err
	}

	for i, entry := range values {
		at, err := isoTime(entry, "datetimeStr")
		if err != nil {
			return w, false, fmt.Errorf("values.%d: %w", i, err)
		}
		if !sameDay(at, day) {
			continue
		}

		if w.Location, err = str(place, "name"); err != nil {
			return w, false, err
		}
		if w.Temperature, err = number(entry, "temp"); err != nil {
			return w, false, err
		}
		if w.WindSpeed, err = number(entry, "wspd"); err != nil {
			return w, false, err
		}
		if w.WindDirectionDegrees, err = truncated(entry, "wdir"); err != nil {
			return w, false, err
		}
		if w.Description, err = str(entry, "conditions"); err != nil {
			return w, false, err
		}
		if w.Pressure, err = truncated(entry, "sealevelpressure"); err != nil {
			return w, false, err
		}
		return w, true, nil
	}
	return w, false, nil
}
