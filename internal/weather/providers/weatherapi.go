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
	WeatherAPIName       = "weatherAPI"
	WeatherAPIDefaultURL = "https://weatherapi-com.p.rapidapi.com"
	weatherAPIHost       = "weatherapi-com.p.rapidapi.com"
	weatherAPIHorizon    = 2
	weatherAPIBadLoc     = 1006
	// forecast.json is asked for one day more than the horizon so the last
	// allowed day is always present.
	weatherAPIForecastDays = weatherAPIHorizon + 1
)

// WeatherAPIProvider implements weather.Provider for WeatherAPI.com.
type WeatherAPIProvider struct {
	baseURL string
	fetch   *fetcher
}

func NewWeatherAPIProvider(httpCfg *HTTPClientConfig, baseURL string) *WeatherAPIProvider {
	if baseURL == "" {
		baseURL = WeatherAPIDefaultURL
	}
	return &WeatherAPIProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetch:   newFetcher(WeatherAPIName, weatherAPIHost, httpCfg),
	}
}

func (p *WeatherAPIProvider) Name() string { return WeatherAPIName }

func (p *WeatherAPIProvider) MaxForecastHorizonDays() int { return weatherAPIHorizon }

func (p *WeatherAPIProvider) CurrentWeather(ctx context.Context, location string) (weather.Weather, error) {
	query := url.Values{}
	query.Set("q", location)

	body, err := p.fetch.get(ctx, "current", p.baseURL+"/current.json", query)
	if err != nil {
		return weather.Weather{}, err
	}
	return ParseWeatherAPICurrent(body)
}

func (p *WeatherAPIProvider) WeatherByDate(ctx context.Context, date time.Time, location string) (weather.Weather, error) {
	query := url.Values{}
	query.Set("q", location)
	query.Set("days", fmt.Sprint(weatherAPIForecastDays))

	body, err := p.fetch.get(ctx, "forecast", p.baseURL+"/forecast.json", query)
	if err != nil {
		return weather.Weather{}, err
	}
	return ParseWeatherAPIByDate(body, date)
}

func weatherAPIDocument(body []byte) (gjson.Result, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return gjson.Result{}, unexpected(WeatherAPIName, err)
	}

	if env := doc.Get("error"); env.Exists() {
		code, err := number(env, "code")
		if err != nil {
			return gjson.Result{}, unexpected(WeatherAPIName, fmt.Errorf("error envelope: %w", err))
		}
		if code == weatherAPIBadLoc {
			return gjson.Result{}, wrongLocation(WeatherAPIName, env.Get("code").Raw)
		}
		return gjson.Result{}, unexpected(WeatherAPIName, fmt.Errorf("provider error code %s", env.Get("code").Raw))
	}
	return doc, nil
}

// ParseWeatherAPICurrent normalizes a current.json document. The current
// block carries no sun times.
func ParseWeatherAPICurrent(body []byte) (weather.Weather, error) {
	doc, err := weatherAPIDocument(body)
	if err != nil {
		return weather.Weather{}, err
	}
	w, err := readWeatherAPICurrent(doc)
	if err != nil {
		return weather.Weather{}, unexpected(WeatherAPIName, err)
	}
	return w, nil
}

func readWeatherAPICurrent(doc gjson.Result) (weather.Weather, error) {
	var w weather.Weather

	current, err := object(doc, "current")
	if err != nil {
		return w, err
	}
	if w.Location, err = str(doc, "location.name"); err != nil {
		return w, err
	}
	if w.Temperature, err = number(current, "temp_f"); err != nil {
		return w, err
	}
	if w.WindSpeed, err = number(current, "wind_kph"); err != nil {
		return w, err
	}
	if w.WindDirectionDegrees, err = truncated(current, "wind_degree"); err != nil {
		return w, err
	}
	if w.Description, err = str(current, "condition.text"); err != nil {
		return w, err
	}
	if w.Pressure, err = truncated(current, "pressure_mb"); err != nil {
		return w, err
	}
	return w, nil
}

// ParseWeatherAPIByDate normalizes the forecastday entry whose date string is
// day in yyyy-MM-dd form. Wind and pressure come only from that day's 13:00
// hourly entry and stay zero when it is absent.
func ParseWeatherAPIByDate(body []byte, day time.Time) (weather.Weather, error) {
	doc, err := weatherAPIDocument(body)
	if err != nil {
		return weather.Weather{}, err
	}
	w, found, err := readWeatherAPIDay(doc, day.Format(weather.DateLayout))
	if err != nil {
		return weather.Weather{}, unexpected(WeatherAPIName, err)
	}
	if !found {
		return weather.Weather{}, noDataForDate(WeatherAPIName, day)
	}
	return w, nil
}

func readWeatherAPIDay(doc gjson.Result, date string) (weather.Weather, bool, error) {
	var w weather.Weather

	days, err := array(doc, "forecast.forecastday")
	if err != nil {
		return w, false, err
	}

	for _, entry := range days {
		entryDate, err := str(entry, "date")
		if err != nil {
			return w, false, err
		}
		if entryDate != date {
			continue
		}

		if w.Location, err = str(doc, "location.name"); err != nil {
			return w, false, err
		}
		if w.Temperature, err = number(entry, "day.avgtemp_f"); err != nil {
			return w, false, err
		}
		if w.Description, err = str(entry, "day.condition.text"); err != nil {
			return w, false, err
		}
		if w.Sunrise, err = twelveHourClock(entry, "astro.sunrise"); err != nil {
			return w, false, err
		}
		if w.Sunset, err = twelveHourClock(entry, "astro.sunset"); err != nil {
			return w, false, err
		}
		if err := readWeatherAPIMidday(entry, &w); err != nil {
			return w, false, err
		}
		return w, true, nil
	}
	return w, false, nil
}

var weatherAPIMidday = weather.TimeOfDay{Hour: 13}

func readWeatherAPIMidday(entry gjson.Result, w *weather.Weather) error {
	hours, err := array(entry, "hour")
	if err != nil {
		return err
	}
	for i, h := range hours {
		raw, err := str(h, "time")
		if err != nil {
			return fmt.Errorf("hour.%d: %w", i, err)
		}
		at, perr := time.Parse(hourlyLayout, raw)
		if perr != nil {
			return &fieldError{path: fmt.Sprintf("hour.%d.time", i), reason: fmt.Sprintf("unparsable time %q", raw)}
		}
		if weather.ClockOf(at) != weatherAPIMidday {
			continue
		}
		if w.WindSpeed, err = number(h, "wind_kph"); err != nil {
			return err
		}
		if w.WindDirectionDegrees, err = truncated(h, "wind_degree"); err != nil {
			return err
		}
		if w.Pressure, err = truncated(h, "pressure_mb"); err != nil {
			return err
		}
	}
	return nil
}
