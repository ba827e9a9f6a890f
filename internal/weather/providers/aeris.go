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
	AerisName           = "aerisWeather"
	AerisDefaultURL     = "https://aerisweather1.p.rapidapi.com"
	aerisHost           = "aerisweather1.p.rapidapi.com"
	aerisHorizonDays    = 12
	aerisInvalidLocCode = "invalid_location"
)

// AerisProvider implements weather.Provider for AerisWeather. Aeris has no
// separate current-conditions endpoint: current weather is today's forecast.
type AerisProvider struct {
	baseURL string
	fetch   *fetcher
	now     func() time.Time
}

func NewAerisProvider(httpCfg *HTTPClientConfig, baseURL string) *AerisProvider {
	if baseURL == "" {
		baseURL = AerisDefaultURL
	}
	return &AerisProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetch:   newFetcher(AerisName, aerisHost, httpCfg),
		now:     time.Now,
	}
}

func (p *AerisProvider) Name() string { return AerisName }

func (p *AerisProvider) MaxForecastHorizonDays() int { return aerisHorizonDays }

func (p *AerisProvider) CurrentWeather(ctx context.Context, location string) (weather.Weather, error) {
	now := p.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return p.WeatherByDate(ctx, today, location)
}

func (p *AerisProvider) WeatherByDate(ctx context.Context, date time.Time, location string) (weather.Weather, error) {
	day := date.Format(weather.DateLayout)
	query := url.Values{}
	query.Set("from", day)
	query.Set("to", day)

	body, err := p.fetch.get(ctx, "forecasts", p.baseURL+"/forecasts/"+url.PathEscape(location), query)
	if err != nil {
		return weather.Weather{}, err
	}
	return ParseAeris(body)
}

// ParseAeris normalizes an Aeris forecasts document. The first period of the
// first response entry is used; location is the profile's timezone id.
func ParseAeris(body []byte) (weather.Weather, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return weather.Weather{}, unexpected(AerisName, err)
	}

	if env := doc.Get("error"); env.Exists() && env.Type != gjson.Null {
		code, err := str(env, "code")
		if err != nil {
			return weather.Weather{}, unexpected(AerisName, fmt.Errorf("error envelope: %w", err))
		}
		if code == aerisInvalidLocCode {
			return weather.Weather{}, wrongLocation(AerisName, code)
		}
		return weather.Weather{}, unexpected(AerisName, fmt.Errorf("provider error code %s", code))
	}

	w, err := readAeris(doc)
	if err != nil {
		return weather.Weather{}, unexpected(AerisName, err)
	}
	return w, nil
}

func readAeris(doc gjson.Result) (weather.Weather, error) {
	var w weather.Weather

	responses, err := array(doc, "response")
	if err != nil {
		return w, err
	}
	if len(responses) == 0 {
		return w, missing("response.0")
	}
	entry := responses[0]

	periods, err := array(entry, "periods")
	if err != nil {
		return w, err
	}
	if len(periods) == 0 {
		return w, missing("periods.0")
	}
	period := periods[0]

	if w.Location, err = str(entry, "profile.tz"); err != nil {
		return w, err
	}
	if w.Sunrise, err = isoClock(period, "sunriseISO"); err != nil {
		return w, err
	}
	if w.Sunset, err = isoClock(period, "sunsetISO"); err != nil {
		return w, err
	}
	if w.Temperature, err = number(period, "feelslikeC"); err != nil {
		return w, err
	}
	if w.WindSpeed, err = number(period, "windSpeedMaxMPH"); err != nil {
		return w, err
	}
	if w.WindDirectionDegrees, err = truncated(period, "windDirDEG"); err != nil {
		return w, err
	}
	if w.Description, err = str(period, "weather"); err != nil {
		return w, err
	}
	if w.Pressure, err = truncated(period, "pressureMB"); err != nil {
		return w, err
	}
	return w, nil
}
