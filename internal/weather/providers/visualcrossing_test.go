package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-gateway/internal/weather"
)

const visualCrossingForecast = `{
  "columns": {},
  "remainingCost": 0,
  "queryCost": 1,
  "messages": null,
  "locations": {
    "london,uk": {
      "stationContributions": null,
      "values": [
        {"wdir": 200.4, "temp": 50.1, "datetimeStr": "2023-01-01T00:00:00-05:00", "wspd": 10.2, "sealevelpressure": 1015.8, "conditions": "Rain, Overcast"},
        {"wdir": 180.9, "temp": 48.0, "datetimeStr": "2023-01-02T00:00:00-05:00", "wspd": 8.5, "sealevelpressure": 1020.3, "conditions": "Overcast"}
      ],
      "name": "London, England, United Kingdom",
      "currentConditions": {
        "wdir": 210.7,
        "temp": 49.6,
        "sunrise": "2023-01-01T08:06:17+00:00",
        "wspd": 11.4,
        "icon": "rain",
        "sunset": "2023-01-01T16:02:01+00:00",
        "sealevelpressure": 1014.2
      }
    }
  }
}`

func TestParseVisualCrossingCurrent(t *testing.T) {
	w, err := ParseVisualCrossingCurrent([]byte(visualCrossingForecast))
	require.NoError(t, err)

	assert.Equal(t, "London, England, United Kingdom", w.Location)
	assert.Equal(t, 49.6, w.Temperature)
	assert.Equal(t, 11.4, w.WindSpeed)
	assert.Equal(t, 210, w.WindDirectionDegrees)
	assert.Equal(t, 1014, w.Pressure)
	assert.Equal(t, "rain", w.Description)
	require.NotNil(t, w.Sunrise)
	assert.Equal(t, "08:06:17", w.Sunrise.String())
	require.NotNil(t, w.Sunset)
	assert.Equal(t, "16:02:01", w.Sunset.String())
}

func TestParseVisualCrossingCurrentNullPressure(t *testing.T) {
	body := `{"locations":{"x":{"name":"Paris","currentConditions":{"wdir":10,"temp":41,"wspd":3,"icon":"clear-day","sealevelpressure":null,"sunrise":"2023-01-01T08:40:00+01:00","sunset":"2023-01-01T17:04:00+01:00"}}}}`

	w, err := ParseVisualCrossingCurrent([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, 0, w.Pressure)
	assert.Equal(t, "Paris", w.Location)
	assert.Equal(t, "08:40:00", w.Sunrise.String())
}

func TestParseVisualCrossingByDate(t *testing.T) {
	w, err := ParseVisualCrossingByDate([]byte(visualCrossingForecast), time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "London, England, United Kingdom", w.Location)
	assert.Equal(t, 48.0, w.Temperature)
	assert.Equal(t, 8.5, w.WindSpeed)
	assert.Equal(t, 180, w.WindDirectionDegrees)
	assert.Equal(t, 1020, w.Pressure)
	assert.Equal(t, "Overcast", w.Description)
	assert.Nil(t, w.Sunrise)
	assert.Nil(t, w.Sunset)
}

func TestParseVisualCrossingByDateNoEntry(t *testing.T) {
	_, err := ParseVisualCrossingByDate([]byte(visualCrossingForecast), time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.True(t, errors.Is(err, weather.ErrNoDataForDate), "got %v", err)
}

func TestParseVisualCrossingErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind error
	}{
		{"bad location", `{"errorCode":999,"executionTime":0,"message":"Bad API Request:Invalid location parameter value."}`, weather.ErrWrongLocation},
		{"other error code", `{"errorCode":401,"message":"No account found"}`, weather.ErrUnexpectedResponse},
		{"no locations", `{"columns":{}}`, weather.ErrUnexpectedResponse},
		{"empty locations", `{"locations":{}}`, weather.ErrUnexpectedResponse},
		{"missing current", `{"locations":{"x":{"name":"Paris"}}}`, weather.ErrUnexpectedResponse},
		{"truncated body", `{"locations":{"x":`, weather.ErrUnexpectedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVisualCrossingCurrent([]byte(tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
		})
	}
}

func TestVisualCrossingQuery(t *testing.T) {
	var got url.Values
	var gotPath, gotHost string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		gotPath = r.URL.Path
		gotHost = r.Header.Get("x-rapidapi-host")
		_, _ = w.Write([]byte(visualCrossingForecast))
	}))
	defer srv.Close()

	p := NewVisualCrossingProvider(testHTTPConfig(), srv.URL)
	_, err := p.CurrentWeather(context.Background(), "london,uk")
	require.NoError(t, err)

	assert.Equal(t, "/forecast", gotPath)
	assert.Equal(t, visualCrossingHost, gotHost)
	assert.Equal(t, "london,uk", got.Get("location"))
	assert.Equal(t, "24", got.Get("aggregateHours"))
	assert.Equal(t, "json", got.Get("contentType"))
	assert.Equal(t, "0", got.Get("shortColumnNames"))
	assert.Equal(t, "us", got.Get("unitGroup"))

	w, err := p.WeatherByDate(context.Background(), time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), "london,uk")
	require.NoError(t, err)
	assert.Equal(t, "Rain, Overcast", w.Description)
}
