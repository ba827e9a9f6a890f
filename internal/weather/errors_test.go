package weather

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindLabel(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{NewProviderError("weatherAPI", ErrTransport, errors.New("dial tcp")), "transport"},
		{NewProviderError("weatherAPI", ErrUnexpectedResponse, nil), "unexpected_response"},
		{fmt.Errorf("wrapped: %w", NewProviderError("aerisWeather", ErrWrongLocation, nil)), "wrong_location"},
		{NewProviderError("weatherAPI", ErrNoDataForDate, nil), "no_data_for_date"},
		{&RequestError{Kind: ErrUnknownProvider, Value: "x"}, "unknown_provider"},
		{&RequestError{Kind: ErrInvalidDateFormat, Value: "x"}, "invalid_date_format"},
		{&RequestError{Kind: ErrPastDate, Value: "x"}, "past_date"},
		{&RequestError{Kind: ErrForecastHorizonExceeded, Value: "x"}, "horizon_exceeded"},
		{errors.New("boom"), "other"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, KindLabel(tt.err))
	}
}

func TestProviderErrorKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewProviderError("weatherAPI", ErrTransport, cause)

	assert.True(t, errors.Is(err, ErrTransport))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrUnexpectedResponse))
	assert.Equal(t, "weatherAPI: provider transport failure: dial tcp: connection refused", err.Error())
}

func TestTimeOfDayText(t *testing.T) {
	b, err := json.Marshal(Weather{Sunrise: &TimeOfDay{Hour: 7, Minute: 5, Second: 9}})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"sunrise":"07:05:09"`)
	assert.NotContains(t, string(b), "sunset")

	var w Weather
	require.NoError(t, json.Unmarshal([]byte(`{"sunset":"16:02:00"}`), &w))
	require.NotNil(t, w.Sunset)
	assert.Equal(t, TimeOfDay{Hour: 16, Minute: 2}, *w.Sunset)

	assert.Error(t, json.Unmarshal([]byte(`{"sunset":"4pm"}`), &w))
}
