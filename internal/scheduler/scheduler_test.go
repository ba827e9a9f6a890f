package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-gateway/internal/store"
	"github.com/i474232898/weather-gateway/internal/weather"
)

type fakeProvider struct {
	name      string
	err       error
	locations []string
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) MaxForecastHorizonDays() int { return 2 }

func (p *fakeProvider) CurrentWeather(_ context.Context, location string) (weather.Weather, error) {
	p.locations = append(p.locations, location)
	if p.err != nil {
		return weather.Weather{}, p.err
	}
	return weather.Weather{Location: location}, nil
}

func (p *fakeProvider) WeatherByDate(context.Context, time.Time, string) (weather.Weather, error) {
	return weather.Weather{}, nil
}

func TestRunOnceRecordsEveryProvider(t *testing.T) {
	healthy := &fakeProvider{name: "weatherAPI"}
	broken := &fakeProvider{
		name: "aerisWeather",
		err:  weather.NewProviderError("aerisWeather", weather.ErrWrongLocation, nil),
	}
	svc := weather.NewService([]weather.Provider{broken, healthy})
	probes := store.NewProbeStore(5, 0)

	s := New(svc, probes, "london,uk", time.Minute)
	s.RunOnce(context.Background())

	assert.Equal(t, []string{"london,uk"}, healthy.locations)
	assert.Equal(t, []string{"london,uk"}, broken.locations)

	ok, err := probes.Latest("weatherAPI")
	require.NoError(t, err)
	assert.True(t, ok.OK)
	assert.Equal(t, "ok", ok.Kind)
	assert.Empty(t, ok.Error)

	failed, err := probes.Latest("aerisWeather")
	require.NoError(t, err)
	assert.False(t, failed.OK)
	assert.Equal(t, "wrong_location", failed.Kind)
	assert.NotEmpty(t, failed.Error)
}

func TestStartDisabledWithZeroInterval(t *testing.T) {
	svc := weather.NewService([]weather.Provider{&fakeProvider{name: "weatherAPI"}})
	s := New(svc, store.NewProbeStore(5, 0), "london,uk", 0)

	require.NoError(t, s.Start())
	s.Stop()
}

func TestStartRunsProbes(t *testing.T) {
	p := &fakeProvider{name: "weatherAPI"}
	svc := weather.NewService([]weather.Provider{p})
	probes := store.NewProbeStore(5, 0)

	s := New(svc, probes, "london,uk", time.Hour)
	require.NoError(t, s.Start())
	defer s.Stop()

	// gocron runs an interval job immediately on start.
	assert.Eventually(t, func() bool {
		_, err := probes.Latest("weatherAPI")
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
}
