package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Service resolves providers by name and validates requested dates before
// delegating a single fetch to the selected provider.
type Service struct {
	providers map[string]Provider
	names     []string
	now       func() time.Time
	onError   func(kind string)
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithErrorHook is called with the kind label of every failed request.
func WithErrorHook(fn func(kind string)) Option {
	return func(s *Service) { s.onError = fn }
}

// NewService creates a Service over a fixed set of providers. Names must be
// unique; a later duplicate is ignored.
func NewService(providers []Provider, opts ...Option) *Service {
	s := &Service{
		providers: make(map[string]Provider, len(providers)),
		now:       time.Now,
	}
	for _, p := range providers {
		if _, dup := s.providers[p.Name()]; dup {
			log.Warn().Str("provider", p.Name()).Msg("duplicate provider name ignored")
			continue
		}
		s.providers[p.Name()] = p
		s.names = append(s.names, p.Name())
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProviderNames returns registered names in registration order.
func (s *Service) ProviderNames() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Descriptors returns the identity of every registered provider.
func (s *Service) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(s.names))
	for _, name := range s.names {
		p := s.providers[name]
		out = append(out, Descriptor{Name: name, MaxForecastHorizonDays: p.MaxForecastHorizonDays()})
	}
	return out
}

// Provider looks up a provider by exact name.
func (s *Service) Provider(name string) (Provider, error) {
	p, ok := s.providers[name]
	if !ok {
		return nil, unknownProvider(name, s.names)
	}
	return p, nil
}

// Today is the current calendar date at midnight UTC.
func (s *Service) Today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Current fetches current conditions from the named provider.
func (s *Service) Current(ctx context.Context, providerName, location string) (Weather, error) {
	return s.Get(ctx, providerName, CurrentDate, location)
}

// Get dispatches a request. date is either CurrentDate or a yyyy-MM-dd string.
func (s *Service) Get(ctx context.Context, providerName, date, location string) (Weather, error) {
	w, err := s.get(ctx, providerName, date, location)
	if err != nil {
		kind := KindLabel(err)
		log.Warn().Err(err).
			Str("provider", providerName).
			Str("date", date).
			Str("location", location).
			Str("kind", kind).
			Msg("weather request failed")
		if s.onError != nil {
			s.onError(kind)
		}
		return Weather{}, err
	}
	return w, nil
}

func (s *Service) get(ctx context.Context, providerName, date, location string) (Weather, error) {
	p, err := s.Provider(providerName)
	if err != nil {
		return Weather{}, err
	}

	log.Info().Str("provider", providerName).Str("date", date).Str("location", location).Msg("weather request")

	if date == CurrentDate {
		return p.CurrentWeather(ctx, location)
	}

	day, err := ParseDate(date)
	if err != nil {
		return Weather{}, err
	}

	today := s.Today()
	if day.Before(today) {
		return Weather{}, &RequestError{
			Kind:   ErrPastDate,
			Value:  date,
			Detail: "try the current or a future date",
		}
	}

	if days := DaysBetween(today, day); days > p.MaxForecastHorizonDays() {
		return Weather{}, &RequestError{
			Kind:   ErrForecastHorizonExceeded,
			Value:  date,
			Detail: fmt.Sprintf("%s forecasts at most %d days ahead", p.Name(), p.MaxForecastHorizonDays()),
		}
	}

	return p.WeatherByDate(ctx, day, location)
}

// ParseDate parses a yyyy-MM-dd date into midnight UTC.
func ParseDate(date string) (time.Time, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, &RequestError{
			Kind:   ErrInvalidDateFormat,
			Value:  date,
			Detail: "expected format yyyy-MM-dd",
		}
	}
	return day, nil
}

// DaysBetween counts whole calendar days from a to b; both must be midnight UTC.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
