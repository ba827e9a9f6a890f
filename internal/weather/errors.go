package weather

import (
	"errors"
	"fmt"
	"strings"
)

// Failure kinds. Match with errors.Is; the carriers below add context.
var (
	ErrTransport               = errors.New("provider transport failure")
	ErrUnexpectedResponse      = errors.New("unexpected provider response")
	ErrWrongLocation           = errors.New("location not recognized by provider")
	ErrNoDataForDate           = errors.New("provider returned no data for requested date")
	ErrUnknownProvider         = errors.New("unknown provider")
	ErrInvalidDateFormat       = errors.New("invalid date format")
	ErrPastDate                = errors.New("date is in the past")
	ErrForecastHorizonExceeded = errors.New("date beyond forecast horizon")
)

// Kinds lists every failure kind, in the order they are documented.
var Kinds = []error{
	ErrTransport,
	ErrUnexpectedResponse,
	ErrWrongLocation,
	ErrNoDataForDate,
	ErrUnknownProvider,
	ErrInvalidDateFormat,
	ErrPastDate,
	ErrForecastHorizonExceeded,
}

// ProviderError is raised by a provider fetch or its response normalizer.
type ProviderError struct {
	Provider string
	Kind     error
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v: %v", e.Provider, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Kind)
}

func (e *ProviderError) Is(target error) bool { return target == e.Kind }

func (e *ProviderError) Unwrap() error { return e.Cause }

// NewProviderError builds a ProviderError of the given kind.
func NewProviderError(provider string, kind, cause error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Cause: cause}
}

// RequestError is raised by the dispatcher before any provider is called.
type RequestError struct {
	Kind   error
	Value  string
	Detail string
}

func (e *RequestError) Error() string {
	msg := fmt.Sprintf("%v: %q", e.Kind, e.Value)
	if e.Detail != "" {
		msg += "; " + e.Detail
	}
	return msg
}

func (e *RequestError) Is(target error) bool { return target == e.Kind }

func unknownProvider(name string, known []string) *RequestError {
	return &RequestError{
		Kind:   ErrUnknownProvider,
		Value:  name,
		Detail: "valid provider names: " + strings.Join(known, ", "),
	}
}

// KindOf returns the failure kind carried by err, or nil when err is not
// one of the classified failures.
func KindOf(err error) error {
	for _, k := range Kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// KindLabel is a short stable label for a kind, used in metrics and probes.
func KindLabel(err error) string {
	switch KindOf(err) {
	case ErrTransport:
		return "transport"
	case ErrUnexpectedResponse:
		return "unexpected_response"
	case ErrWrongLocation:
		return "wrong_location"
	case ErrNoDataForDate:
		return "no_data_for_date"
	case ErrUnknownProvider:
		return "unknown_provider"
	case ErrInvalidDateFormat:
		return "invalid_date_format"
	case ErrPastDate:
		return "past_date"
	case ErrForecastHorizonExceeded:
		return "horizon_exceeded"
	case nil:
		if err == nil {
			return "ok"
		}
	}
	return "other"
}
