package providers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/i474232898/weather-gateway/internal/weather"
)

// Upstream timestamp patterns.
const (
	isoOffsetLayout       = time.RFC3339
	isoOffsetMinuteLayout = "2006-01-02T15:04Z07:00"
	twelveHourLayout      = "03:04 PM"
	hourlyLayout          = "2006-01-02 15:04"
)

// fieldError describes why a document could not be read; it is always
// reported as weather.ErrUnexpectedResponse.
type fieldError struct {
	path   string
	reason string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.path, e.reason)
}

func missing(path string) error { return &fieldError{path: path, reason: "missing"} }

func wrongType(path string, r gjson.Result) error {
	return &fieldError{path: path, reason: "unexpected type " + r.Type.String()}
}

// parseDocument checks that body is a JSON object.
func parseDocument(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("response is not valid JSON")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return gjson.Result{}, fmt.Errorf("response is not a JSON object")
	}
	return doc, nil
}

// object returns the object at path under r.
func object(r gjson.Result, path string) (gjson.Result, error) {
	v := r.Get(path)
	if !v.Exists() {
		return v, missing(path)
	}
	if !v.IsObject() {
		return v, wrongType(path, v)
	}
	return v, nil
}

// array returns the array at path under r.
func array(r gjson.Result, path string) ([]gjson.Result, error) {
	v := r.Get(path)
	if !v.Exists() {
		return nil, missing(path)
	}
	if !v.IsArray() {
		return nil, wrongType(path, v)
	}
	return v.Array(), nil
}

// str returns a required string.
func str(r gjson.Result, path string) (string, error) {
	v := r.Get(path)
	if !v.Exists() {
		return "", missing(path)
	}
	if v.Type != gjson.String {
		return "", wrongType(path, v)
	}
	return v.Str, nil
}

// number returns a required number; numeric strings are accepted.
func number(r gjson.Result, path string) (float64, error) {
	v := r.Get(path)
	switch v.Type {
	case gjson.Number:
		return v.Num, nil
	case gjson.String:
		f, err := strconv.ParseFloat(v.Str, 64)
		if err != nil {
			return 0, &fieldError{path: path, reason: "not a number"}
		}
		return f, nil
	case gjson.Null:
		if !v.Exists() {
			return 0, missing(path)
		}
	}
	return 0, wrongType(path, v)
}

// truncated returns a required number truncated toward zero.
func truncated(r gjson.Result, path string) (int, error) {
	f, err := number(r, path)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// isoTime parses an ISO-8601 offset datetime, keeping the offset's wall clock.
func isoTime(r gjson.Result, path string) (time.Time, error) {
	s, err := str(r, path)
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range []string{isoOffsetLayout, isoOffsetMinuteLayout} {
		if t, perr := time.Parse(layout, s); perr == nil {
			return t, nil
		}
	}
	return time.Time{}, &fieldError{path: path, reason: fmt.Sprintf("unparsable datetime %q", s)}
}

func isoClock(r gjson.Result, path string) (*weather.TimeOfDay, error) {
	t, err := isoTime(r, path)
	if err != nil {
		return nil, err
	}
	c := weather.ClockOf(t)
	return &c, nil
}

func twelveHourClock(r gjson.Result, path string) (*weather.TimeOfDay, error) {
	s, err := str(r, path)
	if err != nil {
		return nil, err
	}
	t, perr := time.Parse(twelveHourLayout, s)
	if perr != nil {
		return nil, &fieldError{path: path, reason: fmt.Sprintf("unparsable time %q", s)}
	}
	c := weather.ClockOf(t)
	return &c, nil
}

// sameDay reports whether t falls on the calendar date day (midnight UTC),
// reading t in its own offset.
func sameDay(t, day time.Time) bool {
	y, m, d := t.Date()
	dy, dm, dd := day.Date()
	return y == dy && m == dm && d == dd
}

func unexpected(provider string, cause error) error {
	return weather.NewProviderError(provider, weather.ErrUnexpectedResponse, cause)
}

func wrongLocation(provider string, code string) error {
	return weather.NewProviderError(provider, weather.ErrWrongLocation,
		fmt.Errorf("provider error code %s", code))
}

func noDataForDate(provider string, day time.Time) error {
	return weather.NewProviderError(provider, weather.ErrNoDataForDate,
		fmt.Errorf("no entry for %s", day.Format(weather.DateLayout)))
}
