package providers

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestNumberAcceptsNumericStrings(t *testing.T) {
	doc := gjson.Parse(`{"a": 12.5, "b": "7.25", "c": "x", "d": null, "e": true}`)

	v, err := number(doc, "a")
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)

	v, err = number(doc, "b")
	require.NoError(t, err)
	assert.Equal(t, 7.25, v)

	for _, path := range []string{"c", "d", "e", "missing"} {
		_, err := number(doc, path)
		var fe *fieldError
		assert.True(t, errors.As(err, &fe), path)
	}
}

func TestTruncatedRoundsTowardZero(t *testing.T) {
	doc := gjson.Parse(`{"up": 180.7, "neg": -3.9, "whole": 1012}`)

	for path, want := range map[string]int{"up": 180, "neg": -3, "whole": 1012} {
		got, err := truncated(doc, path)
		require.NoError(t, err)
		assert.Equal(t, want, got, path)
	}
}

func TestIsoTimeKeepsOffsetWallClock(t *testing.T) {
	doc := gjson.Parse(`{"a": "2023-01-01T07:58:00-05:00", "b": "2023-01-01T07:58+01:00", "c": "yesterday"}`)

	c, err := isoClock(doc, "a")
	require.NoError(t, err)
	assert.Equal(t, "07:58:00", c.String())

	c, err = isoClock(doc, "b")
	require.NoError(t, err)
	assert.Equal(t, "07:58:00", c.String())

	_, err = isoClock(doc, "c")
	assert.Error(t, err)
}

func TestTwelveHourClock(t *testing.T) {
	doc := gjson.Parse(`{"am": "08:06 AM", "pm": "04:02 PM", "bad": "16:02"}`)

	c, err := twelveHourClock(doc, "am")
	require.NoError(t, err)
	assert.Equal(t, "08:06:00", c.String())

	c, err = twelveHourClock(doc, "pm")
	require.NoError(t, err)
	assert.Equal(t, "16:02:00", c.String())

	_, err = twelveHourClock(doc, "bad")
	assert.Error(t, err)
}

func TestSameDayUsesOwnOffset(t *testing.T) {
	at, err := time.Parse(time.RFC3339, "2023-01-01T23:30:00-05:00")
	require.NoError(t, err)

	assert.True(t, sameDay(at, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, sameDay(at, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)))
}

func TestParseDocumentRejectsNonObjects(t *testing.T) {
	for _, body := range []string{``, `not json`, `[1,2]`, `"text"`} {
		_, err := parseDocument([]byte(body))
		assert.Error(t, err, body)
	}
}
