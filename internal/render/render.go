// Package render turns the canonical weather record into text.
package render

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/i474232898/weather-gateway/internal/weather"
)

const (
	FormatJSON = "json"
	FormatXML  = "xml"
	FormatYAML = "yaml"
)

// Formats lists the supported text formats.
var Formats = []string{FormatJSON, FormatXML, FormatYAML}

var ErrUnsupportedFormat = errors.New("unsupported format")

// xmlWeather gives the record its XML root element.
type xmlWeather struct {
	XMLName xml.Name `xml:"Weather"`
	weather.Weather
}

// Render encodes w in the given format and returns the matching content type.
func Render(w weather.Weather, format string) ([]byte, string, error) {
	switch format {
	case FormatJSON:
		b, err := json.Marshal(w)
		return b, "application/json", err
	case FormatXML:
		b, err := xml.Marshal(xmlWeather{Weather: w})
		return b, "application/xml", err
	case FormatYAML:
		b, err := yaml.Marshal(w)
		return b, "application/yaml", err
	default:
		return nil, "", fmt.Errorf("%w: %q, try one of json, xml, yaml", ErrUnsupportedFormat, format)
	}
}

// Parse decodes text produced by Render.
func Parse(format string, data []byte) (weather.Weather, error) {
	var w weather.Weather
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &w)
	case FormatXML:
		var x xmlWeather
		err = xml.Unmarshal(data, &x)
		w = x.Weather
	case FormatYAML:
		err = yaml.Unmarshal(data, &w)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return w, err
}
