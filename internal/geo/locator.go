// Package geo resolves the city of an incoming request from its client IP.
package geo

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-gateway/internal/common"
)

// ClientAddr carries the request attributes used to find the client IP.
type ClientAddr struct {
	ForwardedFor    string
	ProxyClientIP   string
	WLProxyClientIP string
	RemoteAddr      string
}

// IP picks the client IP the way proxies report it: forwarding headers first,
// then the remote address; a comma list keeps its first entry.
func (a ClientAddr) IP() string {
	return common.FirstListItem(common.FirstUsable(a.ForwardedFor, a.ProxyClientIP, a.WLProxyClientIP, a.RemoteAddr))
}

// ReverseGeocoder maps coordinates to a city name.
type ReverseGeocoder func(lat, lon float64) (string, error)

// GoogleReverseGeocoder uses the Google geocoding API through kelvins/geocoder.
// The library keeps its key in a package variable, so it is set here once.
func GoogleReverseGeocoder(apiKey string) ReverseGeocoder {
	geocoder.ApiKey = apiKey
	return func(lat, lon float64) (string, error) {
		if apiKey == "" {
			return "", errors.New("geocoder api key is not configured")
		}
		addresses, err := geocoder.GeocodingReverse(geocoder.Location{Latitude: lat, Longitude: lon})
		if err != nil {
			return "", errors.Wrap(err, "reverse geocoding")
		}
		for _, a := range addresses {
			if a.City == "" {
				continue
			}
			if a.Country != "" {
				return strings.ToLower(a.City + "," + a.Country), nil
			}
			return strings.ToLower(a.City), nil
		}
		return "", errors.New("no city for coordinates")
	}
}

// Locator resolves a request's city, falling back to a fixed place.
type Locator struct {
	lookupURL string
	fallback  string
	client    *http.Client
	reverse   ReverseGeocoder
}

// NewLocator creates a Locator. lookupURL is an ip-api compatible endpoint
// returning {"status","lat","lon"} for GET lookupURL/<ip>.
func NewLocator(lookupURL, fallback string, reverse ReverseGeocoder) *Locator {
	return &Locator{
		lookupURL: strings.TrimRight(lookupURL, "/"),
		fallback:  fallback,
		client:    &http.Client{Timeout: 3 * time.Second},
		reverse:   reverse,
	}
}

// Fallback is the place returned when resolution fails.
func (l *Locator) Fallback() string { return l.fallback }

// CityForRequest never fails: any resolution problem yields the fallback.
func (l *Locator) CityForRequest(ctx context.Context, addr ClientAddr) string {
	ip := addr.IP()
	city, err := l.resolve(ctx, ip)
	if err != nil {
		log.Info().Err(err).Str("ip", ip).Str("fallback", l.fallback).Msg("getting location by ip failed")
		return l.fallback
	}
	return city
}

func (l *Locator) resolve(ctx context.Context, ip string) (string, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", errors.Errorf("invalid client ip %q", ip)
	}
	if parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() {
		return "", errors.Errorf("non-public client ip %q", ip)
	}
	if l.reverse == nil {
		return "", errors.New("no reverse geocoder configured")
	}

	lat, lon, err := l.coordinates(ctx, parsed.String())
	if err != nil {
		return "", err
	}
	return l.reverse(lat, lon)
}

func (l *Locator) coordinates(ctx context.Context, ip string) (float64, float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.lookupURL+"/"+url.PathEscape(ip), nil)
	if err != nil {
		return 0, 0, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return 0, 0, errors.Wrap(err, "ip lookup")
	}
	defer resp.Body.Close()

	var payload struct {
		Status string  `json:"status"`
		Lat    float64 `json:"lat"`
		Lon    float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, 0, errors.Wrap(err, "decode ip lookup")
	}
	if payload.Status != "success" {
		return 0, 0, errors.Errorf("ip lookup status %q", payload.Status)
	}
	return payload.Lat, payload.Lon, nil
}
