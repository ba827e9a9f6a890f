package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientAddrIP(t *testing.T) {
	tests := []struct {
		name string
		addr ClientAddr
		want string
	}{
		{"forwarded list", ClientAddr{ForwardedFor: "8.8.8.8, 10.0.0.1", RemoteAddr: "10.0.0.2"}, "8.8.8.8"},
		{"unknown forwarded", ClientAddr{ForwardedFor: "unknown", ProxyClientIP: "1.1.1.1", RemoteAddr: "10.0.0.2"}, "1.1.1.1"},
		{"weblogic header", ClientAddr{WLProxyClientIP: "9.9.9.9", RemoteAddr: "10.0.0.2"}, "9.9.9.9"},
		{"remote only", ClientAddr{RemoteAddr: "127.0.0.1"}, "127.0.0.1"},
		{"nothing", ClientAddr{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.addr.IP())
		})
	}
}

func TestCityForRequestFallsBackForLocalClients(t *testing.T) {
	called := false
	l := NewLocator("http://127.0.0.1:1", "london,uk", func(lat, lon float64) (string, error) {
		called = true
		return "paris,fr", nil
	})

	for _, ip := range []string{"127.0.0.1", "192.168.1.4", "::1", "0.0.0.0", "garbage", ""} {
		assert.Equal(t, "london,uk", l.CityForRequest(context.Background(), ClientAddr{RemoteAddr: ip}), ip)
	}
	assert.False(t, called)
}

func TestCityForRequestResolvesPublicIP(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"status":"success","lat":48.85,"lon":2.35}`))
	}))
	defer srv.Close()

	var gotLat, gotLon float64
	l := NewLocator(srv.URL, "london,uk", func(lat, lon float64) (string, error) {
		gotLat, gotLon = lat, lon
		return "paris,france", nil
	})

	city := l.CityForRequest(context.Background(), ClientAddr{ForwardedFor: "8.8.8.8", RemoteAddr: "10.0.0.1"})
	assert.Equal(t, "paris,france", city)
	assert.Equal(t, "/8.8.8.8", gotPath)
	assert.Equal(t, 48.85, gotLat)
	assert.Equal(t, 2.35, gotLon)
}

func TestCityForRequestFallbacks(t *testing.T) {
	failed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"reserved range"}`))
	}))
	defer failed.Close()

	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","lat":1,"lon":2}`))
	}))
	defer ok.Close()

	reverse := func(lat, lon float64) (string, error) { return "somewhere", nil }
	broken := func(lat, lon float64) (string, error) { return "", errors.New("quota exceeded") }

	tests := []struct {
		name    string
		locator *Locator
	}{
		{"lookup status fail", NewLocator(failed.URL, "london,uk", reverse)},
		{"reverse geocoder error", NewLocator(ok.URL, "london,uk", broken)},
		{"no reverse geocoder", NewLocator(ok.URL, "london,uk", nil)},
		{"lookup unreachable", NewLocator("http://127.0.0.1:1", "london,uk", reverse)},
		{"google without key", NewLocator(ok.URL, "london,uk", GoogleReverseGeocoder(""))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.locator.CityForRequest(context.Background(), ClientAddr{RemoteAddr: "8.8.4.4"})
			assert.Equal(t, "london,uk", got)
			assert.Equal(t, "london,uk", tt.locator.Fallback())
		})
	}
}
