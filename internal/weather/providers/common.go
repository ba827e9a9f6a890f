package providers

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-gateway/internal/metrics"
	"github.com/i474232898/weather-gateway/internal/weather"
)

// HTTPClientConfig is the single source of outbound HTTP settings. It is built
// once at startup and shared by pointer; every fetch derives a fresh client
// from it.
type HTTPClientConfig struct {
	APIKey         string
	MaxConnections int
	RequestTimeout time.Duration
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	Breaker        BreakerConfig
	// Transport overrides the derived transport (tests).
	Transport http.RoundTripper
}

// BreakerConfig controls the per-provider circuit breaker.
type BreakerConfig struct {
	Enabled     bool
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
}

// DefaultHTTPClientConfig mirrors the defaults of the config package.
func DefaultHTTPClientConfig() *HTTPClientConfig {
	return &HTTPClientConfig{
		MaxConnections: 10,
		RequestTimeout: 3 * time.Second,
		ConnectTimeout: 3 * time.Second,
		ReadTimeout:    3 * time.Second,
		Breaker: BreakerConfig{
			Enabled:     true,
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		},
	}
}

var (
	errNoHTTPConfig = errors.New("http client not configured")
	errCircuitOpen  = errors.New("circuit breaker open")
)

// newClient builds a client scoped to a single call.
func (c *HTTPClientConfig) newClient() (*http.Client, func()) {
	if c.Transport != nil {
		return &http.Client{Transport: c.Transport, Timeout: c.RequestTimeout}, func() {}
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   c.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   c.ConnectTimeout,
		ResponseHeaderTimeout: c.ReadTimeout,
		MaxConnsPerHost:       c.MaxConnections,
		MaxIdleConnsPerHost:   c.MaxConnections,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{Transport: t, Timeout: c.RequestTimeout}, t.CloseIdleConnections
}

func newBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("provider", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
}

// fetcher performs the single HTTP exchange of a provider call.
type fetcher struct {
	provider string
	host     string
	httpCfg  *HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
}

func newFetcher(provider, host string, httpCfg *HTTPClientConfig) *fetcher {
	f := &fetcher{provider: provider, host: host, httpCfg: httpCfg}
	if httpCfg != nil {
		f.circuit = newBreaker(provider, httpCfg.Breaker)
	}
	return f
}

// get issues one GET and returns the raw body whatever the status code:
// providers deliver their error envelopes with non-2xx statuses. Every
// failure before the body is fully read is a transport failure.
func (f *fetcher) get(ctx context.Context, endpoint, rawURL string, query url.Values) ([]byte, error) {
	if f.httpCfg == nil {
		return nil, weather.NewProviderError(f.provider, weather.ErrTransport, errNoHTTPConfig)
	}

	start := time.Now()
	do := func() (interface{}, error) {
		return f.do(ctx, rawURL, query)
	}

	var (
		result interface{}
		err    error
	)
	if f.circuit != nil {
		result, err = f.circuit.Execute(do)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
	} else {
		result, err = do()
	}

	elapsed := time.Since(start)
	metrics.ProviderLatency.WithLabelValues(f.provider, endpoint).Observe(elapsed.Seconds())

	if err != nil {
		metrics.ProviderRequests.WithLabelValues(f.provider, endpoint, "transport_error").Inc()
		return nil, weather.NewProviderError(f.provider, weather.ErrTransport,
			errors.Wrapf(err, "retrieving data from %s failed", f.provider))
	}

	body := result.([]byte)
	metrics.ProviderRequests.WithLabelValues(f.provider, endpoint, "fetched").Inc()
	log.Debug().Str("provider", f.provider).Str("endpoint", endpoint).
		Dur("elapsed", elapsed).Int("bytes", len(body)).Msg("provider fetch complete")
	return body, nil
}

func (f *fetcher) do(ctx context.Context, rawURL string, query url.Values) ([]byte, error) {
	u := rawURL
	if len(query) > 0 {
		u = rawURL + "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-rapidapi-key", f.httpCfg.APIKey)
	req.Header.Set("x-rapidapi-host", f.host)

	client, release := f.httpCfg.newClient()
	defer release()

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	log.Debug().Str("provider", f.provider).Int("status", resp.StatusCode).Msg("provider responded")
	return body, nil
}
