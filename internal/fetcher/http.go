package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"path"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/pitchside-labs/sponsormatch/internal/resilience"
)

// adaptiveLimiter wraps a rate.Limiter that tunes itself to the host:
// successes raise the rate by 20% up to 2x the configured rate, 429s
// halve it down to a quarter.
type adaptiveLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	max     rate.Limit
	min     rate.Limit
	current rate.Limit
}

func newAdaptiveLimiter(initial rate.Limit) *adaptiveLimiter {
	return &adaptiveLimiter{
		limiter: rate.NewLimiter(initial, 1),
		max:     initial * 2,
		min:     initial / 4,
		current: initial,
	}
}

func (a *adaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

func (a *adaptiveLimiter) onSuccess() {
	a.mu.Lock()
	defer a.mu.Unlock()
	next := a.current * 1.2
	if next > a.max {
		next = a.max
	}
	a.current = next
	a.limiter.SetLimit(next)
}

func (a *adaptiveLimiter) onRateLimit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	next := a.current * 0.5
	if next < a.min {
		next = a.min
	}
	a.current = next
	a.limiter.SetLimit(next)
}

// HTTPFetcher downloads artifacts over HTTP with a per-host adaptive
// rate limit and retry on transient statuses.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string

	mu        sync.Mutex
	limiters  map[string]*adaptiveLimiter
	perSecond float64

	retry resilience.RetryConfig
}

// NewHTTP creates an HTTPFetcher. requestsPerSecond is the starting
// per-host rate.
func NewHTTP(requestsPerSecond float64, userAgent string) *HTTPFetcher {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 4
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: 60 * time.Second},
		userAgent: userAgent,
		limiters:  make(map[string]*adaptiveLimiter),
		perSecond: requestsPerSecond,
		retry:     resilience.DefaultRetryConfig(),
	}
}

func (f *HTTPFetcher) limiter(host string) *adaptiveLimiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.limiters[host]
	if !ok {
		l = newAdaptiveLimiter(rate.Limit(f.perSecond))
		f.limiters[host] = l
	}
	return l
}

// Fetch implements Fetcher. The response body is buffered so retries
// never hand out a half-read stream.
func (f *HTTPFetcher) Fetch(ctx context.Context, source string) (*Result, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: parse url %s", source)
	}

	limiter := f.limiter(u.Host)

	cfg := f.retry
	cfg.OnRetry = resilience.RetryLogger("http", u.Host)

	data, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) ([]byte, error) {
		if err := limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "fetcher: rate limit wait")
		}
		return f.get(ctx, source, limiter)
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Body: io.NopCloser(newBytesReader(data)),
		Name: path.Base(u.Path),
	}, nil
}

func (f *HTTPFetcher) get(ctx context.Context, source string, limiter *adaptiveLimiter) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: build request %s", source)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: GET %s", source)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests {
			limiter.onRateLimit()
		}
		err := eris.Errorf("fetcher: GET %s: status %d", source, resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}
	limiter.onSuccess()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: read body %s", source)
	}
	return data, nil
}
