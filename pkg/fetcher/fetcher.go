// Package fetcher retrieves source pages with identity rotation, optional proxy egress,
// per-source rate limiting and retries with jittered exponential backoff.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/time/rate"

	"github.com/umputun/dropscope/pkg/domain"
)

//go:generate moq -out mocks/proxy_source.go -pkg mocks -skip-ensure -fmt goimports . ProxySource

// ProxySource supplies egress proxies, implemented by proxy.Pool
type ProxySource interface {
	Next() *domain.ProxyEndpoint
	Check(ctx context.Context, ep *domain.ProxyEndpoint) bool
}

// Config holds fetcher settings
type Config struct {
	Timeout     time.Duration
	MaxRetries  int
	BaseBackoff time.Duration
	RateLimit   time.Duration // minimum interval between requests to one source
	MaxBodySize int64
	ProxyTries  int // rotation entries tried per attempt
	UserAgents  []string
}

// Options are per call overrides
type Options struct {
	Source       string // rate limiter key, usually source name
	MaxRetries   int
	BaseBackoff  time.Duration
	UseProxy     bool
	RequireProxy bool // fail the attempt instead of falling back to a direct connection
}

// Response is a successful fetch result
type Response struct {
	URL        string
	StatusCode int
	Body       []byte
	Attempts   int
	Proxy      string // proxy used, empty for direct
	UserAgent  string
	Truncated  bool
}

// Fetcher is a resilient http fetcher
type Fetcher struct {
	cfg      Config
	pool     ProxySource
	identity *Identity
	direct   *http.Client

	mu         sync.Mutex
	limiters   map[string]*rate.Limiter
	transports map[string]*http.Transport
}

// New makes a fetcher. Pool is optional, nil disables proxy egress.
func New(cfg Config, pool ProxySource) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseBackoff == 0 {
		cfg.BaseBackoff = 2 * time.Second
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = 10 << 20
	}
	if cfg.ProxyTries <= 0 {
		cfg.ProxyTries = 3
	}
	return &Fetcher{
		cfg:        cfg,
		pool:       pool,
		identity:   NewIdentity(cfg.UserAgents),
		direct:     &http.Client{Timeout: cfg.Timeout},
		limiters:   map[string]*rate.Limiter{},
		transports: map[string]*http.Transport{},
	}
}

// Fetch gets url, retrying transport errors and 408/429/5xx responses.
// Any other 4xx stops immediately. Final failure is always *domain.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string, opts Options) (*Response, error) {
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = f.cfg.MaxRetries
	}
	base := opts.BaseBackoff
	if base <= 0 {
		base = f.cfg.BaseBackoff
	}
	limiter := f.limiterFor(opts.Source)

	var lastErr error
	var lastStatus, attempts int
	for attempt := range maxRetries {
		if attempt > 0 {
			if err := sleep(ctx, backoff(attempt-1, base)); err != nil {
				lastErr = err
				break
			}
		}
		if err := limiter.Wait(ctx); err != nil {
			lastErr = fmt.Errorf("rate limiter wait: %w", err)
			break
		}
		attempts++

		resp, retry, err := f.attempt(ctx, url, opts)
		if err == nil {
			resp.Attempts = attempts
			return resp, nil
		}
		lastErr = err
		var se *statusError
		if errors.As(err, &se) {
			lastStatus = se.code
		}
		if !retry {
			break
		}
		lgr.Printf("[DEBUG] fetch %s attempt %d/%d failed: %v", url, attempts, maxRetries, err)
	}

	return nil, &domain.FetchError{URL: url, Attempts: attempts, StatusCode: lastStatus, Err: lastErr}
}

// attempt makes a single request with a fresh identity. Returns whether the failure is retryable.
func (f *Fetcher) attempt(ctx context.Context, url string, opts Options) (resp *Response, retry bool, err error) {
	client, proxyName, err := f.clientFor(ctx, opts)
	if err != nil {
		return nil, true, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	ua := f.identity.Next()
	applyBrowserHeaders(req, ua)

	httpResp, err := client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(httpResp.Body, 64*1024))
		return nil, retryableStatus(httpResp.StatusCode), &statusError{code: httpResp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, f.cfg.MaxBodySize+1))
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}
	res := &Response{URL: url, StatusCode: httpResp.StatusCode, Proxy: proxyName, UserAgent: ua}
	if int64(len(body)) > f.cfg.MaxBodySize {
		lgr.Printf("[WARN] response from %s truncated to %d bytes", url, f.cfg.MaxBodySize)
		body = body[:f.cfg.MaxBodySize]
		res.Truncated = true
	}
	res.Body = body
	return res, false, nil
}

// clientFor picks egress for an attempt. With a pool it tries up to ProxyTries rotation entries
// and takes the first passing the liveness check, otherwise falls back to direct unless proxy is required.
func (f *Fetcher) clientFor(ctx context.Context, opts Options) (client *http.Client, proxyName string, err error) {
	if !opts.UseProxy && !opts.RequireProxy {
		return f.direct, "", nil
	}
	if f.pool != nil {
		for range f.cfg.ProxyTries {
			ep := f.pool.Next()
			if ep == nil {
				break
			}
			if f.pool.Check(ctx, ep) {
				return &http.Client{Transport: f.transportFor(ep), Timeout: f.cfg.Timeout}, ep.String(), nil
			}
		}
	}
	if opts.RequireProxy {
		return nil, "", domain.ErrNoProxy
	}
	lgr.Printf("[DEBUG] no working proxy for %s, using direct connection", opts.Source)
	return f.direct, "", nil
}

// transportFor returns cached transport routed through the endpoint
func (f *Fetcher) transportFor(ep *domain.ProxyEndpoint) *http.Transport {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tr, ok := f.transports[ep.Key()]; ok {
		return tr
	}
	tr := &http.Transport{Proxy: http.ProxyURL(ep.URL()), MaxIdleConnsPerHost: 2, IdleConnTimeout: 90 * time.Second}
	f.transports[ep.Key()] = tr
	return tr
}

// limiterFor returns the per-source limiter, created on first use
func (f *Fetcher) limiterFor(source string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if lim, ok := f.limiters[source]; ok {
		return lim
	}
	limit := rate.Inf
	if f.cfg.RateLimit > 0 {
		limit = rate.Every(f.cfg.RateLimit)
	}
	lim := rate.NewLimiter(limit, 1)
	f.limiters[source] = lim
	return lim
}

// Close releases idle connections
func (f *Fetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tr := range f.transports {
		tr.CloseIdleConnections()
	}
	f.direct.CloseIdleConnections()
}

type statusError struct{ code int }

func (e *statusError) Error() string { return fmt.Sprintf("unexpected status %d", e.code) }

func retryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= 500
}

// backoff returns base*2^attempt plus random jitter in [0, base)
func backoff(attempt int, base time.Duration) time.Duration {
	d := base << attempt
	return d + time.Duration(rand.Int64N(int64(base))) //nolint:gosec // jitter only
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
